package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ledgerlink/backend/internal/infrastructure/config"
	"github.com/ledgerlink/backend/internal/infrastructure/logger"
	"github.com/ledgerlink/backend/internal/interfaces/http/handler"
	"github.com/ledgerlink/backend/internal/interfaces/http/middleware"
)

const maxRequestBody = 4 << 20

// Handlers carries the HTTP handlers the router wires up
type Handlers struct {
	System  *handler.SystemHandler
	Webhook *handler.WebhookHandler
	Sync    *handler.SyncHandler
}

// New builds the gin engine with the service's middleware stack and
// routes. The webhook endpoint stays outside the versioned API group:
// its path is registered with the remote platform and must not move
// with API versions.
func New(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.BodyLimit(maxRequestBody),
		logger.GinMiddleware(log),
	)
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.GET("/health", h.System.Health)
	engine.POST("/webhooks/ledger", h.Webhook.Handle)

	api := engine.Group("/api/v1")
	{
		syncGroup := api.Group("/sync")
		syncGroup.GET("/tenants", h.Sync.ListTenants)
		syncGroup.POST("/catalog/:tenantID", h.Sync.SyncCatalog)
		syncGroup.POST("/invoices/:id", h.Sync.SyncInvoice)
		syncGroup.POST("/quotations/:id", h.Sync.SyncQuotation)
	}

	return engine
}
