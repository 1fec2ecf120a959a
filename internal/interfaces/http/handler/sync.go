package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerlink/backend/internal/domain/shared"
	domainsync "github.com/ledgerlink/backend/internal/domain/sync"
	"github.com/ledgerlink/backend/internal/interfaces/http/dto"
)

// TenantLister exposes the authorized remote tenants
type TenantLister interface {
	Tenants(ctx context.Context) ([]domainsync.Tenant, error)
}

// CatalogSyncer runs the bulk catalog pull for one tenant
type CatalogSyncer interface {
	SyncAll(ctx context.Context, tenantID string) (map[string]*domainsync.SyncResult, error)
}

// DocumentSyncer pushes a single document on demand
type DocumentSyncer interface {
	SyncInvoice(ctx context.Context, invoiceID uuid.UUID, force bool) error
	SyncQuotation(ctx context.Context, quotationID uuid.UUID, force bool) error
}

// SyncHandler exposes the manual sync operations: tenant listing, bulk
// catalog refresh and on-demand document pushes. The queue consumer
// covers the steady-state path; these endpoints serve operators.
type SyncHandler struct {
	tenants  TenantLister
	catalog  CatalogSyncer
	outbound DocumentSyncer
	logger   *zap.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(tenants TenantLister, catalog CatalogSyncer, outbound DocumentSyncer, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		tenants:  tenants,
		catalog:  catalog,
		outbound: outbound,
		logger:   logger,
	}
}

// TenantResponse is one authorized remote tenant
type TenantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListTenants returns the remote tenants the stored session can reach
func (h *SyncHandler) ListTenants(c *gin.Context) {
	tenants, err := h.tenants.Tenants(c.Request.Context())
	if err != nil {
		h.writeSyncError(c, err)
		return
	}

	resp := make([]TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		resp = append(resp, TenantResponse{ID: t.ID, Name: t.Name})
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// SyncCatalog runs the full catalog pull for the tenant in the path
func (h *SyncHandler) SyncCatalog(c *gin.Context) {
	tenantID := c.Param("tenantID")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "tenant id is required"))
		return
	}

	results, err := h.catalog.SyncAll(c.Request.Context(), tenantID)
	if err != nil {
		h.writeSyncError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(results))
}

// SyncInvoice pushes one invoice immediately. `force=true` overrides a
// document-number conflict on the remote side.
func (h *SyncHandler) SyncInvoice(c *gin.Context) {
	h.syncDocument(c, h.outbound.SyncInvoice)
}

// SyncQuotation pushes one quotation immediately
func (h *SyncHandler) SyncQuotation(c *gin.Context) {
	h.syncDocument(c, h.outbound.SyncQuotation)
}

func (h *SyncHandler) syncDocument(c *gin.Context, push func(ctx context.Context, id uuid.UUID, force bool) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "invalid document id"))
		return
	}
	force := c.Query("force") == "true"

	if err := push(c.Request.Context(), id, force); err != nil {
		h.writeSyncError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"synced": true}))
}

// writeSyncError maps sync domain errors onto HTTP statuses
func (h *SyncHandler) writeSyncError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainsync.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "no valid remote session"))
	case errors.Is(err, domainsync.ErrRemoteConflict):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrCodeConflict, "remote document number conflict"))
	case errors.Is(err, shared.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "document not found"))
	case errors.Is(err, domainsync.ErrRemoteNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "remote object not found"))
	case errors.Is(err, domainsync.ErrRemoteUnavailable), errors.Is(err, domainsync.ErrRemoteRateLimited):
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(dto.ErrCodeUnavailable, "remote ledger unavailable"))
	default:
		h.logger.Error("sync operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, "sync operation failed"))
	}
}
