package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ledgerlink/backend/internal/domain/sync"
	"github.com/ledgerlink/backend/internal/infrastructure/logger"
	"github.com/ledgerlink/backend/internal/interfaces/http/dto"
)

// Webhook payloads carry event headers only, never full documents
const maxWebhookPayloadSize = 256 * 1024

// EventProcessor applies a batch of webhook events
type EventProcessor interface {
	ProcessEvents(ctx context.Context, events []sync.WebhookEvent)
}

// WebhookHandler receives signed change notifications from the remote
// ledger. The endpoint is unauthenticated; the HMAC signature over the
// raw body is the only trust anchor.
type WebhookHandler struct {
	processor       EventProcessor
	secret          []byte
	signatureHeader string
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(processor EventProcessor, secret, signatureHeader string) *WebhookHandler {
	return &WebhookHandler{
		processor:       processor,
		secret:          []byte(secret),
		signatureHeader: signatureHeader,
	}
}

// WebhookResponse acknowledges a webhook delivery
type WebhookResponse struct {
	Received    bool `json:"received"`
	EventsTotal int  `json:"events_total,omitempty"`
}

// Handle verifies the signature and processes the event batch. The
// remote platform disables the subscription after repeated non-2xx
// responses, so every outcome past the signature check returns 200.
func (h *WebhookHandler) Handle(c *gin.Context) {
	log := logger.GetGinLogger(c)

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "failed to read request body"))
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(dto.ErrCodeBadRequest, "payload too large"))
		return
	}

	signature := c.GetHeader(h.signatureHeader)
	if !h.verifySignature(payload, signature) {
		log.Warn("webhook signature mismatch",
			zap.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "signature verification failed"))
		return
	}

	var envelope dto.WebhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "malformed webhook envelope"))
		return
	}
	if err := envelope.Validate(); err != nil {
		log.Warn("webhook envelope failed validation", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "invalid webhook envelope"))
		return
	}

	events := envelope.ToDomain()
	h.processor.ProcessEvents(c.Request.Context(), events)

	c.JSON(http.StatusOK, WebhookResponse{
		Received:    true,
		EventsTotal: len(events),
	})
}

// verifySignature checks the base64 HMAC-SHA256 of the raw body in
// constant time
func (h *WebhookHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
