package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/home-services-api/internal/audit"
	"github.com/BruksfildServices01/home-services-api/internal/payments/stripe"
	ucWebhook "github.com/BruksfildServices01/home-services-api/internal/usecase/webhook"
)

const maxWebhookBodyBytes = 1 << 20

// WebhookHandler é a porta de entrada dos eventos do provedor de
// pagamento. Verifica a assinatura sobre o corpo CRU (qualquer
// re-serialização invalida o HMAC) e entrega o evento pro reconciler.
type WebhookHandler struct {
	secret     string
	reconciler *ucWebhook.Reconciler
	audit      ucWebhook.AuditDispatcher
	log        *zap.Logger
}

func NewWebhookHandler(
	webhookSecret string,
	reconciler *ucWebhook.Reconciler,
	auditDispatcher ucWebhook.AuditDispatcher,
	log *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		secret:     webhookSecret,
		reconciler: reconciler,
		audit:      auditDispatcher,
		log:        log.Named("webhook"),
	}
}

func (h *WebhookHandler) HandlePaymentEvents(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if err := stripe.VerifySignature(payload, sigHeader, h.secret, time.Now()); err != nil {
		h.log.Warn("webhook com assinatura inválida",
			zap.String("remote_addr", c.ClientIP()),
			zap.Error(err),
		)
		h.audit.Dispatch(audit.Event{
			Action: audit.ActionWebhookRejected,
			Entity: "payment_event",
			Metadata: map[string]any{
				"remote_addr": c.ClientIP(),
				"reason":      err.Error(),
			},
		})
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_signature"})
		return
	}

	ev, err := stripe.ParseEvent(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload"})
		return
	}

	if err := h.reconciler.Process(c.Request.Context(), *ev); err != nil {
		// 500 faz o provedor reentregar; eventos gravados mas não
		// selados são reaplicados na reentrega, e cada aplicação é
		// idempotente.
		h.log.Error("falha ao processar evento de pagamento",
			zap.String("event_id", ev.ID),
			zap.String("type", ev.Type),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
