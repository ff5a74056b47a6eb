package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chat-exchange/internal/domain"
	"chat-exchange/internal/llm"
	"chat-exchange/internal/service"
)

// ExchangeHandler mantiene dependencias para los endpoints de exchanges.
type ExchangeHandler struct {
	logger *zap.Logger
	svc    *service.ExchangeService
}

// NewExchangeHandler crea una instancia de ExchangeHandler.
func NewExchangeHandler(logger *zap.Logger, svc *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{logger: logger, svc: svc}
}

// CreateExchange maneja POST /exchanges.
func (h *ExchangeHandler) CreateExchange(c *gin.Context) {
	var req struct {
		Messages []domain.Message `json:"messages"`
		OwnerID  string           `json:"ownerId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create exchange request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ex, err := h.svc.Submit(c.Request.Context(), req.Messages, req.OwnerID)
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}

	c.JSON(http.StatusOK, ex)
}

// ListExchanges maneja GET /exchanges.
func (h *ExchangeHandler) ListExchanges(c *gin.Context) {
	history, err := h.svc.History(c.Request.Context(), c.Query("ownerId"))
	if err != nil {
		h.logger.Error("list exchanges failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, history)
}

// writeSubmitError mapea cada tipo de falla del pipeline a su status y payload.
// El mensaje del proveedor se expone tal cual; fallas de transporte y de
// persistencia solo se loguean server-side y devuelven un mensaje genérico.
func (h *ExchangeHandler) writeSubmitError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrExchangeInvalidInput) {
		h.logger.Warn("invalid exchange submission", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		h.logger.Error("llm provider error", zap.String("provider_message", provErr.Message))
		c.JSON(http.StatusInternalServerError, gin.H{"error": provErr.Message})
		return
	}

	h.logger.Error("create exchange failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}
