package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"dmiBot/internal/app"
	"dmiBot/internal/domain"
	"dmiBot/internal/ports"
)

// SignalService is the application surface the HTTP layer drives.
type SignalService interface {
	ProcessSignal(ctx context.Context, reading domain.SignalReading) (*app.SignalResult, error)
	ResolveActiveConfig(ctx context.Context) (domain.StrategyConfig, error)
	SaveConfig(ctx context.Context, cfg domain.StrategyConfig) (domain.StrategyConfig, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}

// Handlers serves the webhook, configuration and order endpoints.
type Handlers struct {
	service SignalService
	logger  ports.Logger
}

// NewHandlers creates the HTTP handlers.
func NewHandlers(service SignalService, logger ports.Logger) (*Handlers, error) {
	if service == nil || logger == nil {
		return nil, fmt.Errorf("service and logger are required for handlers")
	}
	return &Handlers{service: service, logger: logger}, nil
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, response{Success: false, Message: msg})
}

// Webhook evaluates an indicator alert and records the order it fires, if any.
func (h *Handlers) Webhook(c *gin.Context) {
	ctx := c.Request.Context()

	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(ctx, "Rejected malformed webhook payload", map[string]interface{}{"error": err.Error()})
		fail(c, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if field := req.missingField(); field != "" {
		h.logger.Warn(ctx, "Rejected webhook payload", map[string]interface{}{"missingField": field})
		fail(c, http.StatusBadRequest, "Missing required field: "+field)
		return
	}

	res, err := h.service.ProcessSignal(ctx, req.toReading())
	if err != nil {
		h.logger.Error(ctx, err, "Error processing webhook")
		fail(c, http.StatusInternalServerError, "Failed to process webhook")
		return
	}

	msg := "No valid trading signal detected"
	if res.Fired {
		msg = fmt.Sprintf("Successfully processed %s signal", res.Signal)
	}
	c.JSON(http.StatusOK, response{Success: true, Message: msg, Data: newSignalResponse(res)})
}

// GetConfig returns the active configuration.
func (h *Handlers) GetConfig(c *gin.Context) {
	cfg, err := h.service.ResolveActiveConfig(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), err, "Error getting configuration")
		fail(c, http.StatusInternalServerError, "Failed to get configuration")
		return
	}
	c.JSON(http.StatusOK, response{Success: true, Data: newConfigResponse(cfg)})
}

// CreateConfig stores a new configuration record, superseding the active one.
func (h *Handlers) CreateConfig(c *gin.Context) {
	ctx := c.Request.Context()

	var req configRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(ctx, "Rejected malformed configuration payload", map[string]interface{}{"error": err.Error()})
		fail(c, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if field := req.missingField(); field != "" {
		fail(c, http.StatusBadRequest, "Missing required field: "+field)
		return
	}

	saved, err := h.service.SaveConfig(ctx, req.toConfig())
	if err != nil {
		h.logger.Error(ctx, err, "Error saving configuration")
		fail(c, http.StatusInternalServerError, "Failed to save configuration")
		return
	}
	c.JSON(http.StatusOK, response{Success: true, Data: newConfigResponse(saved)})
}

// ListOrders returns every recorded order, newest first.
func (h *Handlers) ListOrders(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), err, "Error getting orders")
		fail(c, http.StatusInternalServerError, "Failed to get orders")
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderResponse(o))
	}
	c.JSON(http.StatusOK, response{Success: true, Data: out})
}
