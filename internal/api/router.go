package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dmiBot/internal/ports"
)

// RouterConfig holds what the router needs to serve the API.
type RouterConfig struct {
	Service          SignalService
	Logger           ports.Logger
	WebhookRateLimit RateLimiterConfig
	// TrustedProxies lists proxy addresses or CIDRs whose X-Forwarded-For is
	// honoured. Empty means the client IP is always the peer address.
	TrustedProxies []string
}

// NewRouter builds the gin engine with every route configured.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	h, err := NewHandlers(cfg.Service, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create handlers: %w", err)
	}

	r := gin.New()
	// Forwarding headers are only honoured from configured proxies.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), RequestLogger(cfg.Logger))

	r.Any("/health", func(c *gin.Context) {
		c.String(200, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/webhook", RateLimiterMiddleware(cfg.WebhookRateLimit), h.Webhook)
		api.GET("/config", h.GetConfig)
		api.POST("/config", h.CreateConfig)
		api.GET("/orders", h.ListOrders)
	}

	return r, nil
}
