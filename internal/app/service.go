package app

import (
	"context"
	"fmt"
	"time"

	"dmiBot/internal/domain"
	"dmiBot/internal/metrics"
	"dmiBot/internal/ports"
	"dmiBot/internal/risk"
)

// SignalService runs the webhook pipeline: resolve the active configuration,
// evaluate the reading, derive price levels and record the simulated order.
type SignalService struct {
	logger   ports.Logger
	configs  ports.ConfigRepository
	orders   ports.OrderRepository
	exchange ports.ExchangeClient
	strategy ports.Strategy
	now      func() time.Time
}

// SignalResult is the outcome of one pipeline run.
type SignalResult struct {
	Fired        bool
	Signal       domain.Signal
	Conditions   domain.Conditions
	Order        *domain.Order         // nil unless Fired
	Confirmation *ports.SimulatedOrder // nil unless Fired
}

// NewSignalService creates a new application service instance.
func NewSignalService(
	logger ports.Logger,
	configs ports.ConfigRepository,
	orders ports.OrderRepository,
	exchange ports.ExchangeClient,
	strat ports.Strategy,
) (*SignalService, error) {
	if logger == nil || configs == nil || orders == nil || exchange == nil || strat == nil {
		return nil, fmt.Errorf("missing required dependencies for SignalService")
	}
	return &SignalService{
		logger:   logger,
		configs:  configs,
		orders:   orders,
		exchange: exchange,
		strategy: strat,
		now:      time.Now,
	}, nil
}

// ProcessSignal evaluates one reading and, when it fires, records the derived order.
// A NONE signal stops after evaluation. Any failure after evaluation aborts the run
// and nothing is persisted.
func (s *SignalService) ProcessSignal(ctx context.Context, reading domain.SignalReading) (*SignalResult, error) {
	if reading.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ports.ErrInvalidRequest)
	}

	cfg, err := s.ResolveActiveConfig(ctx)
	if err != nil {
		return nil, err
	}

	signal := s.strategy.Evaluate(ctx, reading, cfg)
	metrics.SignalsEvaluated.WithLabelValues(string(signal)).Inc()

	result := &SignalResult{
		Signal:     signal,
		Conditions: domain.NewConditions(reading, cfg),
	}

	side, fired := signal.Side()
	if !fired {
		s.logger.Info(ctx, "No valid trading signal detected", map[string]interface{}{
			"symbol":    reading.Symbol,
			"timeframe": reading.Timeframe,
			"plusDI":    reading.PlusDI,
			"minusDI":   reading.MinusDI,
			"adx":       reading.ADX,
		})
		return result, nil
	}

	price, err := s.exchange.GetCurrentPrice(ctx, reading.Symbol)
	if err != nil {
		metrics.PipelineFailures.WithLabelValues(metrics.StagePrice).Inc()
		s.logger.Error(ctx, err, "Failed to fetch current price", map[string]interface{}{"symbol": reading.Symbol})
		return nil, fmt.Errorf("failed to fetch current price for %s: %w", reading.Symbol, err)
	}

	levels, err := risk.CalculateLevels(side, price, cfg.TakeProfitPercent, cfg.StopLossPercent)
	if err != nil {
		metrics.PipelineFailures.WithLabelValues(metrics.StageLevels).Inc()
		s.logger.Error(ctx, err, "Failed to calculate price levels", map[string]interface{}{"symbol": reading.Symbol, "price": price})
		return nil, fmt.Errorf("failed to calculate levels for %s: %w", reading.Symbol, err)
	}

	confirmation, err := s.exchange.SimulateOrder(ctx, ports.SimulatedOrderRequest{
		Symbol:          reading.Symbol,
		Side:            side,
		Leverage:        cfg.Leverage,
		Price:           price,
		TakeProfitPrice: levels.TargetPrice,
		StopLossPrice:   levels.ProtectivePrice,
	})
	if err != nil {
		metrics.PipelineFailures.WithLabelValues(metrics.StageExchange).Inc()
		s.logger.Error(ctx, err, "Failed to simulate order", map[string]interface{}{"symbol": reading.Symbol, "side": side})
		return nil, fmt.Errorf("failed to simulate %s order for %s: %w", side, reading.Symbol, err)
	}

	order := &domain.Order{
		Symbol:        reading.Symbol,
		Action:        side,
		PriceEntry:    price,
		TPPrice:       levels.TargetPrice,
		SLPrice:       levels.ProtectivePrice,
		Leverage:      domain.FormatLeverage(cfg.Leverage),
		Timeframe:     reading.Timeframe,
		Timestamp:     s.now(),
		Status:        domain.OrderStatusOpen,
		ClientOrderID: confirmation.ClientOrderID,
	}
	if _, err := s.orders.CreateOrder(ctx, order); err != nil {
		metrics.PipelineFailures.WithLabelValues(metrics.StagePersist).Inc()
		s.logger.Error(ctx, err, "Failed to record order", map[string]interface{}{"symbol": reading.Symbol, "side": side})
		return nil, fmt.Errorf("failed to record %s order for %s: %w", side, reading.Symbol, err)
	}
	metrics.OrdersRecorded.WithLabelValues(string(side)).Inc()

	s.logger.Info(ctx, "Signal processed", map[string]interface{}{
		"orderID":    order.ID,
		"symbol":     order.Symbol,
		"action":     order.Action,
		"priceEntry": order.PriceEntry,
		"tpPrice":    order.TPPrice,
		"slPrice":    order.SLPrice,
		"leverage":   order.Leverage,
	})

	result.Fired = true
	result.Order = order
	result.Confirmation = confirmation
	return result, nil
}

// ListOrders returns every recorded order, newest first.
func (s *SignalService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
