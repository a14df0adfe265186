package ports

import (
	"context"
	"time"

	"dmiBot/internal/domain"
)

// SimulatedOrderStatus is the status every simulated confirmation carries.
const SimulatedOrderStatus = "SIMULATED"

// SimulatedOrderRequest carries the derived order parameters sent to the exchange collaborator.
type SimulatedOrderRequest struct {
	Symbol          string
	Side            domain.OrderSide
	Leverage        int
	Price           float64
	TakeProfitPrice float64
	StopLossPrice   float64
}

// SimulatedOrder is the synthetic confirmation returned instead of a real fill.
type SimulatedOrder struct {
	Symbol          string
	Side            domain.OrderSide
	Price           float64
	TakeProfitPrice float64
	StopLossPrice   float64
	Leverage        string
	ClientOrderID   string
	Timestamp       time.Time
	Status          string
}

// PriceSource looks up the current price of an instrument.
type PriceSource interface {
	// GetCurrentPrice returns the last traded price for symbol.
	// Fails if the symbol is unknown or the upstream is unreachable.
	GetCurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// ExchangeClient defines the interface for the exchange collaborator used by the signal pipeline.
type ExchangeClient interface {
	PriceSource

	// SetLeverage sets the leverage for a specific symbol.
	SetLeverage(ctx context.Context, symbol string, leverage int) error

	// SimulateOrder sets leverage server-side and returns a synthetic confirmation
	// rather than placing a real order.
	SimulateOrder(ctx context.Context, req SimulatedOrderRequest) (*SimulatedOrder, error)
}
