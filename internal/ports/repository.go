package ports

import (
	"context"

	"dmiBot/internal/domain"
)

// ConfigRepository stores immutable strategy configuration records.
type ConfigRepository interface {
	// CreateConfig saves a new configuration record and returns its assigned ID.
	CreateConfig(ctx context.Context, cfg *domain.StrategyConfig) (int64, error)
	// FindLatestConfig retrieves the most recently created configuration.
	// found is false when the store holds no configuration yet.
	FindLatestConfig(ctx context.Context) (cfg domain.StrategyConfig, found bool, err error)
}

// OrderRepository stores the orders derived from fired signals.
type OrderRepository interface {
	// CreateOrder saves a new order record and returns its assigned ID.
	CreateOrder(ctx context.Context, order *domain.Order) (int64, error)
	// ListOrders retrieves all orders, ordered by creation time descending.
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}
