package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dmiBot/internal/domain"
	"dmiBot/internal/ports"
)

// Repository implements the ports.ConfigRepository and ports.OrderRepository interfaces using SQLite.
type Repository struct {
	handle *Handle
	logger ports.Logger
	now    func() time.Time
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
// The database itself is opened lazily by the first query.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	return &Repository{
		handle: NewHandle(cfg.DBPath, cfg.Logger),
		logger: cfg.Logger,
		now:    time.Now,
	}, nil
}

// Ping opens the connection if needed and checks it is alive.
func (r *Repository) Ping(ctx context.Context) error {
	db, err := r.handle.Get(ctx)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ports.ErrDBConnection, err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.handle.Close()
}

// --- ConfigRepository Implementation ---

// CreateConfig saves a new configuration record and returns its assigned ID.
func (r *Repository) CreateConfig(ctx context.Context, cfg *domain.StrategyConfig) (int64, error) {
	db, err := r.handle.Get(ctx)
	if err != nil {
		return 0, err
	}

	const query = `
	INSERT INTO strategy_configs (symbol, timeframe, plus_di_threshold, minus_di_threshold, adx_minimum,
	                              take_profit_percent, stop_loss_percent, leverage, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	createdAt := cfg.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	createdAt = createdAt.UTC()

	result, err := db.ExecContext(ctx, query,
		cfg.Symbol, cfg.Timeframe, cfg.PlusDIThreshold, cfg.MinusDIThreshold, cfg.ADXMinimum,
		cfg.TakeProfitPercent, cfg.StopLossPercent, cfg.Leverage, createdAt.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to insert config for symbol %s: %w: %w", cfg.Symbol, ports.ErrInsertFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for config %s: %w: %w", cfg.Symbol, ports.ErrInsertFailed, err)
	}
	cfg.ID = id
	cfg.CreatedAt = createdAt
	r.logger.Debug(ctx, "Strategy config created", map[string]interface{}{"configID": id, "symbol": cfg.Symbol})
	return id, nil
}

// FindLatestConfig retrieves the most recently created configuration.
func (r *Repository) FindLatestConfig(ctx context.Context) (domain.StrategyConfig, bool, error) {
	db, err := r.handle.Get(ctx)
	if err != nil {
		return domain.StrategyConfig{}, false, err
	}

	const query = `
	SELECT id, symbol, timeframe, plus_di_threshold, minus_di_threshold, adx_minimum,
	       take_profit_percent, stop_loss_percent, leverage, created_at
	FROM strategy_configs
	ORDER BY created_at DESC, id DESC
	LIMIT 1`

	cfg, err := scanConfig(db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug(ctx, "No strategy config stored yet")
			return domain.StrategyConfig{}, false, nil
		}
		return domain.StrategyConfig{}, false, fmt.Errorf("failed to query latest config: %w: %w", ports.ErrQueryFailed, err)
	}
	return cfg, true, nil
}

// --- OrderRepository Implementation ---

// CreateOrder saves a new order record and returns its assigned ID.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (int64, error) {
	db, err := r.handle.Get(ctx)
	if err != nil {
		return 0, err
	}

	const query = `
	INSERT INTO orders (symbol, action, price_entry, tp_price, sl_price, leverage, timeframe,
	                    timestamp, status, client_order_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if order.Status == "" {
		order.Status = domain.OrderStatusOpen
	}
	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	createdAt = createdAt.UTC()
	timestamp := order.Timestamp
	if timestamp.IsZero() {
		timestamp = createdAt
	}
	timestamp = timestamp.UTC()

	var clientOrderID sql.NullString
	if order.ClientOrderID != "" {
		clientOrderID = sql.NullString{String: order.ClientOrderID, Valid: true}
	}

	result, err := db.ExecContext(ctx, query,
		order.Symbol, order.Action, order.PriceEntry, order.TPPrice, order.SLPrice, order.Leverage,
		order.Timeframe, timestamp.UnixNano(), order.Status, clientOrderID, createdAt.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to insert order for symbol %s: %w: %w", order.Symbol, ports.ErrInsertFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for order %s: %w: %w", order.Symbol, ports.ErrInsertFailed, err)
	}
	order.ID = id
	order.CreatedAt = createdAt
	order.Timestamp = timestamp
	r.logger.Debug(ctx, "Order created", map[string]interface{}{"orderID": id, "symbol": order.Symbol, "action": order.Action})
	return id, nil
}

// ListOrders retrieves all orders, ordered by creation time descending.
func (r *Repository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	db, err := r.handle.Get(ctx)
	if err != nil {
		return nil, err
	}

	const query = `
	SELECT id, symbol, action, price_entry, tp_price, sl_price, leverage, timeframe,
	       timestamp, status, client_order_id, created_at
	FROM orders
	ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order during ListOrders: %w: %w", ports.ErrQueryFailed, err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w: %w", ports.ErrQueryFailed, err)
	}
	return orders, nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanConfig(s scanner) (domain.StrategyConfig, error) {
	var c domain.StrategyConfig
	var createdAt int64
	err := s.Scan(
		&c.ID, &c.Symbol, &c.Timeframe, &c.PlusDIThreshold, &c.MinusDIThreshold, &c.ADXMinimum,
		&c.TakeProfitPercent, &c.StopLossPercent, &c.Leverage, &createdAt)
	if err != nil {
		return domain.StrategyConfig{}, err // Handle sql.ErrNoRows in the caller
	}
	c.CreatedAt = time.Unix(0, createdAt).UTC()
	return c, nil
}

func scanOrder(s scanner) (*domain.Order, error) {
	o := &domain.Order{}
	var action, status string
	var timestamp, createdAt int64
	var clientOrderID sql.NullString
	err := s.Scan(
		&o.ID, &o.Symbol, &action, &o.PriceEntry, &o.TPPrice, &o.SLPrice, &o.Leverage, &o.Timeframe,
		&timestamp, &status, &clientOrderID, &createdAt)
	if err != nil {
		return nil, err
	}
	o.Action = domain.OrderSide(action)
	o.Status = domain.OrderStatus(status)
	o.Timestamp = time.Unix(0, timestamp).UTC()
	o.CreatedAt = time.Unix(0, createdAt).UTC()
	if clientOrderID.Valid {
		o.ClientOrderID = clientOrderID.String
	}
	return o, nil
}
