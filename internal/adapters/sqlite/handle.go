package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"dmiBot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const schema = `
	CREATE TABLE IF NOT EXISTS strategy_configs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		plus_di_threshold REAL NOT NULL,
		minus_di_threshold REAL NOT NULL,
		adx_minimum REAL NOT NULL,
		take_profit_percent REAL NOT NULL,
		stop_loss_percent REAL NOT NULL,
		leverage INTEGER NOT NULL,
		created_at INTEGER NOT NULL -- unix nanoseconds, UTC
	);

	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		action TEXT NOT NULL CHECK (action IN ('BUY', 'SELL')),
		price_entry REAL NOT NULL,
		tp_price REAL NOT NULL,
		sl_price REAL NOT NULL,
		leverage TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'OPEN'
			CHECK (status IN ('OPEN', 'FILLED', 'CANCELED', 'TRIGGERED_TP', 'TRIGGERED_SL')),
		client_order_id TEXT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_strategy_configs_created_at ON strategy_configs (created_at);
	CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at);
	`

var errHandleClosed = errors.New("handle is closed")

type openFunc func(ctx context.Context) (*sql.DB, error)

// Handle owns the store connection. The database is opened on first use and
// reused afterwards; concurrent first callers wait on the same attempt.
// A failed attempt is not cached, so the next caller tries again.
type Handle struct {
	dbPath string
	logger ports.Logger
	open   openFunc

	group  singleflight.Group
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// NewHandle creates a handle for the database at dbPath without connecting.
func NewHandle(dbPath string, logger ports.Logger) *Handle {
	h := &Handle{dbPath: dbPath, logger: logger}
	h.open = h.openDB
	return h
}

// Get returns the shared connection pool, opening it if needed.
func (h *Handle) Get(ctx context.Context) (*sql.DB, error) {
	h.mu.RLock()
	db, closed := h.db, h.closed
	h.mu.RUnlock()
	if closed {
		return nil, fmt.Errorf("%w: %w", ports.ErrDBConnection, errHandleClosed)
	}
	if db != nil {
		return db, nil
	}

	v, err, shared := h.group.Do("connect", func() (interface{}, error) {
		h.mu.RLock()
		existing := h.db
		h.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		// Detached so one caller's cancellation does not fail everyone waiting on the attempt.
		opened, err := h.open(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.closed {
			// Close ran while the open was in flight.
			opened.Close()
			return nil, errHandleClosed
		}
		h.db = opened
		return opened, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrDBConnection, err)
	}
	if shared {
		h.logger.Debug(ctx, "Joined in-flight database connection attempt")
	}
	return v.(*sql.DB), nil
}

// Close releases the connection if one was opened. The handle cannot be
// reopened afterwards.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	if h.db == nil {
		return nil
	}
	h.logger.Info(context.Background(), "Closing SQLite database connection")
	err := h.db.Close()
	h.db = nil
	return err
}

func (h *Handle) openDB(ctx context.Context) (*sql.DB, error) {
	dbPath := h.dbPath
	if dbPath == "" {
		dbPath = "./data/dmi_bot.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	h.logger.Info(ctx, "SQLite database connection established", map[string]interface{}{"path": dbPath})
	return db, nil
}
