package ports

import (
	"context"

	"dmiBot/internal/domain"
)

// Strategy defines the interface for signal strategies.
type Strategy interface {
	// Evaluate classifies a reading against the thresholds of cfg.
	Evaluate(ctx context.Context, reading domain.SignalReading, cfg domain.StrategyConfig) domain.Signal
}
