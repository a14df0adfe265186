package strategy

import (
	"context"
	"fmt"
	"math"

	"dmiBot/internal/domain"
	"dmiBot/internal/ports"
)

// Evaluate classifies a +DI/-DI/ADX reading against the configured thresholds.
//
// BUY needs plusDI above its threshold, minusDI below its threshold and adx above
// its minimum; SELL needs the mirror image. All comparisons are strict, so a
// reading sitting exactly on a threshold yields NONE. Any non-finite input also
// yields NONE.
func Evaluate(plusDI, minusDI, adx, plusDIThreshold, minusDIThreshold, adxMinimum float64) domain.Signal {
	if !allFinite(plusDI, minusDI, adx, plusDIThreshold, minusDIThreshold, adxMinimum) {
		return domain.SignalNone
	}
	if adx <= adxMinimum {
		return domain.SignalNone
	}

	switch {
	case plusDI > plusDIThreshold && minusDI < minusDIThreshold:
		return domain.SignalBuy
	case plusDI < plusDIThreshold && minusDI > minusDIThreshold:
		return domain.SignalSell
	default:
		return domain.SignalNone
	}
}

func allFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// DMI implements ports.Strategy for directional-movement webhook readings.
type DMI struct {
	logger ports.Logger
}

// New creates a new DMI strategy.
func New(logger ports.Logger) (*DMI, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for strategy")
	}
	return &DMI{logger: logger}, nil
}

// Evaluate classifies reading against the thresholds of cfg.
func (s *DMI) Evaluate(ctx context.Context, reading domain.SignalReading, cfg domain.StrategyConfig) domain.Signal {
	signal := Evaluate(reading.PlusDI, reading.MinusDI, reading.ADX,
		cfg.PlusDIThreshold, cfg.MinusDIThreshold, cfg.ADXMinimum)

	s.logger.Debug(ctx, "Signal evaluated", map[string]interface{}{
		"symbol":           reading.Symbol,
		"timeframe":        reading.Timeframe,
		"plusDI":           reading.PlusDI,
		"minusDI":          reading.MinusDI,
		"adx":              reading.ADX,
		"plusDIThreshold":  cfg.PlusDIThreshold,
		"minusDIThreshold": cfg.MinusDIThreshold,
		"adxMinimum":       cfg.ADXMinimum,
		"signal":           signal,
	})
	return signal
}
