package app

import (
	"context"
	"fmt"

	"dmiBot/internal/domain"
	"dmiBot/internal/metrics"
)

// ResolveActiveConfig returns the most recently created configuration, or the
// default configuration when none has been stored yet.
func (s *SignalService) ResolveActiveConfig(ctx context.Context) (domain.StrategyConfig, error) {
	cfg, found, err := s.configs.FindLatestConfig(ctx)
	if err != nil {
		metrics.PipelineFailures.WithLabelValues(metrics.StageConfig).Inc()
		s.logger.Error(ctx, err, "Failed to load active configuration")
		return domain.StrategyConfig{}, fmt.Errorf("failed to resolve active config: %w", err)
	}
	if !found {
		s.logger.Debug(ctx, "No stored configuration, using defaults")
		return domain.DefaultStrategyConfig(), nil
	}
	return cfg, nil
}

// SaveConfig stores cfg as a new immutable configuration record.
// Any identity carried by cfg is discarded; the store assigns a fresh one.
func (s *SignalService) SaveConfig(ctx context.Context, cfg domain.StrategyConfig) (domain.StrategyConfig, error) {
	cfg.ID = 0
	cfg.CreatedAt = s.now()

	if _, err := s.configs.CreateConfig(ctx, &cfg); err != nil {
		s.logger.Error(ctx, err, "Failed to save configuration", map[string]interface{}{"symbol": cfg.Symbol})
		return domain.StrategyConfig{}, fmt.Errorf("failed to save config: %w", err)
	}
	s.logger.Info(ctx, "Configuration saved", map[string]interface{}{
		"configID":          cfg.ID,
		"symbol":            cfg.Symbol,
		"timeframe":         cfg.Timeframe,
		"plusDIThreshold":   cfg.PlusDIThreshold,
		"minusDIThreshold":  cfg.MinusDIThreshold,
		"adxMinimum":        cfg.ADXMinimum,
		"takeProfitPercent": cfg.TakeProfitPercent,
		"stopLossPercent":   cfg.StopLossPercent,
		"leverage":          cfg.Leverage,
	})
	return cfg, nil
}
