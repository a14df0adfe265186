package domain

import "time"

// StrategyConfig holds the strategy parameters in force at evaluation time.
// Records are immutable once stored; a newer record supersedes older ones.
type StrategyConfig struct {
	ID                int64
	Symbol            string
	Timeframe         string
	PlusDIThreshold   float64
	MinusDIThreshold  float64
	ADXMinimum        float64
	TakeProfitPercent float64
	StopLossPercent   float64
	Leverage          int
	CreatedAt         time.Time
}

// DefaultStrategyConfig returns the configuration used while the store holds no record.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		Symbol:            "BTCUSDT",
		Timeframe:         "5m",
		PlusDIThreshold:   25,
		MinusDIThreshold:  20,
		ADXMinimum:        20,
		TakeProfitPercent: 2,
		StopLossPercent:   1,
		Leverage:          10,
	}
}
