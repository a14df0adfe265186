package domain

// SignalReading is one indicator webhook payload. It is never persisted.
type SignalReading struct {
	Symbol    string
	Timeframe string
	PlusDI    float64
	MinusDI   float64
	ADX       float64
}

// Conditions echoes the reading and the thresholds it was evaluated against.
type Conditions struct {
	PlusDI           float64
	MinusDI          float64
	ADX              float64
	PlusDIThreshold  float64
	MinusDIThreshold float64
	ADXMinimum       float64
}

// NewConditions pairs a reading with the thresholds of cfg.
func NewConditions(r SignalReading, cfg StrategyConfig) Conditions {
	return Conditions{
		PlusDI:           r.PlusDI,
		MinusDI:          r.MinusDI,
		ADX:              r.ADX,
		PlusDIThreshold:  cfg.PlusDIThreshold,
		MinusDIThreshold: cfg.MinusDIThreshold,
		ADXMinimum:       cfg.ADXMinimum,
	}
}
