package domain

import (
	"strconv"
	"time"
)

// Order is the record of a simulated trade derived from a fired signal.
type Order struct {
	ID            int64
	Symbol        string
	Action        OrderSide
	PriceEntry    float64
	TPPrice       float64
	SLPrice       float64
	Leverage      string // rendered as "{n}x"
	Timeframe     string
	Timestamp     time.Time
	Status        OrderStatus
	ClientOrderID string
	CreatedAt     time.Time
}

// FormatLeverage renders a leverage multiplier the way orders display it.
func FormatLeverage(leverage int) string {
	return strconv.Itoa(leverage) + "x"
}
