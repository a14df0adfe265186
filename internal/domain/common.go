package domain

// OrderSide represents the side of an order (BUY or SELL).
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// IsValid reports whether the side is one the exchange accepts.
func (s OrderSide) IsValid() bool {
	return s == Buy || s == Sell
}

// Signal is the outcome of evaluating an indicator reading.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalNone Signal = "NONE"
)

// Side converts a fired signal to an order side.
// The boolean is false for SignalNone.
func (s Signal) Side() (OrderSide, bool) {
	switch s {
	case SignalBuy:
		return Buy, true
	case SignalSell:
		return Sell, true
	default:
		return "", false
	}
}

// OrderStatus represents the lifecycle status of a recorded order.
type OrderStatus string

const (
	OrderStatusOpen        OrderStatus = "OPEN"
	OrderStatusFilled      OrderStatus = "FILLED"
	OrderStatusCanceled    OrderStatus = "CANCELED"
	OrderStatusTriggeredTP OrderStatus = "TRIGGERED_TP"
	OrderStatusTriggeredSL OrderStatus = "TRIGGERED_SL"
)
