package risk

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"dmiBot/internal/domain"
	"dmiBot/internal/ports"
)

// PricePlaces is the number of decimals target and protective prices are rounded to.
const PricePlaces = 2

// Levels holds the prices bracketing an entry.
type Levels struct {
	TargetPrice     float64 // take-profit level
	ProtectivePrice float64 // stop-loss level
}

// CalculateLevels derives take-profit and stop-loss prices from an entry price.
//
// For BUY the target sits takeProfitPercent above the entry and the protective
// level stopLossPercent below it; SELL mirrors this. Both prices go through
// RoundPrice.
func CalculateLevels(side domain.OrderSide, entryPrice, takeProfitPercent, stopLossPercent float64) (Levels, error) {
	if !side.IsValid() {
		return Levels{}, fmt.Errorf("%w: unknown order side %q", ports.ErrInvalidRequest, side)
	}
	if !isFinite(entryPrice) || entryPrice <= 0 {
		return Levels{}, fmt.Errorf("%w: entry price %v", ports.ErrInvalidPrice, entryPrice)
	}
	if !isFinite(takeProfitPercent) || takeProfitPercent < 0 {
		return Levels{}, fmt.Errorf("%w: take profit percent %v", ports.ErrInvalidRequest, takeProfitPercent)
	}
	if !isFinite(stopLossPercent) || stopLossPercent < 0 {
		return Levels{}, fmt.Errorf("%w: stop loss percent %v", ports.ErrInvalidRequest, stopLossPercent)
	}

	tp := takeProfitPercent / 100
	sl := stopLossPercent / 100

	var target, protective float64
	if side == domain.Buy {
		target = entryPrice * (1 + tp)
		protective = entryPrice * (1 - sl)
	} else {
		target = entryPrice * (1 - tp)
		protective = entryPrice * (1 + sl)
	}

	return Levels{
		TargetPrice:     RoundPrice(target),
		ProtectivePrice: RoundPrice(protective),
	}, nil
}

// RoundPrice rounds v to PricePlaces decimals, half away from zero.
// Rounding is applied to the shortest decimal representation of v, so 1.005
// becomes 1.01 even though its binary value is slightly below the midpoint.
func RoundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(PricePlaces).InexactFloat64()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
