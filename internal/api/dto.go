package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"dmiBot/internal/app"
	"dmiBot/internal/domain"
)

// response is the envelope every endpoint answers with.
type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// flexFloat accepts a JSON number or a string holding one.
// Alert templates often quote numeric placeholders. NaN and infinities are
// rejected since they cannot be echoed back in a JSON response.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid number %q", s)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// webhookRequest is the indicator alert payload. Pointers distinguish absent fields from zero values.
type webhookRequest struct {
	Symbol    *string    `json:"symbol"`
	PlusDI    *flexFloat `json:"plusDI"`
	MinusDI   *flexFloat `json:"minusDI"`
	ADX       *flexFloat `json:"adx"`
	Timeframe *string    `json:"timeframe"`
}

// missingField returns the first required field that is absent, in payload order.
func (r *webhookRequest) missingField() string {
	switch {
	case r.Symbol == nil || *r.Symbol == "":
		return "symbol"
	case r.PlusDI == nil:
		return "plusDI"
	case r.MinusDI == nil:
		return "minusDI"
	case r.ADX == nil:
		return "adx"
	case r.Timeframe == nil || *r.Timeframe == "":
		return "timeframe"
	}
	return ""
}

func (r *webhookRequest) toReading() domain.SignalReading {
	return domain.SignalReading{
		Symbol:    *r.Symbol,
		Timeframe: *r.Timeframe,
		PlusDI:    float64(*r.PlusDI),
		MinusDI:   float64(*r.MinusDI),
		ADX:       float64(*r.ADX),
	}
}

// configRequest carries a full strategy configuration. Identity fields sent by
// the client (_id, id, createdAt) are not decoded.
type configRequest struct {
	Symbol            *string  `json:"symbol"`
	Timeframe         *string  `json:"timeframe"`
	PlusDIThreshold   *float64 `json:"plusDIThreshold"`
	MinusDIThreshold  *float64 `json:"minusDIThreshold"`
	ADXMinimum        *float64 `json:"adxMinimum"`
	TakeProfitPercent *float64 `json:"takeProfitPercent"`
	StopLossPercent   *float64 `json:"stopLossPercent"`
	Leverage          *int     `json:"leverage"`
}

func (r *configRequest) missingField() string {
	switch {
	case r.Symbol == nil || *r.Symbol == "":
		return "symbol"
	case r.Timeframe == nil || *r.Timeframe == "":
		return "timeframe"
	case r.PlusDIThreshold == nil:
		return "plusDIThreshold"
	case r.MinusDIThreshold == nil:
		return "minusDIThreshold"
	case r.ADXMinimum == nil:
		return "adxMinimum"
	case r.TakeProfitPercent == nil:
		return "takeProfitPercent"
	case r.StopLossPercent == nil:
		return "stopLossPercent"
	case r.Leverage == nil:
		return "leverage"
	}
	return ""
}

func (r *configRequest) toConfig() domain.StrategyConfig {
	return domain.StrategyConfig{
		Symbol:            *r.Symbol,
		Timeframe:         *r.Timeframe,
		PlusDIThreshold:   *r.PlusDIThreshold,
		MinusDIThreshold:  *r.MinusDIThreshold,
		ADXMinimum:        *r.ADXMinimum,
		TakeProfitPercent: *r.TakeProfitPercent,
		StopLossPercent:   *r.StopLossPercent,
		Leverage:          *r.Leverage,
	}
}

type configResponse struct {
	ID                *int64     `json:"id,omitempty"`
	Symbol            string     `json:"symbol"`
	Timeframe         string     `json:"timeframe"`
	PlusDIThreshold   float64    `json:"plusDIThreshold"`
	MinusDIThreshold  float64    `json:"minusDIThreshold"`
	ADXMinimum        float64    `json:"adxMinimum"`
	TakeProfitPercent float64    `json:"takeProfitPercent"`
	StopLossPercent   float64    `json:"stopLossPercent"`
	Leverage          int        `json:"leverage"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
}

func newConfigResponse(cfg domain.StrategyConfig) configResponse {
	resp := configResponse{
		Symbol:            cfg.Symbol,
		Timeframe:         cfg.Timeframe,
		PlusDIThreshold:   cfg.PlusDIThreshold,
		MinusDIThreshold:  cfg.MinusDIThreshold,
		ADXMinimum:        cfg.ADXMinimum,
		TakeProfitPercent: cfg.TakeProfitPercent,
		StopLossPercent:   cfg.StopLossPercent,
		Leverage:          cfg.Leverage,
	}
	// The default configuration has never been stored and carries no identity.
	if cfg.ID != 0 {
		id := cfg.ID
		resp.ID = &id
	}
	if !cfg.CreatedAt.IsZero() {
		createdAt := cfg.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

type orderResponse struct {
	ID            int64     `json:"id"`
	Symbol        string    `json:"symbol"`
	Action        string    `json:"action"`
	PriceEntry    float64   `json:"priceEntry"`
	TPPrice       float64   `json:"tpPrice"`
	SLPrice       float64   `json:"slPrice"`
	Leverage      string    `json:"leverage"`
	Timeframe     string    `json:"timeframe"`
	Timestamp     time.Time `json:"timestamp"`
	Status        string    `json:"status"`
	ClientOrderID string    `json:"clientOrderId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func newOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		Symbol:        o.Symbol,
		Action:        string(o.Action),
		PriceEntry:    o.PriceEntry,
		TPPrice:       o.TPPrice,
		SLPrice:       o.SLPrice,
		Leverage:      o.Leverage,
		Timeframe:     o.Timeframe,
		Timestamp:     o.Timestamp,
		Status:        string(o.Status),
		ClientOrderID: o.ClientOrderID,
		CreatedAt:     o.CreatedAt,
	}
}

type conditionsResponse struct {
	PlusDI           float64 `json:"plusDI"`
	MinusDI          float64 `json:"minusDI"`
	ADX              float64 `json:"adx"`
	PlusDIThreshold  float64 `json:"plusDIThreshold"`
	MinusDIThreshold float64 `json:"minusDIThreshold"`
	ADXMinimum       float64 `json:"adxMinimum"`
}

type signalResponse struct {
	Signal     string             `json:"signal"`
	Order      *orderResponse     `json:"order,omitempty"`
	Conditions conditionsResponse `json:"conditions"`
}

func newSignalResponse(res *app.SignalResult) signalResponse {
	c := res.Conditions
	out := signalResponse{
		Signal: string(res.Signal),
		Conditions: conditionsResponse{
			PlusDI:           c.PlusDI,
			MinusDI:          c.MinusDI,
			ADX:              c.ADX,
			PlusDIThreshold:  c.PlusDIThreshold,
			MinusDIThreshold: c.MinusDIThreshold,
			ADXMinimum:       c.ADXMinimum,
		},
	}
	if res.Order != nil {
		o := newOrderResponse(res.Order)
		out.Order = &o
	}
	return out
}
