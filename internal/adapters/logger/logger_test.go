package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat(" JSON "))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat(""))
}

func TestStdLogger_FiltersAndFormats(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLoggerTo(&buf, LevelInfo)
	ctx := context.Background()

	l.Debug(ctx, "hidden")
	assert.Empty(t, buf.String())

	l.Info(ctx, "order recorded", map[string]interface{}{"symbol": "BTCUSDT", "action": "BUY"})
	assert.Contains(t, buf.String(), "[INFO] order recorded | action=BUY symbol=BTCUSDT")

	buf.Reset()
	l.Error(ctx, errors.New("connection refused"), "price fetch failed", map[string]interface{}{"symbol": "ETHUSDT"})
	assert.Contains(t, buf.String(), `[ERROR] price fetch failed | error="connection refused" symbol=ETHUSDT`)
}

func TestStdLogger_MergesFieldMaps(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLoggerTo(&buf, LevelDebug)

	l.Debug(context.Background(), "merged",
		map[string]interface{}{"a": 1, "b": "old"},
		map[string]interface{}{"b": "new", "c": ""})
	assert.Contains(t, buf.String(), `[DEBUG] merged | a=1 b=new c=""`)
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestZapLogger_WritesFieldsAndError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewZapLoggerFrom(zap.New(core))
	ctx := context.Background()

	l.Info(ctx, "signal evaluated", map[string]interface{}{"signal": "NONE"})
	l.Error(ctx, errors.New("db down"), "persist failed")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "signal evaluated", entries[0].Message)
		assert.Equal(t, "NONE", entries[0].ContextMap()["signal"])
		assert.Equal(t, "db down", entries[1].ContextMap()["error"])
	}
}
