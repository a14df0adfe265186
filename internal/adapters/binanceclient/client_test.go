package binanceclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"dmiBot/internal/domain"
	"dmiBot/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// fakeFutures serves the two futures endpoints the client uses.
type fakeFutures struct {
	priceStatus   int
	priceBody     string
	leverageCalls int32
	leverageQuery string
	leverageBody  string
	leverageCode  int
}

func (f *fakeFutures) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/fapi/v1/ticker/price":
		w.WriteHeader(f.priceStatus)
		_, _ = w.Write([]byte(f.priceBody))
	case "/fapi/v1/leverage":
		atomic.AddInt32(&f.leverageCalls, 1)
		_ = r.ParseForm()
		f.leverageQuery = r.Form.Encode()
		w.WriteHeader(f.leverageCode)
		_, _ = w.Write([]byte(f.leverageBody))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, fake *fakeFutures) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := New(Config{APIKey: "key", SecretKey: "secret", BaseURL: srv.URL, Logger: &mockLogger{}})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresLogger(t *testing.T) {
	_, err := New(Config{APIKey: "k", SecretKey: "s"})
	assert.Error(t, err)
}

func TestNew_SelectsBaseURL(t *testing.T) {
	c, err := New(Config{UseTestnet: true, Logger: &mockLogger{}})
	require.NoError(t, err)
	assert.Equal(t, baseURLTestnet, c.futuresClient.BaseURL)

	c, err = New(Config{Logger: &mockLogger{}})
	require.NoError(t, err)
	assert.Equal(t, baseURLProduction, c.futuresClient.BaseURL)
}

func TestGetCurrentPrice(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		want      float64
		wantErrIs error
	}{
		{
			name:   "ticker price",
			status: http.StatusOK,
			body:   `[{"symbol":"BTCUSDT","price":"64123.40","time":1700000000000}]`,
			want:   64123.40,
		},
		{
			name:      "invalid symbol",
			status:    http.StatusBadRequest,
			body:      `{"code":-1121,"msg":"Invalid symbol."}`,
			wantErrIs: ports.ErrUnknownSymbol,
		},
		{
			name:      "rate limited",
			status:    http.StatusTooManyRequests,
			body:      `{"code":-1003,"msg":"Too many requests."}`,
			wantErrIs: ports.ErrRateLimited,
		},
		{
			name:      "zero price",
			status:    http.StatusOK,
			body:      `[{"symbol":"BTCUSDT","price":"0","time":1700000000000}]`,
			wantErrIs: ports.ErrInvalidPrice,
		},
		{
			name:      "other symbol only",
			status:    http.StatusOK,
			body:      `[{"symbol":"ETHUSDT","price":"3000","time":1700000000000}]`,
			wantErrIs: ports.ErrUnknownSymbol,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeFutures{priceStatus: tt.status, priceBody: tt.body})

			price, err := c.GetCurrentPrice(context.Background(), "BTCUSDT")
			if tt.wantErrIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, price)
		})
	}
}

func TestSimulateOrder_SetsLeverageThenConfirms(t *testing.T) {
	fake := &fakeFutures{
		leverageCode: http.StatusOK,
		leverageBody: `{"leverage":10,"maxNotionalValue":"1000000","symbol":"BTCUSDT"}`,
	}
	c := newTestClient(t, fake)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	conf, err := c.SimulateOrder(context.Background(), ports.SimulatedOrderRequest{
		Symbol: "BTCUSDT", Side: domain.Buy, Leverage: 10,
		Price: 100, TakeProfitPrice: 102, StopLossPrice: 99,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.leverageCalls))
	assert.Contains(t, fake.leverageQuery, "leverage=10")
	assert.Contains(t, fake.leverageQuery, "symbol=BTCUSDT")

	assert.Equal(t, ports.SimulatedOrderStatus, conf.Status)
	assert.Equal(t, "10x", conf.Leverage)
	assert.Equal(t, domain.Buy, conf.Side)
	assert.Equal(t, 102.0, conf.TakeProfitPrice)
	assert.Equal(t, 99.0, conf.StopLossPrice)
	assert.Equal(t, fixed, conf.Timestamp)
	assert.True(t, strings.HasPrefix(conf.ClientOrderID, "sim-"))
}

func TestSimulateOrder_LeverageFailureAborts(t *testing.T) {
	fake := &fakeFutures{
		leverageCode: http.StatusUnauthorized,
		leverageBody: `{"code":-2015,"msg":"Invalid API-key, IP, or permissions for action."}`,
	}
	c := newTestClient(t, fake)

	conf, err := c.SimulateOrder(context.Background(), ports.SimulatedOrderRequest{
		Symbol: "BTCUSDT", Side: domain.Sell, Leverage: 10, Price: 100,
	})
	require.Error(t, err)
	assert.Nil(t, conf)
	assert.ErrorIs(t, err, ports.ErrInvalidAPIKeys)
}

func TestSimulateOrder_RejectsUnknownSide(t *testing.T) {
	fake := &fakeFutures{leverageCode: http.StatusOK, leverageBody: `{}`}
	c := newTestClient(t, fake)

	_, err := c.SimulateOrder(context.Background(), ports.SimulatedOrderRequest{Symbol: "BTCUSDT", Side: "HOLD", Leverage: 10})
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fake.leverageCalls))
}
