package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCoins = `[
	{"id": "bitcoin", "symbol": "btc", "name": "Bitcoin", "current_price": 67000.5, "market_cap": 1320000000000, "market_cap_rank": 1, "total_volume": 35000000000, "price_change_percentage_24h": 2.4},
	{"id": "ethereum", "symbol": "eth", "name": "Ethereum", "current_price": 3200.1, "market_cap": 380000000000, "market_cap_rank": 2, "total_volume": 18000000000, "price_change_percentage_24h": -1.1}
]`

func newTestServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestTopCoins_BareArray(t *testing.T) {
	srv := newTestServer(t, sampleCoins)
	defer srv.Close()

	client := NewClient(srv.URL)
	coins, err := client.TopCoins(context.Background(), "usd", 2)
	require.NoError(t, err)
	require.Len(t, coins, 2)
	assert.Equal(t, "bitcoin", coins[0].ID)
	assert.Equal(t, 67000.5, coins[0].CurrentPrice)
	assert.Equal(t, -1.1, coins[1].PriceChangePercentage24h)
}

func TestTopCoins_EnvelopeFormats(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"data envelope", `{"data": ` + sampleCoins + `}`},
		{"items envelope", `{"items": ` + sampleCoins + `}`},
		{"results envelope", `{"results": ` + sampleCoins + `}`},
		{"nested payload", `{"payload": {"data": ` + sampleCoins + `}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.body)
			defer srv.Close()

			client := NewClient(srv.URL)
			coins, err := client.TopCoins(context.Background(), "usd", 2)
			require.NoError(t, err)
			require.Len(t, coins, 2)
			assert.Equal(t, "ethereum", coins[1].ID)
		})
	}
}

func TestTopCoins_UnrecognizedFormat(t *testing.T) {
	srv := newTestServer(t, `{"something_else": 42}`)
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.TopCoins(context.Background(), "usd", 2)
	assert.Error(t, err)
}

func TestTopCoins_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.TopCoins(context.Background(), "usd", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
