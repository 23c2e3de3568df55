package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/context8/context8-server/internal/model"
	"github.com/context8/context8-server/internal/model/dto"
	"github.com/context8/context8-server/internal/pkg/market"
	"github.com/context8/context8-server/internal/repository"
	"github.com/context8/context8-server/internal/testutil"
)

const marketSample = `[
	{"id": "bitcoin", "symbol": "btc", "name": "Bitcoin", "current_price": 67000, "market_cap": 1320000000000, "market_cap_rank": 1, "price_change_percentage_24h": 2.4},
	{"id": "ethereum", "symbol": "eth", "name": "Ethereum", "current_price": 3200, "market_cap": 380000000000, "market_cap_rank": 2, "price_change_percentage_24h": -1.1},
	{"id": "solana", "symbol": "sol", "name": "Solana", "current_price": 150, "market_cap": 70000000000, "market_cap_rank": 5, "price_change_percentage_24h": 8.9}
]`

func TestReportService_Generate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(marketSample))
	}))
	defer srv.Close()

	service := NewReportService(
		repository.NewReportRepository(db),
		market.NewClient(srv.URL),
		nil,
		testConfig(),
	)

	report, err := service.Generate(context.Background(), "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, model.ReportPublished, report.Status)
	assert.Contains(t, report.Summary, "3 tracked coins")

	var metrics dto.ReportMetrics
	require.NoError(t, json.Unmarshal([]byte(report.Metrics), &metrics))
	assert.Equal(t, 3, metrics.CoinsTracked)
	assert.Equal(t, 2, metrics.GainersCount)
	assert.Equal(t, 1, metrics.LosersCount)

	var movers []dto.TopMover
	require.NoError(t, json.Unmarshal([]byte(report.TopMovers), &movers))
	require.NotEmpty(t, movers)
	// 涨跌幅绝对值最大的排最前
	assert.Equal(t, "sol", movers[0].Symbol)

	// 入库可查
	stored, err := service.GetByDate("2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, report.Summary, stored.Summary)
}

func TestReportService_Generate_MarketError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	service := NewReportService(
		repository.NewReportRepository(db),
		market.NewClient(srv.URL),
		nil,
		testConfig(),
	)

	_, err := service.Generate(context.Background(), "2026-08-29")
	require.Error(t, err)

	// 失败时不留半成品
	_, err = service.GetByDate("2026-08-29")
	assert.Equal(t, ErrReportNotFound, err)
}

func TestReportService_Latest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewReportService(repository.NewReportRepository(db), nil, nil, testConfig())

	_, err := service.Latest()
	assert.Equal(t, ErrReportNotFound, err)

	testutil.TestReport(t, db, "2026-08-27")
	testutil.TestReport(t, db, "2026-08-28")

	latest, err := service.Latest()
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", latest.ReportDate)
}

func TestBuildReport_Tone(t *testing.T) {
	coins := []market.Coin{
		{Symbol: "a", PriceChangePercentage24h: 5},
		{Symbol: "b", PriceChangePercentage24h: 3},
		{Symbol: "c", PriceChangePercentage24h: 2},
		{Symbol: "d", PriceChangePercentage24h: -1},
	}

	report, err := buildReport("2026-08-29", coins)
	require.NoError(t, err)
	assert.Contains(t, report.Summary, "bullish")
}
