package handler

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/context8/context8-server/internal/model"
	"github.com/context8/context8-server/internal/pkg/response"
	"github.com/context8/context8-server/internal/repository"
	"github.com/context8/context8-server/internal/service"
	"github.com/context8/context8-server/internal/testutil"
)

func setupReportHandler(t *testing.T) (*ReportHandler, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	reportRepo := repository.NewReportRepository(db)

	// 行情客户端和 OSS 只在生成时用到，读接口不需要
	reportService := service.NewReportService(reportRepo, nil, nil, handlerTestConfig())
	handler := NewReportHandler(reportService)

	ctx := &testContext{DB: db}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return handler, ctx, cleanup
}

func TestReportHandler_Latest(t *testing.T) {
	handler, ctx, cleanup := setupReportHandler(t)
	defer cleanup()

	testutil.TestReport(t, ctx.DB, "2026-08-27", testutil.WithReportStatus(model.ReportPublished))
	testutil.TestReport(t, ctx.DB, "2026-08-28", testutil.WithReportStatus(model.ReportPublished))

	router := gin.New()
	router.GET("/reports/daily", handler.Latest)

	w := performRequest(router, "GET", "/reports/daily", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "2026-08-28", data["report_date"])
}

func TestReportHandler_Latest_NotFound(t *testing.T) {
	handler, _, cleanup := setupReportHandler(t)
	defer cleanup()

	router := gin.New()
	router.GET("/reports/daily", handler.Latest)

	w := performRequest(router, "GET", "/reports/daily", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestReportHandler_GetByDate(t *testing.T) {
	handler, ctx, cleanup := setupReportHandler(t)
	defer cleanup()

	testutil.TestReport(t, ctx.DB, "2026-08-20", testutil.WithReportStatus(model.ReportPublished))

	router := gin.New()
	router.GET("/reports/daily/:date", handler.GetByDate)

	w := performRequest(router, "GET", "/reports/daily/2026-08-20", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "2026-08-20", data["report_date"])
}

func TestReportHandler_GetByDate_BadFormat(t *testing.T) {
	handler, _, cleanup := setupReportHandler(t)
	defer cleanup()

	router := gin.New()
	router.GET("/reports/daily/:date", handler.GetByDate)

	w := performRequest(router, "GET", "/reports/daily/not-a-date", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestReportHandler_GetByDate_Missing(t *testing.T) {
	handler, _, cleanup := setupReportHandler(t)
	defer cleanup()

	router := gin.New()
	router.GET("/reports/daily/:date", handler.GetByDate)

	w := performRequest(router, "GET", "/reports/daily/2020-01-01", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestReportHandler_ListRecent(t *testing.T) {
	handler, ctx, cleanup := setupReportHandler(t)
	defer cleanup()

	testutil.TestReport(t, ctx.DB, "2026-08-26", testutil.WithReportStatus(model.ReportPublished))
	testutil.TestReport(t, ctx.DB, "2026-08-27", testutil.WithReportStatus(model.ReportPublished))
	testutil.TestReport(t, ctx.DB, "2026-08-28", testutil.WithReportStatus(model.ReportPublished))

	router := gin.New()
	router.GET("/reports/recent", handler.ListRecent)

	w := performRequest(router, "GET", "/reports/recent?limit=2", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	items := resp.Data.([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "2026-08-28", first["report_date"])
}

func TestReportHandler_ListRecent_BadLimit(t *testing.T) {
	handler, _, cleanup := setupReportHandler(t)
	defer cleanup()

	router := gin.New()
	router.GET("/reports/recent", handler.ListRecent)

	w := performRequest(router, "GET", "/reports/recent?limit=500", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}
