package handler

import (
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/context8/context8-server/internal/model"
	"github.com/context8/context8-server/internal/model/dto"
	"github.com/context8/context8-server/internal/pkg/response"
	"github.com/context8/context8-server/internal/repository"
	"github.com/context8/context8-server/internal/testutil"
)

func TestAdminHandler_ListPending(t *testing.T) {
	_, handler, ctx, cleanup := setupPaymentHandler(t)
	defer cleanup()

	admin := testutil.TestUser(t, ctx.DB, testutil.WithAdmin())
	user := testutil.TestUser(t, ctx.DB, testutil.WithEmail("payer@example.com"))
	testutil.TestPayment(t, ctx.DB, user.ID)

	router := gin.New()
	router.Use(mockAuth(admin.ID))
	router.GET("/pending", handler.ListPending)

	w := performRequest(router, "GET", "/pending", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	items, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)

	item := items[0].(map[string]interface{})
	assert.Equal(t, "payer@example.com", item["user_email"])
	assert.Equal(t, "pending", item["status"])
}

func TestAdminHandler_PendingCount(t *testing.T) {
	_, handler, ctx, cleanup := setupPaymentHandler(t)
	defer cleanup()

	admin := testutil.TestUser(t, ctx.DB, testutil.WithAdmin())
	user := testutil.TestUser(t, ctx.DB)
	testutil.TestPayment(t, ctx.DB, user.ID)
	testutil.TestPayment(t, ctx.DB, user.ID)

	router := gin.New()
	router.Use(mockAuth(admin.ID))
	router.GET("/count", handler.PendingCount)

	w := performRequest(router, "GET", "/count", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])
}

func TestAdminHandler_Verify_Success(t *testing.T) {
	_, handler, ctx, cleanup := setupPaymentHandler(t)
	defer cleanup()

	admin := testutil.TestUser(t, ctx.DB, testutil.WithAdmin())
	user := testutil.TestUser(t, ctx.DB)
	payment := testutil.TestPayment(t, ctx.DB, user.ID)

	router := gin.New()
	router.Use(mockAuth(admin.ID))
	router.POST("/payments/:id/verify", handler.Verify)

	w := performRequest(router, "POST", fmt.Sprintf("/payments/%d/verify", payment.ID), dto.VerifyPaymentRequest{
		Action: model.PaymentVerified,
	})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	// 审核通过后订阅应开通约 30 天
	sub, err := repository.NewSubscriptionRepository(ctx.DB).GetCurrentByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionActive, sub.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), sub.EndDate, time.Minute)
}

func TestAdminHandler_Verify_RejectWithoutNotes(t *testing.T) {
	_, handler, ctx, cleanup := setupPaymentHandler(t)
	defer cleanup()

	admin := testutil.TestUser(t, ctx.DB, testutil.WithAdmin())
	user := testutil.TestUser(t, ctx.DB)
	payment := testutil.TestPayment(t, ctx.DB, user.ID)

	router := gin.New()
	router.Use(mockAuth(admin.ID))
	router.POST("/payments/:id/verify", handler.Verify)

	w := performRequest(router, "POST", fmt.Sprintf("/payments/%d/verify", payment.ID), dto.VerifyPaymentRequest{
		Action: model.PaymentRejected,
	})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAdminHandler_Verify_AlreadyProcessed(t *testing.T) {
	_, handler, ctx, cleanup := setupPaymentHandler(t)
	defer cleanup()

	admin := testutil.TestUser(t, ctx.DB, testutil.WithAdmin())
	user := testutil.TestUser(t, ctx.DB)
	payment := testutil.TestPayment(t, ctx.DB, user.ID)

	router := gin.New()
	router.Use(mockAuth(admin.ID))
	router.POST("/payments/:id/verify", handler.Verify)

	path := fmt.Sprintf("/payments/%d/verify", payment.ID)
	w := performRequest(router, "POST", path, dto.VerifyPaymentRequest{Action: model.PaymentVerified})
	require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	// 第二次审核必须被冲突拦下
	w = performRequest(router, "POST", path, dto.VerifyPaymentRequest{Action: model.PaymentVerified})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeConflict, resp.Code)
}

func TestAdminHandler_Verify_NotFound(t *testing.T) {
	_, handler, ctx, cleanup := setupPaymentHandler(t)
	defer cleanup()

	admin := testutil.TestUser(t, ctx.DB, testutil.WithAdmin())

	router := gin.New()
	router.Use(mockAuth(admin.ID))
	router.POST("/payments/:id/verify", handler.Verify)

	w := performRequest(router, "POST", "/payments/99999/verify", dto.VerifyPaymentRequest{
		Action: model.PaymentVerified,
	})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestAdminHandler_Verify_NonAdminReviewer(t *testing.T) {
	_, handler, ctx, cleanup := setupPaymentHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB)
	payment := testutil.TestPayment(t, ctx.DB, user.ID)

	// 服务层复核角色，即使绕过了中间件也拦得住
	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/payments/:id/verify", handler.Verify)

	w := performRequest(router, "POST", fmt.Sprintf("/payments/%d/verify", payment.ID), dto.VerifyPaymentRequest{
		Action: model.PaymentVerified,
	})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)
}

func TestAdminHandler_Verify_InvalidID(t *testing.T) {
	_, handler, ctx, cleanup := setupPaymentHandler(t)
	defer cleanup()

	admin := testutil.TestUser(t, ctx.DB, testutil.WithAdmin())

	router := gin.New()
	router.Use(mockAuth(admin.ID))
	router.POST("/payments/:id/verify", handler.Verify)

	w := performRequest(router, "POST", "/payments/abc/verify", dto.VerifyPaymentRequest{
		Action: model.PaymentVerified,
	})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}
