package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/context8/context8-server/internal/api/middleware"
	"github.com/context8/context8-server/internal/model/dto"
	"github.com/context8/context8-server/internal/pkg/response"
	"github.com/context8/context8-server/internal/repository"
	"github.com/context8/context8-server/internal/service"
	"github.com/context8/context8-server/internal/testutil"
)

type testContext struct {
	DB *gorm.DB
}

// mockAuth 绕过 JWT，直接注入用户 ID
func mockAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func setupUserHandler(t *testing.T) (*UserHandler, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	keyRepo := repository.NewAPIKeyRepository(db)

	cfg := handlerTestConfig()

	// ossClient is nil for tests (uploads will fail gracefully)
	userService := service.NewUserService(userRepo, nil, cfg)
	subService := service.NewSubscriptionService(subRepo, userRepo, nil, nil, cfg)
	quotaService := service.NewQuotaService(userRepo, subService, cfg)
	apiKeyService := service.NewAPIKeyService(keyRepo)
	handler := NewUserHandler(userService, quotaService, apiKeyService)

	ctx := &testContext{
		DB: db,
	}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return handler, ctx, cleanup
}

func TestUserHandler_GetProfile_Success(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB, testutil.WithUsername("profileuser"))

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.GET("/profile", handler.GetProfile)

	req := httptest.NewRequest("GET", "/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "profileuser", data["username"])
	assert.Equal(t, "free", data["plan"])
}

func TestUserHandler_GetProfile_Unauthorized(t *testing.T) {
	handler, _, cleanup := setupUserHandler(t)
	defer cleanup()

	router := gin.New()
	// No auth middleware
	router.GET("/profile", handler.GetProfile)

	req := httptest.NewRequest("GET", "/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestUserHandler_UpdateProfile_Success(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB, testutil.WithUsername("oldname"))

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.PUT("/profile", handler.UpdateProfile)

	newUsername := "newname"
	reqBody := dto.UpdateProfileRequest{
		Username: &newUsername,
	}

	jsonBytes, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("PUT", "/profile", bytes.NewBuffer(jsonBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "newname", data["username"])
}

func TestUserHandler_UpdateProfile_DuplicateUsername(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	user1 := testutil.TestUser(t, ctx.DB, testutil.WithUsername("existinguser"))
	user2 := testutil.TestUser(t, ctx.DB, testutil.WithUsername("anotheruser"))

	router := gin.New()
	router.Use(mockAuth(user2.ID))
	router.PUT("/profile", handler.UpdateProfile)

	// Try to use existing username
	duplicateName := user1.Username
	reqBody := dto.UpdateProfileRequest{
		Username: &duplicateName,
	}

	jsonBytes, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("PUT", "/profile", bytes.NewBuffer(jsonBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestUserHandler_UpdateProfile_InvalidRequest(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.PUT("/profile", handler.UpdateProfile)

	// Invalid JSON
	req := httptest.NewRequest("PUT", "/profile", bytes.NewBufferString("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestUserHandler_UploadAvatar_NoFile(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/avatar", handler.UploadAvatar)

	req := httptest.NewRequest("POST", "/avatar", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestUserHandler_GetQuota(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB, testutil.WithQuotaUsed(1))

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.GET("/quota", handler.GetQuota)

	req := httptest.NewRequest("GET", "/quota", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "free", data["plan"])
	assert.Equal(t, float64(2), data["daily_limit"])
	assert.Equal(t, float64(1), data["daily_used"])
	assert.Equal(t, float64(1), data["daily_remain"])
}

func TestUserHandler_CreateAndListAPIKeys(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/api-keys", handler.CreateAPIKey)
	router.GET("/api-keys", handler.ListAPIKeys)

	w := performRequest(router, "POST", "/api-keys", dto.CreateAPIKeyRequest{Name: "ci"})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	key, ok := data["key"].(string)
	require.True(t, ok)
	assert.Contains(t, key, "ctx8_")

	// 列表不回明文
	w = performRequest(router, "GET", "/api-keys", nil)
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	items, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "ci", item["name"])
	_, hasPlaintext := item["key"]
	assert.False(t, hasPlaintext)
}

func TestUserHandler_RevokeAPIKey(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/api-keys", handler.CreateAPIKey)
	router.DELETE("/api-keys/:id", handler.RevokeAPIKey)

	w := performRequest(router, "POST", "/api-keys", dto.CreateAPIKeyRequest{})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	info := data["info"].(map[string]interface{})
	keyID := int64(info["id"].(float64))

	w = performRequest(router, "DELETE", "/api-keys/"+strconv.FormatInt(keyID, 10), nil)
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	// 再删一次应该 404
	w = performRequest(router, "DELETE", "/api-keys/"+strconv.FormatInt(keyID, 10), nil)
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestUserHandler_RevokeAPIKey_InvalidID(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.DELETE("/api-keys/:id", handler.RevokeAPIKey)

	w := performRequest(router, "DELETE", "/api-keys/not-a-number", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}
