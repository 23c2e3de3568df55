package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/context8/context8-server/internal/api/middleware"
	"github.com/context8/context8-server/internal/model/dto"
	"github.com/context8/context8-server/internal/pkg/response"
	"github.com/context8/context8-server/internal/service"
)

type UserHandler struct {
	userService   *service.UserService
	quotaService  *service.QuotaService
	apiKeyService *service.APIKeyService
}

func NewUserHandler(userService *service.UserService, quotaService *service.QuotaService, apiKeyService *service.APIKeyService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		quotaService:  quotaService,
		apiKeyService: apiKeyService,
	}
}

// GetProfile 获取当前用户信息
// GET /api/v1/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, profile)
}

// UpdateProfile 更新用户信息
// PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	profile, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameExists) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "profile updated", profile)
}

// UploadAvatar 上传头像
// POST /api/v1/user/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "file is required")
		return
	}

	// 文件大小上限 5MB
	if file.Size > 5*1024*1024 {
		response.ParamError(c, "file must be under 5MB")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		response.ParamError(c, "only jpg/png/webp allowed")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.ServerError(c, "failed to read file")
		return
	}
	defer f.Close()

	avatarURL, err := h.userService.UploadAvatar(userID, f, file.Filename)
	if err != nil {
		response.ServerError(c, "upload failed")
		return
	}

	response.SuccessWithMessage(c, "avatar updated", gin.H{
		"avatar_url": avatarURL,
	})
}

// GetQuota 获取当日配额
// GET /api/v1/user/quota
func (h *UserHandler) GetQuota(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.quotaService.GetQuotaInfo(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// ListAPIKeys 列出自己的 API key（不含明文）
// GET /api/v1/user/api-keys
func (h *UserHandler) ListAPIKeys(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	keys, err := h.apiKeyService.List(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, keys)
}

// CreateAPIKey 生成新的 API key，明文只在响应里出现一次
// POST /api/v1/user/api-keys
func (h *UserHandler) CreateAPIKey(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.apiKeyService.Create(userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrTooManyKeys) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "store this key now, it will not be shown again", resp)
}

// RevokeAPIKey 吊销 API key
// DELETE /api/v1/user/api-keys/:id
func (h *UserHandler) RevokeAPIKey(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	keyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid api key id")
		return
	}

	if err := h.apiKeyService.Revoke(keyID, userID); err != nil {
		if errors.Is(err, service.ErrAPIKeyNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "api key revoked", nil)
}
