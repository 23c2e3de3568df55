package handler

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/context8/context8-server/internal/model/dto"
	"github.com/context8/context8-server/internal/pkg/oauth"
	"github.com/context8/context8-server/internal/pkg/response"
	"github.com/context8/context8-server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	stateStore  *oauth.StateStore
}

func NewAuthHandler(authService *service.AuthService, stateStore *oauth.StateStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		stateStore:  stateStore,
	}
}

// Register 用户注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUsernameExists):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "registered, please check your inbox", resp)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.AuthError(c, err.Error())
		case errors.Is(err, service.ErrEmailNotVerified):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "login ok", resp)
}

// VerifyEmail 验证邮箱
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.VerifyEmail(req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidVerifyCode):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "email verified", resp)
}

// GoogleLogin 跳转到 Google 授权页
// GET /api/v1/auth/google?redirect=<前端回跳地址>
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	redirectURI := c.Query("redirect")

	state, err := h.stateStore.GenerateState(c.Request.Context(), redirectURI)
	if err != nil {
		response.ServerError(c, "failed to start oauth flow")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.authService.GetGoogleAuthURL(state))
}

// GoogleCallback Google 授权回调
// GET /api/v1/auth/google/callback?state=xxx&code=xxx
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		response.ParamError(c, "missing state or code")
		return
	}

	redirectURI, err := h.stateStore.ValidateState(c.Request.Context(), state)
	if err != nil {
		response.AuthError(c, "invalid oauth state")
		return
	}

	resp, err := h.authService.GoogleCallback(c.Request.Context(), code)
	if err != nil {
		log.Printf("Google OAuth callback failed: %v", err)
		response.ServerError(c, "oauth login failed")
		return
	}

	// 前端给了回跳地址就带 token 跳回去，否则直接返回 JSON
	if redirectURI != "" {
		c.Redirect(http.StatusTemporaryRedirect, redirectURI+"?token="+url.QueryEscape(resp.Token))
		return
	}

	response.SuccessWithMessage(c, "login ok", resp)
}
