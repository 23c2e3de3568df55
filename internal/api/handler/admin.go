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

type AdminHandler struct {
	paymentService *service.PaymentService
}

func NewAdminHandler(paymentService *service.PaymentService) *AdminHandler {
	return &AdminHandler{
		paymentService: paymentService,
	}
}

// ListPending 待审核列表（附提交者邮箱），老的在前
// GET /api/v1/admin/payments/pending
func (h *AdminHandler) ListPending(c *gin.Context) {
	items, err := h.paymentService.ListPending()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// PendingCount 待审核数量，供管理端角标轮询
// GET /api/v1/admin/payments/pending/count
func (h *AdminHandler) PendingCount(c *gin.Context) {
	count, err := h.paymentService.CountPending()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, &dto.PendingCountResponse{Count: count})
}

// Verify 审核一笔提交（verified / rejected）
// POST /api/v1/admin/payments/:id/verify
func (h *AdminHandler) Verify(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid payment id")
		return
	}

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.paymentService.Review(paymentID, adminID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrAlreadyProcessed):
			response.ConflictError(c, err.Error())
		case errors.Is(err, service.ErrNotAdmin):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrNotesRequired), errors.Is(err, service.ErrInvalidAction):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "payment "+req.Action, nil)
}
