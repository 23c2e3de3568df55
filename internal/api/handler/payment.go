package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/context8/context8-server/internal/api/middleware"
	"github.com/context8/context8-server/internal/model/dto"
	"github.com/context8/context8-server/internal/pkg/response"
	"github.com/context8/context8-server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Submit 提交转账凭据
// POST /api/v1/payments
func (h *PaymentHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.paymentService.Submit(userID, &req)
	if err != nil {
		var txErr *service.TxHashError
		switch {
		case errors.As(err, &txErr):
			response.ParamError(c, txErr.Message)
		case errors.Is(err, service.ErrDuplicateTxHash):
			response.ConflictError(c, "This transaction hash has already been submitted")
		case errors.Is(err, service.ErrUnsupportedChain), errors.Is(err, service.ErrUnsupportedPlan):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "payment submitted, pending review", resp)
}

// History 自己的提交历史，新的在前
// GET /api/v1/payments
func (h *PaymentHandler) History(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.paymentService.History(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}
