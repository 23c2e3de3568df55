package handler

import (
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/context8/context8-server/config"
	"github.com/context8/context8-server/internal/api/middleware"
	"github.com/context8/context8-server/internal/model/dto"
	"github.com/context8/context8-server/internal/pkg/blockchain"
	"github.com/context8/context8-server/internal/pkg/response"
	"github.com/context8/context8-server/internal/service"
)

type SubscriptionHandler struct {
	subService *service.SubscriptionService
	cfg        *config.Config
}

func NewSubscriptionHandler(subService *service.SubscriptionService, cfg *config.Config) *SubscriptionHandler {
	return &SubscriptionHandler{
		subService: subService,
		cfg:        cfg,
	}
}

// GetMySubscription 当前订阅及派生状态，无订阅时 subscription 为 null
// GET /api/v1/subscriptions/me
func (h *SubscriptionHandler) GetMySubscription(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.subService.GetMySubscription(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

// GetWallets 支付弹窗所需的静态信息：链、收款地址、浏览器、套餐价格
// GET /api/v1/wallets
func (h *SubscriptionHandler) GetWallets(c *gin.Context) {
	wallets := make([]dto.WalletInfo, 0, len(h.cfg.Wallets))
	for chain, w := range h.cfg.Wallets {
		if !blockchain.IsSupportedChain(chain) {
			continue
		}
		wallets = append(wallets, dto.WalletInfo{
			Chain:        chain,
			DisplayName:  blockchain.DisplayName(chain),
			USDT:         w.USDT,
			USDC:         w.USDC,
			ExplorerName: blockchain.ExplorerName(chain),
			GasEstimate:  blockchain.GasEstimate(chain),
		})
	}
	// map 遍历无序，固定输出顺序
	sort.Slice(wallets, func(i, j int) bool {
		return wallets[i].Chain < wallets[j].Chain
	})

	prices := make(map[string]float64, len(h.cfg.Subscription.Plans))
	for plan, level := range h.cfg.Subscription.Plans {
		prices[plan] = level.Price
	}

	response.Success(c, &dto.WalletsResponse{
		Wallets:    wallets,
		PlanPrices: prices,
	})
}
