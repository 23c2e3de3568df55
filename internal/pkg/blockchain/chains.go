package blockchain

import (
	"fmt"
)

// Explorer 区块浏览器配置
type Explorer struct {
	Name    string
	BaseURL string
}

// 各链对应的区块浏览器
var explorers = map[string]Explorer{
	"ethereum": {Name: "Etherscan", BaseURL: "https://etherscan.io"},
	"polygon":  {Name: "Polygonscan", BaseURL: "https://polygonscan.com"},
	"bsc":      {Name: "BSCScan", BaseURL: "https://bscscan.com"},
}

var displayNames = map[string]string{
	"ethereum": "Ethereum",
	"polygon":  "Polygon",
	"bsc":      "Binance Smart Chain (BSC)",
}

// 链上手续费的大致区间，支付弹窗展示用
var gasEstimates = map[string]string{
	"ethereum": "$5-15",
	"polygon":  "$0.01-0.10",
	"bsc":      "$0.10-0.50",
}

// IsSupportedChain 是否为支持的链
func IsSupportedChain(chain string) bool {
	_, ok := explorers[chain]
	return ok
}

// ExplorerName 区块浏览器名称，未知链返回空串
func ExplorerName(chain string) string {
	return explorers[chain].Name
}

// ExplorerTxURL 交易详情页地址
func ExplorerTxURL(chain, txHash string) string {
	e, ok := explorers[chain]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", e.BaseURL, txHash)
}

// ExplorerAddressURL 地址详情页地址
func ExplorerAddressURL(chain, address string) string {
	e, ok := explorers[chain]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s/address/%s", e.BaseURL, address)
}

// DisplayName 链的展示名
func DisplayName(chain string) string {
	if name, ok := displayNames[chain]; ok {
		return name
	}
	return chain
}

// GasEstimate 链上手续费区间提示
func GasEstimate(chain string) string {
	return gasEstimates[chain]
}
