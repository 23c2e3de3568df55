package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Coin 行情快照，字段对齐 CoinGecko /coins/markets
type Coin struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	MarketCapRank            int     `json:"market_cap_rank"`
	TotalVolume              float64 `json:"total_volume"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// TopCoins 按市值拉取前 n 个币种的行情
func (c *Client) TopCoins(ctx context.Context, vsCurrency string, n int) ([]Coin, error) {
	q := url.Values{}
	q.Set("vs_currency", vsCurrency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", fmt.Sprintf("%d", n))
	q.Set("page", "1")

	endpoint := fmt.Sprintf("%s/coins/markets?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market api returned status %d", resp.StatusCode)
	}

	var coins []Coin
	if err := json.NewDecoder(resp.Body).Decode(&listEnvelope{out: &coins}); err != nil {
		return nil, fmt.Errorf("decode market response: %w", err)
	}
	return coins, nil
}

// listEnvelope 兼容多种上游响应包裹格式：
// 裸数组、{"data": [...]}、{"items": [...]}、{"results": [...]}、{"payload": {"data": [...]}}
type listEnvelope struct {
	out *[]Coin
}

func (e *listEnvelope) UnmarshalJSON(data []byte) error {
	// 先尝试裸数组
	if err := json.Unmarshal(data, e.out); err == nil {
		return nil
	}

	var wrapper struct {
		Data    json.RawMessage `json:"data"`
		Items   json.RawMessage `json:"items"`
		Results json.RawMessage `json:"results"`
		Payload struct {
			Data json.RawMessage `json:"data"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}

	for _, raw := range []json.RawMessage{wrapper.Data, wrapper.Items, wrapper.Results, wrapper.Payload.Data} {
		if len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, e.out); err == nil {
			return nil
		}
	}
	return fmt.Errorf("unrecognized list response format")
}
