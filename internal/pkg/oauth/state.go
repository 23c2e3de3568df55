package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// state 一次性有效，10 分钟内未回调即作废
const (
	stateKeyPrefix = "oauth:google:state:"
	stateTTL       = 10 * time.Minute
)

// StateStore Google 登录 state 的 redis 存取。
// state 除了防 CSRF，还捎带前端发起登录时登记的回跳地址，
// 回调成功后携 token 跳回仪表盘。
type StateStore struct {
	rdb *redis.Client
}

func NewStateStore(rdb *redis.Client) *StateStore {
	return &StateStore{rdb: rdb}
}

// StateData state 关联的登录上下文
type StateData struct {
	RedirectURI string    `json:"redirect_uri"`
	IssuedAt    time.Time `json:"issued_at"`
}

// GenerateState 生成随机 state 并登记回跳地址
func (s *StateStore) GenerateState(ctx context.Context, redirectURI string) (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random state: %w", err)
	}
	state := hex.EncodeToString(bytes)

	data, err := json.Marshal(&StateData{
		RedirectURI: redirectURI,
		IssuedAt:    time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal state data: %w", err)
	}

	if err := s.rdb.Set(ctx, stateKeyPrefix+state, data, stateTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	return state, nil
}

// ValidateState 校验并消费 state，返回登记的回跳地址。
// GETDEL 原子取删，同一个 state 只能用一次。
func (s *StateStore) ValidateState(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", fmt.Errorf("empty state parameter")
	}

	val, err := s.rdb.GetDel(ctx, stateKeyPrefix+state).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("invalid or expired state")
	}
	if err != nil {
		return "", fmt.Errorf("failed to get state: %w", err)
	}

	var data StateData
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		// 老格式或被篡改的载荷一律当失效处理
		return "", fmt.Errorf("invalid or expired state")
	}

	return data.RedirectURI, nil
}
