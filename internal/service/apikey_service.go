package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/context8/context8-server/internal/model"
	"github.com/context8/context8-server/internal/model/dto"
	"github.com/context8/context8-server/internal/repository"
)

var (
	ErrAPIKeyNotFound = errors.New("api key not found")
	ErrTooManyKeys    = errors.New("too many active api keys")
)

// 每个用户最多持有的有效密钥数
const maxActiveKeys = 5

// 密钥前缀，方便在日志和面板里识别
const keyPrefix = "ctx8_"

type APIKeyService struct {
	keyRepo *repository.APIKeyRepository
}

func NewAPIKeyService(keyRepo *repository.APIKeyRepository) *APIKeyService {
	return &APIKeyService{keyRepo: keyRepo}
}

// Create 生成新密钥。明文只在响应中出现一次，库里只存 sha256。
func (s *APIKeyService) Create(userID int64, req *dto.CreateAPIKeyRequest) (*dto.CreateAPIKeyResponse, error) {
	count, err := s.keyRepo.CountActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if count >= maxActiveKeys {
		return nil, ErrTooManyKeys
	}

	plaintext := keyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	sum := sha256.Sum256([]byte(plaintext))

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "default"
	}

	key := &model.APIKey{
		UserID:    userID,
		KeyPrefix: plaintext[:12],
		KeyHash:   hex.EncodeToString(sum[:]),
		Name:      name,
		IsActive:  true,
	}
	if err := s.keyRepo.Create(key); err != nil {
		return nil, err
	}

	return &dto.CreateAPIKeyResponse{
		Key:  plaintext,
		Info: toAPIKeyInfo(key),
	}, nil
}

// List 用户的全部密钥（含已吊销，便于审计）
func (s *APIKeyService) List(userID int64) ([]*dto.APIKeyInfo, error) {
	keys, err := s.keyRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	infos := make([]*dto.APIKeyInfo, 0, len(keys))
	for _, k := range keys {
		infos = append(infos, toAPIKeyInfo(k))
	}
	return infos, nil
}

// Revoke 吊销密钥
func (s *APIKeyService) Revoke(keyID, userID int64) error {
	rows, err := s.keyRepo.Revoke(keyID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}

// Authenticate 校验明文密钥，返回所属用户 ID
func (s *APIKeyService) Authenticate(plaintext string) (int64, error) {
	sum := sha256.Sum256([]byte(strings.TrimSpace(plaintext)))
	key, err := s.keyRepo.GetByHash(hex.EncodeToString(sum[:]))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrAPIKeyNotFound
		}
		return 0, err
	}

	// 记录使用时间，失败不影响认证
	_ = s.keyRepo.TouchLastUsed(key.ID)

	return key.UserID, nil
}

func toAPIKeyInfo(k *model.APIKey) *dto.APIKeyInfo {
	info := &dto.APIKeyInfo{
		ID:        k.ID,
		KeyPrefix: k.KeyPrefix,
		Name:      k.Name,
		IsActive:  k.IsActive,
		CreatedAt: k.CreatedAt.Format(time.RFC3339),
	}
	if k.LastUsedAt != nil {
		info.LastUsedAt = k.LastUsedAt.Format(time.RFC3339)
	}
	return info
}
