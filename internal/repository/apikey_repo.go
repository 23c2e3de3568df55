package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/context8/context8-server/internal/model"
)

type APIKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(key *model.APIKey) error {
	return r.db.Create(key).Error
}

func (r *APIKeyRepository) GetByHash(keyHash string) (*model.APIKey, error) {
	var key model.APIKey
	err := r.db.Where("key_hash = ? AND is_active = ?", keyHash, true).First(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *APIKeyRepository) ListByUser(userID int64) ([]*model.APIKey, error) {
	var keys []*model.APIKey
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&keys).Error
	return keys, err
}

// Revoke 吊销密钥（只允许本人操作）
func (r *APIKeyRepository) Revoke(id, userID int64) (int64, error) {
	result := r.db.Model(&model.APIKey{}).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

func (r *APIKeyRepository) TouchLastUsed(id int64) error {
	return r.db.Model(&model.APIKey{}).Where("id = ?", id).
		Update("last_used_at", time.Now()).Error
}

func (r *APIKeyRepository) CountActiveByUser(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.APIKey{}).
		Where("user_id = ? AND is_active = ?", userID, true).Count(&count).Error
	return count, err
}
