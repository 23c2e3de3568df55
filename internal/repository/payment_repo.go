package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/context8/context8-server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(payment *model.PaymentSubmission) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByID(id int64) (*model.PaymentSubmission, error) {
	var payment model.PaymentSubmission
	err := r.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ExistsByTxHash 检查交易哈希是否已被提交过
func (r *PaymentRepository) ExistsByTxHash(txHash string) (bool, error) {
	var count int64
	err := r.db.Model(&model.PaymentSubmission{}).Where("tx_hash = ?", txHash).Count(&count).Error
	return count > 0, err
}

// ListByUser 按提交时间倒序返回用户的全部支付记录
func (r *PaymentRepository) ListByUser(userID int64) ([]*model.PaymentSubmission, error) {
	var payments []*model.PaymentSubmission
	err := r.db.Where("user_id = ?", userID).
		Order("submitted_at DESC").Find(&payments).Error
	return payments, err
}

// PendingWithUser 待审核记录连同提交人信息
type PendingWithUser struct {
	model.PaymentSubmission
	UserEmail    string `json:"user_email"`
	UserUsername string `json:"user_username"`
}

// ListPendingWithUser 按提交时间正序返回待审核记录（先到先审）
func (r *PaymentRepository) ListPendingWithUser() ([]*PendingWithUser, error) {
	var results []*PendingWithUser
	err := r.db.Model(&model.PaymentSubmission{}).
		Select("payment_submissions.*, users.email AS user_email, users.username AS user_username").
		Joins("JOIN users ON users.id = payment_submissions.user_id").
		Where("payment_submissions.status = ?", model.PaymentPending).
		Order("payment_submissions.submitted_at ASC").
		Scan(&results).Error
	return results, err
}

func (r *PaymentRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&model.PaymentSubmission{}).
		Where("status = ?", model.PaymentPending).Count(&count).Error
	return count, err
}

// UpdateStatusIfPending 条件更新：仅当记录仍为 pending 时写入终态。
// 返回实际影响的行数，0 表示已被其他管理员处理。
func (r *PaymentRepository) UpdateStatusIfPending(id int64, status string, verifiedBy int64, notes *string) (int64, error) {
	now := time.Now()
	result := r.db.Model(&model.PaymentSubmission{}).
		Where("id = ? AND status = ?", id, model.PaymentPending).
		Updates(map[string]interface{}{
			"status":             status,
			"verified_at":        now,
			"verified_by":        verifiedBy,
			"verification_notes": notes,
		})
	return result.RowsAffected, result.Error
}

// IsDuplicateKeyError 判断是否为唯一索引冲突（MySQL 1062 / SQLite UNIQUE）
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed")
}
