package repositories

import (
	"time"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResetTokenRepository interface {
	Create(token *models.PasswordResetToken) error
	// GetValid returns the record for token when it is unused and not yet
	// expired at now, or (nil, nil) when no such record exists.
	GetValid(token string, now time.Time) (*models.PasswordResetToken, error)
	// MarkUsed flips the used flag and reports whether this call won the
	// flip. A second caller observes false and must treat the token as spent.
	MarkUsed(id uuid.UUID) (bool, error)
}

type resetTokenRepository struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Create(token *models.PasswordResetToken) error {
	return r.db.Create(token).Error
}

func (r *resetTokenRepository) GetValid(token string, now time.Time) (*models.PasswordResetToken, error) {
	var record models.PasswordResetToken
	err := r.db.
		Where("token = ? AND used = false AND expires_at > ?", token, now).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *resetTokenRepository) MarkUsed(id uuid.UUID) (bool, error) {
	res := r.db.Model(&models.PasswordResetToken{}).
		Where("id = ? AND used = false", id).
		Update("used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
