package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *GormUserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecordFailedLogin runs the counter increment and the lock write inside
// one transaction. The UPDATE ... RETURNING takes the row lock, so
// concurrent wrong-password attempts serialize: each sees an exact
// post-increment count and commits its lock expiry in the same order,
// which keeps a slower attempt from overwriting a longer lock with a
// shorter one.
func (r *GormUserRepository) RecordFailedLogin(id uuid.UUID, now time.Time, lockFor func(attempts int) time.Duration) (int, *time.Time, error) {
	var attempts int
	var lockedUntil *time.Time
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(
			"UPDATE users SET failed_logins = failed_logins + 1 WHERE id = ? RETURNING failed_logins",
			id,
		).Scan(&attempts).Error; err != nil {
			return err
		}
		if d := lockFor(attempts); d > 0 {
			until := now.Add(d)
			if err := tx.Model(&models.User{}).
				Where("id = ?", id).
				Update("lock_until", until).Error; err != nil {
				return err
			}
			lockedUntil = &until
		}
		return nil
	})
	if err != nil {
		return 0, nil, fmt.Errorf("record failed login: %w", err)
	}
	return attempts, lockedUntil, nil
}

func (r *GormUserRepository) ResetLoginState(id uuid.UUID) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"failed_logins": 0,
			"lock_until":    nil,
		}).Error
}

func (r *GormUserRepository) UpdatePasswordHash(id uuid.UUID, hash string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}
