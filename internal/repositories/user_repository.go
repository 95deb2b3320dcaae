package repositories

import (
	"time"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/models"
	"github.com/google/uuid"
)

type UserRepository interface {
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	ExistsByEmail(email string) (bool, error)

	// RecordFailedLogin bumps the failed-login counter and, when lockFor
	// maps the post-increment count to a non-zero duration, sets the lock
	// expiry in the same transaction. Concurrent failures against the same
	// row serialize, so a later failure can never lose its increment or
	// shorten a lock written by an earlier one. Returns the post-increment
	// count and the lock expiry, if one was set.
	RecordFailedLogin(id uuid.UUID, now time.Time, lockFor func(attempts int) time.Duration) (int, *time.Time, error)
	ResetLoginState(id uuid.UUID) error
	UpdatePasswordHash(id uuid.UUID, hash string) error
}
