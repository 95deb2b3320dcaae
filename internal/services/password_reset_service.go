package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/mailer"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/models"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/repositories"
)

const resetTokenBytes = 20

type PasswordResetService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.ResetTokenRepository
	hasher    *PasswordHasher
	mailer    mailer.Mailer
	baseURL   string
	tokenTTL  time.Duration
}

func NewPasswordResetService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.ResetTokenRepository,
	hasher *PasswordHasher,
	m mailer.Mailer,
	baseURL string,
	tokenTTL time.Duration,
) *PasswordResetService {
	if tokenTTL <= 0 {
		tokenTTL = 15 * time.Minute
	}
	return &PasswordResetService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		hasher:    hasher,
		mailer:    m,
		baseURL:   baseURL,
		tokenTTL:  tokenTTL,
	}
}

// Request starts the forgot-password flow. The caller observes the same
// outcome whether or not the email matches an account, and whether or not
// the mail could be delivered.
func (s *PasswordResetService) Request(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	record := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.tokenTTL),
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	if err := s.mailer.SendResetLink(email, link); err != nil {
		// Delivery is fire-and-forget: the token is already persisted and
		// the response must not reveal the failure.
		log.Printf("failed to send reset link to %s: %v", email, err)
	}
	return nil
}

// Redeem consumes a token and sets the new password. The used flag is
// claimed first with a guarded update, so a token can be redeemed at most
// once even under concurrent attempts.
func (s *PasswordResetService) Redeem(token, newPassword string) error {
	if err := ValidatePasswordLength(newPassword); err != nil {
		return err
	}

	record, err := s.tokenRepo.GetValid(token, time.Now().UTC())
	if err != nil {
		return err
	}
	if record == nil {
		return ErrInvalidResetToken
	}

	consumed, err := s.tokenRepo.MarkUsed(record.ID)
	if err != nil {
		return err
	}
	if !consumed {
		return ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePasswordHash(record.UserID, hash)
}

func generateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
