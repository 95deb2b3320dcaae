package services

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"log"
	"time"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/config"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/models"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/repositories"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

type AuthService struct {
	userRepo repositories.UserRepository
	hasher   *PasswordHasher
	cfg      *config.Config
}

// TOTPEnrollment is surfaced exactly once, at enrollment time, so the
// account owner can scan the QR code or back up the raw secret.
type TOTPEnrollment struct {
	Secret          string
	ProvisioningURI string
	QRCode          string
}

func NewAuthService(userRepo repositories.UserRepository, hasher *PasswordHasher, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		cfg:      cfg,
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      models.UserRole
}

// Register creates an account and assigns its TOTP secret immediately.
func (s *AuthService) Register(input RegisterInput) (*models.User, *TOTPEnrollment, error) {
	var messages []string
	if input.FirstName == "" {
		messages = append(messages, "Please provide a first name.")
	}
	if input.LastName == "" {
		messages = append(messages, "Please provide a last name.")
	}
	if input.Email == "" {
		messages = append(messages, "Please provide an email address.")
	}
	if err := ValidatePasswordLength(input.Password); err != nil {
		messages = append(messages, err.Errors...)
	}
	if input.Role != models.RoleTeacher && input.Role != models.RoleStudent {
		messages = append(messages, "Role must be either 'teacher' or 'student'.")
	}
	if len(messages) > 0 {
		return nil, nil, &ValidationError{Errors: messages}
	}

	exists, err := s.userRepo.ExistsByEmail(input.Email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, &ValidationError{Errors: []string{
			"The email address you entered already exists.",
		}}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, err
	}

	key, err := s.generateTOTPKey(input.Email)
	if err != nil {
		return nil, nil, err
	}
	secret := key.Secret()

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Role:         input.Role,
		PasswordHash: hash,
		TOTPSecret:   &secret,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, err
	}

	enrollment, err := renderEnrollment(key)
	if err != nil {
		return nil, nil, err
	}
	return user, enrollment, nil
}

// Login performs the primary-credential check with progressive lockout.
// Returns the account and whether a second factor is still required.
//
// The lock check runs before any hashing work: a locked account performs no
// password verification and mutates no counters, so repeated attempts
// (correct password included) cannot shorten the lock.
func (s *AuthService) Login(email, password string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		// Same outcome as a wrong password so the response does not reveal
		// whether the email exists.
		return nil, false, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if user.LockUntil != nil && user.LockUntil.After(now) {
		return nil, false, &AccountLockedError{
			UnlockAt:         *user.LockUntil,
			RemainingMinutes: remainingMinutes(user.LockUntil.Sub(now)),
		}
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		if err := s.recordFailedLogin(user, now); err != nil {
			return nil, false, err
		}
		return nil, false, ErrInvalidCredentials
	}

	// Success clears the lockout state unconditionally.
	if err := s.userRepo.ResetLoginState(user.ID); err != nil {
		return nil, false, err
	}
	user.FailedLogins = 0
	user.LockUntil = nil

	return user, user.TOTPEnrolled(), nil
}

// recordFailedLogin persists the failure before the caller responds. The
// counter increment and the lock write commit together; the repository
// derives the lock duration from the post-increment count via the policy
// table.
func (s *AuthService) recordFailedLogin(user *models.User, now time.Time) error {
	attempts, lockedUntil, err := s.userRepo.RecordFailedLogin(user.ID, now, LockoutDuration)
	if err != nil {
		return err
	}
	if lockedUntil != nil {
		log.Printf("account %s locked until %s after %d failed attempts",
			user.Email, lockedUntil.Format(time.RFC3339), attempts)
	}
	return nil
}

// CompleteLogin is the second step of the login flow and always demands a
// valid TOTP code. Accounts without an enrolled secret never reach this
// step (Login issues their session directly), so an unenrolled account here
// is rejected like any other bad credential: the endpoint is public and a
// user id alone must never yield a session. Failed codes are never counted
// toward the primary lockout counter.
func (s *AuthService) CompleteLogin(userID uuid.UUID, code string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.TOTPEnrolled() {
		return nil, ErrInvalidCredentials
	}

	if code == "" {
		return nil, ErrSecondFactorRequired
	}
	if !s.ValidateTOTP(*user.TOTPSecret, code) {
		return nil, ErrInvalidSecondFactor
	}

	return user, nil
}

// EnrollTOTP replaces the account's secret with a fresh one. The previous
// secret stops working immediately; the new one has no expiry.
func (s *AuthService) EnrollTOTP(userID uuid.UUID) (*TOTPEnrollment, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	key, err := s.generateTOTPKey(user.Email)
	if err != nil {
		return nil, err
	}

	secret := key.Secret()
	user.TOTPSecret = &secret
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return renderEnrollment(key)
}

// VerifyCode checks a code against the account's stored secret without
// issuing a session. Used by the standalone verification endpoint.
func (s *AuthService) VerifyCode(userID uuid.UUID, code string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil || !user.TOTPEnrolled() {
		return ErrInvalidCredentials
	}
	if !s.ValidateTOTP(*user.TOTPSecret, code) {
		return ErrInvalidSecondFactor
	}
	return nil
}

type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// ChangePassword rehashes after re-verifying the current password.
func (s *AuthService) ChangePassword(userID uuid.UUID, input ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}

	if !s.hasher.Verify(input.OldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if err := ValidatePasswordLength(input.NewPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePasswordHash(user.ID, hash)
}

// UpdateProfile persists non-credential profile fields.
func (s *AuthService) UpdateProfile(user *models.User) error {
	return s.userRepo.Update(user)
}

// ValidateTOTP accepts codes from the current 30-second step and one step
// on either side to absorb clock skew.
func (s *AuthService) ValidateTOTP(secret, code string) bool {
	valid, err := totp.ValidateCustom(
		code,
		secret,
		time.Now(),
		totp.ValidateOpts{
			Period:    s.cfg.TOTP.Period,
			Skew:      1,
			Digits:    totpDigits(s.cfg.TOTP.Digits),
			Algorithm: otp.AlgorithmSHA1,
		},
	)
	if err != nil {
		return false
	}
	return valid
}

func (s *AuthService) generateTOTPKey(email string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      s.cfg.TOTP.Issuer,
		AccountName: email,
		Period:      s.cfg.TOTP.Period,
		Digits:      totpDigits(s.cfg.TOTP.Digits),
	})
}

func renderEnrollment(key *otp.Key) (*TOTPEnrollment, error) {
	img, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, err
	}

	return &TOTPEnrollment{
		Secret:          key.Secret(),
		ProvisioningURI: key.URL(),
		QRCode:          "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBuf.Bytes()),
	}, nil
}

// remainingMinutes rounds the remaining lock time up to whole minutes.
func remainingMinutes(remaining time.Duration) int {
	return int((remaining.Milliseconds() + 59999) / 60000)
}

func totpDigits(d uint) otp.Digits {
	switch d {
	case 8:
		return otp.DigitsEight
	default:
		return otp.DigitsSix
	}
}
