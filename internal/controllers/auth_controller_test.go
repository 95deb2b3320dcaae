package controllers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/config"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/controllers"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/middleware"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/models"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	user   *models.User
	record func(id uuid.UUID, now time.Time, lockFor func(int) time.Duration) (int, *time.Time, error)
}

func (s *stubUserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

func (s *stubUserRepo) GetByEmail(email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, nil
}

func (s *stubUserRepo) Create(user *models.User) error           { return nil }
func (s *stubUserRepo) Update(user *models.User) error           { return nil }
func (s *stubUserRepo) ExistsByEmail(email string) (bool, error) { return false, nil }

func (s *stubUserRepo) RecordFailedLogin(id uuid.UUID, now time.Time, lockFor func(int) time.Duration) (int, *time.Time, error) {
	if s.record == nil {
		return 0, nil, errors.New("not implemented")
	}
	return s.record(id, now, lockFor)
}

func (s *stubUserRepo) ResetLoginState(id uuid.UUID) error                 { return nil }
func (s *stubUserRepo) UpdatePasswordHash(id uuid.UUID, hash string) error { return nil }

func newLoginRouter(repo *stubUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		TOTP: config.TOTPConfig{Issuer: "CourseCatalogTest", Period: 30, Digits: 6},
	}
	hasher := services.NewPasswordHasher(bcrypt.MinCost)
	authService := services.NewAuthService(repo, hasher, cfg)
	tokens := services.NewTokenService("test-secret-key-minimum-32-characters-long", time.Hour)
	ac := controllers.NewAuthController(authService, tokens)

	router := gin.New()
	router.POST("/api/auth/login", ac.Login)
	router.POST("/api/users/login-2fa", ac.LoginTOTP)
	return router
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	res := rec.Result()
	for _, c := range res.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func TestLogin_NoSecondFactor_SetsSessionCookie(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		Role:         models.RoleStudent,
		PasswordHash: mustHash(t, "password123"),
	}
	router := newLoginRouter(&stubUserRepo{user: user})

	body := `{"emailAddress": "user@example.com", "password": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("expected a session cookie")
	}
	if !cookie.HttpOnly {
		t.Errorf("session cookie must be HttpOnly")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("session cookie must be SameSite=Strict")
	}
	if cookie.MaxAge != 3600 {
		t.Errorf("expected 1-hour cookie, got MaxAge=%d", cookie.MaxAge)
	}
}

// An enrolled account gets the intermediate response and no cookie until
// the TOTP step completes.
func TestLogin_EnrolledAccount_NoSessionUntilTOTP(t *testing.T) {
	secret := "JBSWY3DPEHPK3PXP"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		Role:         models.RoleStudent,
		PasswordHash: mustHash(t, "password123"),
		TOTPSecret:   &secret,
	}
	router := newLoginRouter(&stubUserRepo{user: user})

	body := `{"emailAddress": "user@example.com", "password": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "twoFactorRequired") {
		t.Errorf("expected intermediate 2FA response, got %s", rec.Body.String())
	}
	if sessionCookie(rec) != nil {
		t.Errorf("no session may be issued before the second factor")
	}
}

func TestLogin_WrongPassword_GenericMessage(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		Role:         models.RoleStudent,
		PasswordHash: mustHash(t, "password123"),
	}
	repo := &stubUserRepo{
		user: user,
		record: func(id uuid.UUID, now time.Time, lockFor func(int) time.Duration) (int, *time.Time, error) {
			return 1, nil, nil
		},
	}
	router := newLoginRouter(repo)

	wrongPassword := `{"emailAddress": "user@example.com", "password": "wrong-password"}`
	unknownEmail := `{"emailAddress": "nobody@example.com", "password": "password123"}`

	var bodies []string
	for _, body := range []string{wrongPassword, unknownEmail} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
		}
		bodies = append(bodies, rec.Body.String())
	}

	// Bad password and unknown email must be indistinguishable.
	if bodies[0] != bodies[1] {
		t.Errorf("responses differ: %q vs %q", bodies[0], bodies[1])
	}
}

func TestLogin_LockedAccount_ReportsUnlockTime(t *testing.T) {
	until := time.Now().UTC().Add(4*time.Minute + 30*time.Second)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		Role:         models.RoleStudent,
		PasswordHash: mustHash(t, "password123"),
		LockUntil:    &until,
	}
	router := newLoginRouter(&stubUserRepo{user: user})

	body := `{"emailAddress": "user@example.com", "password": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"remainingMinutes":5`) {
		t.Errorf("expected 5 remaining minutes, got %s", rec.Body.String())
	}
}

// The second-step endpoint is unauthenticated and keyed only by user id.
// An account without an enrolled secret finishes its login in the first
// step, so presenting just the id here must never produce a session.
func TestLoginTOTP_UnenrolledAccount_NoSession(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		Role:         models.RoleStudent,
		PasswordHash: mustHash(t, "password123"),
	}
	router := newLoginRouter(&stubUserRepo{user: user})

	for _, body := range []string{
		`{"userId": "` + user.ID.String() + `"}`,
		`{"userId": "` + user.ID.String() + `", "token": "000000"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/users/login-2fa", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
		}
		if sessionCookie(rec) != nil {
			t.Errorf("no session may be issued without an enrolled second factor")
		}
	}
}

func TestLoginTOTP_InvalidCode(t *testing.T) {
	secret := "JBSWY3DPEHPK3PXP"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		Role:         models.RoleStudent,
		PasswordHash: mustHash(t, "password123"),
		TOTPSecret:   &secret,
	}
	router := newLoginRouter(&stubUserRepo{user: user})

	body := `{"userId": "` + user.ID.String() + `", "token": "000000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/login-2fa", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	if sessionCookie(rec) != nil {
		t.Errorf("no session may be issued for an invalid code")
	}
}
