package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Internal error taxonomy for the authentication core. Several variants
// deliberately collapse to one external message at the controller boundary
// so that clients cannot distinguish their internal causes.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSecondFactorRequired = errors.New("second factor required")
	ErrInvalidSecondFactor  = errors.New("invalid second factor code")
	ErrInvalidSession       = errors.New("invalid or expired session")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
)

// AccountLockedError reports a lockout in effect. Unlike the generic
// credential failure it carries detail: a lock is only reachable after the
// email already matched, so revealing the unlock time aids legitimate users
// without enabling enumeration.
type AccountLockedError struct {
	UnlockAt         time.Time
	RemainingMinutes int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked until %s (%d minutes remaining)",
		e.UnlockAt.Format(time.RFC3339), e.RemainingMinutes)
}

// ValidationError carries an enumerable list of input-shape violations.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}
