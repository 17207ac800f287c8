package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

// RegistrationStatus is the per-user, per-event attendance state.
type RegistrationStatus string

const (
	RegistrationNone       RegistrationStatus = "not_registered"
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationAttended   RegistrationStatus = "attended"
)

// RegistrationRole is picked by the user at registration time.
type RegistrationRole string

const (
	RoleAttendee  RegistrationRole = "attendee"
	RoleOrganizer RegistrationRole = "organizer"
)

// Valid reports whether r is a known registration role.
func (r RegistrationRole) Valid() bool {
	return r == RoleAttendee || r == RoleOrganizer
}

// WindowState says where a moment falls relative to the check-in window.
type WindowState string

const (
	WindowNotOpen WindowState = "not_open"
	WindowOpen    WindowState = "open"
	WindowClosed  WindowState = "closed"
)

// CheckInOutcome is the non-error result of a check-in attempt.
type CheckInOutcome string

const (
	OutcomeCheckedIn       CheckInOutcome = "checked_in"
	OutcomeAlreadyAttended CheckInOutcome = "already_attended"
	OutcomeNotOpen         CheckInOutcome = "not_open"
	OutcomeWindowClosed    CheckInOutcome = "window_closed"
)

// DefaultCheckInGrace is how long after the event ends check-in stays open.
const DefaultCheckInGrace = 60 * time.Minute

// CheckInWindow is the closed interval [Opens, Closes].
type CheckInWindow struct {
	Opens  time.Time
	Closes time.Time
}

// NewCheckInWindow builds the window [start, end+grace].
func NewCheckInWindow(start, end time.Time, grace time.Duration) CheckInWindow {
	return CheckInWindow{Opens: start, Closes: end.Add(grace)}
}

// State classifies now against the window. Both bounds are inclusive.
func (w CheckInWindow) State(now time.Time) WindowState {
	switch {
	case now.Before(w.Opens):
		return WindowNotOpen
	case now.After(w.Closes):
		return WindowClosed
	default:
		return WindowOpen
	}
}

// CheckInAttempt carries everything needed to decide a check-in.
type CheckInAttempt struct {
	Now           time.Time
	Window        CheckInWindow
	Status        RegistrationStatus
	SubmittedCode string
	EventCode     string
}

// EvaluateCheckIn decides a check-in attempt. The window is checked first so
// out-of-window attempts are reported independent of code correctness.
// A nil error with OutcomeCheckedIn means the registration must move to attended.
func EvaluateCheckIn(a CheckInAttempt) (CheckInOutcome, error) {
	switch a.Window.State(a.Now) {
	case WindowNotOpen:
		return OutcomeNotOpen, nil
	case WindowClosed:
		return OutcomeWindowClosed, nil
	}

	switch a.Status {
	case RegistrationAttended:
		return OutcomeAlreadyAttended, nil
	case RegistrationRegistered:
	default:
		return "", apperrors.ErrNotRegistered
	}

	if !MatchCheckInCode(a.SubmittedCode, a.EventCode) {
		return "", apperrors.ErrInvalidCheckInCode
	}
	return OutcomeCheckedIn, nil
}

// MatchCheckInCode compares codes case-insensitively, ignoring surrounding space.
func MatchCheckInCode(submitted, stored string) bool {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(submitted), stored)
}

// HasCapacity reports whether one more registration fits. A nil max means unlimited.
func HasCapacity(maxAttendees *int, current int) bool {
	if maxAttendees == nil {
		return true
	}
	return current < *maxAttendees
}

// GenerateCheckInCode returns a random six digit code in [100000, 999999].
func GenerateCheckInCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate check-in code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
