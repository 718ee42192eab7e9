// Package apperror defines the error taxonomy surfaced to API callers:
// validation failures, missing records, lifecycle gate rejections, store
// constraint conflicts, and internal errors. Handlers map each kind to an
// HTTP status; anything unclassified is reported as internal without leaking
// detail.
package apperror

import (
	"errors"
	"fmt"

	"github.com/formulab/batchcalc/internal/model"
)

// Kind discriminates error categories for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindProductionNotAllowed
	KindConflict
)

// Error is a classified application error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error

	// Set only for KindProductionNotAllowed.
	CurrentStatus model.FormulationStatus
	Allowed       []model.FormulationStatus
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validationf creates a validation error from a format string.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf creates a not-found error from a format string.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Conflictf creates a conflict error from a format string.
func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// ProductionNotAllowed creates the lifecycle gate rejection, carrying the
// formulation's current status and the statuses that permit production.
func ProductionNotAllowed(current model.FormulationStatus, allowed []model.FormulationStatus) *Error {
	return &Error{
		Kind:          KindProductionNotAllowed,
		Msg:           fmt.Sprintf("cannot create batch for %s formulation", current),
		CurrentStatus: current,
		Allowed:       allowed,
	}
}

// KindOf extracts the classification of err, or KindInternal when err carries
// no *Error in its chain.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is classified as not-found.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsValidation reports whether err is classified as a validation failure.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
