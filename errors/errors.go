// Package errors provides error handling for classgen.
//
// It re-exports github.com/cockroachdb/errors so that every package wraps
// errors with stack traces and attaches user-facing hints the same way:
//
//	if err := load(); err != nil {
//	    return errors.Wrap(err, "failed to load descriptors")
//	}
//
//	return errors.WithHint(err, "use one of LR, RL, TB, BT")
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New         = crdb.New
	Newf        = crdb.Newf
	Wrap        = crdb.Wrap
	Wrapf       = crdb.Wrapf
	WithStack   = crdb.WithStack
	WithMessage = crdb.WithMessage
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is           = crdb.Is
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Sentinel errors. Wrap these with errors.Wrap() to add context while
// preserving the type for errors.Is().
var (
	// ErrInvalidDirection indicates a diagram direction outside LR, RL, TB, BT
	ErrInvalidDirection = New("invalid direction")

	// ErrInvalidInput indicates the input could not be turned into class descriptors
	ErrInvalidInput = New("invalid input")

	// ErrNoClasses indicates the input contained no classes to render
	ErrNoClasses = New("no classes found")
)

// IsConfigError reports whether err is a configuration error that must be
// reported before any output is produced.
func IsConfigError(err error) bool {
	return err != nil && (Is(err, ErrInvalidDirection) || Is(err, ErrInvalidInput))
}

// NewInvalidInputError creates an invalid-input error with a formatted message
func NewInvalidInputError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidInput, Newf(format, args...).Error())
}
