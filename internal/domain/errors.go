package domain

import "github.com/pkg/errors"

// Sentinel failures raised by the engine for expected conditions. Everything
// else propagates unmodified and surfaces as an internal error at the API.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// NotFoundf wraps ErrNotFound with the missing entity and identity so the
// message survives translation at the request surface.
func NotFoundf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}

// Conflictf wraps ErrConflict with the violated uniqueness constraint.
func Conflictf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConflict, format, args...)
}

// IsNotFound reports whether err is a not-found domain failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a uniqueness-conflict domain failure.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
