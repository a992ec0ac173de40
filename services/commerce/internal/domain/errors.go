package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation     = errors.New("validation")        // 400
	ErrNotFound       = errors.New("not found")         // 404
	ErrDuplicateEntry = errors.New("duplicate entry")   // 400
	ErrForbidden      = errors.New("access denied")     // 403
	ErrTransaction    = errors.New("transaction error") // 500
)

// NotFoundError names the missing resource; it matches ErrNotFound. The
// message capitalizes the resource: "Cart items is not found".
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	if e.Resource == "" {
		return "Resource is not found"
	}
	return strings.ToUpper(e.Resource[:1]) + e.Resource[1:] + " is not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Duplicate(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDuplicateEntry, fmt.Sprintf(format, args...))
}

// IsDomain reports whether err carries one of the caller-facing kinds that
// must pass through unchanged.
func IsDomain(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrDuplicateEntry) ||
		errors.Is(err, ErrForbidden)
}
