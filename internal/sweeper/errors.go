package sweeper

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrLocked        = errors.New("another sweep in progress")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes action context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, action, operation, message string, err error) error {
	detail := buildDetail(action, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(action, operation, message string) string {
	parts := make([]string, 0, 3)
	if action = strings.TrimSpace(action); action != "" {
		parts = append(parts, action)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "sweep failure"
	}
	return strings.Join(parts, ": ")
}
