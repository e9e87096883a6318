package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceUnavailable marks a backend that could not be reached or
	// answered with a server error. Per-source; it does not necessarily
	// abort a run.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrConfiguration marks problems that must stop the run before any
	// fetch happens.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a backend record that no longer exists.
	ErrNotFound = errors.New("not found")
	// ErrTimeout marks a fetch that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrTransient marks failures worth retrying on a later run.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes source context while
// tagging it with the provided marker for later classification. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, source, operation, message string, err error) error {
	detail := buildDetail(source, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether the error must abort the run regardless of
// degraded-mode settings.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(source, operation, message string) string {
	parts := make([]string, 0, 3)
	if source = strings.TrimSpace(source); source != "" {
		parts = append(parts, source)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
