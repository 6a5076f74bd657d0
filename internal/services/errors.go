package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration         = errors.New("configuration error")
	ErrSourceUnreadable      = errors.New("source unreadable")
	ErrArchiveUnreadable     = errors.New("archive unreadable")
	ErrDestinationUnwritable = errors.New("destination unwritable")
	ErrExternalTool          = errors.New("external tool error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsCatalogFatal reports whether err ends the current catalog but should let
// the run continue with the next one.
func IsCatalogFatal(err error) bool {
	return errors.Is(err, ErrSourceUnreadable) || errors.Is(err, ErrDestinationUnwritable)
}

// IsRunFatal reports whether err must abort the whole run.
func IsRunFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
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
