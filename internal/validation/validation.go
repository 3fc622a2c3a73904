// Package validation holds the stateless field checks shared by the services
// and the gateway. Every function is pure: values in, tagged error out.
package validation

import (
	"strings"
	"time"

	"shareit/internal/domain"
)

// BookingTimes checks the rental window. Comparisons are truncated to
// seconds. The start may be "now or later"; an end equal to the start is
// rejected.
func BookingTimes(start, end *time.Time, now time.Time) error {
	if start == nil || end == nil {
		return domain.E(domain.KindInvalidTimeRange, "booking start and end are required")
	}

	s := start.Truncate(time.Second)
	e := end.Truncate(time.Second)
	n := now.Truncate(time.Second)

	if s.Before(n) {
		return domain.E(domain.KindInvalidTimeRange, "booking start cannot be in the past")
	}
	if e.Before(n) {
		return domain.E(domain.KindInvalidTimeRange, "booking end cannot be in the past")
	}
	if !e.After(s) {
		return domain.E(domain.KindInvalidTimeRange, "booking end must be after start")
	}
	return nil
}

// User checks registration fields.
func User(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return domain.E(domain.KindEmptyField, "user name cannot be empty")
	}
	if strings.TrimSpace(email) == "" {
		return domain.E(domain.KindEmptyField, "user email cannot be empty")
	}
	return nil
}

// Item checks listing fields. Available is a pointer so that a missing flag
// is distinguishable from an explicit false.
func Item(name, description string, available *bool) error {
	if strings.TrimSpace(name) == "" {
		return domain.E(domain.KindEmptyField, "item name cannot be empty")
	}
	if strings.TrimSpace(description) == "" {
		return domain.E(domain.KindEmptyField, "item description cannot be empty")
	}
	if available == nil {
		return domain.E(domain.KindEmptyField, "item availability flag is required")
	}
	return nil
}

// CommentText rejects empty comments.
func CommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.E(domain.KindEmptyField, "comment text cannot be empty")
	}
	return nil
}

// RequestDescription rejects empty item requests.
func RequestDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return domain.E(domain.KindEmptyField, "request description cannot be empty")
	}
	return nil
}

// Pagination checks offset/limit query parameters.
func Pagination(from, size int) error {
	if from < 0 {
		return domain.E(domain.KindInvalidPageParams, "from must be >= 0, got %d", from)
	}
	if size <= 0 {
		return domain.E(domain.KindInvalidPageParams, "size must be > 0, got %d", size)
	}
	return nil
}

// Approved checks the booking decision query parameter.
func Approved(value string) error {
	if value != "true" && value != "false" {
		return domain.E(domain.KindInvalidApproveParam, "approved must be true or false, got %q", value)
	}
	return nil
}
