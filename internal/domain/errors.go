package domain

import (
	"errors"
	"fmt"
)

// ErrorKind tags a business-rule failure. The HTTP layer translates kinds
// to status codes in one place instead of matching error strings.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotAuthorized
	KindNotFound
	KindOwnershipMismatch
	KindInvalidTimeRange
	KindNotAvailable
	KindAlreadyDecided
	KindBookedByOwner
	KindNotBookedYet
	KindEmptyField
	KindDuplicateEmail
	KindInvalidPageParams
	KindInvalidApproveParam
)

// Error is a tagged domain error.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// E builds a tagged error with a formatted message.
func E(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain. Untagged errors map to KindUnknown.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
