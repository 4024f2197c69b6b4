package core

import (
	"errors"
	"fmt"
)

// Kind is the error taxonomy from the Ark core design. Callers should use
// errors.Is / errors.As against a Kind or an *Error rather than matching on
// message text.
type Kind int

const (
	// KindUnspecified is never returned; it guards against zero-value Errors.
	KindUnspecified Kind = iota
	KindBadEncoding
	KindNotFound
	KindAlreadyExists
	KindImmutable
	KindRetired
	KindWrongRecipient
	KindCryptoFailure
	KindAuthorityMismatch
	KindManifestMismatch
	KindNetworkError
	KindInvariantViolation
)

func (k Kind) String() string {
	switch k {
	case KindBadEncoding:
		return "bad encoding"
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	case KindImmutable:
		return "immutable"
	case KindRetired:
		return "retired"
	case KindWrongRecipient:
		return "wrong recipient"
	case KindCryptoFailure:
		return "crypto failure"
	case KindAuthorityMismatch:
		return "authority mismatch"
	case KindManifestMismatch:
		return "manifest mismatch"
	case KindNetworkError:
		return "network error"
	case KindInvariantViolation:
		return "invariant violation"
	default:
		return "unspecified"
	}
}

// Error pairs a taxonomy Kind with a human-readable message and an optional
// wrapped cause, so that both errors.Is(err, &Error{Kind: X}) (via the Is
// method below, which matches on Kind alone; IsKind wraps this) and
// conventional %w chains work.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, &Error{Kind: KindNotFound}) match on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError constructs a taxonomy error, optionally wrapping a cause.
func NewError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// IsKind reports whether err (or anything it wraps) carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return errors.Is(err, &Error{Kind: kind})
}

// Sentinel instances for errors.Is comparisons that don't need a message.
var (
	ErrBadEncoding        = &Error{Kind: KindBadEncoding, Msg: "bad encoding"}
	ErrNotFound           = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrAlreadyExists      = &Error{Kind: KindAlreadyExists, Msg: "already exists"}
	ErrImmutable          = &Error{Kind: KindImmutable, Msg: "immutable"}
	ErrRetired            = &Error{Kind: KindRetired, Msg: "retired"}
	ErrWrongRecipient     = &Error{Kind: KindWrongRecipient, Msg: "no matching key"}
	ErrCryptoFailure      = &Error{Kind: KindCryptoFailure, Msg: "decryption failed"}
	ErrAuthorityMismatch  = &Error{Kind: KindAuthorityMismatch, Msg: "authority mismatch"}
	ErrManifestMismatch   = &Error{Kind: KindManifestMismatch, Msg: "manifest mismatch"}
	ErrInvariantViolation = &Error{Kind: KindInvariantViolation, Msg: "invariant violation"}
)
