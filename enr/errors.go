package enr

import "errors"

// Kind is a stable category for programmatic error handling.
//
// These categories are intended to remain stable across versions. Callers
// should branch on Kind/RuleID rather than matching error strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	KindDecode   Kind = "Decode"
	KindBuild    Kind = "Build"
	KindMutate   Kind = "Mutate"
	KindInternal Kind = "Internal"
)

// Rule identifiers name the violated invariant. They are stable; branch on
// these, never on message text.
const (
	// Decode rules.
	RuleMalformed         = "ENR-DEC-001"
	RuleInvalidOrdering   = "ENR-DEC-002"
	RuleDuplicateKey      = "ENR-DEC-003"
	RuleTooLarge          = "ENR-DEC-004"
	RuleUnsupportedScheme = "ENR-DEC-005"
	RuleMissingPublicKey  = "ENR-DEC-006"
	RuleInvalidSignature  = "ENR-DEC-007"

	// Build rules.
	RuleExceedsMaximumSize = "ENR-BLD-001"
	RuleReservedKey        = "ENR-BLD-002"
	RuleSchemeMismatch     = "ENR-BLD-003"

	// Mutation rules.
	RuleSigningKeyMismatch = "ENR-MUT-001"
	RuleMutationTooLarge   = "ENR-MUT-002"
	RuleInvalidValue       = "ENR-MUT-003"
)

// Error is the library's structured error type.
//
// RuleID is a stable identifier (e.g., ENR-DEC-002, ENR-BLD-002) that names
// the violated invariant. Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
