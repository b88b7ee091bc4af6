package apperr

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error categories the platform produces.
// Handlers map kinds to HTTP statuses; callers never match on message text.
type Kind int

const (
	Configuration Kind = iota
	Validation
	NotFound
	Upstream
	Persistence
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration"
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Upstream:
		return "upstream"
	case Persistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Reason codes. Stable identifiers for the platform's known failure modes.
const (
	CodeMissingEnvVar            = "missing_env_var"
	CodeMissingOrMalformedCode   = "missing_or_malformed_code"
	CodeMissingBarReference      = "missing_bar_reference"
	CodeOAuthDenied              = "oauth_denied"
	CodeOAuthExchangeFailed      = "oauth_exchange_failed"
	CodeOAuthCredentialMismatch  = "oauth_credential_mismatch"
	CodeBarNotFound              = "bar_not_found"
	CodeBarNotConnected          = "bar_not_connected"
	CodeOrderNotFound            = "order_not_found"
	CodeItemResolutionFailed     = "item_resolution_failed"
	CodeEmptyCart                = "empty_cart"
	CodeInvalidQuantity          = "invalid_quantity"
	CodeInvalidTotal             = "invalid_total"
	CodePreferenceCreationFailed = "preference_creation_failed"
	CodePaymentLookupFailed      = "payment_lookup_failed"
	CodeOrderCreationFailed      = "order_creation_failed"
	CodeOrderUpdateFailed        = "order_update_failed"
	CodeBarUpdateFailed          = "bar_update_failed"
	CodePaymentUpsertFailed      = "payment_upsert_failed"
	CodePersistenceFailed        = "persistence_failed"
)

// Error is a tagged error carrying a category, a stable reason code and a
// human-readable message. Upstream errors keep the processor's own message
// so operators can diagnose credential or redirect-URI mismatches.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// KindOf reports the category of err, or false when err is not a tagged error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// CodeOf reports the reason code of err, or "" for untagged errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is allows errors.Is matching on kind+code pairs.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && (t.Code == "" || e.Code == t.Code)
}
