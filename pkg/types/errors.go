package types

import "fmt"

// Kind is the machine-readable category of an Error. The set is closed:
// generic kinds for lookup, input, and persistence failures, plus one kind
// per game domain for business-rule violations scoped to that domain.
type Kind string

// Generic error kinds.
const (
	KindNotFound      Kind = "not_found"
	KindInvalidInput  Kind = "invalid_input"
	KindValidation    Kind = "validation"
	KindStorage       Kind = "storage"
	KindSerialization Kind = "serialization"
	KindInternal      Kind = "internal"
)

// Domain error kinds.
const (
	KindCampaign  Kind = "campaign"
	KindCharacter Kind = "character"
	KindNpc       Kind = "npc"
	KindCombat    Kind = "combat"
	KindQuest     Kind = "quest"
	KindItem      Kind = "item"
	KindMap       Kind = "map"
	KindAuth      Kind = "auth"
)

// Error is a tagged error carrying a kind and a human-readable message.
// An optional cause is preserved for errors.Unwrap.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error of the same kind. A matcher with an
// empty message (the Err* sentinels below) matches any error of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Category returns the machine-readable category tag for logging and metrics.
func (e *Error) Category() string {
	return string(e.Kind)
}

// Recoverable reports whether the caller may retry with corrected input.
// Lookup misses, corrupt data, internal faults, and authorization failures
// are not recoverable: resubmitting the same request will not help.
func (e *Error) Recoverable() bool {
	switch e.Kind {
	case KindNotFound, KindSerialization, KindInternal, KindAuth:
		return false
	default:
		return true
	}
}

// UserMessage returns user-facing text for the error. Domain and validation
// errors carry their full explanation; infrastructure errors are summarized.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindStorage:
		return "failed to read or write saved data"
	case KindSerialization:
		return "saved data is in an unexpected format"
	case KindInternal:
		return "an internal error occurred"
	case KindAuth:
		return "not authorized"
	default:
		return e.Message
	}
}

// Kind matchers for errors.Is.
var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrInvalidInput  = &Error{Kind: KindInvalidInput}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrStorage       = &Error{Kind: KindStorage}
	ErrSerialization = &Error{Kind: KindSerialization}
	ErrInternal      = &Error{Kind: KindInternal}
	ErrCampaign      = &Error{Kind: KindCampaign}
	ErrCharacter     = &Error{Kind: KindCharacter}
	ErrNpc           = &Error{Kind: KindNpc}
	ErrCombat        = &Error{Kind: KindCombat}
	ErrQuest         = &Error{Kind: KindQuest}
	ErrItem          = &Error{Kind: KindItem}
	ErrMap           = &Error{Kind: KindMap}
	ErrAuth          = &Error{Kind: KindAuth}
)

// NotFound reports that an id-keyed lookup failed.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s with ID '%s' not found", entity, id)}
}

// NotFoundMsg is NotFound with a caller-supplied message.
func NotFoundMsg(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// InvalidInput reports malformed caller input detected before any transaction.
func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// Validation reports a failed field or cross-field check.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// StorageErr wraps a file I/O failure.
func StorageErr(context string, cause error) *Error {
	return &Error{Kind: KindStorage, Message: fmt.Sprintf("%s: %v", context, cause), cause: cause}
}

// SerializationErr wraps a JSON encode or decode failure.
func SerializationErr(context string, cause error) *Error {
	return &Error{Kind: KindSerialization, Message: fmt.Sprintf("%s: %v", context, cause), cause: cause}
}

// Internal reports a fault in the application itself.
func Internal(msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg}
}

// CampaignErr reports a campaign business-rule violation.
func CampaignErr(msg string) *Error {
	return &Error{Kind: KindCampaign, Message: msg}
}

// CharacterErr reports a character business-rule violation.
func CharacterErr(msg string) *Error {
	return &Error{Kind: KindCharacter, Message: msg}
}

// NpcErr reports an NPC business-rule violation.
func NpcErr(msg string) *Error {
	return &Error{Kind: KindNpc, Message: msg}
}

// CombatErr reports a combat business-rule violation.
func CombatErr(msg string) *Error {
	return &Error{Kind: KindCombat, Message: msg}
}

// QuestErr reports a quest business-rule violation.
func QuestErr(msg string) *Error {
	return &Error{Kind: KindQuest, Message: msg}
}

// ItemErr reports an item or inventory business-rule violation.
func ItemErr(msg string) *Error {
	return &Error{Kind: KindItem, Message: msg}
}

// MapErr reports a map business-rule violation.
func MapErr(msg string) *Error {
	return &Error{Kind: KindMap, Message: msg}
}

// AuthErr reports an authorization failure.
func AuthErr(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}
