// Package errors defines the error taxonomy shared by the game engine.
//
// Every rejection carries a Kind (which bucket of failure it is) and a Code
// (which rule was broken). errors.Is matches on Code, so callers can test
// against the sentinel values below regardless of the detail message.
package errors

import (
	"errors"
	"fmt"
)

// Kind groups errors by how a caller should react to them.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation: the action violates a positional or structural rule.
	KindValidation
	// KindState: the operation is not legal in the current game or turn state.
	KindState
	// KindNotFound: a referenced entity does not exist.
	KindNotFound
	// KindPermission: the caller is not allowed to perform the operation.
	KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindState:
		return "state"
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission"
	default:
		return "unknown"
	}
}

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidAction       Code = "INVALID_ACTION"
	CodeDuplicateUser       Code = "DUPLICATE_USER"
	CodeDuplicateCharacter  Code = "DUPLICATE_CHARACTER"
	CodeAlreadyStarted      Code = "ALREADY_STARTED"
	CodeInsufficientPlayers Code = "INSUFFICIENT_PLAYERS"
	CodeNotHost             Code = "NOT_HOST"
	CodeNotYourTurn         Code = "NOT_YOUR_TURN"
	CodeNotStarted          Code = "NOT_STARTED"
	CodeStaleTurn           Code = "STALE_TURN"
	CodeNotFound            Code = "NOT_FOUND"
)

var (
	ErrInvalidAction       = New(KindValidation, CodeInvalidAction, "invalid action")
	ErrDuplicateUser       = New(KindState, CodeDuplicateUser, "user is already a player in this game")
	ErrDuplicateCharacter  = New(KindState, CodeDuplicateCharacter, "character is already in use")
	ErrAlreadyStarted      = New(KindState, CodeAlreadyStarted, "game already started")
	ErrInsufficientPlayers = New(KindState, CodeInsufficientPlayers, "game must have at least 2 players")
	ErrNotHost             = New(KindPermission, CodeNotHost, "game can only be started by host")
	ErrNotYourTurn         = New(KindPermission, CodeNotYourTurn, "not your turn")
	ErrNotStarted          = New(KindState, CodeNotStarted, "game is not in progress")
	ErrStaleTurn           = New(KindState, CodeStaleTurn, "turn is no longer current")
	ErrNotFound            = New(KindNotFound, CodeNotFound, "not found")
)

// Error is the domain error type.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a domain error.
func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrapf returns a copy of sentinel with a detailed message.
func Wrapf(sentinel *Error, format string, args ...any) *Error {
	return &Error{
		Kind:    sentinel.Kind,
		Code:    sentinel.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithKind returns a copy of e filed under a different kind.
func WithKind(e *Error, kind Kind) *Error {
	cp := *e
	cp.Kind = kind
	return &cp
}

// KindOf returns the kind of the first domain error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the code of the first domain error in err's chain.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
