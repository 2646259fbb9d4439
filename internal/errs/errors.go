// Package errs provides the unified error type used across schemareg.
//
// Every subsystem (schema, registry, loader, filestore, server) returns
// *errs.Error so callers can branch on the kind without importing the
// package that produced it.
//
// Usage:
//
//	// In the registry, report a missing name:
//	return errs.New(errs.ErrKindUnknownTable, `no table "user_statistics" in schema "public"`)
//
//	// In a handler, check the error kind:
//	if errs.IsNotFound(err) {
//	    http.Error(w, "not found", http.StatusNotFound)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // no object, no bucket, no file
	ErrKindConnectionFailed         // cannot reach the backend
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindQueryFailed              // storage operation error
	ErrKindInvalidInput             // bad arguments or a malformed schema document
	ErrKindPermissionDenied         // access denied / auth failure

	ErrKindUnknownSchema        // schema name not in the registry
	ErrKindUnknownEntity        // no table or view of that name
	ErrKindUnknownTable         // not a table (views included)
	ErrKindUnknownEnum          // no enum of that name
	ErrKindUnknownCompositeType // no composite type of that name
	ErrKindUnknownFunction      // no function of that name
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindUnknownSchema:
		return "unknown_schema"
	case ErrKindUnknownEntity:
		return "unknown_entity"
	case ErrKindUnknownTable:
		return "unknown_table"
	case ErrKindUnknownEnum:
		return "unknown_enum"
	case ErrKindUnknownCompositeType:
		return "unknown_composite_type"
	case ErrKindUnknownFunction:
		return "unknown_function"
	default:
		return "unknown"
	}
}

// notFound reports whether the kind is one of the name-not-found kinds.
func (k ErrKind) notFound() bool {
	switch k {
	case ErrKindNotFound,
		ErrKindUnknownSchema,
		ErrKindUnknownEntity,
		ErrKindUnknownTable,
		ErrKindUnknownEnum,
		ErrKindUnknownCompositeType,
		ErrKindUnknownFunction:
		return true
	}
	return false
}

// Error is the single error type returned by all schemareg subsystems.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a format string.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents any "not found" result,
// including every unknown-name kind raised by the registry.
func IsNotFound(err error) bool {
	return KindOf(err).notFound()
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a backend operation failure.
func IsQueryFailed(err error) bool {
	return KindOf(err) == ErrKindQueryFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// IsUnknownSchema reports whether err names a schema absent from the registry.
func IsUnknownSchema(err error) bool {
	return KindOf(err) == ErrKindUnknownSchema
}

// IsUnknownEntity reports whether err names a missing table or view.
func IsUnknownEntity(err error) bool {
	return KindOf(err) == ErrKindUnknownEntity
}

// IsUnknownTable reports whether err names something that is not a table.
func IsUnknownTable(err error) bool {
	return KindOf(err) == ErrKindUnknownTable
}

// IsUnknownEnum reports whether err names a missing enum.
func IsUnknownEnum(err error) bool {
	return KindOf(err) == ErrKindUnknownEnum
}

// IsUnknownCompositeType reports whether err names a missing composite type.
func IsUnknownCompositeType(err error) bool {
	return KindOf(err) == ErrKindUnknownCompositeType
}

// IsUnknownFunction reports whether err names a missing function.
func IsUnknownFunction(err error) bool {
	return KindOf(err) == ErrKindUnknownFunction
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
