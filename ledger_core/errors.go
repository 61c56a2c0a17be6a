package ledger_core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

type NotFoundError struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NewNotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

type ValidationError struct {
	Field   string `json:"field"`
	EntryID string `json:"entry_id"`
	Reason  string `json:"reason"`
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.EntryID != "" {
		return fmt.Sprintf("entry %s: %s", e.EntryID, e.Reason)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func NewEntryValidation(entryID, reason string) error {
	return &ValidationError{Field: "entry_ids", EntryID: entryID, Reason: reason}
}

type ConflictError struct {
	Keys []string `json:"keys"`
	Err  error    `json:"-"`
}

// Error implements error.
func (e *ConflictError) Error() string {
	msg := "concurrent mutation on " + strings.Join(e.Keys, ", ")
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

type ErrCode string

const (
	CodeNotFound   ErrCode = "not_found"
	CodeValidation ErrCode = "validation"
	CodeConflict   ErrCode = "conflict"
	CodeInternal   ErrCode = "internal"
)

func ErrorCode(err error) ErrCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrConflict):
		return CodeConflict
	default:
		return CodeInternal
	}
}
