/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrQueryFailed is returned when the store could not execute a read or count
	ErrQueryFailed = errors.New("query failed")

	// ErrCommitFailed is returned when staged changes could not be persisted
	ErrCommitFailed = errors.New("commit failed")

	// ErrStaleIdentifier is returned when an object identifier no longer resolves,
	// or resolves to an object of the wrong type
	ErrStaleIdentifier = errors.New("stale object identifier")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownEntity is returned when no entity is registered under a given name
	ErrUnknownEntity = errors.New("unknown entity")
)

// QueryError represents a read or count the store could not execute
type QueryError struct {
	Entity string
	Op     string
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query failed for entity %q: %v", e.Op, e.Entity, e.Err)
}

func (e *QueryError) Is(target error) bool {
	return target == ErrQueryFailed
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// CommitError represents staged changes that could not be persisted
type CommitError struct {
	Entity string
	Op     string
	Err    error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s commit failed for entity %q: %v", e.Op, e.Entity, e.Err)
}

func (e *CommitError) Is(target error) bool {
	return target == ErrCommitFailed
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// StaleIdentifierError represents an object identifier that no longer resolves
type StaleIdentifierError struct {
	Entity string
	ID     string
}

func (e *StaleIdentifierError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("identifier %q for entity %q is stale", e.ID, e.Entity)
	}
	return fmt.Sprintf("identifier %q is stale", e.ID)
}

func (e *StaleIdentifierError) Is(target error) bool {
	return target == ErrStaleIdentifier
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UnknownEntityError represents an entity name with no registration
type UnknownEntityError struct {
	Entity string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("no entity registered under name %q", e.Entity)
}

func (e *UnknownEntityError) Is(target error) bool {
	return target == ErrUnknownEntity
}

// Helper functions for creating errors

// NewQueryError creates a new QueryError
func NewQueryError(entity, op string, err error) error {
	return &QueryError{Entity: entity, Op: op, Err: err}
}

// NewCommitError creates a new CommitError
func NewCommitError(entity, op string, err error) error {
	return &CommitError{Entity: entity, Op: op, Err: err}
}

// NewStaleIdentifierError creates a new StaleIdentifierError
func NewStaleIdentifierError(entity, id string) error {
	return &StaleIdentifierError{Entity: entity, ID: id}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewUnknownEntityError creates a new UnknownEntityError
func NewUnknownEntityError(entity string) error {
	return &UnknownEntityError{Entity: entity}
}

// IsQueryFailure checks if an error is a query failure
func IsQueryFailure(err error) bool {
	return errors.Is(err, ErrQueryFailed)
}

// IsCommitFailure checks if an error is a commit failure
func IsCommitFailure(err error) bool {
	return errors.Is(err, ErrCommitFailed)
}

// IsStaleIdentifier checks if an error is a stale identifier error
func IsStaleIdentifier(err error) bool {
	return errors.Is(err, ErrStaleIdentifier)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnknownEntity checks if an error is an unknown entity error
func IsUnknownEntity(err error) bool {
	return errors.Is(err, ErrUnknownEntity)
}
