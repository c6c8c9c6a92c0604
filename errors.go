// errors.go: structured error handling for xantos operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for all table operations.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xantos

import (
	goerrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes for xantos operations
const (
	// Configuration errors
	ErrCodeInvalidConfig      errors.ErrorCode = "XANTOS_INVALID_CONFIG"
	ErrCodeInvalidCapacity    errors.ErrorCode = "XANTOS_INVALID_CAPACITY"
	ErrCodeInvalidWriterSlots errors.ErrorCode = "XANTOS_INVALID_WRITER_SLOTS"

	// Operation errors
	ErrCodeKeyNotFound    errors.ErrorCode = "XANTOS_KEY_NOT_FOUND"
	ErrCodeEmptyKey       errors.ErrorCode = "XANTOS_EMPTY_KEY"
	ErrCodeTableClosed    errors.ErrorCode = "XANTOS_TABLE_CLOSED"
	ErrCodeWriterReleased errors.ErrorCode = "XANTOS_WRITER_RELEASED"
)

// Common error messages
const (
	msgInvalidCapacity    = "invalid capacity: must be greater than 0"
	msgInvalidWriterSlots = "invalid writer slots: must be greater than 0"
	msgKeyNotFound        = "key not found in table"
	msgEmptyKey           = "key cannot be empty"
	msgTableClosed        = "table has been closed"
	msgWriterReleased     = "writer lease has been released"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidCapacity creates an error for an invalid bucket count
func NewErrInvalidCapacity(capacity int) error {
	return errors.NewWithContext(ErrCodeInvalidCapacity, msgInvalidCapacity, map[string]interface{}{
		"provided_capacity": capacity,
		"minimum_required":  1,
	})
}

// NewErrInvalidWriterSlots creates an error for an invalid writer slot count
func NewErrInvalidWriterSlots(slots int) error {
	return errors.NewWithContext(ErrCodeInvalidWriterSlots, msgInvalidWriterSlots, map[string]interface{}{
		"provided_slots":   slots,
		"minimum_required": 1,
	})
}

// =============================================================================
// OPERATION ERRORS
// =============================================================================

// NewErrKeyNotFound creates an error when a key is not found.
// Get treats a missing key as a caller contract violation, so the miss
// surfaces as this error rather than a zero value.
func NewErrKeyNotFound(key string) error {
	return errors.NewWithField(ErrCodeKeyNotFound, msgKeyNotFound, "key", key)
}

// NewErrEmptyKey creates an error when a key is empty
func NewErrEmptyKey(operation string) error {
	return errors.NewWithField(ErrCodeEmptyKey, msgEmptyKey, "operation", operation)
}

// NewErrTableClosed creates an error when an operation reaches a closed table
func NewErrTableClosed(operation string) error {
	return errors.NewWithField(ErrCodeTableClosed, msgTableClosed, "operation", operation)
}

// NewErrWriterReleased creates an error when a released writer lease is used
func NewErrWriterReleased(operation string) error {
	return errors.NewWithField(ErrCodeWriterReleased, msgWriterReleased, "operation", operation)
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsNotFound checks if error is a key not found error
func IsNotFound(err error) bool {
	return errors.HasCode(err, ErrCodeKeyNotFound)
}

// IsEmptyKey checks if error is an empty key error
func IsEmptyKey(err error) bool {
	return errors.HasCode(err, ErrCodeEmptyKey)
}

// IsTableClosed checks if error is a closed-table error
func IsTableClosed(err error) bool {
	return errors.HasCode(err, ErrCodeTableClosed)
}

// IsWriterReleased checks if error is a released-writer error
func IsWriterReleased(err error) bool {
	return errors.HasCode(err, ErrCodeWriterReleased)
}

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidConfig || code == ErrCodeInvalidCapacity ||
			code == ErrCodeInvalidWriterSlots
	}
	return false
}

// IsLifecycleError checks if error is a lease or table lifecycle error
func IsLifecycleError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeTableClosed || code == ErrCodeWriterReleased
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var tableErr *errors.Error
	if goerrors.As(err, &tableErr) {
		return tableErr.Context
	}
	return nil
}
