package mdx

import (
	"errors"
	"fmt"
)

// ConstructionError reports an invalid argument detected while a query
// was being assembled.
//
// Construction errors are sticky: the first one marks the Set or Builder
// and every later call on that value is a no-op. The error is returned
// from MDX or Render, never panicked.
type ConstructionError struct {
	// Code identifies the error category.
	Code ConstructionErrorCode

	// Op names the constructor or method that rejected its input,
	// e.g. "Set.Sort".
	Op string

	// Message is a human-readable description.
	Message string
}

// ConstructionErrorCode categorizes construction errors.
type ConstructionErrorCode string

const (
	// ErrCodeEmptyMembers indicates a member list or tuple with no members.
	ErrCodeEmptyMembers ConstructionErrorCode = "EMPTY_MEMBERS"

	// ErrCodeInvalidOrder indicates a sort direction the target function
	// does not accept.
	ErrCodeInvalidOrder ConstructionErrorCode = "INVALID_ORDER"

	// ErrCodeInvalidElementType indicates an unknown element type value.
	ErrCodeInvalidElementType ConstructionErrorCode = "INVALID_ELEMENT_TYPE"

	// ErrCodeInvalidUniqueName indicates a unique name that cannot be parsed.
	ErrCodeInvalidUniqueName ConstructionErrorCode = "INVALID_UNIQUE_NAME"

	// ErrCodeMixedAxis indicates sets and tuples placed on the same axis.
	ErrCodeMixedAxis ConstructionErrorCode = "MIXED_AXIS"

	// ErrCodeOccupiedAxis indicates an empty-set marker on a populated axis.
	ErrCodeOccupiedAxis ConstructionErrorCode = "OCCUPIED_AXIS"

	// ErrCodeInvalidArgument indicates any other rejected input.
	ErrCodeInvalidArgument ConstructionErrorCode = "INVALID_ARGUMENT"
)

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (op=%s)", e.Code, e.Message, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// StructuralError reports a query shape problem detected at render time.
//
// Structural errors concern the query as a whole rather than any single
// argument: a missing column axis, a gap in axis numbering, or a
// MultiBuilder whose target axis holds tuples.
type StructuralError struct {
	// Code identifies the error category.
	Code StructuralErrorCode

	// Axis is the offending axis, or -1 when no single axis applies.
	Axis int

	// Message is a human-readable description.
	Message string
}

// StructuralErrorCode categorizes structural errors.
type StructuralErrorCode string

const (
	// ErrCodeMissingColumns indicates a query with no axis 0.
	ErrCodeMissingColumns StructuralErrorCode = "MISSING_COLUMNS"

	// ErrCodeAxisGap indicates non-contiguous axis numbering.
	ErrCodeAxisGap StructuralErrorCode = "AXIS_GAP"

	// ErrCodeTupleOnMultiAxis indicates tuples on the axis a MultiBuilder
	// injects subsets into.
	ErrCodeTupleOnMultiAxis StructuralErrorCode = "TUPLE_MULTI_AXIS"
)

// Error implements the error interface.
func (e *StructuralError) Error() string {
	if e.Axis >= 0 {
		return fmt.Sprintf("%s: %s (axis=%d)", e.Code, e.Message, e.Axis)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConstructionError returns true if the error is a ConstructionError.
// Uses errors.As to handle wrapped errors.
func IsConstructionError(err error) bool {
	var ce *ConstructionError
	return errors.As(err, &ce)
}

// IsStructuralError returns true if the error is a StructuralError.
// Uses errors.As to handle wrapped errors.
func IsStructuralError(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

func newConstructionError(op string, code ConstructionErrorCode, format string, args ...any) *ConstructionError {
	return &ConstructionError{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

func newStructuralError(code StructuralErrorCode, axis int, format string, args ...any) *StructuralError {
	return &StructuralError{
		Code:    code,
		Axis:    axis,
		Message: fmt.Sprintf(format, args...),
	}
}
