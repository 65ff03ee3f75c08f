package engine

import "github.com/ardnew/boba/lang/source"

// Run-time errors. Every error returned by an [Engine] is a located copy of
// one of these and matches it with [errors.Is].
var (
	ErrUnknownFunction = source.NewError("R-001", "unknown function")
	ErrUnknownVariable = source.NewError("R-002", "unknown variable")
	ErrParameterCount  = source.NewError("R-003", "parameter count mismatch")
	ErrNativeCall      = source.NewError("R-004", "native call failed")
	ErrTypeMismatch    = source.NewError("R-005", "type mismatch")
	ErrInvalidUnary    = source.NewError("R-006", "invalid unary operation")
	ErrInvalidBinary   = source.NewError("R-007", "invalid binary operation")
	ErrArithmetic      = source.NewError("R-008", "arithmetic error")
	ErrCallDepth       = source.NewError("R-009", "call depth exceeded")
)
