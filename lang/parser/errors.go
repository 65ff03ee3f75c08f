package parser

import "github.com/ardnew/boba/lang/source"

// Parse errors. Every error returned by this package is a located copy of
// one of these and matches it with [errors.Is].
var (
	ErrUnexpectedEnd      = source.NewError("C-001", "unexpected end of input")
	ErrInvalidToken       = source.NewError("C-002", "invalid token")
	ErrUnclosedString     = source.NewError("C-003", "unclosed string")
	ErrInvalidNumber      = source.NewError("C-004", "invalid number")
	ErrUnexpectedToken    = source.NewError("C-006", "unexpected token")
	ErrUnclosedBrace      = source.NewError("C-007", "unclosed brace")
	ErrInvalidAssignment  = source.NewError("C-008", "invalid assignment")
	ErrMixedTabsAndSpaces = source.NewError("C-009", "mixed tabs and spaces")
)
