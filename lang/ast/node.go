// Package ast defines the annotated syntax tree of the boba language.
//
// Every syntax element is wrapped in a [Node] pairing its payload with the
// [source.Span] it was parsed from. The sum types [Expr], [Statement], and
// [Function] are closed: their variants are the types in this package that
// implement the unexported marker method, and every consumer switches over
// them exhaustively.
package ast

import "github.com/ardnew/boba/lang/source"

// Node is an immutable payload annotated with its source location.
type Node[T any] struct {
	span source.Span
	item T
}

// NewNode returns a node holding item located at span.
func NewNode[T any](span source.Span, item T) Node[T] {
	return Node[T]{span: span, item: item}
}

// Item returns the payload of n.
func (n Node[T]) Item() T { return n.item }

// Span returns the location of n.
func (n Node[T]) Span() source.Span { return n.span }
