// Package lang runs programs written in boba, a small indentation-structured
// scripting language.
//
// # Language
//
// A program is a sequence of statements separated by newlines. Blocks are
// introduced by a trailing ':' and either continue on the same line or on
// the following, more deeply indented lines:
//
//	let limit = 10
//	fn fib(n): n < 2 ? n : fib(n - 1) + fib(n - 2)
//	let i = 0
//	while i < limit:
//	    print(i, fib(i))
//	    i = i + 1
//
// Values are none, bool, arbitrary-precision int, decimal float, and string.
// Division and exponentiation always produce a float; % is the Euclidean
// remainder. A function returns the value of the last statement it executes.
//
// # Scoping
//
// Function bodies see the variables of every active caller, searched from
// the innermost call outward and then the global frame. There are no
// closures: bindings made by a call vanish when it returns.
//
// # Packages
//
// The pipeline is split across subpackages:
//
//   - [github.com/ardnew/boba/lang/source] holds source text and renders
//     diagnostics.
//   - [github.com/ardnew/boba/lang/parser] tokenizes and parses text into
//     [github.com/ardnew/boba/lang/ast] trees.
//   - [github.com/ardnew/boba/lang/engine] evaluates trees to
//     [github.com/ardnew/boba/lang/value] values.
//
// A [Session] ties them together for hosts that just want to run text.
package lang
