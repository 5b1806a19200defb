// Package generrors contains the error kinds raised at every phase of the
// gillnet pipeline, from grammar loading through emitted-parser runtime.
//
// Each kind is an unexported struct implementing error and Unwrap, built via
// a named constructor, so that callers can attach precise diagnostic
// context (rule index, nonterminal name, token) without re-deriving it from
// a formatted string later.
package generrors

import (
	"fmt"

	"github.com/gillnet/gillnet/internal/util"
)

// MalformedGrammarError is raised by the Grammar Loader when the grammar
// source cannot be decoded or violates a structural invariant.
type MalformedGrammarError struct {
	RuleIndex int // -1 if not associated with a specific rule
	Cause     string
	wrapped   error
}

func (e *MalformedGrammarError) Error() string {
	if e.RuleIndex >= 0 {
		return fmt.Sprintf("malformed grammar at rule %d: %s", e.RuleIndex, e.Cause)
	}
	return fmt.Sprintf("malformed grammar: %s", e.Cause)
}

func (e *MalformedGrammarError) Unwrap() error { return e.wrapped }

// MalformedGrammar returns a new MalformedGrammarError for the given rule
// index (-1 if the problem isn't tied to one rule) and cause.
func MalformedGrammar(ruleIndex int, cause string) error {
	return &MalformedGrammarError{RuleIndex: ruleIndex, Cause: cause}
}

// WrapMalformedGrammar is the same as MalformedGrammar but additionally
// wraps an underlying error.
func WrapMalformedGrammar(err error, ruleIndex int, cause string) error {
	return &MalformedGrammarError{RuleIndex: ruleIndex, Cause: cause, wrapped: err}
}

// UnknownSymbolError is raised by the Analyzer when a symbol appears on a
// rule's right-hand side but is neither a declared terminal nor a defined
// nonterminal.
type UnknownSymbolError struct {
	Symbol      string
	NonTerminal string
	RuleIndex   int
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown symbol %q in rule %d (%s -> ...)", e.Symbol, e.RuleIndex, e.NonTerminal)
}

// UnknownSymbol returns a new UnknownSymbolError.
func UnknownSymbol(symbol, nonTerminal string, ruleIndex int) error {
	return &UnknownSymbolError{Symbol: symbol, NonTerminal: nonTerminal, RuleIndex: ruleIndex}
}

// Conflict describes one pair of alternatives under the same nonterminal
// whose SELECT sets are not disjoint.
type Conflict struct {
	NonTerminal string
	RuleA       int
	RuleB       int
	Shared      []string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: rules %d and %d share lookahead(s) %v", c.NonTerminal, c.RuleA, c.RuleB, c.Shared)
}

// UnresolvedConflictError is raised by emit.Build when a nonterminal that
// pattern classification left as a Switch still has a SELECT conflict
// (such a nonterminal has no registered Special handler).
type UnresolvedConflictError struct {
	NonTerminal string
	Conflicts   []Conflict
}

func (e *UnresolvedConflictError) Error() string {
	return fmt.Sprintf("unresolved LL(1) conflict(s) on %q: %v", e.NonTerminal, e.Conflicts)
}

// UnresolvedConflict returns a new UnresolvedConflictError.
func UnresolvedConflict(nonTerminal string, conflicts []Conflict) error {
	return &UnresolvedConflictError{NonTerminal: nonTerminal, Conflicts: conflicts}
}

// BadActionError is raised by the Action Transformer when an action
// references a rhs position outside 1..len(rhs).
type BadActionError struct {
	RuleIndex int
	Position  int
	RHSLen    int
}

func (e *BadActionError) Error() string {
	return fmt.Sprintf("rule %d: action references position %d but rhs has %d symbol(s)", e.RuleIndex, e.Position, e.RHSLen)
}

// BadAction returns a new BadActionError.
func BadAction(ruleIndex, position, rhsLen int) error {
	return &BadActionError{RuleIndex: ruleIndex, Position: position, RHSLen: rhsLen}
}

// NoSpecialHandlerError is raised by the Code Emitter when the Pattern
// Recognizer tagged a nonterminal Special but no handler is registered for
// its name.
type NoSpecialHandlerError struct {
	NonTerminal string
}

func (e *NoSpecialHandlerError) Error() string {
	return fmt.Sprintf("no special handler registered for %q", e.NonTerminal)
}

// NoSpecialHandler returns a new NoSpecialHandlerError.
func NoSpecialHandler(nonTerminal string) error {
	return &NoSpecialHandlerError{NonTerminal: nonTerminal}
}

// SyntaxLocation is the line/column of a token involved in a ParseError.
type SyntaxLocation struct {
	Line   int
	Column int
}

// ParseErrorInfo is the runtime error raised by an emitted (or interpreted)
// parser on a token mismatch or unexpected-token condition.
type ParseErrorInfo struct {
	Expected []string
	Actual   string // actual token kind
	Lexeme   string // actual token text, stored as given; not truncated
	Location SyntaxLocation
	Message  string
}

func (e *ParseErrorInfo) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (at line %d, column %d)", e.Message, e.Location.Line, e.Location.Column)
	}
	expected := util.MakeTextList(append([]string(nil), e.Expected...))
	return fmt.Sprintf("expected %s but got %q (at line %d, column %d)", expected, e.Actual, e.Location.Line, e.Location.Column)
}

// NewParseError builds a ParseErrorInfo for a token mismatch.
func NewParseError(expected []string, actual, lexeme string, line, column int) error {
	return &ParseErrorInfo{
		Expected: expected,
		Actual:   actual,
		Lexeme:   lexeme,
		Location: SyntaxLocation{Line: line, Column: column},
	}
}

// NewParseErrorMessage builds a ParseErrorInfo with a prebuilt human message,
// for cases (such as an ambiguous SELECT-table miss) where the expected set
// is better expressed as prose than as a raw list.
func NewParseErrorMessage(message string, line, column int) error {
	return &ParseErrorInfo{
		Message:  message,
		Location: SyntaxLocation{Line: line, Column: column},
	}
}
