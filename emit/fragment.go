// Package emit implements the Code Emitter (spec §4.5): it combines a
// pattern.Classification and action-transformed text into an emission
// Plan, and separately renders that Plan into Go source text. Per the
// Design Notes' redesign (spec §9), emission is staged as a small tree of
// typed fragments (this file) built by Plan and walked by a standalone
// prettyprinter (generate.go), rather than built directly as strings —
// every pattern (Tail, BinaryOpChain, AccessorChain, Dispatch, Switch,
// Special) produces the same Stmt shapes regardless of which one decided
// the control flow of a given parseN body.
package emit

import "fmt"

// Stmt is one node in a parseN function body.
type Stmt interface{ isStmt() }

// RawStmt is an escape hatch for a single already-formatted Go statement
// line, used by Special handlers that need control flow the rest of the
// fragment vocabulary doesn't model directly.
type RawStmt struct{ Text string }

func (RawStmt) isStmt() {}

// MatchStmt consumes one terminal off the lookahead and binds it, wrapped
// as an opaque sexpr.SExpr, to Local.
type MatchStmt struct {
	Local    string
	Terminal string
}

func (MatchStmt) isStmt() {}

// CallStmt recurses into another nonterminal's parse function and binds
// its sexpr.SExpr result to Local.
type CallStmt struct {
	Local       string
	NonTerminal string
}

func (CallStmt) isStmt() {}

// AssignStmt binds an arbitrary Go expression to Local, e.g. the
// accumulated result of a Tail loop.
type AssignStmt struct {
	Local string
	Expr  string
}

func (AssignStmt) isStmt() {}

// ReturnStmt returns Expr (a sexpr.SExpr-valued Go expression) and a nil
// error.
type ReturnStmt struct{ Expr string }

func (ReturnStmt) isStmt() {}

// ReturnErrStmt returns the zero sexpr.SExpr and Expr (a Go expression
// evaluating to a non-nil error).
type ReturnErrStmt struct{ Expr string }

func (ReturnErrStmt) isStmt() {}

// IfStmt is `if Cond { Then } else { Else }`; Else may be empty.
type IfStmt struct {
	Cond string
	Then []Stmt
	Else []Stmt
}

func (IfStmt) isStmt() {}

// ForStmt is `for Cond { Body }`; an empty Cond renders `for { Body }`.
type ForStmt struct {
	Cond string
	Body []Stmt
}

func (ForStmt) isStmt() {}

// SwitchCase is one `case Cond:` arm of a SwitchStmt. Cond is the raw,
// already-quoted comma list of case expressions.
type SwitchCase struct {
	Cond string
	Body []Stmt
}

// SwitchStmt is `switch Expr { case ...: ...; default: Default }`.
type SwitchStmt struct {
	Expr    string
	Cases   []SwitchCase
	Default []Stmt
}

func (SwitchStmt) isStmt() {}

// Func is one emitted parseN function.
type Func struct {
	Name        string
	NonTerminal string
	Doc         string
	Body        []Stmt
}

// Plan is the immutable output of the Code Emitter's planning stage: the
// fixed runtime scaffolding plus one Func per nonterminal, ready for
// Generate to render into Go source text.
type Plan struct {
	StartSymbol string
	EntryFunc   string
	Funcs       []Func
}

func localToken(local string) string { return local + "Tok" }

func matchLines(local, terminal string) []string {
	tok := localToken(local)
	return []string{
		fmt.Sprintf("%s, err := p.match(%q)", tok, terminal),
		"if err != nil {",
		"\treturn sexpr.SExpr{}, err",
		"}",
		fmt.Sprintf("%s := sexpr.Opaque(%s)", local, tok),
	}
}

func callLines(local, nonTerminal string) []string {
	return []string{
		fmt.Sprintf("%s, err := p.%s()", local, funcName(nonTerminal)),
		"if err != nil {",
		"\treturn sexpr.SExpr{}, err",
		"}",
	}
}

func funcName(nonTerminal string) string {
	return "parse" + nonTerminal
}
