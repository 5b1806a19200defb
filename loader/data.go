// Package loader implements the Grammar Loader (spec §4.1): three
// dialects — a plain Go-value data dialect, a parenthesized s-expression
// text dialect, and a literate Markdown dialect — all decoding to a
// grammar.Grammar ready for analyzer.Analyze.
package loader

import (
	"github.com/gillnet/gillnet/action"
	"github.com/gillnet/gillnet/generrors"
	"github.com/gillnet/gillnet/grammar"
	"github.com/gillnet/gillnet/token"
)

// RuleData is one alternative in the data dialect's plain-value IR. An
// empty RHS means an epsilon production.
type RuleData struct {
	NonTerminal string
	RHS         []string
	Action      string
}

// OperatorData is one row of the data dialect's operator precedence table.
// Assoc is "left", "right", or "nonassoc"; anything else defaults to left.
type OperatorData struct {
	Assoc  string
	Tokens []string
}

// GrammarData is the data dialect's complete grammar description, the Go
// equivalent of spec.md §6.2's IR.
type GrammarData struct {
	Start     string
	Terminals []string
	Rules     []RuleData
	Operators []OperatorData
}

// LoadData decodes the data dialect directly: no text parsing, just
// transcription into a grammar.Grammar plus the structural Validate()
// check and a pre-check of every rule's action against its own rhs
// length (spec §4.1's "pre-checks BadAction for the common case").
func LoadData(data GrammarData) (*grammar.Grammar, error) {
	g := grammar.New()
	for _, term := range data.Terminals {
		g.AddTerm(term, token.MakeClass(term))
	}

	for _, r := range data.Rules {
		prod := grammar.Production(append([]string(nil), r.RHS...))
		if len(prod) == 0 {
			prod = grammar.Epsilon
		}
		idx := g.AddRuleWithAction(r.NonTerminal, prod, r.Action)
		rhsLen := len(prod)
		if prod.IsEpsilon() {
			rhsLen = 0
		}
		if _, err := action.Transform(idx, r.Action, rhsLen); err != nil {
			return nil, err
		}
	}

	if data.Start != "" {
		g.SetStart(data.Start)
	}

	var ops []grammar.OperatorEntry
	for _, o := range data.Operators {
		ops = append(ops, grammar.OperatorEntry{Assoc: assocOf(o.Assoc), Tokens: append([]string(nil), o.Tokens...)})
	}
	g.SetOperators(ops)

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func assocOf(s string) grammar.Assoc {
	switch s {
	case "right":
		return grammar.AssocRight
	case "nonassoc":
		return grammar.AssocNonAssoc
	default:
		return grammar.AssocLeft
	}
}

// errBadDialect is a small convenience used by every dialect's entry point
// when asked for something unsupported.
func errBadDialect(cause string) error {
	return generrors.MalformedGrammar(-1, cause)
}
