package grammar

import "strings"

// Production is an ordered sequence of symbols making up one rhs, per spec
// §3.2. Epsilon is represented as the single-element Production{""}.
type Production []string

// String renders a production space-separated, using "ε" for the empty
// production, matching the teacher's grammar.LR0Item.String() rendering.
func (p Production) String() string {
	if p.IsEpsilon() {
		return "ε"
	}
	return strings.Join(p, " ")
}

// Copy returns a duplicate of p.
func (p Production) Copy() Production {
	cp := make(Production, len(p))
	copy(cp, p)
	return cp
}

// Equal reports whether two productions have the same symbols in the same
// order.
func (p Production) Equal(o Production) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Alternative is one rule: a single (lhs, rhs, action) triple, per spec
// §3.2, carrying the unique index used in diagnostics (spec §3.2, last
// sentence).
type Alternative struct {
	// Index is this alternative's unique, grammar-wide rule index, assigned
	// in the order alternatives were added.
	Index int

	// NonTerminal is the lhs.
	NonTerminal string

	// Symbols is the rhs. Epsilon means ε; the loaders turn an empty rhs
	// into Epsilon.
	Symbols Production

	// Action is the host-language expression (or literal) text attached to
	// this alternative, verbatim as supplied to the loader. It is
	// interpreted by the Action Transformer (package action), never here.
	Action string
}

// Rule groups every alternative defined for one nonterminal, matching the
// teacher's Rule{NonTerminal, Productions} shape for interoperability with
// grammar-analysis-only tests that don't care about actions.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// String renders the rule as "LHS -> p1 | p2 | ...".
func (r Rule) String() string {
	parts := make([]string, len(r.Productions))
	for i, p := range r.Productions {
		parts[i] = p.String()
	}
	return r.NonTerminal + " -> " + strings.Join(parts, " | ")
}
