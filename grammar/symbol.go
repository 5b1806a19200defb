package grammar

import "github.com/gillnet/gillnet/token"

// EndOfInput is the terminal that FOLLOW(Start) is seeded with, per spec
// §4.2, and the symbol SELECT-set/dispatch-table lookups compare against.
// It is defined as token.EndOfInput rather than a separate literal so the
// two layers can never drift apart: the runtime lookahead an emitted or
// interpreted parser ever actually observes at end of input is
// token.EndOfInput, so that is the only string FOLLOW/SELECT computation
// may ever seed or key a dispatch table under.
const EndOfInput = token.EndOfInput

// Epsilon is the sentinel empty-string symbol. A production equal to
// Epsilon (a single element, the empty string) represents ε; ε must never
// appear mixed with other symbols in a production, per spec §3.7.
var Epsilon = Production{""}

// IsEpsilon reports whether p is the epsilon production.
func (p Production) IsEpsilon() bool {
	return len(p) == 1 && p[0] == ""
}

// classify by "does it appear on an LHS", not by case, per spec §3.1 — the
// classification lives on Grammar (it needs the set of defined
// nonterminals), not on the bare symbol string.
