package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gillnet/gillnet/generrors"
	"github.com/gillnet/gillnet/token"
)

// Assoc is the associativity of one entry in the operator precedence table
// (spec §3.4).
type Assoc int

const (
	AssocLeft Assoc = iota
	AssocRight
	AssocNonAssoc
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "nonassoc"
	}
}

// OperatorEntry is one row of the precedence table: an associativity and
// the set of terminals sharing it. Low index in the owning Grammar's
// Operators() slice means low binding, per spec §3.4.
type OperatorEntry struct {
	Assoc  Assoc
	Tokens []string
}

// Grammar is the mutable IR builder that the Grammar Loader (package
// loader) populates from whichever dialect it is reading. It plays the
// same "accumulate rules and terminals, then analyze" role that the teacher
// toolkit's grammar.Grammar plays, but — per the Design Notes' redesign
// instruction (spec §9) — it owns only construction and the Validate()
// structural check; FIRST/FOLLOW/SELECT/pattern classification/emission
// are all pure functions over a Copy of this builder in downstream
// packages, not methods grafted onto it.
type Grammar struct {
	start       string
	rules       map[string][]Alternative // keyed by nonterminal, insertion order preserved in ruleOrder
	ruleOrder   []string
	nextIndex   int
	terminals   map[string]token.Class
	termOrder   []string
	operators   []OperatorEntry
}

// New returns an empty Grammar builder.
func New() *Grammar {
	return &Grammar{
		rules:     make(map[string][]Alternative),
		terminals: make(map[string]token.Class),
	}
}

// SetStart sets the start symbol. If never called, Validate infers "Root"
// if it exists, per spec §3.7.
func (g *Grammar) SetStart(nt string) { g.start = nt }

// StartSymbol returns the configured (or inferred) start symbol.
func (g *Grammar) StartSymbol() string {
	if g.start != "" {
		return g.start
	}
	if _, ok := g.rules["Root"]; ok {
		return "Root"
	}
	return g.start
}

// AddTerm declares a terminal with the given id and token class.
func (g *Grammar) AddTerm(id string, class token.Class) {
	if _, exists := g.terminals[id]; !exists {
		g.termOrder = append(g.termOrder, id)
	}
	g.terminals[id] = class
}

// AddRule adds one alternative (with a trivial pass-through action when len
// == 1, else no action) for nonterminal nt and returns its assigned global
// rule index. This mirrors the teacher's AddRule(nonTerminal, production)
// signature, used directly by grammar-analysis-only tests ported from the
// teacher's grammar_test.go that never touch actions.
func (g *Grammar) AddRule(nt string, prod Production) int {
	action := ""
	if len(prod) == 1 && !prod.IsEpsilon() {
		action = "1"
	}
	return g.AddRuleWithAction(nt, prod, action)
}

// AddRuleWithAction adds one alternative with an explicit semantic action
// and returns its assigned global rule index.
func (g *Grammar) AddRuleWithAction(nt string, prod Production, action string) int {
	if _, exists := g.rules[nt]; !exists {
		g.ruleOrder = append(g.ruleOrder, nt)
	}
	idx := g.nextIndex
	g.nextIndex++
	g.rules[nt] = append(g.rules[nt], Alternative{
		Index:       idx,
		NonTerminal: nt,
		Symbols:     prod.Copy(),
		Action:      action,
	})
	return idx
}

// SetOperators replaces the operator precedence table.
func (g *Grammar) SetOperators(ops []OperatorEntry) { g.operators = ops }

// Operators returns the operator precedence table, low index = low
// binding, per spec §3.4.
func (g *Grammar) Operators() []OperatorEntry { return g.operators }

// NonTerminals returns the defined nonterminal names in the order their
// first rule was added.
func (g *Grammar) NonTerminals() []string {
	out := make([]string, len(g.ruleOrder))
	copy(out, g.ruleOrder)
	return out
}

// Terminals returns the declared terminal ids in the order they were added.
func (g *Grammar) Terminals() []string {
	out := make([]string, len(g.termOrder))
	copy(out, g.termOrder)
	return out
}

// Term returns the token.Class registered for a terminal id.
func (g *Grammar) Term(id string) token.Class { return g.terminals[id] }

// TermFor returns the terminal id registered for a token.Class, by ID
// equality, or "" if none matches.
func (g *Grammar) TermFor(c token.Class) string {
	if c == nil {
		return ""
	}
	for _, id := range g.termOrder {
		if g.terminals[id].ID() == c.ID() {
			return id
		}
	}
	return ""
}

// IsTerminal reports whether name is a declared terminal.
func (g *Grammar) IsTerminal(name string) bool {
	_, ok := g.terminals[name]
	return ok
}

// IsNonTerminal reports whether name appears on the lhs of at least one
// rule — the spec §3.1 classification rule ("does it appear on an LHS?").
func (g *Grammar) IsNonTerminal(name string) bool {
	_, ok := g.rules[name]
	return ok
}

// Alternatives returns every alternative defined for nonterminal nt, in
// the order they were added.
func (g *Grammar) Alternatives(nt string) []Alternative {
	alts := g.rules[nt]
	out := make([]Alternative, len(alts))
	copy(out, alts)
	return out
}

// AllAlternatives returns every alternative in the grammar, ordered first
// by nonterminal-definition order and then by within-nonterminal order —
// i.e. ascending by Index, since indices are assigned in that same order.
func (g *Grammar) AllAlternatives() []Alternative {
	var out []Alternative
	for _, nt := range g.ruleOrder {
		out = append(out, g.rules[nt]...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Rule returns the merged Rule{NonTerminal, Productions} view of nt, for
// compatibility with the teacher-style "whole rule" assertions.
func (g *Grammar) Rule(nt string) Rule {
	alts := g.rules[nt]
	prods := make([]Production, len(alts))
	for i, a := range alts {
		prods[i] = a.Symbols
	}
	return Rule{NonTerminal: nt, Productions: prods}
}

// Copy returns a deep copy of the grammar builder.
func (g *Grammar) Copy() *Grammar {
	cp := New()
	cp.start = g.start
	cp.nextIndex = g.nextIndex
	cp.ruleOrder = append([]string(nil), g.ruleOrder...)
	cp.termOrder = append([]string(nil), g.termOrder...)
	for k, v := range g.terminals {
		cp.terminals[k] = v
	}
	for nt, alts := range g.rules {
		cp.rules[nt] = append([]Alternative(nil), alts...)
	}
	cp.operators = append([]OperatorEntry(nil), g.operators...)
	return cp
}

// Validate checks the structural invariants of spec §3.7 that do not
// require fixpoint analysis: a start symbol exists and has rules; at least
// one terminal and one rule are declared; every rhs symbol is either a
// declared terminal or a defined nonterminal; ε never appears mixed with
// other symbols in a production. Actions are not examined here; their
// positional references are checked by action.Transform (which LoadData
// runs on every rule, and the emitter runs again).
//
// FIRST/FOLLOW/SELECT-based checks (nullable fixpoint, LL(1) conflicts) are
// the Analyzer's responsibility (package analyzer), not this builder's.
func (g *Grammar) Validate() error {
	start := g.StartSymbol()
	if start == "" {
		return generrors.MalformedGrammar(-1, "no start symbol configured and no \"Root\" nonterminal defined")
	}
	if len(g.rules) == 0 {
		return generrors.MalformedGrammar(-1, "grammar has no rules")
	}
	if len(g.terminals) == 0 {
		return generrors.MalformedGrammar(-1, "grammar declares no terminals")
	}
	if _, ok := g.rules[start]; !ok {
		return generrors.MalformedGrammar(-1, fmt.Sprintf("start symbol %q has no rules", start))
	}

	for _, alt := range g.AllAlternatives() {
		if alt.Symbols.IsEpsilon() {
			continue
		}
		for _, sym := range alt.Symbols {
			if sym == "" {
				return generrors.MalformedGrammar(alt.Index, "ε mixed with other symbols in a production")
			}
			if !g.IsTerminal(sym) && !g.IsNonTerminal(sym) {
				return generrors.WrapMalformedGrammar(
					generrors.UnknownSymbol(sym, alt.NonTerminal, alt.Index),
					alt.Index,
					fmt.Sprintf("symbol %q is neither a declared terminal nor a defined nonterminal", sym),
				)
			}
		}
	}

	return nil
}

// String renders every rule, one per line, for diagnostics.
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, nt := range g.ruleOrder {
		sb.WriteString(g.Rule(nt).String())
		sb.WriteRune('\n')
	}
	return sb.String()
}
