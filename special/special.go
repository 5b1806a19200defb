// Package special implements the four bespoke emission handlers the
// Pattern Recognizer falls back to when a nonterminal is explicitly
// registered as needing one (spec §4.6): none of Tail, BinaryOpChain,
// AccessorChain, or Dispatch can be derived purely from grammar shape for
// these, because the disambiguation they need lives one token further out
// than a single FIRST/SELECT check reaches. The registry is closed by
// design — exactly these four capabilities, no plugin mechanism — so every
// nonterminal tagged Special must name one of them or emission fails with
// generrors.NoSpecialHandler.
package special

import (
	"sort"

	"github.com/gillnet/gillnet/action"
	"github.com/gillnet/gillnet/emit"
	"github.com/gillnet/gillnet/grammar"
)

// Capability names one of the four registered handler kinds.
type Capability int

const (
	// SharedPrefixDispatch handles alternatives that share a common
	// multi-symbol opening sequence before diverging — ordinary Dispatch
	// only looks at the very first symbol, so a shared opener needs this
	// handler instead.
	SharedPrefixDispatch Capability = iota
	// IterativeExprCore handles a BinaryOpChain-shaped operand chain that
	// also carries a trailing postfix modifier on the final result (for
	// example a chain of additions followed by an optional unit suffix).
	IterativeExprCore
	// ElidableList handles a list whose separator between elements may
	// itself be omitted (juxtaposition lists), so the loop test is
	// "lookahead is in FIRST(element)" rather than "lookahead is the
	// separator terminal" the way Tail assumes.
	ElidableList
	// LookaheadDisambiguated handles alternatives that all begin with the
	// exact same opening terminal and are told apart only by the token
	// that follows it.
	LookaheadDisambiguated
)

// Registry is the closed set of nonterminal -> Capability bindings special
// handlers are registered against. The zero value is an empty registry.
type Registry struct {
	byName map[string]Capability
}

// NewRegistry builds a Registry from an explicit nonterminal->capability
// map, as populated from generator config by
// gillnet.SpecialRegistryFromConfig.
func NewRegistry(bindings map[string]Capability) *Registry {
	r := &Registry{byName: make(map[string]Capability, len(bindings))}
	for k, v := range bindings {
		r.byName[k] = v
	}
	return r
}

// Has reports whether nt is registered under any capability, satisfying
// pattern.SpecialRegistry.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.byName[name]
	return ok
}

// Get resolves nt to its emit.SpecialHandler, satisfying
// emit.SpecialHandlers.
func (r *Registry) Get(name string) (emit.SpecialHandler, bool) {
	if r == nil {
		return nil, false
	}
	cap, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return handlerFor(cap), true
}

func handlerFor(c Capability) emit.SpecialHandler {
	switch c {
	case SharedPrefixDispatch:
		return sharedPrefixHandler{}
	case IterativeExprCore:
		return iterativeExprHandler{}
	case ElidableList:
		return elidableListHandler{}
	default:
		return lookaheadDisambiguatedHandler{}
	}
}

func funcName(nt string) string { return "parse" + nt }

func quote(s string) string { return `"` + s + `"` }

// bindSuffix emits match/call statements for rhs positions start through
// the last position (one-based, inclusive) of alt, returning the statements and the
// transformed action expression.
func bindSuffix(alt grammar.Alternative, g *grammar.Grammar, start int) ([]emit.Stmt, string, error) {
	var stmts []emit.Stmt
	for i := start; i <= len(alt.Symbols); i++ {
		sym := alt.Symbols[i-1]
		local := action.LocalName(i)
		if g.IsTerminal(sym) {
			stmts = append(stmts, emit.MatchStmt{Local: local, Terminal: sym})
		} else {
			stmts = append(stmts, emit.CallStmt{Local: local, NonTerminal: sym})
		}
	}
	expr, err := action.Transform(alt.Index, alt.Action, len(alt.Symbols))
	if err != nil {
		return nil, "", err
	}
	return stmts, expr, nil
}

func sortedAlts(alts []grammar.Alternative) []grammar.Alternative {
	out := append([]grammar.Alternative(nil), alts...)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
