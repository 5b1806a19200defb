package pattern

import (
	"sort"

	"github.com/gillnet/gillnet/analyzer"
	"github.com/gillnet/gillnet/grammar"
)

// SpecialRegistry reports whether a nonterminal name matches one of the
// closed set of bespoke Special handlers (component F). It is declared
// here, not in the special package, so Classify can depend on the
// capability without importing special's handler implementations — special
// depends on emit (which depends on pattern), not the other way around.
type SpecialRegistry interface {
	Has(name string) bool
}

// Classify runs the Pattern Recognizer (spec §4.3) over every nonterminal
// of g, tagging each with the first matching pattern in priority order:
// Special, Tail, BinaryOpChain, AccessorChain, Dispatch, Switch. a supplies
// the SELECT sets that the Switch fallback reads. registry may be nil,
// meaning no
// nonterminal matches a Special handler.
func Classify(g *grammar.Grammar, a analyzer.Analysis, registry SpecialRegistry) Classification {
	c := Classification{byName: make(map[string]NonTerminalClass)}

	for _, nt := range g.NonTerminals() {
		c.order = append(c.order, nt)

		alts := append([]grammar.Alternative(nil), g.Alternatives(nt)...)
		sort.Slice(alts, func(i, j int) bool { return alts[i].Index < alts[j].Index })

		nc := NonTerminalClass{Name: nt, Alts: altPlans(alts, g)}

		switch {
		case registry != nil && registry.Has(nt):
			nc.Tag = TagSpecial
		default:
			if info, ok := recognizeTail(nt, alts, g); ok {
				nc.Tag = TagTail
				nc.Tail = info
			} else if info, ok := recognizeBinaryOpChain(nt, alts, g); ok {
				nc.Tag = TagBinaryOpChain
				nc.BinaryOpChain = info
			} else if info, ok := recognizeAccessorChain(nt, alts, g); ok {
				nc.Tag = TagAccessorChain
				nc.AccessorChain = info
			} else if info, ok := recognizeDispatch(nt, alts, g); ok {
				nc.Tag = TagDispatch
				nc.Dispatch = info
			} else {
				nc.Tag = TagSwitch
				nc.Switch = buildSwitch(alts, a)
			}
		}

		c.byName[nt] = nc
	}

	return c
}

func altPlans(alts []grammar.Alternative, g *grammar.Grammar) []AltPlan {
	out := make([]AltPlan, len(alts))
	for i, alt := range alts {
		out[i] = AltPlan{Alt: alt, Bindings: bindingsFor(alt.Symbols, g)}
	}
	return out
}

// recognizeTail matches the classic right-recursive trailing-list shape:
// exactly one epsilon alternative and exactly one alternative of the form
// "sep N" or "sep element N", where N is the nonterminal itself in the
// rightmost position. It rewrites into a while-loop that consumes sep
// (and element, if present) until the lookahead forces the epsilon case.
func recognizeTail(nt string, alts []grammar.Alternative, g *grammar.Grammar) (*TailInfo, bool) {
	var eps, nonEps []grammar.Alternative
	for _, alt := range alts {
		if alt.Symbols.IsEpsilon() {
			eps = append(eps, alt)
		} else {
			nonEps = append(nonEps, alt)
		}
	}
	if len(eps) != 1 || len(nonEps) != 1 {
		return nil, false
	}

	alt := nonEps[0]
	rhs := alt.Symbols
	if len(rhs) < 2 || len(rhs) > 3 {
		return nil, false
	}
	if rhs[len(rhs)-1] != nt {
		return nil, false
	}
	sep := rhs[0]
	if !g.IsTerminal(sep) {
		return nil, false
	}

	info := &TailInfo{
		Separator:   sep,
		EpsilonRule: eps[0].Index,
		RecurRules:  []int{alt.Index},
	}
	if len(rhs) == 3 {
		info.HasElement = true
		info.Element = rhs[1]
	}
	return info, true
}

// recognizeBinaryOpChain matches a single non-recursive base alternative
// ("N -> Sub") plus one or more alternatives that are uniformly either
// left-recursive ("N -> N op Sub", rewritten as a left-associative loop) or
// right-recursive ("N -> Sub op N", kept as a right-associative recursive
// call), per spec §4.3.
func recognizeBinaryOpChain(nt string, alts []grammar.Alternative, g *grammar.Grammar) (*BinaryOpChainInfo, bool) {
	var base *grammar.Alternative
	var others []grammar.Alternative
	for i := range alts {
		alt := alts[i]
		if len(alt.Symbols) == 1 && !alt.Symbols.IsEpsilon() && alt.Symbols[0] != nt {
			if base != nil {
				return nil, false
			}
			b := alt
			base = &b
			continue
		}
		others = append(others, alt)
	}
	if base == nil || len(others) == 0 {
		return nil, false
	}

	sub := base.Symbols[0]
	if g.IsTerminal(sub) {
		return nil, false
	}

	allLeft, allRight := true, true
	var ops []string
	var opRules []int
	for _, alt := range others {
		rhs := alt.Symbols
		if len(rhs) != 3 || !g.IsTerminal(rhs[1]) {
			allLeft, allRight = false, false
			break
		}
		if !(rhs[0] == nt && rhs[2] == sub) {
			allLeft = false
		}
		if !(rhs[0] == sub && rhs[2] == nt) {
			allRight = false
		}
		ops = append(ops, rhs[1])
		opRules = append(opRules, alt.Index)
	}
	if !allLeft && !allRight {
		return nil, false
	}

	return &BinaryOpChainInfo{
		Sub:          sub,
		Operators:    ops,
		RightAssoc:   allRight,
		BaseRule:     base.Index,
		OperandRules: opRules,
	}, true
}

// recognizeAccessorChain matches a single non-recursive base alternative
// plus one or more left-recursive postfix alternatives ("N -> N . ident",
// "N -> N [ Expr ]", ...) where N recurs in the leftmost position, per spec
// §4.3's description of postfix accessor chains.
func recognizeAccessorChain(nt string, alts []grammar.Alternative, g *grammar.Grammar) (*AccessorChainInfo, bool) {
	var base *grammar.Alternative
	var accessors []grammar.Alternative
	for i := range alts {
		alt := alts[i]
		rhs := alt.Symbols
		if !rhs.IsEpsilon() && len(rhs) >= 2 && rhs[0] == nt {
			accessors = append(accessors, alt)
			continue
		}
		if base != nil {
			return nil, false
		}
		b := alt
		base = &b
	}
	if base == nil || len(accessors) == 0 || base.Symbols.IsEpsilon() {
		return nil, false
	}

	info := &AccessorChainInfo{BaseRule: base.Index}
	for _, alt := range accessors {
		info.AccessorRules = append(info.AccessorRules, alt.Index)
		info.Starts = append(info.Starts, alt.Symbols[1])
	}
	return info, true
}

// recognizeDispatch matches a nonterminal all of whose non-epsilon
// alternatives begin with a distinct terminal (at most one epsilon
// alternative besides), letting the emitter switch on a single token of
// lookahead without consulting SELECT sets at all.
func recognizeDispatch(nt string, alts []grammar.Alternative, g *grammar.Grammar) (*DispatchInfo, bool) {
	info := &DispatchInfo{ByFirstTerminal: make(map[string]int), EpsilonRule: -1}
	for _, alt := range alts {
		if alt.Symbols.IsEpsilon() {
			if info.EpsilonRule != -1 {
				return nil, false
			}
			info.EpsilonRule = alt.Index
			continue
		}
		first := alt.Symbols[0]
		if !g.IsTerminal(first) {
			return nil, false
		}
		if _, exists := info.ByFirstTerminal[first]; exists {
			return nil, false
		}
		info.ByFirstTerminal[first] = alt.Index
	}
	return info, true
}

// buildSwitch is the fallback case: one case per alternative, keyed by
// every terminal in its SELECT set, lowest rule index winning a collision.
// A genuine collision here was already recorded in Analysis.Conflicts();
// reporting it is the emitter's job (spec §4.5: a Switch nonterminal with
// an unresolved conflict and no Special handler is a hard error at
// emission, not here).
func buildSwitch(alts []grammar.Alternative, a analyzer.Analysis) *SwitchInfo {
	info := &SwitchInfo{ByFirstTerminal: make(map[string]int)}
	for _, alt := range alts {
		for _, term := range a.SELECT(alt.Index).Ordered() {
			if existing, ok := info.ByFirstTerminal[term]; !ok || alt.Index < existing {
				info.ByFirstTerminal[term] = alt.Index
			}
		}
	}
	return info
}
