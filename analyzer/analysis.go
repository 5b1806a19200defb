// Package analyzer implements the Grammar Analyzer (spec §4.2): nullable,
// FIRST, FOLLOW, and per-alternative SELECT set computation by iterative
// closure, plus LL(1) conflict detection. It is a pure function over a
// grammar.Grammar, producing an immutable Analysis snapshot, per the
// Design Notes' pipeline-of-pure-functions redesign (spec §9) — where the
// teacher toolkit computes FIRST/FOLLOW as methods directly on its mutable
// Grammar, gillnet computes them once into a frozen value that every later
// stage reads but never mutates.
package analyzer

import (
	"sort"

	"github.com/gillnet/gillnet/generrors"
	"github.com/gillnet/gillnet/grammar"
	"github.com/gillnet/gillnet/internal/util"
)

// Analysis is the immutable result of analyzing a Grammar: nullability,
// FIRST/FOLLOW sets, per-alternative SELECT sets, and any LL(1) conflicts
// found. Conflicts are recorded, not fatal — per spec §4.2, "the presence
// of conflicts is recorded but does not, by itself, abort generation";
// later pipeline stages decide what to do with them.
type Analysis struct {
	g         *grammar.Grammar
	nullable  map[string]bool
	first     map[string]util.StringSet
	follow    map[string]util.StringSet
	selectSet map[int]util.StringSet
	conflicts []generrors.Conflict
}

// Grammar returns the grammar this Analysis was computed over.
func (a Analysis) Grammar() *grammar.Grammar { return a.g }

// Nullable reports whether a symbol (terminal or nonterminal) can derive
// the empty string. Terminals are never nullable.
func (a Analysis) Nullable(sym string) bool { return a.nullable[sym] }

// FIRST returns the FIRST set of a single symbol. For a terminal this is
// always {sym}; for a nonterminal it is the precomputed closure.
func (a Analysis) FIRST(sym string) util.StringSet {
	if a.g.IsTerminal(sym) {
		return util.NewStringSetOf(sym)
	}
	return a.first[sym].Copy()
}

// FOLLOW returns the FOLLOW set of a nonterminal.
func (a Analysis) FOLLOW(nt string) util.StringSet {
	return a.follow[nt].Copy()
}

// SELECT returns the SELECT set of the alternative with the given rule
// index, per spec §4.2: FIRST(α) minus ε, plus FOLLOW(A) if α is nullable.
func (a Analysis) SELECT(ruleIndex int) util.StringSet {
	return a.selectSet[ruleIndex].Copy()
}

// Conflicts returns every SELECT-set collision found between alternatives
// of the same nonterminal.
func (a Analysis) Conflicts() []generrors.Conflict { return a.conflicts }

// IsLL1 reports whether the grammar analyzed conflict-free.
func (a Analysis) IsLL1() bool { return len(a.conflicts) == 0 }

// ConflictsFor returns the conflicts recorded for a single nonterminal.
func (a Analysis) ConflictsFor(nt string) []generrors.Conflict {
	var out []generrors.Conflict
	for _, c := range a.conflicts {
		if c.NonTerminal == nt {
			out = append(out, c)
		}
	}
	return out
}

// firstOfSequence computes FIRST(X1...Xn) and whether the whole sequence is
// nullable, per spec §4.2's definition of FIRST for a production.
func (a Analysis) firstOfSequence(symbols []string) (util.StringSet, bool) {
	out := util.NewStringSet()
	if len(symbols) == 0 {
		return out, true
	}
	for _, sym := range symbols {
		out.AddAll(a.FIRST(sym))
		if !a.Nullable(sym) {
			return out, false
		}
	}
	return out, true
}

// Analyze computes nullable/FIRST/FOLLOW/SELECT sets and detects LL(1)
// conflicts for g, per spec §4.2. g must already satisfy grammar.Validate;
// Analyze does not re-check structural invariants, only the semantic
// properties layered on top of them.
func Analyze(g *grammar.Grammar) (Analysis, error) {
	gc := g.Copy()
	a := Analysis{
		g:         gc,
		nullable:  make(map[string]bool),
		first:     make(map[string]util.StringSet),
		follow:    make(map[string]util.StringSet),
		selectSet: make(map[int]util.StringSet),
	}

	nts := gc.NonTerminals()
	for _, nt := range nts {
		a.first[nt] = util.NewStringSet()
		a.follow[nt] = util.NewStringSet()
	}

	// Nullable: iterate to fixpoint. A nonterminal is nullable iff it has
	// an alternative whose rhs is ε or whose symbols are all nullable.
	for changed := true; changed; {
		changed = false
		for _, nt := range nts {
			if a.nullable[nt] {
				continue
			}
			for _, alt := range gc.Alternatives(nt) {
				if alt.Symbols.IsEpsilon() {
					a.nullable[nt] = true
					changed = true
					break
				}
				allNullable := true
				for _, sym := range alt.Symbols {
					if gc.IsTerminal(sym) || !a.nullable[sym] {
						allNullable = false
						break
					}
				}
				if allNullable {
					a.nullable[nt] = true
					changed = true
					break
				}
			}
		}
	}

	// FIRST: iterate to fixpoint over nonterminal FIRST sets.
	for changed := true; changed; {
		changed = false
		for _, nt := range nts {
			before := a.first[nt].Len()
			for _, alt := range gc.Alternatives(nt) {
				if alt.Symbols.IsEpsilon() {
					continue
				}
				for _, sym := range alt.Symbols {
					a.first[nt].AddAll(a.FIRST(sym))
					if !a.nullable[sym] {
						break
					}
				}
			}
			if a.first[nt].Len() != before {
				changed = true
			}
		}
	}

	// FOLLOW: FOLLOW(Start) gets $end; for A -> αBβ, FIRST(β)\ε goes into
	// FOLLOW(B), and if β is nullable (or empty), FOLLOW(A) goes into
	// FOLLOW(B) too. Iterate to fixpoint per spec §4.2.
	start := gc.StartSymbol()
	if start != "" {
		a.follow[start].Add(grammar.EndOfInput)
	}
	for changed := true; changed; {
		changed = false
		for _, alt := range gc.AllAlternatives() {
			rhs := alt.Symbols
			if rhs.IsEpsilon() {
				continue
			}
			for i, sym := range rhs {
				if gc.IsTerminal(sym) {
					continue
				}
				beta := rhs[i+1:]
				firstBeta, betaNullable := a.firstOfSequence(beta)
				before := a.follow[sym].Len()
				a.follow[sym].AddAll(firstBeta)
				if betaNullable {
					a.follow[sym].AddAll(a.follow[alt.NonTerminal])
				}
				if a.follow[sym].Len() != before {
					changed = true
				}
			}
		}
	}

	// SELECT: per alternative, FIRST(α)\ε plus FOLLOW(A) if α nullable.
	for _, alt := range gc.AllAlternatives() {
		var sel util.StringSet
		if alt.Symbols.IsEpsilon() {
			sel = a.follow[alt.NonTerminal].Copy()
		} else {
			firstAlpha, nullableAlpha := a.firstOfSequence(alt.Symbols)
			sel = firstAlpha
			if nullableAlpha {
				sel.AddAll(a.follow[alt.NonTerminal])
			}
		}
		a.selectSet[alt.Index] = sel
	}

	// LL(1) check: within each nonterminal, every pair of alternatives must
	// have disjoint SELECT sets.
	for _, nt := range nts {
		alts := gc.Alternatives(nt)
		for i := 0; i < len(alts); i++ {
			for j := i + 1; j < len(alts); j++ {
				si := a.selectSet[alts[i].Index]
				sj := a.selectSet[alts[j].Index]
				shared := si.Intersection(sj)
				if shared.Len() > 0 {
					a.conflicts = append(a.conflicts, generrors.Conflict{
						NonTerminal: nt,
						RuleA:       alts[i].Index,
						RuleB:       alts[j].Index,
						Shared:      shared.Ordered(),
					})
				}
			}
		}
	}
	sort.Slice(a.conflicts, func(i, j int) bool {
		if a.conflicts[i].NonTerminal != a.conflicts[j].NonTerminal {
			return a.conflicts[i].NonTerminal < a.conflicts[j].NonTerminal
		}
		return a.conflicts[i].RuleA < a.conflicts[j].RuleA
	})

	return a, nil
}
