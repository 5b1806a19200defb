package analyzer

import (
	"sort"

	"github.com/dekarrin/rosed"
	"github.com/gillnet/gillnet/grammar"
)

// LL1Table is M[nonterminal, terminal] -> production, built from SELECT
// sets, mirroring the teacher's grammar.LL1Table used by its table-driven
// ll1Parser. gillnet's own emitted/interpreted parsers use the Tail,
// BinaryOpChain, and AccessorChain patterns to avoid ever consulting a
// table at all where those shapes apply (spec §4.3). The Dispatch and
// Switch patterns build their own lookup maps in package pattern, and
// interp reads those; LL1Table is a rendering of the same SELECT-based
// choice, printed by gillnet.DumpIR.
type LL1Table struct {
	cells map[string]map[string]ll1Entry
}

type ll1Entry struct {
	rule       int
	production grammar.Production
	has        bool
}

// Get returns the production for M[nt, terminal] and whether an entry
// exists there at all.
func (t LL1Table) Get(nt, terminal string) (grammar.Production, int, bool) {
	row, ok := t.cells[nt]
	if !ok {
		return nil, 0, false
	}
	e, ok := row[terminal]
	if !ok || !e.has {
		return nil, 0, false
	}
	return e.production, e.rule, true
}

// NonTerminals returns the table's row keys, alphabetized.
func (t LL1Table) NonTerminals() []string {
	out := make([]string, 0, len(t.cells))
	for k := range t.cells {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// String renders the table as a column-aligned grid, mirroring the
// teacher's slrTable.String() use of rosed.InsertTableOpts for its
// state/symbol tables.
func (t LL1Table) String() string {
	terms := t.terminalColumns()

	data := [][]string{append([]string{"nt \\ term"}, terms...)}
	for _, nt := range t.NonTerminals() {
		row := []string{nt}
		for _, term := range terms {
			if e, ok := t.cells[nt][term]; ok && e.has {
				row = append(row, e.production.String())
			} else {
				row = append(row, "")
			}
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 20, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func (t LL1Table) terminalColumns() []string {
	seen := map[string]bool{}
	var out []string
	for _, nt := range t.NonTerminals() {
		for term := range t.cells[nt] {
			if !seen[term] {
				seen[term] = true
				out = append(out, term)
			}
		}
	}
	sort.Strings(out)
	return out
}

// LLParseTable builds the LL(1) parse table from this Analysis's SELECT
// sets, per spec §4.2. Where two alternatives of the same nonterminal
// collide on a terminal (already recorded in Conflicts()), the
// lowest-indexed alternative wins the cell; callers that must refuse to
// operate under an unresolved conflict should consult IsLL1()/Conflicts()
// first; LLParseTable itself never fails; it just reports what it built, in
// keeping with spec §4.2's "recorded but does not, by itself, abort".
func (a Analysis) LLParseTable() LL1Table {
	t := LL1Table{cells: make(map[string]map[string]ll1Entry)}
	for _, nt := range a.g.NonTerminals() {
		t.cells[nt] = make(map[string]ll1Entry)
		for _, alt := range a.g.Alternatives(nt) {
			sel := a.SELECT(alt.Index)
			for _, term := range sel.Ordered() {
				if existing, ok := t.cells[nt][term]; ok && existing.has && existing.rule < alt.Index {
					continue
				}
				t.cells[nt][term] = ll1Entry{rule: alt.Index, production: alt.Symbols, has: true}
			}
		}
	}
	return t
}
