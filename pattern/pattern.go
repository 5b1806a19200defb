// Package pattern implements the Pattern Recognizer (spec §4.3): it tags
// each nonterminal with one of Special, Tail, BinaryOpChain, AccessorChain,
// Dispatch, or Switch, in that priority order, and computes the
// position-binding plan (terminal match vs. nonterminal call per rhs
// position) that the Code Emitter and interp both consume.
package pattern

import "github.com/gillnet/gillnet/grammar"

// Tag is the structural classification assigned to a nonterminal.
type Tag int

const (
	TagSpecial Tag = iota
	TagTail
	TagBinaryOpChain
	TagAccessorChain
	TagDispatch
	TagSwitch
)

func (t Tag) String() string {
	switch t {
	case TagSpecial:
		return "Special"
	case TagTail:
		return "Tail"
	case TagBinaryOpChain:
		return "BinaryOpChain"
	case TagAccessorChain:
		return "AccessorChain"
	case TagDispatch:
		return "Dispatch"
	default:
		return "Switch"
	}
}

// BindKind says whether one rhs position is matched against the lexer
// (terminal) or recursed into via another parse function (nonterminal).
type BindKind int

const (
	BindTerminal BindKind = iota
	BindNonTerminal
)

// PositionBinding is the plan for one rhs position, one-based per spec
// §4.3/§4.4 ("rhs positions addressed by bare digits ... one-based index").
type PositionBinding struct {
	Position int
	Kind     BindKind
	Symbol   string
}

// AltPlan pairs a grammar alternative with its position-binding plan.
type AltPlan struct {
	Alt      grammar.Alternative
	Bindings []PositionBinding
}

func bindingsFor(rhs grammar.Production, g *grammar.Grammar) []PositionBinding {
	if rhs.IsEpsilon() {
		return nil
	}
	out := make([]PositionBinding, len(rhs))
	for i, sym := range rhs {
		kind := BindNonTerminal
		if g.IsTerminal(sym) {
			kind = BindTerminal
		}
		out[i] = PositionBinding{Position: i + 1, Kind: kind, Symbol: sym}
	}
	return out
}

// TailInfo is the extracted shape of a Tail-tagged nonterminal.
type TailInfo struct {
	Separator   string
	HasElement  bool
	Element     string // nonterminal parsed each iteration, if HasElement
	EpsilonRule int
	RecurRules  []int
}

// BinaryOpChainInfo is the extracted shape of a BinaryOpChain-tagged
// nonterminal.
type BinaryOpChainInfo struct {
	Sub           string
	Operators     []string
	RightAssoc    bool
	BaseRule      int
	OperandRules  []int // one rule index per operator alternative, same order as Operators
}

// AccessorChainInfo is the extracted shape of an AccessorChain-tagged
// nonterminal.
type AccessorChainInfo struct {
	BaseRule      int
	AccessorRules []int
	Starts        []string // first symbol following the recursive N in each accessor alt
}

// DispatchInfo is the extracted shape of a Dispatch-tagged nonterminal.
type DispatchInfo struct {
	ByFirstTerminal map[string]int
	EpsilonRule     int // -1 if none
}

// SwitchInfo is the fallback case: one case per alternative, keyed by
// every terminal in its SELECT set.
type SwitchInfo struct {
	ByFirstTerminal map[string]int
}

// NonTerminalClass is the full classification record for one nonterminal.
type NonTerminalClass struct {
	Name string
	Tag  Tag
	Alts []AltPlan

	Tail          *TailInfo
	BinaryOpChain *BinaryOpChainInfo
	AccessorChain *AccessorChainInfo
	Dispatch      *DispatchInfo
	Switch        *SwitchInfo
}

// Classification is the immutable result of running the Pattern Recognizer
// over every nonterminal of a grammar.
type Classification struct {
	byName map[string]NonTerminalClass
	order  []string
}

// NonTerminals returns the classified nonterminal names, in grammar
// definition order.
func (c Classification) NonTerminals() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Of returns the classification for a single nonterminal.
func (c Classification) Of(name string) (NonTerminalClass, bool) {
	nc, ok := c.byName[name]
	return nc, ok
}
