package interp

import (
	"github.com/gillnet/gillnet/analyzer"
	"github.com/gillnet/gillnet/generrors"
	"github.com/gillnet/gillnet/grammar"
	"github.com/gillnet/gillnet/pattern"
	"github.com/gillnet/gillnet/sexpr"
	"github.com/gillnet/gillnet/token"
)

// Interp walks a classified grammar against a token stream, applying the
// same one-token-lookahead, capture-before-advance runtime contract the
// Code Emitter's generated parser follows (spec §4.5/§4.6), but executing
// directly instead of through compiled Go.
type Interp struct {
	g   *grammar.Grammar
	an  analyzer.Analysis
	cls pattern.Classification

	stream token.Stream
	la     token.Token
}

// New constructs an Interp over a classified grammar and a token stream,
// priming the first lookahead token exactly as the emitted parser's
// newParser does.
func New(g *grammar.Grammar, an analyzer.Analysis, cls pattern.Classification, stream token.Stream) *Interp {
	it := &Interp{g: g, an: an, cls: cls, stream: stream}
	it.la = stream.Next()
	return it
}

// Parse runs an Interp from the grammar's start symbol to completion, then
// asserts the next token is the end-of-stream sentinel (spec §4.5):
// trailing tokens after a syntactically complete parse are a ParseError,
// not silently discarded input.
func Parse(g *grammar.Grammar, an analyzer.Analysis, cls pattern.Classification, stream token.Stream) (sexpr.SExpr, error) {
	it := New(g, an, cls, stream)
	result, err := it.ParseNonTerminal(g.StartSymbol())
	if err != nil {
		return sexpr.SExpr{}, err
	}
	if it.la.Class().ID() != token.EndOfInput {
		return sexpr.SExpr{}, it.raiseError([]string{token.EndOfInput})
	}
	return result, nil
}

func (it *Interp) match(class string) (token.Token, error) {
	if it.la.Class().ID() != class {
		return nil, it.raiseError([]string{class})
	}
	captured := it.la
	it.advance()
	return captured, nil
}

// advance always asks the stream for the next token, never gating on
// HasNext: once the real tokens are exhausted, Next keeps returning the
// stream's end-of-input sentinel, and that sentinel is exactly what la
// must eventually become for raiseError/Parse to recognize end of input.
func (it *Interp) advance() {
	it.la = it.stream.Next()
}

func (it *Interp) raiseError(expected []string) error {
	return generrors.NewParseError(expected, it.la.Class().ID(), it.la.Lexeme(), it.la.Line(), it.la.Column())
}

// ParseNonTerminal dispatches to the execution strategy matching nt's
// pattern tag and returns the sexpr.SExpr its action(s) produce.
func (it *Interp) ParseNonTerminal(nt string) (sexpr.SExpr, error) {
	nc, ok := it.cls.Of(nt)
	if !ok {
		return sexpr.SExpr{}, generrors.MalformedGrammar(-1, "unknown nonterminal "+nt)
	}

	switch nc.Tag {
	case pattern.TagDispatch:
		return it.execDispatch(nc, nc.Dispatch.ByFirstTerminal, nc.Dispatch.EpsilonRule)
	case pattern.TagSwitch:
		byTerm := map[string]int{}
		if nc.Switch != nil {
			byTerm = nc.Switch.ByFirstTerminal
		}
		epsilonRule := -1
		for _, ap := range nc.Alts {
			if ap.Alt.Symbols.IsEpsilon() {
				epsilonRule = ap.Alt.Index
			}
		}
		return it.execDispatch(nc, byTerm, epsilonRule)
	case pattern.TagTail:
		return it.execTail(nc)
	case pattern.TagBinaryOpChain:
		return it.execBinaryOpChain(nc)
	case pattern.TagAccessorChain:
		return it.execAccessorChain(nc)
	case pattern.TagSpecial:
		// Special capabilities are exercised end-to-end through emit's
		// generated source text (spec §4.6); interp does not re-implement
		// their bespoke control flow, since doing so would just be a
		// second copy of special's own handlers.
		return sexpr.SExpr{}, generrors.NoSpecialHandler(nt)
	default:
		return sexpr.SExpr{}, generrors.MalformedGrammar(-1, "unclassified nonterminal "+nt)
	}
}

func findAlt(nc pattern.NonTerminalClass, ruleIndex int) (pattern.AltPlan, bool) {
	for _, ap := range nc.Alts {
		if ap.Alt.Index == ruleIndex {
			return ap, true
		}
	}
	return pattern.AltPlan{}, false
}

func (it *Interp) execAlt(nc pattern.NonTerminalClass, ruleIndex int) (sexpr.SExpr, error) {
	ap, ok := findAlt(nc, ruleIndex)
	if !ok {
		return sexpr.SExpr{}, generrors.MalformedGrammar(ruleIndex, "rule not found in classification for "+nc.Name)
	}

	bindings := make(map[int]sexpr.SExpr, len(ap.Bindings))
	for _, b := range ap.Bindings {
		if b.Kind == pattern.BindTerminal {
			tok, err := it.match(b.Symbol)
			if err != nil {
				return sexpr.SExpr{}, err
			}
			bindings[b.Position] = sexpr.Opaque(tok)
		} else {
			v, err := it.ParseNonTerminal(b.Symbol)
			if err != nil {
				return sexpr.SExpr{}, err
			}
			bindings[b.Position] = v
		}
	}
	return EvalAction(ap.Alt.Action, bindings)
}

func (it *Interp) execDispatch(nc pattern.NonTerminalClass, byTerm map[string]int, epsilonRule int) (sexpr.SExpr, error) {
	term := it.la.Class().ID()
	if idx, ok := byTerm[term]; ok {
		return it.execAlt(nc, idx)
	}
	if epsilonRule >= 0 {
		return it.execAlt(nc, epsilonRule)
	}
	expected := make([]string, 0, len(byTerm))
	for t := range byTerm {
		expected = append(expected, t)
	}
	return sexpr.SExpr{}, it.raiseError(expected)
}

func (it *Interp) execTail(nc pattern.NonTerminalClass) (sexpr.SExpr, error) {
	info := nc.Tail
	items := []sexpr.SExpr{}
	for it.la.Class().ID() == info.Separator {
		if _, err := it.match(info.Separator); err != nil {
			return sexpr.SExpr{}, err
		}
		if info.HasElement {
			v, err := it.ParseNonTerminal(info.Element)
			if err != nil {
				return sexpr.SExpr{}, err
			}
			items = append(items, v)
		}
	}
	return sexpr.Seq(items...), nil
}

func (it *Interp) execBinaryOpChain(nc pattern.NonTerminalClass) (sexpr.SExpr, error) {
	info := nc.BinaryOpChain
	left, err := it.ParseNonTerminal(info.Sub)
	if err != nil {
		return sexpr.SExpr{}, err
	}

	if info.RightAssoc {
		for _, op := range info.Operators {
			if it.la.Class().ID() == op {
				if _, err := it.match(op); err != nil {
					return sexpr.SExpr{}, err
				}
				right, err := it.ParseNonTerminal(nc.Name)
				if err != nil {
					return sexpr.SExpr{}, err
				}
				return sexpr.Seq(sexpr.Str(op), left, right), nil
			}
		}
		return left, nil
	}

	for {
		matched := false
		for _, op := range info.Operators {
			if it.la.Class().ID() != op {
				continue
			}
			if _, err := it.match(op); err != nil {
				return sexpr.SExpr{}, err
			}
			right, err := it.ParseNonTerminal(info.Sub)
			if err != nil {
				return sexpr.SExpr{}, err
			}
			left = sexpr.Seq(sexpr.Str(op), left, right)
			matched = true
			break
		}
		if !matched {
			break
		}
	}
	return left, nil
}

func (it *Interp) execAccessorChain(nc pattern.NonTerminalClass) (sexpr.SExpr, error) {
	info := nc.AccessorChain
	base, ok := findAlt(nc, info.BaseRule)
	if !ok {
		return sexpr.SExpr{}, generrors.MalformedGrammar(info.BaseRule, "accessor chain base rule missing")
	}
	result, err := it.execAlt(nc, base.Alt.Index)
	if err != nil {
		return sexpr.SExpr{}, err
	}

	for {
		matched := false
		for _, ruleIdx := range info.AccessorRules {
			ap, ok := findAlt(nc, ruleIdx)
			if !ok || len(ap.Bindings) < 2 {
				continue
			}
			start := ap.Bindings[1].Symbol
			if it.la.Class().ID() != start {
				continue
			}
			bindings := map[int]sexpr.SExpr{1: result}
			for _, b := range ap.Bindings[1:] {
				if b.Kind == pattern.BindTerminal {
					tok, err := it.match(b.Symbol)
					if err != nil {
						return sexpr.SExpr{}, err
					}
					bindings[b.Position] = sexpr.Opaque(tok)
				} else {
					v, err := it.ParseNonTerminal(b.Symbol)
					if err != nil {
						return sexpr.SExpr{}, err
					}
					bindings[b.Position] = v
				}
			}
			result, err = EvalAction(ap.Alt.Action, bindings)
			if err != nil {
				return sexpr.SExpr{}, err
			}
			matched = true
			break
		}
		if !matched {
			break
		}
	}
	return result, nil
}
