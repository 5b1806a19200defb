package special

import (
	"github.com/gillnet/gillnet/action"
	"github.com/gillnet/gillnet/analyzer"
	"github.com/gillnet/gillnet/emit"
	"github.com/gillnet/gillnet/generrors"
	"github.com/gillnet/gillnet/grammar"
)

// sharedPrefixHandler left-factors alternatives that share a common
// multi-symbol opening sequence: it matches the shared prefix once, then
// switches on whatever terminal follows to pick the alternative that
// diverged from it. The shared prefix length is the longest common
// sequence of identical symbols across every alternative's rhs.
type sharedPrefixHandler struct{}

func (sharedPrefixHandler) Emit(nt string, g *grammar.Grammar, an analyzer.Analysis, alts []grammar.Alternative) (emit.Func, error) {
	alts = sortedAlts(alts)
	if len(alts) < 2 {
		return emit.Func{}, generrors.MalformedGrammar(-1, nt+": sharedPrefixDispatch needs at least two alternatives")
	}

	prefixLen := commonPrefixLen(alts)
	if prefixLen == 0 {
		return emit.Func{}, generrors.MalformedGrammar(-1, nt+": sharedPrefixDispatch found no shared opening symbols")
	}

	fn := emit.Func{
		Name:        funcName(nt),
		NonTerminal: nt,
		Doc:         "shared-prefix dispatch: the common opener is consumed once, then the next token picks the branch.",
	}

	var body []emit.Stmt
	for i := 1; i <= prefixLen; i++ {
		sym := alts[0].Symbols[i-1]
		local := localFor(i)
		if g.IsTerminal(sym) {
			body = append(body, emit.MatchStmt{Local: local, Terminal: sym})
		} else {
			body = append(body, emit.CallStmt{Local: local, NonTerminal: sym})
		}
	}

	sw := emit.SwitchStmt{Expr: "p.la.Class().ID()"}
	var epsilonBody []emit.Stmt
	for _, alt := range alts {
		rest := alt.Symbols[prefixLen:]
		if len(rest) == 0 {
			stmts, expr, err := bindSuffix(alt, g, prefixLen+1)
			if err != nil {
				return emit.Func{}, err
			}
			epsilonBody = append(stmts, emit.ReturnStmt{Expr: expr})
			continue
		}
		branchOn := rest[0]
		if !g.IsTerminal(branchOn) {
			return emit.Func{}, generrors.MalformedGrammar(alt.Index, nt+": sharedPrefixDispatch needs a terminal immediately after the shared prefix")
		}
		stmts, expr, err := bindSuffix(alt, g, prefixLen+1)
		if err != nil {
			return emit.Func{}, err
		}
		stmts = append(stmts, emit.ReturnStmt{Expr: expr})
		sw.Cases = append(sw.Cases, emit.SwitchCase{Cond: quote(branchOn), Body: stmts})
	}
	if epsilonBody != nil {
		sw.Default = epsilonBody
	} else {
		sw.Default = []emit.Stmt{emit.ReturnErrStmt{Expr: "p.raiseError(nil)"}}
	}

	body = append(body, sw)
	fn.Body = body
	return fn, nil
}

func commonPrefixLen(alts []grammar.Alternative) int {
	if len(alts) == 0 {
		return 0
	}
	shortest := len(alts[0].Symbols)
	for _, a := range alts[1:] {
		if len(a.Symbols) < shortest {
			shortest = len(a.Symbols)
		}
	}
	n := 0
	for i := 0; i < shortest; i++ {
		sym := alts[0].Symbols[i]
		for _, a := range alts[1:] {
			if a.Symbols[i] != sym {
				return n
			}
		}
		n++
	}
	return n
}

func localFor(position int) string {
	return action.LocalName(position)
}

// iterativeExprHandler renders a BinaryOpChain-shaped operand chain (base
// plus zero or more "op operand" pairs, left-associative) followed by an
// optional trailing postfix modifier applied to the accumulated result.
// The grammar shape it expects: a base alternative "Operand", "N op Operand"
// chain alternatives, and "N post" alternatives supplying postfix
// modifiers. Any number of chain and postfix alternatives is accepted;
// after the chain loop ends, each postfix alternative is checked once, in
// rule order.
type iterativeExprHandler struct{}

func (iterativeExprHandler) Emit(nt string, g *grammar.Grammar, an analyzer.Analysis, alts []grammar.Alternative) (emit.Func, error) {
	alts = sortedAlts(alts)

	var base *grammar.Alternative
	var chain []grammar.Alternative
	var postfix []grammar.Alternative
	for i := range alts {
		alt := alts[i]
		switch {
		case len(alt.Symbols) == 1 && !alt.Symbols.IsEpsilon() && alt.Symbols[0] != nt:
			b := alt
			base = &b
		case len(alt.Symbols) == 3 && alt.Symbols[0] == nt && g.IsTerminal(alt.Symbols[1]):
			chain = append(chain, alt)
		case len(alt.Symbols) == 2 && alt.Symbols[0] == nt:
			postfix = append(postfix, alt)
		}
	}
	if base == nil {
		return emit.Func{}, generrors.MalformedGrammar(-1, nt+": iterativeExprCore needs a single-symbol base alternative")
	}

	fn := emit.Func{
		Name:        funcName(nt),
		NonTerminal: nt,
		Doc:         "iterative expression core: left-associative operand chain with a trailing postfix modifier.",
	}
	body := []emit.Stmt{emit.CallStmt{Local: "left", NonTerminal: base.Symbols[0]}}

	loop := emit.SwitchStmt{Expr: "p.la.Class().ID()"}
	for _, alt := range chain {
		op := alt.Symbols[1]
		loop.Cases = append(loop.Cases, emit.SwitchCase{
			Cond: quote(op),
			Body: []emit.Stmt{
				emit.MatchStmt{Local: "op", Terminal: op},
				emit.CallStmt{Local: "right", NonTerminal: alt.Symbols[2]},
				emit.RawStmt{Text: "left = sexpr.Seq(sexpr.Opaque(op), left, right)"},
			},
		})
	}
	loop.Default = []emit.Stmt{emit.RawStmt{Text: "goto postfixCheck"}}
	body = append(body, emit.ForStmt{Body: []emit.Stmt{loop}})
	body = append(body, emit.RawStmt{Text: "postfixCheck:"})

	for _, alt := range postfix {
		mod := alt.Symbols[1]
		body = append(body,
			emit.IfStmt{
				Cond: `p.la.Class().ID() == ` + quote(mod),
				Then: []emit.Stmt{
					emit.MatchStmt{Local: "mod", Terminal: mod},
					emit.RawStmt{Text: "left = sexpr.Seq(sexpr.Opaque(mod), left)"},
				},
			},
		)
	}
	body = append(body, emit.ReturnStmt{Expr: "left"})

	fn.Body = body
	return fn, nil
}

// elidableListHandler renders a list whose element separator may be
// omitted: the loop continues as long as the lookahead is in FIRST of the
// element nonterminal, rather than requiring a fixed separator terminal.
type elidableListHandler struct{}

func (elidableListHandler) Emit(nt string, g *grammar.Grammar, an analyzer.Analysis, alts []grammar.Alternative) (emit.Func, error) {
	alts = sortedAlts(alts)

	var elementSym string
	hasEpsilon := false
	for _, alt := range alts {
		if alt.Symbols.IsEpsilon() {
			hasEpsilon = true
			continue
		}
		if len(alt.Symbols) != 2 || alt.Symbols[1] != nt {
			return emit.Func{}, generrors.MalformedGrammar(alt.Index, nt+": elidableList expects \"Element N\" alternatives")
		}
		elementSym = alt.Symbols[0]
	}
	if !hasEpsilon || elementSym == "" {
		return emit.Func{}, generrors.MalformedGrammar(-1, nt+": elidableList needs an epsilon base case and at least one element alternative")
	}
	if g.IsTerminal(elementSym) {
		return emit.Func{}, generrors.MalformedGrammar(-1, nt+": elidableList element must be a nonterminal so FIRST(element) is meaningful")
	}

	first := an.FIRST(elementSym).Ordered()

	fn := emit.Func{
		Name:        funcName(nt),
		NonTerminal: nt,
		Doc:         "elidable list: elements are juxtaposed with no separator terminal; the loop tests FIRST(element) directly.",
	}
	fn.Body = []emit.Stmt{
		emit.AssignStmt{Local: "items", Expr: "[]sexpr.SExpr{}"},
		emit.ForStmt{
			Cond: inSetExpr("p.la.Class().ID()", first),
			Body: []emit.Stmt{
				emit.CallStmt{Local: "elem", NonTerminal: elementSym},
				emit.RawStmt{Text: "items = append(items, elem)"},
			},
		},
		emit.ReturnStmt{Expr: "sexpr.Seq(items...)"},
	}
	return fn, nil
}

func inSetExpr(expr string, values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += " || "
		}
		out += expr + " == " + quote(v)
	}
	if out == "" {
		return "false"
	}
	return out
}

// lookaheadDisambiguatedHandler handles alternatives that all open with
// the identical terminal and can only be told apart by the token that
// follows it: the opener is matched unconditionally (it's the same for
// every alternative), which leaves the *next* token as the new lookahead,
// and that is what the switch dispatches on.
type lookaheadDisambiguatedHandler struct{}

func (lookaheadDisambiguatedHandler) Emit(nt string, g *grammar.Grammar, an analyzer.Analysis, alts []grammar.Alternative) (emit.Func, error) {
	alts = sortedAlts(alts)
	if len(alts) == 0 {
		return emit.Func{}, generrors.MalformedGrammar(-1, nt+": lookaheadDisambiguated needs at least one alternative")
	}
	opener := ""
	for _, alt := range alts {
		if alt.Symbols.IsEpsilon() || len(alt.Symbols) == 0 || !g.IsTerminal(alt.Symbols[0]) {
			return emit.Func{}, generrors.MalformedGrammar(alt.Index, nt+": lookaheadDisambiguated needs a common terminal opener on every alternative")
		}
		if opener == "" {
			opener = alt.Symbols[0]
		} else if alt.Symbols[0] != opener {
			return emit.Func{}, generrors.MalformedGrammar(alt.Index, nt+": lookaheadDisambiguated alternatives must share the same opener")
		}
	}

	fn := emit.Func{
		Name:        funcName(nt),
		NonTerminal: nt,
		Doc:         "lookahead-disambiguated: the shared opener is consumed first, then the next token picks the branch.",
	}
	body := []emit.Stmt{emit.MatchStmt{Local: localFor(1), Terminal: opener}}

	sw := emit.SwitchStmt{Expr: "p.la.Class().ID()"}
	for _, alt := range alts {
		if len(alt.Symbols) < 2 {
			stmts, expr, err := bindSuffix(alt, g, 2)
			if err != nil {
				return emit.Func{}, err
			}
			sw.Default = append(stmts, emit.ReturnStmt{Expr: expr})
			continue
		}
		branchOn := alt.Symbols[1]
		if !g.IsTerminal(branchOn) {
			return emit.Func{}, generrors.MalformedGrammar(alt.Index, nt+": lookaheadDisambiguated needs a terminal in the disambiguating position")
		}
		stmts, expr, err := bindSuffix(alt, g, 2)
		if err != nil {
			return emit.Func{}, err
		}
		stmts = append(stmts, emit.ReturnStmt{Expr: expr})
		sw.Cases = append(sw.Cases, emit.SwitchCase{Cond: quote(branchOn), Body: stmts})
	}
	if sw.Default == nil {
		sw.Default = []emit.Stmt{emit.ReturnErrStmt{Expr: "p.raiseError(nil)"}}
	}

	body = append(body, sw)
	fn.Body = body
	return fn, nil
}
