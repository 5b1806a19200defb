package emit

import (
	"sort"

	"github.com/gillnet/gillnet/action"
	"github.com/gillnet/gillnet/analyzer"
	"github.com/gillnet/gillnet/generrors"
	"github.com/gillnet/gillnet/grammar"
	"github.com/gillnet/gillnet/pattern"
)

// Build runs the Code Emitter's planning stage (spec §4.5): given a
// grammar, its Analysis, and its pattern Classification, it produces one
// emit.Func per nonterminal and assembles the immutable Plan that Generate
// later renders into source text. handlers
// resolves any nonterminal the Pattern Recognizer tagged Special; it may
// be nil if the grammar has none.
func Build(g *grammar.Grammar, an analyzer.Analysis, cls pattern.Classification, handlers SpecialHandlers) (Plan, error) {
	plan := Plan{
		StartSymbol: g.StartSymbol(),
		EntryFunc:   funcName(g.StartSymbol()),
	}

	for _, nt := range cls.NonTerminals() {
		nc, _ := cls.Of(nt)
		fn, err := buildFunc(g, an, nc, handlers)
		if err != nil {
			return Plan{}, err
		}
		plan.Funcs = append(plan.Funcs, fn)
	}

	sort.Slice(plan.Funcs, func(i, j int) bool { return plan.Funcs[i].NonTerminal < plan.Funcs[j].NonTerminal })
	return plan, nil
}

func buildFunc(g *grammar.Grammar, an analyzer.Analysis, nc pattern.NonTerminalClass, handlers SpecialHandlers) (Func, error) {
	switch nc.Tag {
	case pattern.TagSpecial:
		if handlers == nil {
			return Func{}, generrors.NoSpecialHandler(nc.Name)
		}
		h, ok := handlers.Get(nc.Name)
		if !ok {
			return Func{}, generrors.NoSpecialHandler(nc.Name)
		}
		alts := make([]grammar.Alternative, len(nc.Alts))
		for i, ap := range nc.Alts {
			alts[i] = ap.Alt
		}
		return h.Emit(nc.Name, g, an, alts)
	case pattern.TagTail:
		return buildTailFunc(nc)
	case pattern.TagBinaryOpChain:
		return buildBinaryOpChainFunc(nc)
	case pattern.TagAccessorChain:
		return buildAccessorChainFunc(nc)
	case pattern.TagDispatch:
		return buildDispatchFunc(nc, nc.Dispatch.ByFirstTerminal, nc.Dispatch.EpsilonRule)
	default:
		if conflicts := an.ConflictsFor(nc.Name); len(conflicts) > 0 {
			return Func{}, generrors.UnresolvedConflict(nc.Name, conflicts)
		}
		return buildSwitchFunc(nc, an)
	}
}

// altByRule finds the AltPlan for a given rule index within a
// NonTerminalClass's Alts.
func altByRule(nc pattern.NonTerminalClass, ruleIndex int) (pattern.AltPlan, bool) {
	for _, ap := range nc.Alts {
		if ap.Alt.Index == ruleIndex {
			return ap, true
		}
	}
	return pattern.AltPlan{}, false
}

func altBodyStmts(ap pattern.AltPlan) ([]Stmt, error) {
	var stmts []Stmt
	for _, bind := range ap.Bindings {
		local := action.LocalName(bind.Position)
		if bind.Kind == pattern.BindTerminal {
			stmts = append(stmts, MatchStmt{Local: local, Terminal: bind.Symbol})
		} else {
			stmts = append(stmts, CallStmt{Local: local, NonTerminal: bind.Symbol})
		}
	}
	expr, err := action.Transform(ap.Alt.Index, ap.Alt.Action, len(ap.Bindings))
	if err != nil {
		return nil, err
	}
	stmts = append(stmts, ReturnStmt{Expr: expr})
	return stmts, nil
}

// buildDispatchFunc and buildSwitchFunc share the same shape: switch on
// the single token of lookahead, one case per terminal mapping to an
// alternative's body. The only difference is where the terminal->rule map
// came from (the structural Dispatch match, or the SELECT-set fallback).
func buildDispatchOrSwitch(nc pattern.NonTerminalClass, byTerm map[string]int, epsilonRule int) (Func, error) {
	fn := Func{Name: funcName(nc.Name), NonTerminal: nc.Name}

	terms := make([]string, 0, len(byTerm))
	for t := range byTerm {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	sw := SwitchStmt{Expr: "p.la.Class().ID()"}
	for _, term := range terms {
		ap, ok := altByRule(nc, byTerm[term])
		if !ok {
			continue
		}
		body, err := altBodyStmts(ap)
		if err != nil {
			return Func{}, err
		}
		sw.Cases = append(sw.Cases, SwitchCase{Cond: quote(term), Body: body})
	}

	if epsilonRule >= 0 {
		ap, ok := altByRule(nc, epsilonRule)
		if ok {
			body, err := altBodyStmts(ap)
			if err != nil {
				return Func{}, err
			}
			sw.Default = body
		}
	} else {
		expected := make([]string, len(terms))
		copy(expected, terms)
		sw.Default = []Stmt{ReturnErrStmt{Expr: "p.raiseError(" + goStringSlice(expected) + ")"}}
	}

	fn.Body = []Stmt{sw}
	return fn, nil
}

func buildDispatchFunc(nc pattern.NonTerminalClass, byTerm map[string]int, epsilonRule int) (Func, error) {
	return buildDispatchOrSwitch(nc, byTerm, epsilonRule)
}

func buildSwitchFunc(nc pattern.NonTerminalClass, an analyzer.Analysis) (Func, error) {
	byTerm := map[string]int{}
	epsilonRule := -1
	for _, ap := range nc.Alts {
		if ap.Alt.Symbols.IsEpsilon() {
			epsilonRule = ap.Alt.Index
			continue
		}
	}
	if nc.Switch != nil {
		byTerm = nc.Switch.ByFirstTerminal
	}
	return buildDispatchOrSwitch(nc, byTerm, epsilonRule)
}

// buildTailFunc renders the classic right-recursive trailing list as an
// iterative loop: no recursive call to parseN survives, only a for-loop
// that keeps matching the separator (and element, if present) until the
// lookahead forces the epsilon exit.
func buildTailFunc(nc pattern.NonTerminalClass) (Func, error) {
	info := nc.Tail
	fn := Func{Name: funcName(nc.Name), NonTerminal: nc.Name}

	body := []Stmt{
		AssignStmt{Local: "items", Expr: "[]sexpr.SExpr{}"},
		ForStmt{
			Cond: `p.la.Class().ID() == ` + quote(info.Separator),
			Body: tailIterationStmts(info),
		},
		ReturnStmt{Expr: "sexpr.Seq(items...)"},
	}
	fn.Body = body
	return fn, nil
}

func tailIterationStmts(info *pattern.TailInfo) []Stmt {
	stmts := []Stmt{
		MatchStmt{Local: "sep", Terminal: info.Separator},
	}
	if info.HasElement {
		stmts = append(stmts, CallStmt{Local: "elem", NonTerminal: info.Element})
		stmts = append(stmts, RawStmt{Text: "items = append(items, elem)"})
	}
	return stmts
}

// buildBinaryOpChainFunc renders a left-associative chain as a loop
// (classic left-recursion elimination) and a right-associative chain as a
// single recursive call to itself, preserving the grammar's associativity
// without ever walking a conflicting SELECT table.
func buildBinaryOpChainFunc(nc pattern.NonTerminalClass) (Func, error) {
	info := nc.BinaryOpChain
	fn := Func{Name: funcName(nc.Name), NonTerminal: nc.Name}

	body := []Stmt{CallStmt{Local: "left", NonTerminal: info.Sub}}

	if info.RightAssoc {
		sw := SwitchStmt{Expr: "p.la.Class().ID()"}
		for _, op := range info.Operators {
			sw.Cases = append(sw.Cases, SwitchCase{
				Cond: quote(op),
				Body: []Stmt{
					MatchStmt{Local: "op", Terminal: op},
					CallStmt{Local: "right", NonTerminal: nc.Name},
					ReturnStmt{Expr: binaryOpExpr()},
				},
			})
		}
		sw.Default = []Stmt{ReturnStmt{Expr: "left"}}
		body = append(body, sw)
		fn.Body = body
		return fn, nil
	}

	loopBody := SwitchStmt{Expr: "p.la.Class().ID()"}
	for _, op := range info.Operators {
		loopBody.Cases = append(loopBody.Cases, SwitchCase{
			Cond: quote(op),
			Body: []Stmt{
				MatchStmt{Local: "op", Terminal: op},
				CallStmt{Local: "right", NonTerminal: info.Sub},
				RawStmt{Text: "left = " + binaryOpExpr()},
			},
		})
	}
	loopBody.Default = []Stmt{RawStmt{Text: "return left, nil"}}
	body = append(body, ForStmt{Body: []Stmt{loopBody}})
	fn.Body = body
	return fn, nil
}

// binaryOpExpr is the default shape applied at every operator step of a
// BinaryOpChain: (op left right) as an sexpr sequence. A grammar wanting a
// different shape per operator belongs in a Special handler instead.
func binaryOpExpr() string {
	return "sexpr.Seq(sexpr.Opaque(op), left, right)"
}

// buildAccessorChainFunc renders a left-recursive postfix chain (member
// access, indexing, call suffixes) the same way: parse the base once, then
// loop, applying whichever accessor's operator the lookahead selects to
// the accumulated result, until none apply.
func buildAccessorChainFunc(nc pattern.NonTerminalClass) (Func, error) {
	info := nc.AccessorChain
	fn := Func{Name: funcName(nc.Name), NonTerminal: nc.Name}

	baseAlt, ok := altByRule(nc, info.BaseRule)
	if !ok {
		return Func{}, generrors.MalformedGrammar(info.BaseRule, "accessor chain base rule missing from classification")
	}
	baseBody, err := altBodyStmtsNoReturn(baseAlt, "base")
	if err != nil {
		return Func{}, err
	}

	loop := SwitchStmt{Expr: "p.la.Class().ID()"}
	for _, ruleIdx := range info.AccessorRules {
		ap, ok := altByRule(nc, ruleIdx)
		if !ok {
			continue
		}
		suffixStmts, expr, err := accessorSuffixStmts(ap)
		if err != nil {
			return Func{}, err
		}
		start := ap.Alt.Symbols[1]
		body := append(suffixStmts, RawStmt{Text: "base = " + expr})
		loop.Cases = append(loop.Cases, SwitchCase{Cond: quote(start), Body: body})
	}
	loop.Default = []Stmt{RawStmt{Text: "return base, nil"}}

	fn.Body = append(baseBody, ForStmt{Body: []Stmt{loop}})
	return fn, nil
}

// altBodyStmtsNoReturn emits an alternative's position bindings but binds
// the final action expression to resultLocal instead of returning it,
// for use as the seed of a loop rather than a standalone function body.
func altBodyStmtsNoReturn(ap pattern.AltPlan, resultLocal string) ([]Stmt, error) {
	var stmts []Stmt
	for _, bind := range ap.Bindings {
		local := action.LocalName(bind.Position)
		if bind.Kind == pattern.BindTerminal {
			stmts = append(stmts, MatchStmt{Local: local, Terminal: bind.Symbol})
		} else {
			stmts = append(stmts, CallStmt{Local: local, NonTerminal: bind.Symbol})
		}
	}
	expr, err := action.Transform(ap.Alt.Index, ap.Alt.Action, len(ap.Bindings))
	if err != nil {
		return nil, err
	}
	stmts = append(stmts, AssignStmt{Local: resultLocal, Expr: expr})
	return stmts, nil
}

// accessorSuffixStmts binds the accessor alternative's positions after the
// recursive N in position 1 (which is already bound to "base"), and
// returns the statements plus the action expression referencing v1=base.
func accessorSuffixStmts(ap pattern.AltPlan) ([]Stmt, string, error) {
	var stmts []Stmt
	stmts = append(stmts, RawStmt{Text: action.LocalName(1) + " := base"})
	for _, bind := range ap.Bindings {
		if bind.Position == 1 {
			continue
		}
		local := action.LocalName(bind.Position)
		if bind.Kind == pattern.BindTerminal {
			stmts = append(stmts, MatchStmt{Local: local, Terminal: bind.Symbol})
		} else {
			stmts = append(stmts, CallStmt{Local: local, NonTerminal: bind.Symbol})
		}
	}
	expr, err := action.Transform(ap.Alt.Index, ap.Alt.Action, len(ap.Bindings))
	if err != nil {
		return nil, "", err
	}
	return stmts, expr, nil
}

func quote(s string) string { return `"` + s + `"` }

func goStringSlice(items []string) string {
	out := "[]string{"
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		out += quote(it)
	}
	return out + "}"
}
