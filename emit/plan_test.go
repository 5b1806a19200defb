package emit

import (
	"strings"
	"testing"

	"github.com/gillnet/gillnet/analyzer"
	"github.com/gillnet/gillnet/grammar"
	"github.com/gillnet/gillnet/pattern"
	"github.com/gillnet/gillnet/token"
	"github.com/stretchr/testify/assert"
)

func exprGrammar() *grammar.Grammar {
	g := grammar.New()
	for _, term := range []string{"+", "num"} {
		g.AddTerm(term, token.MakeClass(term))
	}
	g.AddRule("Term", grammar.Production{"num"})
	g.AddRuleWithAction("Expr", grammar.Production{"Term"}, "$1")
	g.AddRuleWithAction("Expr", grammar.Production{"Expr", "+", "Term"}, "(+ $1 $3)")
	g.SetStart("Expr")
	return g
}

func Test_Build_BinaryOpChain(t *testing.T) {
	as := assert.New(t)
	g := exprGrammar()
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)

	cls := pattern.Classify(g, a, nil)
	plan, err := Build(g, a, cls, nil)
	as.NoError(err)
	as.Equal("Expr", plan.StartSymbol)

	var exprFn *Func
	for i := range plan.Funcs {
		if plan.Funcs[i].NonTerminal == "Expr" {
			exprFn = &plan.Funcs[i]
		}
	}
	as.NotNil(exprFn)

	src, err := Generate("parser", plan)
	as.NoError(err)
	as.Contains(src, "func (p *parser) parseExpr()")
	as.Contains(src, "func (p *parser) parseTerm()")
	as.Contains(src, `p.match("+")`)
	as.Contains(src, "func Parse(stream token.Stream)")

	// Parse must assert end-of-stream after the start-symbol parse
	// completes (spec §4.5), not return as soon as a syntactically
	// complete parse is found.
	as.Contains(src, "p.la.Class().ID() != token.EndOfInput")
	as.Contains(src, "p.raiseError([]string{token.EndOfInput})")

	// advance must never gate on HasNext: it has to keep asking the
	// stream for tokens so la can eventually become the real end-of-input
	// sentinel.
	as.Contains(src, "func (p *parser) advance() {\n\tp.la = p.stream.Next()\n}")
	as.NotContains(src, "if p.stream.HasNext()")
}

func Test_Build_Dispatch(t *testing.T) {
	as := assert.New(t)
	g := grammar.New()
	for _, term := range []string{"if", "return", "expr"} {
		g.AddTerm(term, token.MakeClass(term))
	}
	g.AddRule("Expr", grammar.Production{"expr"})
	g.AddRuleWithAction("Stmt", grammar.Production{"if", "Expr"}, "(if $2)")
	g.AddRuleWithAction("Stmt", grammar.Production{"return"}, "(return)")
	g.SetStart("Stmt")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)
	cls := pattern.Classify(g, a, nil)
	plan, err := Build(g, a, cls, nil)
	as.NoError(err)

	src, err := Generate("parser", plan)
	as.NoError(err)
	as.Contains(src, `case "if":`)
	as.Contains(src, `case "return":`)
}

func Test_Build_Tail(t *testing.T) {
	as := assert.New(t)
	g := grammar.New()
	for _, term := range []string{",", "id"} {
		g.AddTerm(term, token.MakeClass(term))
	}
	g.AddRule("Arg", grammar.Production{"id"})
	g.AddRuleWithAction("ArgList", grammar.Epsilon, "")
	g.AddRuleWithAction("ArgList", grammar.Production{",", "Arg", "ArgList"}, "($1 $2)")
	g.SetStart("ArgList")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)
	cls := pattern.Classify(g, a, nil)
	plan, err := Build(g, a, cls, nil)
	as.NoError(err)

	src, err := Generate("parser", plan)
	as.NoError(err)
	as.Contains(src, "func (p *parser) parseArgList()")
	as.True(strings.Contains(src, "for p.la.Class().ID() ==") || strings.Contains(src, "items := []sexpr.SExpr{}"))
}

func Test_Build_SpecialWithoutHandlerFails(t *testing.T) {
	as := assert.New(t)
	g := grammar.New()
	g.AddTerm("a", token.MakeClass("a"))
	g.AddRule("S", grammar.Production{"a"})
	g.SetStart("S")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)
	cls := pattern.Classify(g, a, fakeRegistry{"S": true})
	_, err = Build(g, a, cls, nil)
	as.Error(err)
}

type fakeRegistry map[string]bool

func (f fakeRegistry) Has(name string) bool { return f[name] }
