package pattern

import (
	"testing"

	"github.com/gillnet/gillnet/analyzer"
	"github.com/gillnet/gillnet/grammar"
	"github.com/gillnet/gillnet/token"
	"github.com/stretchr/testify/assert"
)

func newGrammar(terminals []string) *grammar.Grammar {
	g := grammar.New()
	for _, term := range terminals {
		g.AddTerm(term, token.MakeClass(term))
	}
	return g
}

type fakeRegistry map[string]bool

func (f fakeRegistry) Has(name string) bool { return f[name] }

func Test_Classify_Tail(t *testing.T) {
	as := assert.New(t)
	// ArgList -> ε | ',' Arg ArgList
	g := newGrammar([]string{",", "id"})
	g.AddRule("Arg", grammar.Production{"id"})
	g.AddRuleWithAction("ArgList", grammar.Epsilon, "")
	g.AddRuleWithAction("ArgList", grammar.Production{",", "Arg", "ArgList"}, "($1 $2)")
	g.SetStart("ArgList")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)

	c := Classify(g, a, nil)
	nc, ok := c.Of("ArgList")
	as.True(ok)
	as.Equal(TagTail, nc.Tag)
	as.Equal(",", nc.Tail.Separator)
	as.True(nc.Tail.HasElement)
	as.Equal("Arg", nc.Tail.Element)
}

func Test_Classify_BinaryOpChain_LeftAssoc(t *testing.T) {
	as := assert.New(t)
	// Expr -> Term | Expr '+' Term | Expr '-' Term
	g := newGrammar([]string{"+", "-", "num"})
	g.AddRule("Term", grammar.Production{"num"})
	g.AddRuleWithAction("Expr", grammar.Production{"Term"}, "$1")
	g.AddRuleWithAction("Expr", grammar.Production{"Expr", "+", "Term"}, "(+ $1 $3)")
	g.AddRuleWithAction("Expr", grammar.Production{"Expr", "-", "Term"}, "(- $1 $3)")
	g.SetStart("Expr")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)

	c := Classify(g, a, nil)
	nc, ok := c.Of("Expr")
	as.True(ok)
	as.Equal(TagBinaryOpChain, nc.Tag)
	as.Equal("Term", nc.BinaryOpChain.Sub)
	as.False(nc.BinaryOpChain.RightAssoc)
	as.ElementsMatch([]string{"+", "-"}, nc.BinaryOpChain.Operators)
}

func Test_Classify_BinaryOpChain_RightAssoc(t *testing.T) {
	as := assert.New(t)
	// Power -> Base | Base '^' Power
	g := newGrammar([]string{"^", "num"})
	g.AddRule("Base", grammar.Production{"num"})
	g.AddRuleWithAction("Power", grammar.Production{"Base"}, "$1")
	g.AddRuleWithAction("Power", grammar.Production{"Base", "^", "Power"}, "(^ $1 $3)")
	g.SetStart("Power")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)

	c := Classify(g, a, nil)
	nc, ok := c.Of("Power")
	as.True(ok)
	as.Equal(TagBinaryOpChain, nc.Tag)
	as.True(nc.BinaryOpChain.RightAssoc)
}

func Test_Classify_AccessorChain(t *testing.T) {
	as := assert.New(t)
	// Postfix -> id | Postfix '.' id | Postfix '[' id ']'
	g := newGrammar([]string{".", "[", "]", "id"})
	g.AddRuleWithAction("Postfix", grammar.Production{"id"}, "$1")
	g.AddRuleWithAction("Postfix", grammar.Production{"Postfix", ".", "id"}, "(. $1 $3)")
	g.AddRuleWithAction("Postfix", grammar.Production{"Postfix", "[", "id", "]"}, "(index $1 $3)")
	g.SetStart("Postfix")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)

	c := Classify(g, a, nil)
	nc, ok := c.Of("Postfix")
	as.True(ok)
	as.Equal(TagAccessorChain, nc.Tag)
	as.Len(nc.AccessorChain.AccessorRules, 2)
	as.ElementsMatch([]string{".", "["}, nc.AccessorChain.Starts)
}

func Test_Classify_Dispatch(t *testing.T) {
	as := assert.New(t)
	// Stmt -> 'if' Expr | 'while' Expr | 'return'
	g := newGrammar([]string{"if", "while", "return", "expr"})
	g.AddRule("Expr", grammar.Production{"expr"})
	g.AddRuleWithAction("Stmt", grammar.Production{"if", "Expr"}, "(if $2)")
	g.AddRuleWithAction("Stmt", grammar.Production{"while", "Expr"}, "(while $2)")
	g.AddRuleWithAction("Stmt", grammar.Production{"return"}, "(return)")
	g.SetStart("Stmt")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)

	c := Classify(g, a, nil)
	nc, ok := c.Of("Stmt")
	as.True(ok)
	as.Equal(TagDispatch, nc.Tag)
	as.Equal(-1, nc.Dispatch.EpsilonRule)
	as.Len(nc.Dispatch.ByFirstTerminal, 3)
}

func Test_Classify_Switch_Fallback(t *testing.T) {
	as := assert.New(t)
	// S -> a b | a  (LL(1) conflict: both start with 'a', not Dispatch-eligible)
	g := newGrammar([]string{"a", "b"})
	g.AddRuleWithAction("S", grammar.Production{"a", "b"}, "1")
	g.AddRuleWithAction("S", grammar.Production{"a"}, "2")
	g.SetStart("S")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)
	as.False(a.IsLL1())

	c := Classify(g, a, nil)
	nc, ok := c.Of("S")
	as.True(ok)
	as.Equal(TagSwitch, nc.Tag)
}

func Test_Classify_Special_TakesPriority(t *testing.T) {
	as := assert.New(t)
	// Shape would otherwise match Dispatch, but a registry entry wins first.
	g := newGrammar([]string{"if", "return", "expr"})
	g.AddRule("Expr", grammar.Production{"expr"})
	g.AddRuleWithAction("Stmt", grammar.Production{"if", "Expr"}, "(if $2)")
	g.AddRuleWithAction("Stmt", grammar.Production{"return"}, "(return)")
	g.SetStart("Stmt")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)

	c := Classify(g, a, fakeRegistry{"Stmt": true})
	nc, ok := c.Of("Stmt")
	as.True(ok)
	as.Equal(TagSpecial, nc.Tag)
}

func Test_Classify_PositionBindings(t *testing.T) {
	as := assert.New(t)
	g := newGrammar([]string{"+", "num"})
	g.AddRule("Term", grammar.Production{"num"})
	g.AddRuleWithAction("Expr", grammar.Production{"Term"}, "$1")
	g.AddRuleWithAction("Expr", grammar.Production{"Expr", "+", "Term"}, "(+ $1 $3)")
	g.SetStart("Expr")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)

	c := Classify(g, a, nil)
	nc, _ := c.Of("Expr")
	var opAlt AltPlan
	for _, ap := range nc.Alts {
		if len(ap.Bindings) == 3 {
			opAlt = ap
		}
	}
	as.Len(opAlt.Bindings, 3)
	as.Equal(BindNonTerminal, opAlt.Bindings[0].Kind)
	as.Equal(BindTerminal, opAlt.Bindings[1].Kind)
	as.Equal(BindNonTerminal, opAlt.Bindings[2].Kind)
	as.Equal(1, opAlt.Bindings[0].Position)
	as.Equal(3, opAlt.Bindings[2].Position)
}
