package special

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

func Test_Registry_HasAndGet(t *testing.T) {
	as := assert.New(t)
	r := NewRegistry(map[string]Capability{"Stmt": SharedPrefixDispatch})
	as.True(r.Has("Stmt"))
	as.False(r.Has("Expr"))

	h, ok := r.Get("Stmt")
	as.True(ok)
	as.NotNil(h)

	_, ok = r.Get("Expr")
	as.False(ok)
}

func Test_SharedPrefixHandler(t *testing.T) {
	as := assert.New(t)
	// Decl -> 'var' id ':' Type | 'var' id
	g := newGrammar([]string{"var", "id", ":"})
	g.AddRule("Type", grammar.Production{"id"})
	g.AddRuleWithAction("Decl", grammar.Production{"var", "id", ":", "Type"}, "(decl $2 $4)")
	g.AddRuleWithAction("Decl", grammar.Production{"var", "id"}, "(decl $2)")
	g.SetStart("Decl")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)

	fn, err := sharedPrefixHandler{}.Emit("Decl", g, a, g.Alternatives("Decl"))
	as.NoError(err)
	as.Equal("parseDecl", fn.Name)
	as.NotEmpty(fn.Body)
}

func Test_ElidableListHandler(t *testing.T) {
	as := assert.New(t)
	// Items -> ε | Item Items
	g := newGrammar([]string{"num"})
	g.AddRule("Item", grammar.Production{"num"})
	g.AddRuleWithAction("Items", grammar.Epsilon, "")
	g.AddRuleWithAction("Items", grammar.Production{"Item", "Items"}, "($1 $2)")
	g.SetStart("Items")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)

	fn, err := elidableListHandler{}.Emit("Items", g, a, g.Alternatives("Items"))
	as.NoError(err)
	as.Equal("parseItems", fn.Name)
}

func Test_LookaheadDisambiguatedHandler(t *testing.T) {
	as := assert.New(t)
	// Ctrl -> 'break' 'label' id | 'break' ';'
	g := newGrammar([]string{"break", "label", "id", ";"})
	g.AddRuleWithAction("Ctrl", grammar.Production{"break", "label", "id"}, "(break-label $3)")
	g.AddRuleWithAction("Ctrl", grammar.Production{"break", ";"}, "(break)")
	g.SetStart("Ctrl")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)

	fn, err := lookaheadDisambiguatedHandler{}.Emit("Ctrl", g, a, g.Alternatives("Ctrl"))
	as.NoError(err)
	as.Equal("parseCtrl", fn.Name)
}

func Test_IterativeExprHandler(t *testing.T) {
	as := assert.New(t)
	// Expr -> Term | Expr '+' Term | Expr '!'
	g := newGrammar([]string{"+", "!", "num"})
	g.AddRule("Term", grammar.Production{"num"})
	g.AddRuleWithAction("Expr", grammar.Production{"Term"}, "$1")
	g.AddRuleWithAction("Expr", grammar.Production{"Expr", "+", "Term"}, "(+ $1 $3)")
	g.AddRuleWithAction("Expr", grammar.Production{"Expr", "!"}, "(fact $1)")
	g.SetStart("Expr")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)

	fn, err := iterativeExprHandler{}.Emit("Expr", g, a, g.Alternatives("Expr"))
	as.NoError(err)
	as.Equal("parseExpr", fn.Name)
}
