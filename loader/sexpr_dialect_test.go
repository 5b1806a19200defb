package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_LoadSExpr_SimpleGrammar(t *testing.T) {
	as := assert.New(t)
	src := `
		(start Expr)
		(term + num)
		(rule Term (num) 1)
		(rule Expr (Term) 1)
		(rule Expr (Expr + Term) "(+ $1 $3)")
	`
	g, err := LoadSExpr(src)
	as.NoError(err)
	as.Equal("Expr", g.StartSymbol())
	as.True(g.IsTerminal("num"))
}

func Test_LoadSExpr_EpsilonRule(t *testing.T) {
	as := assert.New(t)
	src := `
		(term , id)
		(rule Arg (id) 1)
		(rule ArgList ())
		(rule ArgList (, Arg ArgList) "($1 $2)")
		(start ArgList)
	`
	g, err := LoadSExpr(src)
	as.NoError(err)
	as.NotNil(g)
}

func Test_LoadSExpr_Operators(t *testing.T) {
	as := assert.New(t)
	src := `
		(term + - num)
		(rule Expr (num) 1)
		(rule Expr (Expr + Expr) "(+ $1 $3)")
		(start Expr)
		(operators (left + -))
	`
	g, err := LoadSExpr(src)
	as.NoError(err)
	as.Len(g.Operators(), 1)
}

func Test_LoadSExpr_MalformedInputRejected(t *testing.T) {
	as := assert.New(t)
	_, err := LoadSExpr("(rule Foo")
	as.Error(err)
}

func Test_LoadSExpr_UnknownFormRejected(t *testing.T) {
	as := assert.New(t)
	_, err := LoadSExpr("(bogus 1 2 3)")
	as.Error(err)
}
