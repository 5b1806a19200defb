package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_LoadData_SimpleGrammar(t *testing.T) {
	as := assert.New(t)
	g, err := LoadData(GrammarData{
		Start:     "Expr",
		Terminals: []string{"+", "num"},
		Rules: []RuleData{
			{NonTerminal: "Term", RHS: []string{"num"}},
			{NonTerminal: "Expr", RHS: []string{"Term"}, Action: "1"},
			{NonTerminal: "Expr", RHS: []string{"Expr", "+", "Term"}, Action: "(+ $1 $3)"},
		},
	})
	as.NoError(err)
	as.Equal("Expr", g.StartSymbol())
	as.True(g.IsTerminal("num"))
	as.True(g.IsNonTerminal("Expr"))
}

func Test_LoadData_EpsilonRule(t *testing.T) {
	as := assert.New(t)
	g, err := LoadData(GrammarData{
		Start:     "ArgList",
		Terminals: []string{",", "id"},
		Rules: []RuleData{
			{NonTerminal: "Arg", RHS: []string{"id"}},
			{NonTerminal: "ArgList", RHS: nil},
			{NonTerminal: "ArgList", RHS: []string{",", "Arg", "ArgList"}, Action: "($1 $2)"},
		},
	})
	as.NoError(err)
	as.NotNil(g)
}

func Test_LoadData_OperatorsWired(t *testing.T) {
	as := assert.New(t)
	g, err := LoadData(GrammarData{
		Start:     "Expr",
		Terminals: []string{"+", "-", "num"},
		Rules: []RuleData{
			{NonTerminal: "Expr", RHS: []string{"num"}, Action: "1"},
			{NonTerminal: "Expr", RHS: []string{"Expr", "+", "Expr"}, Action: "(+ $1 $3)"},
		},
		Operators: []OperatorData{
			{Assoc: "left", Tokens: []string{"+", "-"}},
		},
	})
	as.NoError(err)
	as.Len(g.Operators(), 1)
}

func Test_LoadData_BadActionPositionRejected(t *testing.T) {
	as := assert.New(t)
	_, err := LoadData(GrammarData{
		Start:     "S",
		Terminals: []string{"a"},
		Rules: []RuleData{
			{NonTerminal: "S", RHS: []string{"a"}, Action: "5"},
		},
	})
	as.Error(err)
}
