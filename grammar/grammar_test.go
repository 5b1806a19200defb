package grammar

import (
	"strings"
	"testing"

	"github.com/gillnet/gillnet/token"
	"github.com/stretchr/testify/assert"
)

func setupGrammar(terminals []string, rules map[string][]Production) *Grammar {
	g := New()
	for _, term := range terminals {
		g.AddTerm(term, token.MakeClass(term))
	}
	for nt, prods := range rules {
		for _, p := range prods {
			g.AddRuleWithAction(nt, p, "1")
		}
	}
	return g
}

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		terminals []string
		rules     map[string][]Production
		start     string
		expectErr bool
	}{
		{
			name:      "empty grammar",
			expectErr: true,
		},
		{
			name:      "no rules in grammar",
			terminals: []string{"int"},
			expectErr: true,
		},
		{
			name: "no terms in grammar",
			rules: map[string][]Production{
				"S": {{"S"}},
			},
			start:     "S",
			expectErr: true,
		},
		{
			name:      "single rule grammar",
			terminals: []string{"int"},
			rules: map[string][]Production{
				"S": {{"int"}},
			},
			start: "S",
		},
		{
			name:      "unknown symbol on rhs",
			terminals: []string{"int"},
			rules: map[string][]Production{
				"S": {{"int", "Bogus"}},
			},
			start:     "S",
			expectErr: true,
		},
		{
			name:      "inferred Root start",
			terminals: []string{"int"},
			rules: map[string][]Production{
				"Root": {{"int"}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			as := assert.New(t)
			g := setupGrammar(tc.terminals, tc.rules)
			if tc.start != "" {
				g.SetStart(tc.start)
			}

			err := g.Validate()
			if tc.expectErr {
				as.Error(err)
			} else {
				as.NoError(err)
			}
		})
	}
}

func Test_Grammar_AddRule_TrivialAction(t *testing.T) {
	as := assert.New(t)
	g := New()
	g.AddTerm("int", token.MakeClass("int"))
	g.AddRule("Root", Production{"int"})

	alts := g.Alternatives("Root")
	as.Len(alts, 1)
	as.Equal("1", alts[0].Action)
}

func Test_Grammar_Rule_MergesAlternatives(t *testing.T) {
	as := assert.New(t)
	g := New()
	g.AddTerm("a", token.MakeClass("a"))
	g.AddTerm("b", token.MakeClass("b"))
	g.AddRuleWithAction("S", Production{"a"}, "1")
	g.AddRuleWithAction("S", Production{"b"}, "1")

	r := g.Rule("S")
	as.Equal("S", r.NonTerminal)
	as.Len(r.Productions, 2)
}

func Test_Production_String(t *testing.T) {
	as := assert.New(t)
	as.Equal("ε", Epsilon.String())
	as.Equal("a b", Production{"a", "b"}.String())
	as.True(strings.Contains(Rule{NonTerminal: "S", Productions: []Production{{"a"}, Epsilon}}.String(), "|"))
}

func Test_Grammar_Copy_IsIndependent(t *testing.T) {
	as := assert.New(t)
	g := New()
	g.AddTerm("a", token.MakeClass("a"))
	g.AddRule("S", Production{"a"})

	cp := g.Copy()
	g.AddRule("S", Production{"a", "a"})

	as.Len(cp.Alternatives("S"), 1)
	as.Len(g.Alternatives("S"), 2)
}
