package analyzer

import (
	"strings"
	"testing"

	"github.com/gillnet/gillnet/grammar"
	"github.com/gillnet/gillnet/token"
	"github.com/stretchr/testify/assert"
)

// buildGrammar parses a tiny "NT -> a b | c" rule-list surface used only by
// these tests, mirroring the teacher's own setupGrammar/mustParseRule test
// helpers in grammar_test.go.
func buildGrammar(terminals []string, rules []string) *grammar.Grammar {
	g := grammar.New()
	for _, term := range terminals {
		g.AddTerm(term, token.MakeClass(term))
	}
	for _, r := range rules {
		lhs, rhs, ok := strings.Cut(r, "->")
		if !ok {
			panic("bad rule: " + r)
		}
		lhs = strings.TrimSpace(lhs)
		for _, alt := range strings.Split(rhs, "|") {
			alt = strings.TrimSpace(alt)
			var prod grammar.Production
			if alt == "" || strings.EqualFold(alt, "ε") {
				prod = grammar.Epsilon
			} else {
				prod = grammar.Production(strings.Fields(alt))
			}
			g.AddRuleWithAction(lhs, prod, "1")
		}
	}
	return g
}

func Test_Analysis_FIRST(t *testing.T) {
	testCases := []struct {
		name      string
		terminals []string
		rules     []string
		first     string
		expect    []string
	}{
		{
			name:      "first and follow sets explained example, L",
			terminals: []string{"p", "g", "b", "a", "q", "s", "d", "f", "m"},
			rules: []string{
				"S -> K L p | g Q K",
				"K -> b L Q T | ε",
				"L -> Q a K | Q K | q a",
				"Q -> d s | ε",
				"T -> g S f | m",
			},
			first:  "L",
			expect: []string{"d", "q", "a", "b"},
		},
		{
			name:      "first and follow sets explained example, S",
			terminals: []string{"p", "g", "b", "a", "q", "s", "d", "f", "m"},
			rules: []string{
				"S -> K L p | g Q K",
				"K -> b L Q T | ε",
				"L -> Q a K | Q K | q a",
				"Q -> d s | ε",
				"T -> g S f | m",
			},
			first:  "S",
			expect: []string{"b", "d", "q", "a", "p", "g"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			as := assert.New(t)
			g := buildGrammar(tc.terminals, tc.rules)
			as.NoError(g.Validate())
			a, err := Analyze(g)
			as.NoError(err)

			actual := a.FIRST(tc.first)
			expect := map[string]bool{}
			for _, e := range tc.expect {
				expect[e] = true
			}
			as.ElementsMatch(keys(expect), actual.Ordered())
		})
	}
}

func Test_Analysis_FOLLOW(t *testing.T) {
	terminals := []string{"a", "h", "c", "b", "g", "f"}
	rules := []string{
		"S -> a B D h",
		"B -> c C",
		"C -> b C | ε",
		"D -> E F",
		"E -> g | ε",
		"F -> f | ε",
	}

	testCases := []struct {
		follow string
		expect []string
	}{
		{follow: "S", expect: []string{grammar.EndOfInput}},
		{follow: "B", expect: []string{"g", "f", "h"}},
		{follow: "C", expect: []string{"g", "f", "h"}},
		{follow: "D", expect: []string{"h"}},
		{follow: "E", expect: []string{"f", "h"}},
		{follow: "F", expect: []string{"h"}},
	}

	for _, tc := range testCases {
		t.Run(tc.follow, func(t *testing.T) {
			as := assert.New(t)
			g := buildGrammar(terminals, rules)
			as.NoError(g.Validate())
			a, err := Analyze(g)
			as.NoError(err)

			as.ElementsMatch(tc.expect, a.FOLLOW(tc.follow).Ordered())
		})
	}
}

func Test_Analysis_Nullable(t *testing.T) {
	as := assert.New(t)
	g := buildGrammar([]string{"a"}, []string{
		"S -> A a",
		"A -> ε",
	})
	as.NoError(g.Validate())
	a, err := Analyze(g)
	as.NoError(err)

	as.True(a.Nullable("A"))
	as.False(a.Nullable("S"))

	// Adding a new epsilon-rhs rule to S should flip nullable(S) to true.
	g.AddRuleWithAction("S", grammar.Epsilon, "")
	a2, err := Analyze(g)
	as.NoError(err)
	as.True(a2.Nullable("S"))
}

func Test_Analysis_LL1ParseTable(t *testing.T) {
	as := assert.New(t)
	terminals := []string{"int", "lparen", "rparen", "p", "m"}
	rules := []string{
		"S -> T X",
		"T -> lparen S rparen | int Y",
		"X -> p S | ε",
		"Y -> m T | ε",
	}
	g := buildGrammar(terminals, rules)
	as.NoError(g.Validate())
	a, err := Analyze(g)
	as.NoError(err)
	as.True(a.IsLL1())

	table := a.LLParseTable()

	prod, _, ok := table.Get("S", "int")
	as.True(ok)
	as.Equal(grammar.Production{"T", "X"}, prod)

	prod, _, ok = table.Get("X", "p")
	as.True(ok)
	as.Equal(grammar.Production{"p", "S"}, prod)

	prod, _, ok = table.Get("X", "rparen")
	as.True(ok)
	as.True(prod.IsEpsilon())

	_, _, ok = table.Get("X", "m")
	as.False(ok)
}

func Test_Analysis_DetectsConflict(t *testing.T) {
	as := assert.New(t)
	// Ambiguous: both alternatives of S can start with "a".
	g := buildGrammar([]string{"a", "b"}, []string{
		"S -> a b | a",
	})
	as.NoError(g.Validate())
	a, err := Analyze(g)
	as.NoError(err)

	as.False(a.IsLL1())
	conflicts := a.ConflictsFor("S")
	as.Len(conflicts, 1)
	as.Contains(conflicts[0].Shared, "a")
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
