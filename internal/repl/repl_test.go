package repl

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/gillnet/gillnet/analyzer"
	"github.com/gillnet/gillnet/grammar"
	"github.com/gillnet/gillnet/pattern"
	"github.com/gillnet/gillnet/token"
	"github.com/stretchr/testify/assert"
)

// scriptedReader replays a fixed list of lines, then reports EOF.
type scriptedReader struct {
	lines  []string
	pos    int
	closed bool
}

func (r *scriptedReader) ReadCommand() (string, error) {
	if r.pos >= len(r.lines) {
		return "", io.EOF
	}
	line := r.lines[r.pos]
	r.pos++
	return line, nil
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func sumGrammar(as *assert.Assertions) (*grammar.Grammar, analyzer.Analysis, pattern.Classification) {
	g := grammar.New()
	for _, term := range []string{"+", "num"} {
		g.AddTerm(term, token.MakeClass(term))
	}
	g.AddRule("Term", grammar.Production{"num"})
	g.AddRuleWithAction("Expr", grammar.Production{"Term"}, "$1")
	g.AddRuleWithAction("Expr", grammar.Production{"Expr", "+", "Term"}, "(+ $1 $3)")
	g.SetStart("Expr")
	as.NoError(g.Validate())

	a, err := analyzer.Analyze(g)
	as.NoError(err)
	cls := pattern.Classify(g, a, nil)
	return g, a, cls
}

func Test_ParseLine_BareWordsDefaultLexemeToClass(t *testing.T) {
	as := assert.New(t)

	stream, err := parseLine("num +  num")
	as.NoError(err)

	first := stream.Next()
	as.Equal("num", first.Class().ID())
	as.Equal("num", first.Lexeme())

	second := stream.Next()
	as.Equal("+", second.Class().ID())
}

func Test_ParseLine_ClassLexemeWords(t *testing.T) {
	as := assert.New(t)

	stream, err := parseLine("num:42 +:+ num:7")
	as.NoError(err)

	first := stream.Next()
	as.Equal("num", first.Class().ID())
	as.Equal("42", first.Lexeme())
}

func Test_ParseLine_EmptyClassIsError(t *testing.T) {
	as := assert.New(t)

	_, err := parseLine("num :lonely")
	as.Error(err)
}

func Test_REPL_Run_ParsesLineAndPrintsResult(t *testing.T) {
	as := assert.New(t)
	g, a, cls := sumGrammar(as)

	reader := &scriptedReader{lines: []string{"num:1 +:+ num:2", "quit"}}
	var out bytes.Buffer
	w := bufio.NewWriter(&out)

	session := New(g, a, cls, reader, w)
	as.NoError(session.Run())

	as.Contains(out.String(), "gillnet interactive mode")
	as.NotContains(out.String(), "parse error")
}

func Test_REPL_Run_ReportsParseErrorAndContinues(t *testing.T) {
	as := assert.New(t)
	g, a, cls := sumGrammar(as)

	reader := &scriptedReader{lines: []string{"+:+", "num:1", "quit"}}
	var out bytes.Buffer
	w := bufio.NewWriter(&out)

	session := New(g, a, cls, reader, w)
	as.NoError(session.Run())

	as.Contains(out.String(), "parse error")
}

func Test_REPL_Run_StopsOnReaderEOF(t *testing.T) {
	as := assert.New(t)
	g, a, cls := sumGrammar(as)

	reader := &scriptedReader{lines: nil}
	var out bytes.Buffer
	w := bufio.NewWriter(&out)

	session := New(g, a, cls, reader, w)
	as.NoError(session.Run())
}
