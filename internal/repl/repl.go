// Package repl implements gillnet's --interactive mode: a read-eval-print
// loop that loads a grammar once, then repeatedly parses lines typed at the
// prompt and prints the resulting s-expression or the ParseError. Adapted
// from the teacher's internal/command Reader+Get retry-on-bad-input loop
// (internal/command/get.go), with the game-verb directive grammar replaced
// by a line syntax naming the classified grammar's own token classes.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gillnet/gillnet/analyzer"
	"github.com/gillnet/gillnet/grammar"
	"github.com/gillnet/gillnet/interp"
	"github.com/gillnet/gillnet/pattern"
	"github.com/gillnet/gillnet/token"
)

// Reader is the line source a REPL reads from. internal/input's
// DirectCommandReader and InteractiveCommandReader both satisfy it.
type Reader interface {
	ReadCommand() (string, error)
	Close() error
}

// REPL drives one interactive session against a fixed, already-classified
// grammar.
type REPL struct {
	g   *grammar.Grammar
	an  analyzer.Analysis
	cls pattern.Classification
	in  Reader
	out *bufio.Writer
}

// New constructs a REPL over a classified grammar, reading from in and
// writing prompts/results to out.
func New(g *grammar.Grammar, an analyzer.Analysis, cls pattern.Classification, in Reader, out *bufio.Writer) *REPL {
	return &REPL{g: g, an: an, cls: cls, in: in, out: out}
}

// Run reads lines until EOF or a "quit" line, parsing each one as a space-
// separated sequence of "class" or "class:lexeme" tokens (bare words
// default their lexeme to the class name) and printing either the
// resulting s-expression or the parse error. It never returns an error for
// a bad input line, only for I/O failure, mirroring command.Get's
// retry-until-valid loop.
func (r *REPL) Run() error {
	r.writeln(fmt.Sprintf("gillnet interactive mode; start symbol %q; type a token sequence, or \"quit\"", r.g.StartSymbol()))

	for {
		r.write("gillnet> ")
		line, err := r.in.ReadCommand()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, "quit") || strings.EqualFold(trimmed, "exit") {
			return nil
		}

		stream, err := parseLine(trimmed)
		if err != nil {
			r.writeln("input error: " + err.Error())
			continue
		}

		result, err := interp.Parse(r.g, r.an, r.cls, stream)
		if err != nil {
			r.writeln("parse error: " + err.Error())
			continue
		}
		r.writeln(result.String())
	}
}

// parseLine builds a token.Stream from a line of "class" or "class:lexeme"
// words.
func parseLine(line string) (token.Stream, error) {
	words := strings.Fields(line)
	toks := make([]token.Token, 0, len(words))
	for i, w := range words {
		class, lexeme, _ := strings.Cut(w, ":")
		if lexeme == "" {
			lexeme = class
		}
		if class == "" {
			return nil, fmt.Errorf("empty token class in word %d (%q)", i+1, w)
		}
		toks = append(toks, token.NewToken(token.MakeClass(class), lexeme, lexeme, 1, i+1))
	}
	return token.NewSliceStream(toks, token.EndToken(1, len(words)+1)), nil
}

func (r *REPL) write(s string) {
	r.out.WriteString(s)
	r.out.Flush()
}

func (r *REPL) writeln(s string) {
	r.write(s + "\n")
}
