package emit

import (
	"fmt"
	"strings"
)

// Generate renders a Plan into complete Go source text: the fixed parser
// runtime scaffolding (single-token lookahead, capture-before-advance
// match/advance, raiseError) per spec §4.5's runtime contract, followed by
// one function per Plan.Funcs entry.
func Generate(pkg string, plan Plan) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "// Code generated by gillnet. DO NOT EDIT.\npackage %s\n\n", pkg)
	b.WriteString("import (\n")
	b.WriteString("\t\"github.com/gillnet/gillnet/generrors\"\n")
	b.WriteString("\t\"github.com/gillnet/gillnet/sexpr\"\n")
	b.WriteString("\t\"github.com/gillnet/gillnet/token\"\n")
	b.WriteString(")\n\n")

	b.WriteString(runtimeScaffolding)
	b.WriteString("\n")

	fmt.Fprintf(&b, "// Parse reads a complete %s from stream, then asserts nothing follows it.\n", plan.StartSymbol)
	b.WriteString("func Parse(stream token.Stream) (sexpr.SExpr, error) {\n")
	b.WriteString("\tp := newParser(stream)\n")
	fmt.Fprintf(&b, "\tresult, err := p.%s()\n", plan.EntryFunc)
	b.WriteString("\tif err != nil {\n")
	b.WriteString("\t\treturn sexpr.SExpr{}, err\n")
	b.WriteString("\t}\n")
	b.WriteString("\tif p.la.Class().ID() != token.EndOfInput {\n")
	b.WriteString("\t\treturn sexpr.SExpr{}, p.raiseError([]string{token.EndOfInput})\n")
	b.WriteString("\t}\n")
	b.WriteString("\treturn result, nil\n")
	b.WriteString("}\n\n")

	for _, fn := range plan.Funcs {
		renderFunc(&b, fn)
	}

	return b.String(), nil
}

const runtimeScaffolding = `// parser is the one-token-lookahead, no-backtracking recursive-descent
// runtime every emitted parseN function runs against. It never re-derives
// a token once advance has consumed it: capture-before-advance means a
// match call records the current lookahead before moving the stream
// forward, so callers can use the captured token after the call returns.
type parser struct {
	stream token.Stream
	la     token.Token
}

func newParser(stream token.Stream) *parser {
	p := &parser{stream: stream}
	p.la = stream.Next()
	return p
}

// match consumes the lookahead if its class is class, returning the
// consumed token; otherwise it raises a parse error without advancing.
func (p *parser) match(class string) (token.Token, error) {
	if p.la.Class().ID() != class {
		return nil, p.raiseError([]string{class})
	}
	captured := p.la
	p.advance()
	return captured, nil
}

// advance always asks the stream for the next token, never gating on
// HasNext: once the real tokens are exhausted, Next keeps returning the
// stream's end-of-input sentinel, and that sentinel is exactly what la
// must eventually become for raiseError/Parse to recognize end of input.
func (p *parser) advance() {
	p.la = p.stream.Next()
}

func (p *parser) raiseError(expected []string) error {
	return generrors.NewParseError(expected, p.la.Class().ID(), p.la.Lexeme(), p.la.Line(), p.la.Column())
}
`

func renderFunc(b *strings.Builder, fn Func) {
	if fn.Doc != "" {
		fmt.Fprintf(b, "// %s\n", fn.Doc)
	}
	fmt.Fprintf(b, "func (p *parser) %s() (sexpr.SExpr, error) {\n", fn.Name)
	renderStmts(b, fn.Body, 1)
	b.WriteString("}\n\n")
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteByte('\t')
	}
}

func renderStmts(b *strings.Builder, stmts []Stmt, depth int) {
	for _, s := range stmts {
		renderStmt(b, s, depth)
	}
}

func renderStmt(b *strings.Builder, s Stmt, depth int) {
	switch v := s.(type) {
	case RawStmt:
		indent(b, depth)
		b.WriteString(v.Text)
		b.WriteByte('\n')
	case MatchStmt:
		for _, line := range matchLines(v.Local, v.Terminal) {
			indent(b, depth)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	case CallStmt:
		for _, line := range callLines(v.Local, v.NonTerminal) {
			indent(b, depth)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	case AssignStmt:
		indent(b, depth)
		fmt.Fprintf(b, "%s := %s\n", v.Local, v.Expr)
	case ReturnStmt:
		indent(b, depth)
		fmt.Fprintf(b, "return %s, nil\n", v.Expr)
	case ReturnErrStmt:
		indent(b, depth)
		fmt.Fprintf(b, "return sexpr.SExpr{}, %s\n", v.Expr)
	case IfStmt:
		indent(b, depth)
		fmt.Fprintf(b, "if %s {\n", v.Cond)
		renderStmts(b, v.Then, depth+1)
		if len(v.Else) > 0 {
			indent(b, depth)
			b.WriteString("} else {\n")
			renderStmts(b, v.Else, depth+1)
		}
		indent(b, depth)
		b.WriteString("}\n")
	case ForStmt:
		indent(b, depth)
		if v.Cond == "" {
			b.WriteString("for {\n")
		} else {
			fmt.Fprintf(b, "for %s {\n", v.Cond)
		}
		renderStmts(b, v.Body, depth+1)
		indent(b, depth)
		b.WriteString("}\n")
	case SwitchStmt:
		indent(b, depth)
		fmt.Fprintf(b, "switch %s {\n", v.Expr)
		for _, c := range v.Cases {
			indent(b, depth)
			fmt.Fprintf(b, "case %s:\n", c.Cond)
			renderStmts(b, c.Body, depth+1)
		}
		if len(v.Default) > 0 {
			indent(b, depth)
			b.WriteString("default:\n")
			renderStmts(b, v.Default, depth+1)
		}
		indent(b, depth)
		b.WriteString("}\n")
	}
}
