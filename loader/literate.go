package loader

import (
	"io"
	"strings"

	"github.com/gillnet/gillnet/grammar"
	"github.com/gomarkdown/markdown"
	mkast "github.com/gomarkdown/markdown/ast"
	mkparser "github.com/gomarkdown/markdown/parser"
)

// gillnetScanner is a markdown.Renderer that concatenates the literal
// contents of every fenced ```gillnet code block it walks past, in document
// order, discarding everything else. Grounded directly on the teacher's
// fishiScanner (internal/ictiobus/fishi.go), which does the same for
// ```fishi fences.
type gillnetScanner bool

func (s gillnetScanner) RenderNode(w io.Writer, node mkast.Node, entering bool) mkast.WalkStatus {
	if !entering {
		return mkast.GoToNext
	}
	codeBlock, ok := node.(*mkast.CodeBlock)
	if !ok || codeBlock == nil {
		return mkast.GoToNext
	}
	if strings.ToLower(strings.TrimSpace(string(codeBlock.Info))) == "gillnet" {
		w.Write(codeBlock.Literal)
		w.Write([]byte("\n"))
	}
	return mkast.GoToNext
}

func (s gillnetScanner) RenderHeader(w io.Writer, ast mkast.Node) {}
func (s gillnetScanner) RenderFooter(w io.Writer, ast mkast.Node) {}

// ExtractLiterateSource pulls every ```gillnet fenced code block's contents
// out of a Markdown document, concatenated in document order.
func ExtractLiterateSource(mdText []byte) []byte {
	doc := markdown.Parse(mdText, mkparser.New())
	var scanner gillnetScanner
	return markdown.Render(doc, scanner)
}

// LoadLiterate decodes the literate Markdown dialect: grammar source
// written as one or more ```gillnet fenced code blocks embedded in prose,
// extracted and concatenated exactly as the teacher's GetFishiFromMarkdown
// does for FISHI, then decoded through the s-expression dialect.
func LoadLiterate(mdText []byte) (*grammar.Grammar, error) {
	source := ExtractLiterateSource(mdText)
	if len(strings.TrimSpace(string(source))) == 0 {
		return nil, errBadDialect("no ```gillnet fenced code blocks found")
	}
	return LoadSExpr(string(source))
}
