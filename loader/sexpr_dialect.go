package loader

import (
	"fmt"

	"github.com/gillnet/gillnet/grammar"
)

// sexprNode is a minimal parenthesized-text parse node: either an atom or
// a list of child nodes, mirroring the "split on whitespace, tolerate ε"
// discipline the teacher toolkit's string-form LR item parsers use.
type sexprNode struct {
	atom     string
	isAtom   bool
	children []sexprNode
}

func tokenizeSExpr(s string) ([]string, error) {
	var out []string
	r := []rune(s)
	i := 0
	isDelim := func(c rune) bool {
		return c == '(' || c == ')' || c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '"'
	}
	for i < len(r) {
		c := r[i]
		switch {
		case c == '(' || c == ')':
			out = append(out, string(c))
			i++
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '"':
			j := i + 1
			for j < len(r) && r[j] != '"' {
				j++
			}
			if j >= len(r) {
				return nil, fmt.Errorf("unterminated string literal")
			}
			out = append(out, string(r[i+1:j]))
			i = j + 1
		default:
			j := i
			for j < len(r) && !isDelim(r[j]) {
				j++
			}
			out = append(out, string(r[i:j]))
			i = j
		}
	}
	return out, nil
}

func parseSExprNode(toks []string) (sexprNode, []string, error) {
	if len(toks) == 0 {
		return sexprNode{}, nil, fmt.Errorf("unexpected end of input")
	}
	if toks[0] == ")" {
		return sexprNode{}, nil, fmt.Errorf("unexpected ')'")
	}
	if toks[0] != "(" {
		return sexprNode{atom: toks[0], isAtom: true}, toks[1:], nil
	}

	toks = toks[1:]
	var children []sexprNode
	for {
		if len(toks) == 0 {
			return sexprNode{}, nil, fmt.Errorf("unterminated list")
		}
		if toks[0] == ")" {
			toks = toks[1:]
			break
		}
		child, rest, err := parseSExprNode(toks)
		if err != nil {
			return sexprNode{}, nil, err
		}
		children = append(children, child)
		toks = rest
	}
	return sexprNode{children: children}, toks, nil
}

func parseSExprAll(toks []string) ([]sexprNode, error) {
	var out []sexprNode
	for len(toks) > 0 {
		n, rest, err := parseSExprNode(toks)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
		toks = rest
	}
	return out, nil
}

// LoadSExpr decodes the s-expression dialect: a sequence of top-level
// forms `(start NAME)`, `(term ID...)`, `(rule LHS (RHS...) [ACTION])`, and
// `(operators (assoc TOK...) ...)`. A quoted ACTION may contain spaces and
// parens verbatim; an unquoted one must be a single token (the common case
// of a bare digit).
func LoadSExpr(src string) (*grammar.Grammar, error) {
	toks, err := tokenizeSExpr(src)
	if err != nil {
		return nil, errBadDialect(err.Error())
	}
	forms, err := parseSExprAll(toks)
	if err != nil {
		return nil, errBadDialect(err.Error())
	}

	var data GrammarData
	for _, f := range forms {
		if f.isAtom || len(f.children) == 0 {
			return nil, errBadDialect("expected a top-level (form ...)")
		}
		head := f.children[0]
		if !head.isAtom {
			return nil, errBadDialect("expected a form head atom")
		}

		switch head.atom {
		case "start":
			if len(f.children) != 2 || !f.children[1].isAtom {
				return nil, errBadDialect("(start NAME) expects exactly one atom")
			}
			data.Start = f.children[1].atom

		case "term":
			for _, c := range f.children[1:] {
				if !c.isAtom {
					return nil, errBadDialect("(term ID...) expects atoms")
				}
				data.Terminals = append(data.Terminals, c.atom)
			}

		case "rule":
			if len(f.children) < 3 {
				return nil, errBadDialect("(rule LHS (RHS...) [ACTION]) needs at least lhs and rhs")
			}
			lhs := f.children[1]
			if !lhs.isAtom {
				return nil, errBadDialect("rule lhs must be an atom")
			}
			rhsNode := f.children[2]
			if rhsNode.isAtom {
				return nil, errBadDialect("rule rhs must be a parenthesized list, empty for ε")
			}
			var rhs []string
			for _, c := range rhsNode.children {
				if !c.isAtom {
					return nil, errBadDialect("rule rhs symbols must be atoms")
				}
				if c.atom == "ε" || c.atom == "epsilon" {
					continue
				}
				rhs = append(rhs, c.atom)
			}
			actionText := ""
			if len(f.children) >= 4 {
				if !f.children[3].isAtom {
					return nil, errBadDialect("rule action must be an atom or a quoted string")
				}
				actionText = f.children[3].atom
			}
			data.Rules = append(data.Rules, RuleData{NonTerminal: lhs.atom, RHS: rhs, Action: actionText})

		case "operators":
			for _, row := range f.children[1:] {
				if row.isAtom || len(row.children) < 1 {
					return nil, errBadDialect("each operators row must be (assoc TOK...)")
				}
				assocNode := row.children[0]
				if !assocNode.isAtom {
					return nil, errBadDialect("operators row assoc must be an atom")
				}
				var opToks []string
				for _, c := range row.children[1:] {
					if !c.isAtom {
						return nil, errBadDialect("operators tokens must be atoms")
					}
					opToks = append(opToks, c.atom)
				}
				data.Operators = append(data.Operators, OperatorData{Assoc: assocNode.atom, Tokens: opToks})
			}

		default:
			return nil, errBadDialect("unknown top-level form " + head.atom)
		}
	}

	return LoadData(data)
}
