// Package interp executes an analyzed, classified grammar directly
// in-process, tree-walking rather than emitting and compiling Go source.
// It exists because this project can never invoke the Go toolchain on the
// output of emit.Generate: interp is the executable reference semantics
// of a classified grammar (spec §8.2/§8.5); no test compares it with the
// textual output. It evaluates
// the same action-expression text the Action Transformer rewrites into Go
// source, but directly into sexpr.SExpr values instead.
package interp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gillnet/gillnet/sexpr"
)

// dollarRef matches a "$k" positional reference anywhere in an action's raw
// text, used only to decide which of the two reference notations below
// applies to a given action (mirrors action.Transform's own mode switch,
// spec §4.4).
var dollarRef = regexp.MustCompile(`\$\d+`)

// EvalAction evaluates one alternative's raw action-expression text against
// already-computed bindings (rhs position -> value; terminal positions are
// sexpr.Opaque-wrapped tokens, nonterminal positions are the recursive
// parse result), producing the sexpr.SExpr the alternative contributes to
// its parent. The accepted grammar mirrors exactly what action.Transform
// rewrites (spec §4.4): a bare digit naming a whole-action pass-through, or
// a parenthesized/bracketed "(tag child...)"/"[tag, child...]" form whose
// children are "$k"/"$k.value" references (when any appear in the text), or
// otherwise bare "k"/"k.value"/"...k" references, nested forms, literal
// atoms, or quoted string literals.
func EvalAction(text string, bindings map[int]sexpr.SExpr) (sexpr.SExpr, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return sexpr.Null(), nil
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		v, ok := bindings[n]
		if !ok {
			return sexpr.SExpr{}, fmt.Errorf("no binding for position %d", n)
		}
		return v, nil
	}

	bareMode := !dollarRef.MatchString(trimmed)
	toks := tokenize(trimmed)
	v, rest, _, err := parseAtomOrForm(toks, bindings, bareMode)
	if err != nil {
		return sexpr.SExpr{}, err
	}
	if len(rest) != 0 {
		return sexpr.SExpr{}, fmt.Errorf("trailing tokens in action %q", text)
	}
	return v, nil
}

// tokenize splits action text into atoms, parens, and brackets. "[" and "]"
// are accepted as synonyms for "(" and ")" (spec §6.2's own example action
// is bracketed), commas separate elements the same as whitespace, and a
// double-quoted run is kept as one token (quotes included, stripped by the
// parser) so a string literal like "program" isn't split on its letters.
func tokenize(s string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	r := []rune(s)
	for i := 0; i < len(r); i++ {
		c := r[i]
		switch {
		case c == '(' || c == '[':
			flush()
			out = append(out, "(")
		case c == ')' || c == ']':
			flush()
			out = append(out, ")")
		case c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		case c == '"':
			flush()
			j := i + 1
			for j < len(r) && r[j] != '"' {
				j++
			}
			out = append(out, string(r[i:j+1]))
			i = j
		default:
			cur.WriteRune(c)
		}
	}
	flush()
	return out
}

// parseAtomOrForm parses one element: a nested form, a quoted string
// literal, a reference (dollar-prefixed always, bare when bareMode is set,
// either optionally preceded by a "..." spread marker), or a literal atom.
// The returned bool reports whether the element was spread-marked, so the
// caller can splice a Seq result into its own items instead of nesting it.
func parseAtomOrForm(toks []string, bindings map[int]sexpr.SExpr, bareMode bool) (sexpr.SExpr, []string, bool, error) {
	if len(toks) == 0 {
		return sexpr.SExpr{}, nil, false, fmt.Errorf("unexpected end of action")
	}
	if toks[0] == "(" {
		v, rest, err := parseForm(toks, bindings, bareMode)
		return v, rest, false, err
	}

	raw := toks[0]
	rest := toks[1:]

	if strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) >= 2 {
		return sexpr.Str(raw[1 : len(raw)-1]), rest, false, nil
	}

	atom := raw
	spread := strings.HasPrefix(atom, "...")
	if spread {
		atom = atom[3:]
	}

	if strings.HasPrefix(atom, "$") {
		v, err := lookupRef(atom[1:], bindings)
		if err != nil {
			return sexpr.SExpr{}, nil, false, err
		}
		return v, rest, spread, nil
	}
	if bareMode {
		if v, err, ok := tryLookupRef(atom, bindings); ok {
			if err != nil {
				return sexpr.SExpr{}, nil, false, err
			}
			return v, rest, spread, nil
		}
	}

	// Not a reference after all: the "..." prefix (if any) is just part of
	// the literal atom's text.
	return sexpr.Str(raw), rest, false, nil
}

// lookupRef resolves a "k" or "k.value" reference body to its binding.
func lookupRef(body string, bindings map[int]sexpr.SExpr) (sexpr.SExpr, error) {
	numPart := strings.TrimSuffix(body, ".value")
	n, err := strconv.Atoi(numPart)
	if err != nil {
		return sexpr.SExpr{}, fmt.Errorf("bad positional reference %q", body)
	}
	v, ok := bindings[n]
	if !ok {
		return sexpr.SExpr{}, fmt.Errorf("no binding for position %d", n)
	}
	return v, nil
}

// tryLookupRef reports (via ok) whether body looks like a bare positional
// reference at all, so a non-numeric literal atom in bareMode falls
// through to being treated as a literal instead of an error.
func tryLookupRef(body string, bindings map[int]sexpr.SExpr) (sexpr.SExpr, error, bool) {
	numPart := strings.TrimSuffix(body, ".value")
	if _, err := strconv.Atoi(numPart); err != nil {
		return sexpr.SExpr{}, nil, false
	}
	v, err := lookupRef(body, bindings)
	return v, err, true
}

func parseForm(toks []string, bindings map[int]sexpr.SExpr, bareMode bool) (sexpr.SExpr, []string, error) {
	if len(toks) == 0 || toks[0] != "(" {
		return sexpr.SExpr{}, nil, fmt.Errorf("expected '(' or '['")
	}
	toks = toks[1:]
	if len(toks) == 0 || toks[0] == "(" || toks[0] == ")" {
		return sexpr.SExpr{}, nil, fmt.Errorf("expected tag atom after '(' or '['")
	}
	tag := toks[0]
	if strings.HasPrefix(tag, `"`) && strings.HasSuffix(tag, `"`) && len(tag) >= 2 {
		tag = tag[1 : len(tag)-1]
	}
	toks = toks[1:]

	items := []sexpr.SExpr{sexpr.Str(tag)}
	for {
		if len(toks) == 0 {
			return sexpr.SExpr{}, nil, fmt.Errorf("unterminated action form")
		}
		if toks[0] == ")" {
			toks = toks[1:]
			break
		}
		v, rest, spread, err := parseAtomOrForm(toks, bindings, bareMode)
		if err != nil {
			return sexpr.SExpr{}, nil, err
		}
		if spread && v.IsSeq() {
			items = append(items, v.Seq...)
		} else {
			items = append(items, v)
		}
		toks = rest
	}
	return sexpr.Seq(items...), toks, nil
}
