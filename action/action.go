// Package action implements the Action Transformer (spec §4.4): it rewrites
// an alternative's action-expression text so that positional references to
// rhs symbols become the emitter-local variable names the Code Emitter and
// interp both bind, leaving every other character of the action text
// untouched.
package action

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gillnet/gillnet/generrors"
)

// posRef matches a "$k" or "$k.value" positional reference, dollar-prefixed.
var posRef = regexp.MustCompile(`\$(\d+)(\.value)?`)

// bareRef matches a bare "k" or "k.value" positional reference with no "$"
// prefix, word-bounded so it doesn't catch digits embedded in a larger
// identifier (e.g. the "1" in "op1"). Used only when text contains no
// dollar-prefixed reference at all, per spec §4.4's "otherwise" clause.
var bareRef = regexp.MustCompile(`\b(\d+)(\.value)?\b`)

// LocalName returns the emitter-local variable name bound to rhs position
// k (one-based), e.g. LocalName(1) == "v1". The Code Emitter and interp
// both bind exactly these names when walking an alternative's symbols.
func LocalName(position int) string {
	return fmt.Sprintf("v%d", position)
}

// Transform rewrites text, an alternative's action expression, against an
// rhs of length rhsLen, per the $k transformation law (spec §4.4):
//
//   - if text, trimmed, is nothing but a bare digit k, the whole action is
//     the trivial pass-through "take rhs position k as-is" (this is the
//     shape grammar.AddRule's default action produces for a single-symbol
//     alternative); it becomes exactly LocalName(k).
//   - otherwise, if text contains any "$k" or "$k.value" reference, only
//     those are rewritten: "$k" becomes LocalName(k), and "$k.value"
//     becomes LocalName(k) followed by a ".Value()" accessor. Bare
//     integers elsewhere in the text are left as numeric literals.
//   - otherwise (no "$"-prefixed reference anywhere in text), every bare
//     integer literal — whether standing alone, as a member-access base
//     ("k.value"), or as a spread operand ("...k") — is rewritten the
//     same way. This is the shape spec §6.2's own `'["program", ...1]'`
//     example action takes.
//
// In both rewrite cases, all surrounding text (s-expression tag atoms,
// parens, literal tokens, spread "...") passes through unchanged. Any
// referenced position outside [1, rhsLen] fails with generrors.BadAction.
// ruleIndex is carried through only for the error message; Transform does
// not otherwise use it.
func Transform(ruleIndex int, text string, rhsLen int) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		// An epsilon alternative (or any alternative an author left with no
		// explicit action) yields the empty s-expression rather than an
		// invalid blank Go expression.
		return "sexpr.Null()", nil
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 1 || n > rhsLen {
			return "", generrors.BadAction(ruleIndex, n, rhsLen)
		}
		return LocalName(n), nil
	}

	ref := posRef
	if !posRef.MatchString(text) {
		ref = bareRef
	}

	var firstErr error
	out := ref.ReplaceAllStringFunc(text, func(m string) string {
		if firstErr != nil {
			return m
		}
		sub := ref.FindStringSubmatch(m)
		n, _ := strconv.Atoi(sub[1])
		if n < 1 || n > rhsLen {
			firstErr = generrors.BadAction(ruleIndex, n, rhsLen)
			return m
		}
		name := LocalName(n)
		if sub[2] != "" {
			return name + ".Value()"
		}
		return name
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
