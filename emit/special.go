package emit

import (
	"github.com/gillnet/gillnet/analyzer"
	"github.com/gillnet/gillnet/grammar"
)

// SpecialHandler emits the parseN body for one nonterminal the Pattern
// Recognizer tagged Special (spec §4.3/§4.6). It is declared in emit, not
// special, so emit.Plan can call into the registered handlers without
// special needing to import emit's planning logic — special only produces
// emit.Func values, it never decides pattern tags.
type SpecialHandler interface {
	Emit(nt string, g *grammar.Grammar, an analyzer.Analysis, alts []grammar.Alternative) (Func, error)
}

// SpecialHandlers resolves a nonterminal name tagged Special to its
// handler. The zero value of any type with a Get method returning
// (nil, false) for everything is a valid empty registry.
type SpecialHandlers interface {
	Get(name string) (SpecialHandler, bool)
}
