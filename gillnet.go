// Package gillnet is the top-level pipeline orchestrator: load a grammar in
// one of its three surface dialects, analyze it, classify its nonterminals,
// plan their emission, and render the result to Go source text. It plays
// the role the teacher toolkit's own tunaq.Engine plays for a game session:
// a thin façade that wires the component packages together for cmd/gillnet
// and for REPL use, so callers never construct a pipeline stage by hand.
package gillnet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gillnet/gillnet/analyzer"
	"github.com/gillnet/gillnet/emit"
	"github.com/gillnet/gillnet/grammar"
	"github.com/gillnet/gillnet/internal/config"
	"github.com/gillnet/gillnet/loader"
	"github.com/gillnet/gillnet/pattern"
	"github.com/gillnet/gillnet/special"
)

// Dialect names one of the Grammar Loader's three input surfaces.
type Dialect string

const (
	DialectData     Dialect = "data"
	DialectSExpr    Dialect = "sexpr"
	DialectLiterate Dialect = "literate"
)

// InferDialect guesses a Dialect from a file's extension, used when the CLI
// caller doesn't pass -d/--dialect explicitly. ".gn" and no recognized
// extension both default to the s-expression text dialect, since that's
// the dialect meant to be hand-written.
func InferDialect(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return DialectLiterate
	case ".json":
		return DialectData
	default:
		return DialectSExpr
	}
}

// LoadFile reads path and decodes it through the given Dialect. The data
// dialect's on-disk form is JSON, the most direct materialization of its
// plain-value GrammarData IR; gillnet otherwise never reaches for
// encoding/json (see DESIGN.md).
func LoadFile(path string, dialect Dialect) (*grammar.Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar source: %w", err)
	}

	switch dialect {
	case DialectData:
		var gd loader.GrammarData
		if err := json.Unmarshal(data, &gd); err != nil {
			return nil, fmt.Errorf("decode data-dialect JSON: %w", err)
		}
		return loader.LoadData(gd)
	case DialectLiterate:
		return loader.LoadLiterate(data)
	default:
		return loader.LoadSExpr(string(data))
	}
}

// SpecialRegistryFromConfig builds a special.Registry from a config.Config's
// declared nonterminal -> capability bindings. An unrecognized capability
// name is a config error, not silently ignored.
func SpecialRegistryFromConfig(cfg config.Config) (*special.Registry, error) {
	bindings := make(map[string]special.Capability, len(cfg.Special))
	for _, s := range cfg.Special {
		cap, ok := capabilityByName(s.Capability)
		if !ok {
			return nil, fmt.Errorf("unknown special capability %q for nonterminal %q", s.Capability, s.NonTerminal)
		}
		bindings[s.NonTerminal] = cap
	}
	return special.NewRegistry(bindings), nil
}

func capabilityByName(name string) (special.Capability, bool) {
	switch name {
	case "shared-prefix-dispatch":
		return special.SharedPrefixDispatch, true
	case "iterative-expr-core":
		return special.IterativeExprCore, true
	case "elidable-list":
		return special.ElidableList, true
	case "lookahead-disambiguated":
		return special.LookaheadDisambiguated, true
	default:
		return 0, false
	}
}

// ApplyConfig layers a config.Config's start-symbol and operator-table
// overrides onto an already-loaded grammar, in place.
func ApplyConfig(g *grammar.Grammar, cfg config.Config) {
	if cfg.Start != "" {
		g.SetStart(cfg.Start)
	}
	if len(cfg.Operators) > 0 {
		ops := make([]grammar.OperatorEntry, 0, len(cfg.Operators))
		for _, o := range cfg.Operators {
			ops = append(ops, grammar.OperatorEntry{Assoc: assocOf(o.Assoc), Tokens: append([]string(nil), o.Tokens...)})
		}
		g.SetOperators(ops)
	}
}

func assocOf(s string) grammar.Assoc {
	switch s {
	case "right":
		return grammar.AssocRight
	case "nonassoc":
		return grammar.AssocNonAssoc
	default:
		return grammar.AssocLeft
	}
}

// Pipeline is every intermediate and final artifact produced by running a
// loaded grammar through the Analyzer, Pattern Recognizer, and Code
// Emitter, in case a caller (--dump-ir, the REPL) needs to inspect one of
// the stages rather than just the rendered source.
type Pipeline struct {
	Grammar        *grammar.Grammar
	Analysis       analyzer.Analysis
	Classification pattern.Classification
	Plan           emit.Plan
	Source         string
}

// Run analyzes, classifies, plans, and renders g into pkg-qualified Go
// source. registry may be nil if the grammar declares no Special
// nonterminals.
func Run(g *grammar.Grammar, registry *special.Registry, pkg string) (Pipeline, error) {
	if err := g.Validate(); err != nil {
		return Pipeline{}, fmt.Errorf("validate grammar: %w", err)
	}

	a, err := analyzer.Analyze(g)
	if err != nil {
		return Pipeline{}, fmt.Errorf("analyze grammar: %w", err)
	}

	cls := pattern.Classify(g, a, registry)

	plan, err := emit.Build(g, a, cls, registry)
	if err != nil {
		return Pipeline{}, fmt.Errorf("build emission plan: %w", err)
	}

	src, err := emit.Generate(pkg, plan)
	if err != nil {
		return Pipeline{}, fmt.Errorf("generate parser source: %w", err)
	}

	return Pipeline{Grammar: g, Analysis: a, Classification: cls, Plan: plan, Source: src}, nil
}

// Stats is the --stats flag's summary: counts a caller can print without
// walking the grammar/analysis themselves.
type Stats struct {
	Terminals    int
	NonTerminals int
	Rules        int
	Conflicts    int
	IsLL1        bool
}

// ComputeStats summarizes a Pipeline's Grammar and Analysis.
func ComputeStats(p Pipeline) Stats {
	return Stats{
		Terminals:    len(p.Grammar.Terminals()),
		NonTerminals: len(p.Grammar.NonTerminals()),
		Rules:        len(p.Grammar.AllAlternatives()),
		Conflicts:    len(p.Analysis.Conflicts()),
		IsLL1:        p.Analysis.IsLL1(),
	}
}

// DumpIR renders the Grammar and its LL(1) parse table in human-readable
// form, for --dump-ir.
func DumpIR(p Pipeline) string {
	var b strings.Builder
	b.WriteString(p.Grammar.String())
	b.WriteString("\n")
	b.WriteString(p.Analysis.LLParseTable().String())
	return b.String()
}
