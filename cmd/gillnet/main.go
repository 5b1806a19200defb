/*
Gillnet reads a grammar and generates a predictive recursive-descent parser
for it.

Usage:

	gillnet [flags]

The flags are:

	-i, --input FILE
		Grammar source path.

	-o, --output FILE
		Generated parser destination. Defaults to stdout.

	-d, --dialect {data,sexpr,literate}
		Input dialect. Defaults to one inferred from --input's extension.

	--stats
		Print token/rule/nonterminal/conflict counts and exit.

	--dump-ir
		Print the loaded grammar and its LL(1) parse table, then exit.

	--config FILE
		Optional TOML config overriding the start symbol, operator table,
		dialect, and Special-handler bindings.

	--cache FILE
		Load, add to, and save a binary-serialized cache of generated
		parser source, keyed by a hash of the grammar source. Each run
		writes its output to the cache; entries are not read back, so
		generation always runs.

	--interactive
		Drop into a read-eval-print loop that loads the grammar once and
		repeatedly parses token sequences typed at the prompt.
*/
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/gillnet/gillnet"
	"github.com/gillnet/gillnet/internal/cache"
	"github.com/gillnet/gillnet/internal/config"
	"github.com/gillnet/gillnet/internal/input"
	"github.com/gillnet/gillnet/internal/repl"
	"github.com/gillnet/gillnet/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitLoadError indicates an unsuccessful execution due to a problem
	// loading the config, the grammar, its Special bindings, or the cache.
	ExitLoadError

	// ExitEmitError indicates an unsuccessful execution due to a problem
	// inside gillnet.Run (re-validating the configured grammar, planning,
	// or rendering the parser source) or in writing the output.
	ExitEmitError
)

var (
	returnCode int

	flagVersion     = pflag.BoolP("version", "v", false, "Print gillnet's version and exit")
	inputFile       = pflag.StringP("input", "i", "", "Grammar source file")
	outputFile      = pflag.StringP("output", "o", "", "Generated parser destination (stdout if omitted)")
	dialectFlag     = pflag.StringP("dialect", "d", "", "Input dialect: data, sexpr, or literate (inferred from --input's extension if omitted)")
	statsFlag       = pflag.Bool("stats", false, "Print grammar statistics and exit")
	dumpIRFlag      = pflag.Bool("dump-ir", false, "Print the loaded grammar and its LL(1) table and exit")
	configFile      = pflag.String("config", "", "TOML config overriding start symbol, operators, dialect, and special bindings")
	cacheFile       = pflag.String("cache", "", "Binary cache of generated parser source, keyed by grammar source hash")
	interactiveFlag = pflag.Bool("interactive", false, "Drop into a read-eval-print loop over the loaded grammar")
	packageFlag     = pflag.String("package", "main", "Go package name for the generated parser source")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -i/--input is required")
		returnCode = ExitLoadError
		return
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			returnCode = ExitLoadError
			return
		}
	}

	dialect := gillnet.Dialect(*dialectFlag)
	if dialect == "" {
		dialect = gillnet.Dialect(cfg.Dialect)
	}
	if dialect == "" {
		dialect = gillnet.InferDialect(*inputFile)
	}

	g, err := gillnet.LoadFile(*inputFile, dialect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: loading grammar: %s\n", err)
		returnCode = ExitLoadError
		return
	}
	gillnet.ApplyConfig(g, cfg)

	registry, err := gillnet.SpecialRegistryFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitLoadError
		return
	}

	var cacheStore cache.Store
	var sourceBytes []byte
	if *cacheFile != "" {
		cacheStore, err = cache.Load(*cacheFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: loading cache: %s\n", err)
			returnCode = ExitLoadError
			return
		}
		sourceBytes, _ = os.ReadFile(*inputFile)
	}

	pipeline, err := gillnet.Run(g, registry, *packageFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitEmitError
		return
	}

	if *cacheFile != "" {
		runID, err := cacheStore.Put(sourceBytes, pipeline.Source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: could not tag cache entry: %s\n", err)
		} else if err := cache.Save(*cacheFile, cacheStore); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: could not save cache: %s\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "cached generation as run %s\n", runID)
		}
	}

	if *statsFlag {
		s := gillnet.ComputeStats(pipeline)
		fmt.Printf("terminals:     %d\n", s.Terminals)
		fmt.Printf("nonterminals:  %d\n", s.NonTerminals)
		fmt.Printf("rules:         %d\n", s.Rules)
		fmt.Printf("conflicts:     %d\n", s.Conflicts)
		fmt.Printf("ll1:           %v\n", s.IsLL1)
		return
	}

	if *dumpIRFlag {
		fmt.Println(gillnet.DumpIR(pipeline))
		return
	}

	if *interactiveFlag {
		runInteractive(pipeline)
		return
	}

	if *outputFile == "" {
		fmt.Print(pipeline.Source)
		return
	}

	if err := os.WriteFile(*outputFile, []byte(pipeline.Source), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: writing output: %s\n", err)
		returnCode = ExitEmitError
		return
	}
}

func runInteractive(p gillnet.Pipeline) {
	out := bufio.NewWriter(os.Stdout)

	reader, err := input.NewInteractiveReader()
	var r repl.Reader = reader
	if err != nil {
		r = input.NewDirectReader(os.Stdin)
	} else {
		defer reader.Close()
	}

	session := repl.New(p.Grammar, p.Analysis, p.Classification, r, out)
	if err := session.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitEmitError
	}
}
