// Package config implements gillnet's optional TOML run configuration
// (SPEC_FULL.md §6.4's --config flag), grounded on the teacher's own use of
// github.com/BurntSushi/toml (internal/tqw's resource-bundle manifests) for
// file-based configuration: read the whole file, then toml.Unmarshal it.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// OperatorConfig mirrors loader.OperatorData so a config file can override
// a grammar's operator precedence table without editing the grammar source
// itself.
type OperatorConfig struct {
	Assoc  string   `toml:"assoc"`
	Tokens []string `toml:"tokens"`
}

// SpecialConfig declares that a nonterminal needs one of the Pattern
// Recognizer's four closed-registry Special handlers, by name.
type SpecialConfig struct {
	NonTerminal string `toml:"nonterminal"`
	Capability  string `toml:"capability"`
}

// Config is the decoded contents of a --config TOML file: overrides for the
// start symbol, the dialect to assume for --input, the operator table, and
// the Special-handler bindings that can't be inferred from grammar shape
// alone. Zero values mean "no override"; the CLI falls back to its own
// flags or the grammar source's own declarations.
type Config struct {
	Start     string           `toml:"start"`
	Dialect   string           `toml:"dialect"`
	Operators []OperatorConfig `toml:"operators"`
	Special   []SpecialConfig  `toml:"special"`
}

// Load reads and decodes a TOML config file at path.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config file: %w", err)
	}
	return cfg, nil
}
