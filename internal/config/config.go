// Package config loads the YAML deployment configuration the mpc-cli
// reads at startup: the party list, this node's identity within it, the
// threshold, and where its preprocessing store lives (spec.md §6).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/luxfi/robustmpc/pkg/party"
)

// PartySpec names one party and the network address its Router should
// reach it at.
type PartySpec struct {
	ID      party.ID `yaml:"id"`
	Address string   `yaml:"address"`
}

// Config is the on-disk shape of a node's deployment configuration.
type Config struct {
	// Self is this node's own party id, which must appear in Parties.
	Self party.ID `yaml:"self"`
	// Threshold is the maximum number of parties a program's security
	// assumes are faulty.
	Threshold int `yaml:"threshold"`
	// Parties lists every party in the computation, including Self.
	Parties []PartySpec `yaml:"parties"`
	// PreprocDir is the base directory a preproc.Store reads and writes
	// under, following the <kind>_<n>_<t>/<id>.dat layout.
	PreprocDir string `yaml:"preproc_dir"`
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`
	// DebugChecks enables the LessThan mixin's extra secret-opening
	// assertions. Must never be set in a real deployment; see DESIGN.md.
	DebugChecks bool `yaml:"debug_checks"`
	// SkipPreprocessing, when set, has the node run with an empty
	// preprocessing source instead of opening PreprocDir's store -- for a
	// program that draws no correlated randomness, or a connectivity dry
	// run that never actually invokes a mixin operator.
	SkipPreprocessing bool `yaml:"skip_preprocessing"`
	// Extras carries program-specific configuration a deployment's chosen
	// program reads by name (e.g. "run_id", "program"), without the core config
	// schema needing to know about every program in advance.
	Extras map[string]interface{} `yaml:"extras"`
}

// Load reads and validates a Config from path.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Validate checks internal consistency: self must be one of the listed
// parties, the threshold must be achievable, and no party id may repeat.
func (c Config) Validate() error {
	if c.Self == "" {
		return fmt.Errorf("config: self is required")
	}
	if len(c.Parties) == 0 {
		return fmt.Errorf("config: at least one party is required")
	}
	if c.Threshold < 0 || c.Threshold > len(c.Parties)-1 {
		return fmt.Errorf("config: threshold %d invalid for %d parties", c.Threshold, len(c.Parties))
	}

	seen := make(map[party.ID]bool, len(c.Parties))
	foundSelf := false
	for _, p := range c.Parties {
		if p.ID == "" {
			return fmt.Errorf("config: party with empty id")
		}
		if seen[p.ID] {
			return fmt.Errorf("config: duplicate party id %q", p.ID)
		}
		seen[p.ID] = true
		if p.ID == c.Self {
			foundSelf = true
		}
	}
	if !foundSelf {
		return fmt.Errorf("config: self %q is not among the listed parties", c.Self)
	}
	return nil
}

// PartyIDs returns every configured party's id, in listed order.
func (c Config) PartyIDs() []party.ID {
	ids := make([]party.ID, len(c.Parties))
	for i, p := range c.Parties {
		ids[i] = p.ID
	}
	return ids
}
