// Package config loads the YAML configuration that drives a run: which
// library resolution mode to use, where to find the entry member, and
// where to persist the extracted data (spec.md §6).
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the full set of run options (spec.md §6).
type Config struct {
	System     string `yaml:"SYSTEM"`  // "Z" selects native-PDS resolution; anything else selects filesystem
	Path       string `yaml:"PATH"`    // primary library root
	Lib        string `yaml:"LIB"`     // additional library roots, comma-separated
	Ext        string `yaml:"EXT"`     // filename suffix under filesystem mode
	File       string `yaml:"FILE"`    // entry member name
	Project    string `yaml:"PROJECT"` // logical name under which extracted data is stored
	Database   string `yaml:"DATABASE"`
	User       string `yaml:"USER"`
	Password   string `yaml:"PASSWORD"`
	DropTables bool   `yaml:"DROP_TABLES"` // tear down and recreate schema before insert
}

// Load reads and decodes the YAML configuration at path. A missing file
// is not an error: it returns (nil, nil), and the caller is expected to
// treat a nil Config as "skip silently" (spec.md §7).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %q", path)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "parsing config %q", path)
	}
	return &c, nil
}

// LibraryRoots splits Lib into its ordered list of additional roots.
func (c *Config) LibraryRoots() []string {
	if c.Lib == "" {
		return nil
	}
	var roots []string
	start := 0
	for i := 0; i <= len(c.Lib); i++ {
		if i == len(c.Lib) || c.Lib[i] == ',' {
			if root := c.Lib[start:i]; root != "" {
				roots = append(roots, root)
			}
			start = i + 1
		}
	}
	return roots
}

// NativePDS reports whether SYSTEM selects native-PDS library resolution
// (spec.md §6: "Z selects native-PDS resolution; any other value selects
// filesystem").
func (c *Config) NativePDS() bool {
	return c.System == "Z"
}
