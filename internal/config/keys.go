package config

import (
	"fmt"
	"slices"
	"strings"
)

// OutputFormats lists the values accepted by the "output" key.
var OutputFormats = []string{"table", "json"}

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "database-path").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set validates and applies a value for this key to the given Config
	// (in memory only; the caller is responsible for calling Save).
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "database-path",
		Description: "SQLite database file used when --db is not specified",
		Get:         func(cfg *Config) string { return cfg.DatabasePath },
		Set: func(cfg *Config, v string) error {
			cfg.DatabasePath = v
			return nil
		},
	},
	{
		Name:        "audit-retention",
		Description: "Age after which \"audit prune\" removes entries (e.g. 90d, 2w, 720h)",
		Get:         func(cfg *Config) string { return cfg.AuditRetention },
		Set: func(cfg *Config, v string) error {
			if _, err := ParseRetention(v); err != nil {
				return err
			}
			cfg.AuditRetention = v
			return nil
		},
	},
	{
		Name:        "output",
		Description: "Default output format for list commands (table or json)",
		Get:         func(cfg *Config) string { return cfg.Output },
		Set: func(cfg *Config, v string) error {
			v = strings.ToLower(v)
			if !slices.Contains(OutputFormats, v) {
				return fmt.Errorf("config: output must be one of %s, got %q", strings.Join(OutputFormats, ", "), v)
			}
			cfg.Output = v
			return nil
		},
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
