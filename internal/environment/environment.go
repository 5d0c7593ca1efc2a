// Package environment resolves the server addresses for the deployment tier
// the process was started for.
package environment

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Name string

const (
	Development Name = "development"
	Staging     Name = "staging"
	Production  Name = "production"
)

// Environment is one row of the environment table.
type Environment struct {
	Name           Name     `yaml:"-"`
	BaseAddress    string   `yaml:"base_address"`
	UploadsAddress string   `yaml:"uploads_address"`
	DebugEnabled   bool     `yaml:"debug"`
	Fallbacks      []string `yaml:"fallbacks"` // loopback aliases for a locally running server
}

// Table maps a tier to its addresses.
type Table map[Name]Environment

// DefaultTable returns the built-in table. Only development carries loopback fallbacks.
func DefaultTable() Table {
	return Table{
		Development: {
			Name:           Development,
			BaseAddress:    "http://localhost:5000/api",
			UploadsAddress: "http://localhost:5000/uploads",
			DebugEnabled:   true,
			Fallbacks: []string{
				"http://10.0.2.2:5000/api", // Android emulator
				"http://10.0.3.2:5000/api", // Genymotion
				"http://127.0.0.1:5000/api",
			},
		},
		Staging: {
			Name:           Staging,
			BaseAddress:    "https://staging-api.wellnessbook.app/api",
			UploadsAddress: "https://staging-api.wellnessbook.app/uploads",
			DebugEnabled:   true,
		},
		Production: {
			Name:           Production,
			BaseAddress:    "https://api.wellnessbook.app/api",
			UploadsAddress: "https://api.wellnessbook.app/uploads",
			DebugEnabled:   false,
		},
	}
}

// LoadTable returns the default table with the entries of the YAML file at path
// replacing the built-in ones. An empty path yields the defaults.
func LoadTable(path string) (Table, error) {
	table := DefaultTable()
	if path == "" {
		return table, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read environments file: %w", err)
	}

	var entries map[string]Environment
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode environments file: %w", err)
	}

	for key, entry := range entries {
		name, ok := Normalize(key)
		if !ok {
			return nil, fmt.Errorf("environments file: unknown environment %q", key)
		}
		if entry.BaseAddress == "" {
			return nil, fmt.Errorf("environments file: %s: base_address is required", name)
		}
		entry.Name = name
		table[name] = entry
	}

	return table, nil
}

// Resolve returns the entry for name. The table always contains the three
// tiers, unknown names fall back to development.
func (t Table) Resolve(name Name) Environment {
	if env, ok := t[name]; ok {
		return env
	}
	if env, ok := t[Development]; ok {
		return env
	}
	return DefaultTable()[Development]
}

// Normalize maps the accepted spellings onto a tier name.
func Normalize(value string) (Name, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "dev", "develop", "development", "local":
		return Development, true
	case "stage", "staging":
		return Staging, true
	case "prod", "production":
		return Production, true
	default:
		return "", false
	}
}

// Candidates returns the base address followed by the fallbacks, without duplicates.
func (e Environment) Candidates() []string {
	seen := make(map[string]struct{}, len(e.Fallbacks)+1)
	candidates := make([]string, 0, len(e.Fallbacks)+1)

	for _, addr := range append([]string{e.BaseAddress}, e.Fallbacks...) {
		addr = strings.TrimRight(strings.TrimSpace(addr), "/")
		if addr == "" {
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		candidates = append(candidates, addr)
	}

	return candidates
}

// LogResolved writes the start-up diagnostic for the resolved environment.
func LogResolved(logger *zap.Logger, env Environment) {
	logger.Info("Environment resolved",
		zap.String("environment", string(env.Name)),
		zap.String("base_address", env.BaseAddress),
		zap.String("uploads_address", env.UploadsAddress),
		zap.Bool("debug", env.DebugEnabled),
		zap.Int("fallbacks", len(env.Fallbacks)))
}
