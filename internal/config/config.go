package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/WCLondon/Optimiser-sub001/internal/geography"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load optimiser defaults from a separate YAML. Explicit values
	// in Optimiser override the defaults file.
	DefaultsFile string          `yaml:"defaults_file"`
	Optimiser    OptimiserConfig `yaml:"optimiser"`
	Snapshot     SnapshotConfig  `yaml:"snapshot"`
	Logging      LoggingConfig   `yaml:"logging"`
}

type OptimiserConfig struct {
	Tier          string  `yaml:"tier"`
	ContractSize  string  `yaml:"contract_size"`
	SRMMultiplier float64 `yaml:"srm_multiplier"`
	MaxIterations int     `yaml:"max_iterations"`

	// Overrides for the built-in tables; leave empty to use defaults.
	DistinctivenessLevels map[string]float64 `yaml:"distinctiveness_levels"`
	DefaultPrices         map[string]float64 `yaml:"default_prices"`
}

// SnapshotConfig points at the reference-data files loaded at startup.
type SnapshotConfig struct {
	InventoryFile string `yaml:"inventory_file"`
	PricingFile   string `yaml:"pricing_file"`
	CatalogFile   string `yaml:"catalog_file"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if c.Optimiser.SRMMultiplier == 0 {
		c.Optimiser.SRMMultiplier = 1.0
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.DefaultsFile != "" {
		defaultsPath := c.DefaultsFile
		if !filepath.IsAbs(defaultsPath) {
			// Prefer paths relative to the config file directory, falling back
			// to the provided path if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), defaultsPath)
			if _, err := os.Stat(cand); err == nil {
				defaultsPath = cand
			}
		}
		loaded, err := loadDefaultsFile(defaultsPath)
		if err != nil {
			return nil, err
		}
		c.Optimiser = MergeOptimiser(loaded, c.Optimiser)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Optimiser.SRMMultiplier < 0 {
		return fmt.Errorf("optimiser.srm_multiplier must be >= 0, got %v", c.Optimiser.SRMMultiplier)
	}
	if c.Optimiser.MaxIterations < 0 {
		return fmt.Errorf("optimiser.max_iterations must be >= 0, got %d", c.Optimiser.MaxIterations)
	}
	if t := strings.TrimSpace(c.Optimiser.Tier); t != "" && !geography.ValidTier(t) {
		return fmt.Errorf("optimiser.tier must be local, adjacent, or far, got %q", t)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is invalid", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format %q is invalid", c.Logging.Format)
	}
	return nil
}

type defaultsFileWrapper struct {
	Optimiser OptimiserConfig `yaml:"optimiser"`
}

func loadDefaultsFile(path string) (OptimiserConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return OptimiserConfig{}, err
	}
	var w defaultsFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return OptimiserConfig{}, err
	}
	return w.Optimiser, nil
}

// MergeOptimiser overlays non-zero fields from override onto base.
// This is used when loading a defaults file and then applying overrides from
// the config file or a request.
func MergeOptimiser(base, override OptimiserConfig) OptimiserConfig {
	out := base
	if override.Tier != "" {
		out.Tier = override.Tier
	}
	if override.ContractSize != "" {
		out.ContractSize = override.ContractSize
	}
	if override.SRMMultiplier != 0 {
		out.SRMMultiplier = override.SRMMultiplier
	}
	if override.MaxIterations != 0 {
		out.MaxIterations = override.MaxIterations
	}
	if len(override.DistinctivenessLevels) != 0 {
		out.DistinctivenessLevels = override.DistinctivenessLevels
	}
	if len(override.DefaultPrices) != 0 {
		out.DefaultPrices = override.DefaultPrices
	}
	return out
}
