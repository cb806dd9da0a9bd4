// Package config loads the server settings, engine tuning and static catalog.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"shelterverse/internal/domain/colony"
)

//go:embed defaults.yaml
var defaultsYAML []byte

const (
	EnvConfigPath    = "SHELTERVERSE_CONFIG"
	EnvDBDSN         = "SHELTERVERSE_DB_DSN"
	EnvAddr          = "SHELTERVERSE_ADDR"
	EnvArchiveDir    = "SHELTERVERSE_ARCHIVE_DIR"
	EnvTelemetryFile = "SHELTERVERSE_TELEMETRY_FILE"
	EnvLogLevel      = "SHELTERVERSE_LOG_LEVEL"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Tuning  colony.Tuning  `yaml:"tuning"`
	Catalog colony.Catalog `yaml:"catalog"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr"`
	DBDSN         string `yaml:"db_dsn"`
	MigrationsDir string `yaml:"migrations_dir"`
	AutoMigrate   bool   `yaml:"auto_migrate"`
	ArchiveDir    string `yaml:"archive_dir"`    // empty disables the snapshot archive
	TelemetryFile string `yaml:"telemetry_file"` // empty disables CSV telemetry
	LogFormat     string `yaml:"log_format"`     // text or json
	LogLevel      string `yaml:"log_level"`
	ReplayLimit   int    `yaml:"replay_limit"`
	CORSOrigin    string `yaml:"cors_origin"` // empty allows any origin
}

// Default returns the embedded configuration.
func Default() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load starts from the embedded defaults and overlays the file at path, if any.
// Lists in the file replace the default lists; scalar keys override one by one.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides server settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Server.DBDSN, EnvDBDSN)
	set(&c.Server.Addr, EnvAddr)
	set(&c.Server.ArchiveDir, EnvArchiveDir)
	set(&c.Server.TelemetryFile, EnvTelemetryFile)
	set(&c.Server.LogLevel, EnvLogLevel)
}

// Validate checks the catalog for dangling references and the tuning for
// values the engine cannot run with.
func (c Config) Validate() error {
	var problems []string
	t := c.Tuning
	if t.SecondsPerWeek <= 0 {
		problems = append(problems, "tuning.seconds_per_week must be > 0")
	}
	if t.AdultAgeWeeks <= 0 {
		problems = append(problems, "tuning.adult_age_weeks must be > 0")
	}
	if t.MaxGridSize < 1 {
		problems = append(problems, "tuning.max_grid_size must be >= 1")
	}
	if t.CompetenceCap < 1 || t.CompetencePoints < 0 {
		problems = append(problems, "tuning competence distribution is invalid")
	}

	items := map[string]bool{}
	for _, it := range c.Catalog.Items {
		if items[it.ID] {
			problems = append(problems, fmt.Sprintf("duplicate item %q", it.ID))
		}
		items[it.ID] = true
	}
	checkItems := func(owner string, list []colony.ItemAmount) {
		for _, it := range list {
			if !items[it.Item] {
				problems = append(problems, fmt.Sprintf("%s references unknown item %q", owner, it.Item))
			}
		}
	}
	for _, id := range []string{t.FuelItem, t.EmptyBarrelItem, t.CrudeItem, t.EmbryoItem} {
		if !items[id] {
			problems = append(problems, fmt.Sprintf("tuning references unknown item %q", id))
		}
	}

	rooms := map[colony.RoomType]bool{}
	for _, r := range c.Catalog.Rooms {
		if rooms[r.Type] {
			problems = append(problems, fmt.Sprintf("duplicate room %q", r.Type))
		}
		rooms[r.Type] = true
		checkItems("room "+string(r.Type), r.Cost)
		if r.Greenhouse != nil && !items[r.Greenhouse.Crop] {
			problems = append(problems, fmt.Sprintf("room %s grows unknown item %q", r.Type, r.Greenhouse.Crop))
		}
		if r.Workshop != nil && !items[r.Workshop.Input] {
			problems = append(problems, fmt.Sprintf("room %s consumes unknown item %q", r.Type, r.Workshop.Input))
		}
	}
	for _, e := range c.Catalog.Equipment {
		checkItems("equipment "+string(e.Type), e.Cost)
		for _, rt := range e.Rooms {
			if !rooms[rt] {
				problems = append(problems, fmt.Sprintf("equipment %s allows unknown room %q", e.Type, rt))
			}
		}
	}
	for _, r := range c.Catalog.Recipes {
		checkItems("recipe "+r.ID, r.Inputs)
		checkItems("recipe "+r.ID, r.Outputs)
	}
	for _, tier := range c.Catalog.MineralTiers {
		for _, m := range tier.Minerals {
			if !items[m.Item] {
				problems = append(problems, fmt.Sprintf("mineral tier %d references unknown item %q", tier.Depth, m.Item))
			}
		}
	}
	checkItems("starter inventory", c.Catalog.StarterInventory)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
