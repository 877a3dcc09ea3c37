package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/server"
)

// Config file locations.
const (
	globalConfigFile  = "config.yaml"
	projectConfigDir  = ".waterfall"
	projectConfigFile = "config.yaml"
	envPrefix         = "WATERFALL"
)

// Config is the file/env configuration shared by all commands.
// Command-line flags override it.
type Config struct {
	Chart  chart.Options `mapstructure:"chart"`
	Cache  CacheConfig   `mapstructure:"cache"`
	Log    LogConfig     `mapstructure:"log"`
	Server ServerConfig  `mapstructure:"server"`
}

// CacheConfig selects and tunes the artifact cache.
type CacheConfig struct {
	// Dir overrides the file cache directory.
	Dir string        `mapstructure:"dir"`
	TTL time.Duration `mapstructure:"ttl"`

	cache.RedisConfig `mapstructure:",squash"`
}

// LogConfig configures the rotating log file used by serve.
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ServerConfig configures serve.
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
	// DeepMerge patches margin sides individually on session updates.
	DeepMerge bool `mapstructure:"deep_merge"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Chart: chart.DefaultOptions(),
		Cache: CacheConfig{
			TTL:         pipeline.TTLArtifact,
			RedisConfig: cache.RedisConfig{Prefix: appName + ":"},
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server: ServerConfig{
			Addr:         server.DefaultAddr,
			MaxBodyBytes: server.DefaultMaxBodyBytes,
		},
	}
}

// mergeMode maps the deep_merge setting onto a chart.MergeMode.
func (s ServerConfig) mergeMode() chart.MergeMode {
	if s.DeepMerge {
		return chart.MergeDeep
	}
	return chart.MergeShallow
}

// LoadConfig loads configuration into v. Precedence, later wins:
//  1. DefaultConfig()
//  2. $XDG_CONFIG_HOME/waterfall/config.yaml (or ~/.config/...)
//  3. .waterfall/config.yaml in the working directory
//  4. the file named by the "config" key (the --config flag)
//  5. WATERFALL_* environment variables
//
// Missing global and project files are ignored; an explicit file must exist.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	defaults, err := structToMap(cfg)
	if err != nil {
		return nil, err
	}
	if err := v.MergeConfigMap(defaults); err != nil {
		return nil, err
	}

	for _, path := range []string{globalConfigPath(), projectConfigPath()} {
		if path == "" {
			continue
		}
		if err := loadConfigFile(v, path); err != nil {
			return nil, err
		}
	}

	if explicit := v.GetString("config"); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, err
		}
		if err := loadConfigFile(v, explicit); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(cfg, viperDecodeHook()); err != nil {
		return nil, err
	}
	// Width and Height are never read from files.
	cfg.Chart = cfg.Chart.Derive()
	return cfg, nil
}

func globalConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	path := filepath.Join(dir, appName, globalConfigFile)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func projectConfigPath() string {
	path := filepath.Join(projectConfigDir, projectConfigFile)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// loadConfigFile reads a YAML file and merges it into v.
func loadConfigFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	fv := viper.New()
	fv.SetConfigType("yaml")
	if err := fv.ReadConfig(f); err != nil {
		return err
	}
	return v.MergeConfigMap(fv.AllSettings())
}

func viperDecodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// structToMap flattens cfg into the nested map form viper merges.
func structToMap(cfg *Config) (map[string]any, error) {
	result := make(map[string]any)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "mapstructure",
		Result:     &result,
		DecodeHook: durationToStringHook(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return result, nil
}

// durationToStringHook keeps durations in their "168h0m0s" form so the
// round trip through viper parses them again.
func durationToStringHook() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data any) (any, error) {
		if from != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		return data.(time.Duration).String(), nil
	}
}
