package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all bomview settings
type Config struct {
	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Data struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"data"`

	Limits struct {
		MaxDepth int `mapstructure:"max_depth"`
		MaxNodes int `mapstructure:"max_nodes"`
	} `mapstructure:"limits"`

	Output struct {
		Precision int32 `mapstructure:"precision"`
	} `mapstructure:"output"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("data.dir", "")
	v.SetDefault("limits.max_depth", 64)
	v.SetDefault("limits.max_nodes", 50000)
	v.SetDefault("output.precision", 4)
	v.SetDefault("metrics.enabled", true)
}

// Load reads configuration from an optional YAML file and BOMVIEW_* environment
// variables (e.g. BOMVIEW_HTTP_ADDR). An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	return LoadWith(v, path)
}

// LoadWith is Load on a caller-supplied viper instance, so command line flags
// bound to v take precedence over file and environment values.
func LoadWith(v *viper.Viper, path string) (Config, error) {
	v.SetEnvPrefix("BOMVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks the loaded values
func (c Config) Validate() error {
	var errs []error
	if c.Limits.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("limits.max_depth must be positive, got %d", c.Limits.MaxDepth))
	}
	if c.Limits.MaxNodes <= 0 {
		errs = append(errs, fmt.Errorf("limits.max_nodes must be positive, got %d", c.Limits.MaxNodes))
	}
	if c.Output.Precision < 0 {
		errs = append(errs, fmt.Errorf("output.precision cannot be negative, got %d", c.Output.Precision))
	}
	return errors.Join(errs...)
}
