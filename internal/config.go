package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/recommend"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Data      DataConfig        `yaml:"data"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Auth      AuthConfig        `yaml:"auth"`
	Recommend RecommendConfig   `yaml:"recommend"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Recommend.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DataConfig holds the path to the dataset directory holding CSV files.
type DataConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the data configuration.
func (c *DataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// RecommendConfig tunes the recommendation engine.
type RecommendConfig struct {
	Percentile          float64            `yaml:"percentile"`
	NutrientLowPct      float64            `yaml:"nutrient_low_pct"`
	NutrientHighPct     float64            `yaml:"nutrient_high_pct"`
	Weights             map[string]float64 `yaml:"weights"`
	ExcludedIngredients []string           `yaml:"excluded_ingredients"`
	ExcludedTags        []string           `yaml:"excluded_tags"`
	DefaultLimit        int                `yaml:"default_limit"`
}

// Validate validates the recommendation configuration.
func (c *RecommendConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Percentile, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&c.NutrientLowPct, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&c.NutrientHighPct, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&c.DefaultLimit, validation.Min(1)),
	); err != nil {
		return err
	}
	if c.NutrientLowPct >= c.NutrientHighPct {
		return fmt.Errorf("recommend: nutrient_low_pct (%v) must be below nutrient_high_pct (%v)", c.NutrientLowPct, c.NutrientHighPct)
	}
	for axis, w := range c.Weights {
		if _, err := recommend.ParseAxes(axis); err != nil {
			return fmt.Errorf("recommend: weights: %w", err)
		}
		if w < 0 {
			return fmt.Errorf("recommend: weights: %q must be non-negative, got %v", axis, w)
		}
	}
	return nil
}

// Params converts the configuration into engine parameters.
func (c *RecommendConfig) Params() recommend.Params {
	weights := recommend.Weights{}
	for axis, w := range c.Weights {
		weights[recommend.Axis(axis)] = w
	}
	return recommend.Params{
		Percentile:          c.Percentile,
		NutrientLowPct:      c.NutrientLowPct,
		NutrientHighPct:     c.NutrientHighPct,
		Weights:             weights,
		ExcludedIngredients: c.ExcludedIngredients,
		ExcludedTags:        c.ExcludedTags,
		DefaultLimit:        c.DefaultLimit,
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Data: DataConfig{
			Path: "./data",
		},
		SQLite: SQLiteConfig{
			Path: "./raido.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Recommend: RecommendConfig{
			Percentile:      75,
			NutrientLowPct:  25,
			NutrientHighPct: 75,
			DefaultLimit:    20,
		},
	}
}
