package config

import (
	"fmt"
	"strings"

	"github.com/de-tools/decline-atlas/pkg/services/decline"
	"github.com/spf13/viper"
)

const envPrefix = "DECLINE"

// Settings tunes the decline engine.
type Settings struct {
	DefaultCutoff float64 `mapstructure:"default_cutoff"`
	MaxPeriods    int     `mapstructure:"max_periods"`
	HyperbolicB   float64 `mapstructure:"hyperbolic_b"`
	VolumeScale   float64 `mapstructure:"volume_scale"`
	VolumeUnit    string  `mapstructure:"volume_unit"`
}

func DefaultSettings() Settings {
	return Settings{
		DefaultCutoff: 5,
		MaxPeriods:    decline.DefaultMaxPeriods,
		HyperbolicB:   decline.DefaultHyperbolicB,
		VolumeScale:   decline.DefaultVolumeScale,
		VolumeUnit:    decline.DefaultVolumeUnit,
	}
}

// LoadSettings reads settings from an optional YAML file. DECLINE_* environment
// variables override file values, e.g. DECLINE_HYPERBOLIC_B=0.8.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v, DefaultSettings())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse decline settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s Settings) Validate() error {
	if !(s.DefaultCutoff > 0) {
		return fmt.Errorf("default_cutoff must be positive, got %v", s.DefaultCutoff)
	}
	if s.MaxPeriods <= 0 {
		return fmt.Errorf("max_periods must be positive, got %d", s.MaxPeriods)
	}
	if !(s.HyperbolicB > 0 && s.HyperbolicB < 1) {
		return fmt.Errorf("hyperbolic_b must be in (0,1), got %v", s.HyperbolicB)
	}
	if !(s.VolumeScale > 0) {
		return fmt.Errorf("volume_scale must be positive, got %v", s.VolumeScale)
	}
	if s.VolumeUnit == "" {
		return fmt.Errorf("volume_unit cannot be empty")
	}
	return nil
}

func setDefaults(v *viper.Viper, s Settings) {
	v.SetDefault("default_cutoff", s.DefaultCutoff)
	v.SetDefault("max_periods", s.MaxPeriods)
	v.SetDefault("hyperbolic_b", s.HyperbolicB)
	v.SetDefault("volume_scale", s.VolumeScale)
	v.SetDefault("volume_unit", s.VolumeUnit)
}
