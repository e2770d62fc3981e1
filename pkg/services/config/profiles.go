package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"
)

// Registry exposes named analysis profiles stored in an INI file, one section
// per field or basin:
//
//	[permian]
//	hyperbolic_b = 0.8
//	default_cutoff = 10
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetSettings(ctx context.Context, profile string, base Settings) (*Settings, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

// GetSettings overlays the keys present in the profile section onto base.
func (cr *cfgRegistry) GetSettings(_ context.Context, profile string, base Settings) (*Settings, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", profile)
	}

	settings := base
	if key, err := section.GetKey("default_cutoff"); err == nil {
		if settings.DefaultCutoff, err = key.Float64(); err != nil {
			return nil, fmt.Errorf("profile %s: default_cutoff: %w", profile, err)
		}
	}
	if key, err := section.GetKey("max_periods"); err == nil {
		if settings.MaxPeriods, err = key.Int(); err != nil {
			return nil, fmt.Errorf("profile %s: max_periods: %w", profile, err)
		}
	}
	if key, err := section.GetKey("hyperbolic_b"); err == nil {
		if settings.HyperbolicB, err = key.Float64(); err != nil {
			return nil, fmt.Errorf("profile %s: hyperbolic_b: %w", profile, err)
		}
	}
	if key, err := section.GetKey("volume_scale"); err == nil {
		if settings.VolumeScale, err = key.Float64(); err != nil {
			return nil, fmt.Errorf("profile %s: volume_scale: %w", profile, err)
		}
	}
	if key, err := section.GetKey("volume_unit"); err == nil {
		settings.VolumeUnit = key.String()
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", profile, err)
	}
	return &settings, nil
}
