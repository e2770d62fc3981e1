package commands

import (
	"context"

	"github.com/de-tools/decline-atlas/pkg/services/config"
)

// SettingsLoader resolves the engine settings selected by the global flags.
type SettingsLoader func(ctx context.Context) (*config.Settings, error)
