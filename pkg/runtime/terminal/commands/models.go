package commands

import (
	"fmt"

	"github.com/de-tools/decline-atlas/pkg/services/forecast"
	"github.com/spf13/cobra"
)

type ModelsCmd struct {
	loadSettings SettingsLoader
}

func NewModelsCmd(loadSettings SettingsLoader) *cobra.Command {
	mc := &ModelsCmd{loadSettings: loadSettings}
	return &cobra.Command{
		Use:   "models",
		Short: "List supported decline models",
		RunE:  mc.run,
	}
}

func (mc *ModelsCmd) run(cmd *cobra.Command, _ []string) error {
	settings, err := mc.loadSettings(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	engine, err := forecast.NewEngine(*settings, nil)
	if err != nil {
		return fmt.Errorf("failed to create forecast engine: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Supported decline models:")
	for _, t := range engine.SupportedTypes() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", t)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Hyperbolic exponent b: %v\n", settings.HyperbolicB)

	return nil
}
