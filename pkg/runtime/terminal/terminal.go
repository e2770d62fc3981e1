package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/de-tools/decline-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/decline-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/decline-atlas/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	reporter *export.Reporter
	rootCmd  *cobra.Command
	logOut   io.Writer

	configPath   string
	profilesPath string
	profile      string
	logLevel     string
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// LogOutput receives structured logs, stderr when nil
	LogOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	cli := &CLI{
		reporter: export.NewReporter(opts.Output),
		logOut:   opts.LogOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs overrides os.Args, used by tests
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "decline",
		Short:             "Decline curve analysis tool",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.attachLogger,
	}

	cmd.PersistentFlags().StringVar(&cli.configPath, "config", "", "Path to a YAML settings file")
	cmd.PersistentFlags().StringVar(&cli.profilesPath, "profiles", defaultProfilesPath(),
		"Path to the INI file with analysis profiles")
	cmd.PersistentFlags().StringVar(&cli.profile, "profile", "", "Analysis profile to apply on top of the settings")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.AddCommand(commands.NewForecastCmd(cli.loadSettings, cli.reporter))
	cmd.AddCommand(commands.NewModelsCmd(cli.loadSettings))
	cmd.AddCommand(commands.NewImportCmd())

	return cmd
}

func (cli *CLI) attachLogger(cmd *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(cli.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cli.logLevel, err)
	}

	logger := zerolog.New(cli.logOut).Level(level).With().Timestamp().Logger()
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

func (cli *CLI) loadSettings(ctx context.Context) (*config.Settings, error) {
	settings, err := config.LoadSettings(cli.configPath)
	if err != nil {
		return nil, err
	}
	if cli.profile == "" {
		return settings, nil
	}

	registry, err := config.NewRegistry(cli.profilesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles from %s: %w", cli.profilesPath, err)
	}
	return registry.GetSettings(ctx, cli.profile, *settings)
}

func defaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".declinecfg"
	}
	return filepath.Join(home, ".declinecfg")
}
