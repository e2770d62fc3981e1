package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/de-tools/decline-atlas/pkg/server"
	"github.com/de-tools/decline-atlas/pkg/services/config"
	"github.com/de-tools/decline-atlas/pkg/services/forecast"
	"github.com/de-tools/decline-atlas/pkg/store/duckdb"
	"github.com/de-tools/decline-atlas/pkg/store/duckdb/production"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	profilesPath string
	profile      string
	dbPath       string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Decline Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a YAML settings file")
	rootCmd.Flags().StringVar(&profilesPath, "profiles", ".declinecfg", "Path to the INI file with analysis profiles")
	rootCmd.Flags().StringVar(&profile, "profile", "", "Analysis profile to apply on top of the settings")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "Path to the production store (well endpoints are disabled when empty)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.LoadSettings(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if profile != "" {
		registry, err := config.NewRegistry(profilesPath)
		if err != nil {
			return fmt.Errorf("failed to create profile registry: %w", err)
		}
		settings, err = registry.GetSettings(ctx, profile, *settings)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		logger.Info().Msgf("Profile `%s` loaded from `%s`.", profile, profilesPath)
	}

	engine, err := forecast.NewEngine(*settings, nil)
	if err != nil {
		return fmt.Errorf("failed to create forecast engine: %w", err)
	}

	var series production.Store
	if dbPath != "" {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: dbPath})
		if err != nil {
			return fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		defer db.Close()

		series, err = production.NewStore(db)
		if err != nil {
			return fmt.Errorf("failed to create production store: %w", err)
		}
	}

	logger.Info().
		Float64("default_cutoff", settings.DefaultCutoff).
		Int("max_periods", settings.MaxPeriods).
		Float64("hyperbolic_b", settings.HyperbolicB).
		Str("volume_unit", settings.VolumeUnit).
		Msg("forecast engine configured")

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		return fmt.Errorf("missing SERVER_HOST or SERVER_PORT (set them in the environment or .env)")
	}

	api := server.NewWebAPI(server.Config{
		Addr:            net.JoinHostPort(host, port),
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Forecaster: engine,
			Series:     series,
			Logger:     logger,
		},
	})

	return api.Start()
}
