package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kass/pitstop/internal/config"
	"github.com/kass/pitstop/internal/logger"
	"github.com/kass/pitstop/pkg/client"
	"github.com/kass/pitstop/pkg/render"
)

var (
	configFile string
	baseURL    string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
	api *client.Client
	out *render.Renderer
)

var rootCmd = &cobra.Command{
	Use:   "pitstop",
	Short: "Plan cycling routes with bike parking along the way",
	Long: `PitStop finds cycling routes between two places and suggests bicycle
parking at regular intervals along each route.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default config.yaml, then config.yaml.example)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the shared logger, client and renderer
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log, err = logger.NewNamed(level, cfg.Log.Development || verbose, "pitstop")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	for _, warning := range cfg.Warnings {
		log.Warn("configuration warning", zap.String("detail", warning))
	}
	log.Debug("configuration loaded",
		zap.String("source", cfg.Source),
		zap.String("base_url", cfg.API.BaseURL),
		zap.Duration("timeout", cfg.API.Timeout),
	)

	api = client.New(cfg.API.BaseURL,
		client.WithTimeout(cfg.API.Timeout),
		client.WithLogger(log.Named("client")),
	)
	out = render.New(render.ColorEnabled(os.Stdout))
	return nil
}
