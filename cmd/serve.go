package cmd

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/screenrank/screenrank/internal/analyzer"
	"github.com/screenrank/screenrank/internal/api"
	"github.com/screenrank/screenrank/internal/logger"
	"github.com/screenrank/screenrank/internal/screening"
	"github.com/screenrank/screenrank/internal/secrets"
	"github.com/screenrank/screenrank/internal/source"
	"github.com/screenrank/screenrank/internal/source/gemini"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultListenAddr = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the screening HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on. Overrides the config value.")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the screenrank api", zap.String("version", version))

	if config == nil {
		logger.Fatal("config is required")
	}

	addr := viper.GetString("listen")
	if addr == "" {
		addr = defaultListenAddr
	}

	pool := screening.NewPool()

	var primary source.SkillSource = source.NewMock()
	var relay *gemini.Source

	if config.AI != nil && config.AI.Enabled {
		src, err := buildServeSource(ctx, config.AI, logger)
		if err != nil {
			logger.Fatal("building the gemini source", zap.Error(err))
		}
		primary = src
		relay = src
	} else {
		logger.Info("ai is disabled, analysis uses the simulated skill source")
	}

	workers := 1
	if config.Analysis != nil {
		workers = config.Analysis.Workers
	}

	runner := analyzer.New(pool, primary, logger, analyzer.WithWorkers(workers))
	server := api.NewServer(pool, runner, relay, logger)

	logger.Info("listening", zap.String("addr", addr))

	if err := server.ListenAndServe(ctx, addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// buildServeSource builds a gemini source without a preconfigured job text.
// The job arrives later over the API, so the analyzer resolves it per run
// and the extraction relay always receives it explicitly.
func buildServeSource(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*gemini.Source, error) {
	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.RequestsPerMinute)
	if err != nil {
		return nil, err
	}

	srcLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewSource(generator, "", srcLogger), nil
}
