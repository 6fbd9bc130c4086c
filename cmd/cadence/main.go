// Package main is the main package for the cadence input provider.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cadencehq/cadence/internal/config"
	"github.com/cadencehq/cadence/internal/logging"
	"github.com/cadencehq/cadence/internal/service"
	"github.com/cadencehq/cadence/internal/telemetry/metrics"
	"github.com/cadencehq/cadence/output"
	"github.com/cadencehq/cadence/provider"
	"github.com/cadencehq/cadence/sequence"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	// Bind overrides to flags and environment variables
	flags := pflag.NewFlagSet("cadence", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to a YAML configuration mapping. Use - to read it from stdin")
	for _, override := range config.DefaultOverrides() {
		if err := override.Bind(flags); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to bind override %s: %s", override.Field, err.Error())
			os.Exit(1)
		}
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %s", err.Error())
		os.Exit(1)
	}

	// Configure Viper to handle env overrides
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The host delivers the configuration mapping once, before the
	// first record is requested.
	switch *configPath {
	case "":
	case "-":
		if err := viper.ReadConfig(os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read config from stdin: %s", err.Error())
			os.Exit(1)
		}
	default:
		viper.SetConfigFile(*configPath)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read config file: %s", err.Error())
			os.Exit(1)
		}
	}
	config.ApplyHostMapping()

	cfg := config.NewConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %s", err.Error())
		os.Exit(1)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to validate config: %s", err.Error())
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %s", err.Error())
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("cadence started")

	// Create signal context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Listen for OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
		cancel()
	}()

	// Start the metrics exporter if enabled
	if cfg.Telemetry.Metrics.Enabled {
		prom, err := metrics.NewPrometheus()
		if err != nil {
			logger.Error("Failed to create Prometheus exporter", zap.Error(err))
			os.Exit(1)
		}
		if err := prom.Start(ctx); err != nil {
			logger.Error("Failed to start Prometheus exporter", zap.Error(err))
			os.Exit(1)
		}
		defer func() {
			if err := prom.Shutdown(context.Background()); err != nil {
				logger.Error("Failed to shutdown Prometheus exporter", zap.Error(err))
			}
		}()
	}

	// Configure output first
	var outputInstance output.Output
	switch cfg.Output.Type {
	case config.OutputTypeStdout:
		outputInstance, err = output.NewStdout(logger)
		if err != nil {
			logger.Error("Failed to create stdout output", zap.Error(err))
			os.Exit(1)
		}
	case config.OutputTypeNop:
		outputInstance, err = output.NewNopOutput(logger)
		if err != nil {
			logger.Error("Failed to create NOP output", zap.Error(err))
			os.Exit(1)
		}
	default:
		logger.Error("Invalid output type", zap.String("type", string(cfg.Output.Type)))
		os.Exit(1)
	}

	// Configure provider
	var providerInstance provider.Provider
	switch cfg.Provider.Type {
	case config.ProviderTypeCounter:
		providerInstance, err = provider.NewCounter(
			logger,
			sequence.Config{
				IntervalMS: cfg.Provider.Counter.Interval,
				MaxCount:   cfg.Provider.Counter.MaxCount,
			},
		)
		if err != nil {
			logger.Error("Failed to create counter provider", zap.Error(err))
			os.Exit(1)
		}
	case config.ProviderTypeNop:
		providerInstance, err = provider.NewNopProvider(logger)
		if err != nil {
			logger.Error("Failed to create NOP provider", zap.Error(err))
			os.Exit(1)
		}
	default:
		logger.Error("Invalid provider type", zap.String("type", string(cfg.Provider.Type)))
		os.Exit(1)
	}

	service, err := service.New(logger, providerInstance, outputInstance)
	if err != nil {
		logger.Error("Failed to create service", zap.Error(err))
		os.Exit(1)
	}

	if err := service.Start(); err != nil {
		logger.Error("Failed to start service", zap.Error(err))
		os.Exit(1)
	}

	// A bounded sequence exits on its own; otherwise wait for a signal.
	select {
	case <-ctx.Done():
	case <-service.Done():
		logger.Info("Provider ran to completion")
	}

	if err := service.Stop(); err != nil {
		logger.Error("Failed to stop service", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("cadence shutdown complete")
}
