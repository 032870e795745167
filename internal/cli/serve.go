package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/adcfox/internal/charmodel"
	"github.com/haskel/adcfox/internal/config"
	"github.com/haskel/adcfox/internal/estimator"
	"github.com/haskel/adcfox/internal/logger"
	"github.com/haskel/adcfox/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the adcfox server",
	Long: `Start the adcfox HTTP plugin server in foreground mode.

SIGHUP reloads the configuration and re-reads the characterization model.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Override host/port if specified via flag
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = host
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	log.Info("adcfox starting",
		"version", Version,
		"config", cfgFile,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	est, info := buildEstimator(ctx, cfg, log)

	if cfg.Server.PIDFile != "" {
		if err := writePIDFile(cfg.Server.PIDFile); err != nil {
			log.Warn("failed to write PID file", "error", err)
		} else {
			defer os.Remove(cfg.Server.PIDFile)
		}
	}

	srv := server.New(cfg, est, info, log, Version)

	sighupCh := make(chan os.Signal, 1)
	sigCh := make(chan os.Signal, 1)
	shutdownDone := make(chan struct{})

	signal.Notify(sighupCh, syscall.SIGHUP)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Handle SIGHUP for hot-reload
	go func() {
		for {
			select {
			case <-sighupCh:
				log.Info("SIGHUP received, reloading configuration")

				newCfg, err := loadConfig()
				if err != nil {
					log.Error("invalid configuration, reload aborted", "error", err)
					continue
				}

				srv.ReloadConfig(newCfg)
				srv.SetEstimator(buildEstimator(ctx, newCfg, log))
			case <-shutdownDone:
				return
			}
		}
	}()

	// Handle shutdown signals
	go func() {
		<-sigCh

		log.Info("shutdown signal received")

		signal.Stop(sighupCh)
		signal.Stop(sigCh)
		close(shutdownDone)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
		}

		cancel()
	}()

	log.Info("adcfox ready", "addr", srv.Addr(), "model_degraded", info.Degraded)

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("adcfox stopped")
	return nil
}

// loadConfig reads and validates the configuration named by --config.
func loadConfig() (*config.Config, error) {
	cfg := config.LoadOrDefault(cfgFile)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildEstimator loads the characterization model and wraps it in an
// estimator configured from cfg.
func buildEstimator(ctx context.Context, cfg *config.Config, log *slog.Logger) (*estimator.Estimator, charmodel.Info) {
	loader := charmodel.NewLoader(charmodel.LoaderConfig{
		Path:            cfg.Model.Path,
		GenerateCommand: cfg.Model.GenerateCommand,
		GenerateDir:     cfg.Model.GenerateDir,
		GenerateTimeout: cfg.GenerateTimeout(),
	}, log)

	table, info := loader.Load(ctx)

	estCfg := estimator.NewConfig(
		estimator.Accuracy(cfg.Estimator.EnergyAccuracy),
		estimator.Accuracy(cfg.Estimator.AreaAccuracy),
	)

	return estimator.New(estCfg, table, log), info
}

func writePIDFile(path string) error {
	pid := os.Getpid()
	return os.WriteFile(path, []byte(fmt.Sprintf("%d", pid)), 0644)
}
