package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/adapters/state"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/api"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Serve starts an HTTP server exposing the pipeline and the audit log.

	POST   /api/v1/analyses       run an analysis
	GET    /api/v1/analyses       list persisted runs
	GET    /api/v1/analyses/{id}  fetch one run
	DELETE /api/v1/analyses/{id}  delete one run
	GET    /healthz               liveness probe

Changes to the config file are picked up without restart for settings
read per request (log level changes require a restart).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	runner, store, err := buildRunner(cfg, logger, true)
	if err != nil {
		return err
	}
	defer func() { _ = state.CloseStore(store) }()

	serverCfg := api.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		CORSOrigins:  cfg.Server.CORSOrigins,
	}
	if serveHost != "" {
		serverCfg.Host = serveHost
	}
	if servePort > 0 {
		serverCfg.Port = servePort
	}

	server := api.New(serverCfg, runner, store, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watchConfig(ctx)

	logger.Info("starting api server", "addr", server.Addr())
	return server.Start(ctx)
}

// watchConfig reloads the config file on change so long-running servers
// pick up tuning adjustments. Reload failures keep the previous config.
func watchConfig(ctx context.Context) {
	file := viper.ConfigFileUsed()
	if file == "" {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("config watch unavailable", "error", err)
		return
	}
	if err := watcher.Add(file); err != nil {
		logger.Warn("config watch unavailable", "file", file, "error", err)
		_ = watcher.Close()
		return
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := initConfig(); err != nil {
					logger.Warn("config reload failed, keeping previous", "error", err)
					continue
				}
				logger.Info("config reloaded", "file", file)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watch error", "error", err)
			}
		}
	}()
}
