package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/assistant/server"
)

var serveFlags struct {
	configFile string
	addr       string
	logFile    string
	verbose    bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := server.DefaultConfig()
		if serveFlags.configFile != "" {
			loaded, err := server.LoadConfig(serveFlags.configFile)
			if err != nil {
				return err
			}
			cfg = *loaded
		}
		if serveFlags.addr != "" {
			cfg.Addr = serveFlags.addr
		}

		logger, closeLog, err := buildLogger(serveFlags.logFile, serveFlags.verbose)
		if err != nil {
			return err
		}
		defer closeLog()

		closeCaps, err := registerCapabilities(&cfg)
		if err != nil {
			return err
		}
		defer closeCaps()

		srv, err := server.New(&cfg, server.WithLogger(logger))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.configFile, "config", "c", "", "path to JSON config file")
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveFlags.logFile, "log-file", "", "also write JSON logs to this file")
	serveCmd.Flags().BoolVarP(&serveFlags.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

// buildLogger returns a text logger on stderr, fanned out to a JSON file
// when logFile is set.
func buildLogger(logFile string, verbose bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	if logFile == "" {
		return slog.New(stderrHandler), func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})

	logger := slog.New(slogmulti.Fanout(stderrHandler, fileHandler))
	return logger, func() { _ = f.Close() }, nil
}
