package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/atikulmunna/accesstail/internal/config"
	"github.com/atikulmunna/accesstail/internal/loader"
	"github.com/atikulmunna/accesstail/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [log-file]",
	Short: "Serve the web dashboard (default command)",
	Long: `Serve the dashboard page, the newest-first snapshot at /full-log and the
live event stream at /stream. The log path may be a glob; the most recently
modified match is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntP("port", "p", config.DefaultPort, "port to listen on")
	fs.String("host", "", "interface to bind (default all)")
	fs.Int("max-records", config.DefaultMaxRecords, "maximum records in the /full-log snapshot")
	fs.Int("max-clients", config.DefaultMaxClients, "maximum concurrent requests, live streams included")
	fs.String("debug-addr", "", "address for the pprof listener (disabled when empty)")
}

// bindServeFlags points viper at the flags of the command actually running,
// since root and serve each carry their own copy.
func bindServeFlags(cmd *cobra.Command) {
	for key, flag := range map[string]string{
		config.KeyPort:       "port",
		config.KeyHost:       "host",
		config.KeyMaxRecords: "max-records",
		config.KeyMaxClients: "max-clients",
		config.KeyDebugAddr:  "debug-addr",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			bindFlag(cmd, key, flag, false)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	bindServeFlags(cmd)

	cfg, err := loadConfig(args, false)
	if err != nil {
		return err
	}

	path, err := loader.ResolvePath(cfg.LogFile)
	if err != nil {
		return err
	}
	cfg.LogFile = path

	p, err := cfg.Parser()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("accesstail starting",
		"file", cfg.LogFile,
		"url", fmt.Sprintf("http://localhost:%d", cfg.Port),
		"max_clients", cfg.MaxClients,
	)

	if err := server.New(cfg, p).Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	slog.Info("accesstail stopped")
	return nil
}
