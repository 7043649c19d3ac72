package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/atikulmunna/accesstail/internal/hub"
	"github.com/atikulmunna/accesstail/internal/loader"
	"github.com/atikulmunna/accesstail/internal/output"
	"github.com/atikulmunna/accesstail/internal/parser"
	"github.com/atikulmunna/accesstail/internal/tailer"
	"github.com/spf13/cobra"
)

var (
	outputFmt string
	lastN     int
)

var tailCmd = &cobra.Command{
	Use:   "tail [log-file]",
	Short: "Follow the access log in the terminal",
	Long: `Print parsed access log records to the terminal as they are appended,
colored by status class. Use --output json for one JSON record per line.

Examples:
  accesstail tail /var/log/nginx/access.log
  accesstail tail -n 50 --output json access.log | jq .url`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTail,
}

func init() {
	tailCmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
	tailCmd.Flags().IntVarP(&lastN, "lines", "n", 0, "print the newest N existing records before following")
	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args, outputFmt == "json")
	if err != nil {
		return err
	}

	path, err := loader.ResolvePath(cfg.LogFile)
	if err != nil {
		return err
	}

	p, err := cfg.Parser()
	if err != nil {
		return err
	}

	renderer, err := output.New(outputFmt, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return follow(ctx, path, p, tailer.Options{PollInterval: cfg.PollInterval}, lastN, renderer)
}

// follow renders the newest history records oldest-first, then every record
// appended afterwards until ctx ends. The follower attaches before the history
// is read, so no append falls between the two.
func follow(ctx context.Context, path string, p parser.Parser, opts tailer.Options, history int, renderer output.Renderer) error {
	h := hub.New(path, p, opts)
	sub, err := h.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("follow %s: %w", path, err)
	}

	if history > 0 {
		records := loader.Load(path, p, history)
		for i := len(records) - 1; i >= 0; i-- {
			if err := renderer.Render(records[i]); err != nil {
				return fmt.Errorf("render: %w", err)
			}
		}
	}
	slog.Info("following", "file", path)

	for rec := range sub.Records() {
		if err := renderer.Render(rec); err != nil {
			slog.Warn("render failed", "err", err)
		}
	}
	return nil
}
