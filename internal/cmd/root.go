package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/atikulmunna/accesstail/internal/config"
	"github.com/atikulmunna/accesstail/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd serves the dashboard when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "accesstail [log-file]",
	Short: "Live web dashboard for an access log",
	Long: `accesstail parses an nginx/Apache access log and serves a web dashboard
with a newest-first snapshot of the file and a live stream of new requests
as they are appended.

Examples:
  accesstail /var/log/nginx/access.log
  accesstail serve --port 9000 "/var/log/nginx/**/access.log"
  accesstail tail -n 20 /var/log/nginx/access.log`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "accesstail:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.accesstail.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.StringP("format", "f", "combined", "log format: combined, json, auto, regex")
	pf.String("pattern", "", "regex with named groups (ip, time, method, url, status, size, referer, agent) for --format regex")
	pf.String("timezone", "Local", "location log timestamps are written in")
	pf.Duration("poll-interval", config.DefaultPollInterval, "how often followers check the file besides change notifications")

	bindFlag(rootCmd, config.KeyLogLevel, "log-level", true)
	bindFlag(rootCmd, config.KeyFormat, "format", true)
	bindFlag(rootCmd, config.KeyPattern, "pattern", true)
	bindFlag(rootCmd, config.KeyTimezone, "timezone", true)
	bindFlag(rootCmd, config.KeyPollInterval, "poll-interval", true)

	addServeFlags(rootCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".accesstail")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ACCESSTAIL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "accesstail: reading config: %v\n", err)
		}
	}
}

func bindFlag(cmd *cobra.Command, key, flag string, persistent bool) {
	fs := cmd.Flags()
	if persistent {
		fs = cmd.PersistentFlags()
	}
	cobra.CheckErr(viper.BindPFlag(key, fs.Lookup(flag)))
}

// loadConfig builds the Config for a command run. A positional path overrides
// log_file. Logging is initialised from the result.
func loadConfig(args []string, jsonLogs bool) (config.Config, error) {
	if len(args) > 0 {
		viper.Set(config.KeyLogFile, args[0])
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Init(jsonLogs, logging.ParseLevel(cfg.LogLevel))
	slog.Debug("configuration loaded",
		"log_file", cfg.LogFile,
		"format", cfg.Format,
		"poll_interval", cfg.PollInterval.String(),
		"config_file", viper.ConfigFileUsed(),
	)
	return cfg, nil
}
