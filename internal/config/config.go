package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/atikulmunna/accesstail/internal/parser"
	"github.com/spf13/viper"
)

// Keys understood in config files and, upper-cased with an ACCESSTAIL_
// prefix, in the environment.
const (
	KeyLogFile      = "log_file"
	KeyHost         = "host"
	KeyPort         = "port"
	KeyMaxRecords   = "max_records"
	KeyMaxClients   = "max_clients"
	KeyPollInterval = "poll_interval"
	KeyFormat       = "format"
	KeyPattern      = "pattern"
	KeyTimezone     = "timezone"
	KeyLogLevel     = "log_level"
	KeyDebugAddr    = "debug_addr"
)

const (
	DefaultLogFile      = "/var/www/api/nginx-logs/site.access.log"
	DefaultPort         = 8080
	DefaultMaxRecords   = 10000
	DefaultMaxClients   = 256
	DefaultPollInterval = time.Second
)

// Config is the complete runtime configuration. It is built once per command
// and passed to each component.
type Config struct {
	LogFile      string
	Host         string
	Port         int
	MaxRecords   int
	MaxClients   int
	PollInterval time.Duration
	Format       string
	Pattern      string
	Timezone     string
	LogLevel     string
	DebugAddr    string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogFile, DefaultLogFile)
	v.SetDefault(KeyHost, "")
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyMaxRecords, DefaultMaxRecords)
	v.SetDefault(KeyMaxClients, DefaultMaxClients)
	v.SetDefault(KeyPollInterval, DefaultPollInterval)
	v.SetDefault(KeyFormat, parser.FormatCombined)
	v.SetDefault(KeyPattern, "")
	v.SetDefault(KeyTimezone, "Local")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDebugAddr, "")
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		LogFile:      strings.TrimSpace(v.GetString(KeyLogFile)),
		Host:         strings.TrimSpace(v.GetString(KeyHost)),
		Port:         v.GetInt(KeyPort),
		MaxRecords:   v.GetInt(KeyMaxRecords),
		MaxClients:   v.GetInt(KeyMaxClients),
		PollInterval: v.GetDuration(KeyPollInterval),
		Format:       strings.ToLower(strings.TrimSpace(v.GetString(KeyFormat))),
		Pattern:      v.GetString(KeyPattern),
		Timezone:     strings.TrimSpace(v.GetString(KeyTimezone)),
		LogLevel:     v.GetString(KeyLogLevel),
		DebugAddr:    strings.TrimSpace(v.GetString(KeyDebugAddr)),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.LogFile == "" {
		errs = append(errs, errors.New("log_file is empty"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.MaxRecords <= 0 {
		errs = append(errs, fmt.Errorf("max_records must be positive, got %d", c.MaxRecords))
	}
	if c.MaxClients <= 0 {
		errs = append(errs, fmt.Errorf("max_clients must be positive, got %d", c.MaxClients))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := parser.New(c.Format, c.Pattern, time.UTC); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Addr returns the listen address for the dashboard server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Location resolves Timezone; log timestamps are read as wall clock in it.
func (c Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

// Parser builds the log line parser described by the configuration.
func (c Config) Parser() (parser.Parser, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	return parser.New(c.Format, c.Pattern, loc)
}
