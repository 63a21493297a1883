package main

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zoobzio/stagez/archive"
)

const envPrefix = "ARCHIVE"

// settings is everything the command reads from flags, environment and the
// optional config file.
type settings struct {
	Archive   archive.Config `mapstructure:",squash"`
	LogLevel  string         `mapstructure:"log-level"`
	LogFormat string         `mapstructure:"log-format"`
}

func addFlags(flags *pflag.FlagSet) {
	defaults := archive.DefaultConfig()
	flags.String("dir", defaults.Dir, "directory to store archived pages in")
	flags.Int64("limit", defaults.Limit, "maximum bytes stored per page (0 for no limit)")
	flags.Duration("timeout", defaults.Timeout, "timeout for each request")
	flags.String("user-agent", defaults.UserAgent, "User-Agent header sent with requests")
	flags.BoolP("verbose", "v", defaults.Verbose, "log derived storage paths")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console or json)")
	flags.String("config", "", "optional YAML config file")
	flags.String("env-file", "", "optional .env file loaded before reading the environment")
}

// loadSettings layers, lowest first: flag defaults, config file, environment
// (including the optional .env file), explicitly set flags.
func loadSettings(flags *pflag.FlagSet) (settings, error) {
	if file, _ := flags.GetString("env-file"); file != "" { //nolint:errcheck
		if err := godotenv.Load(file); err != nil {
			return settings{}, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return settings{}, fmt.Errorf("failed to bind flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := s.Archive.Validate(); err != nil {
		return settings{}, err
	}
	return s, nil
}
