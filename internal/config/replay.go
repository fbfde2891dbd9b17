package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ReplayConfig holds configuration for the replay command.
type ReplayConfig struct {
	In            string
	Out           string
	Errors        string
	Router        string
	WrappedNative string
	LogLevel      string
}

// LoadReplay merges config file, environment variables, and flags into
// ReplayConfig.
func LoadReplay(cfgFile string, flags *pflag.FlagSet) (ReplayConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("MONITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("router", "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	v.SetDefault("wrapped-native", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	v.SetDefault("out", "./data/classified_events.jsonl")
	v.SetDefault("errors", "./data/decode_failures.jsonl")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return ReplayConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return ReplayConfig{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return ReplayConfig{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := ReplayConfig{
		In:            v.GetString("in"),
		Out:           v.GetString("out"),
		Errors:        v.GetString("errors"),
		Router:        v.GetString("router"),
		WrappedNative: v.GetString("wrapped-native"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}
