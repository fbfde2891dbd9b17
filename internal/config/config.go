package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL        string
	Router        string
	WrappedNative string

	TelegramToken  string
	TelegramChatID string

	PGDSN       string
	JournalPath string

	HTTPAddr  string
	Autostart bool

	Workers       int
	DedupCapacity int
	QueueSize     int
	EmitWorkers   int

	TokenCacheSize   int
	TokenNegativeTTL time.Duration
	ResolverBudget   time.Duration

	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MONITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("router", "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	v.SetDefault("wrapped-native", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	v.SetDefault("http-addr", ":8001")
	v.SetDefault("autostart", false)
	v.SetDefault("workers", 4)
	v.SetDefault("dedup-capacity", 65536)
	v.SetDefault("queue-size", 128)
	v.SetDefault("emit-workers", 4)
	v.SetDefault("token-cache-size", 4096)
	v.SetDefault("token-negative-ttl", 10*time.Minute)
	v.SetDefault("resolver-budget", 3*time.Second)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:           v.GetString("rpc"),
		Router:           v.GetString("router"),
		WrappedNative:    v.GetString("wrapped-native"),
		TelegramToken:    v.GetString("telegram-token"),
		TelegramChatID:   v.GetString("telegram-chat-id"),
		PGDSN:            v.GetString("pg-dsn"),
		JournalPath:      v.GetString("journal"),
		HTTPAddr:         v.GetString("http-addr"),
		Autostart:        v.GetBool("autostart"),
		Workers:          v.GetInt("workers"),
		DedupCapacity:    v.GetInt("dedup-capacity"),
		QueueSize:        v.GetInt("queue-size"),
		EmitWorkers:      v.GetInt("emit-workers"),
		TokenCacheSize:   v.GetInt("token-cache-size"),
		TokenNegativeTTL: v.GetDuration("token-negative-ttl"),
		ResolverBudget:   v.GetDuration("resolver-budget"),
		MaxRetries:       v.GetInt("max-retries"),
		RetryBackoff:     v.GetDuration("retry-backoff"),
		LogLevel:         v.GetString("log-level"),
	}

	return cfg, nil
}
