package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/turtacn/jalak-hijau/pkg/errors"
)

// LoadConfig loads the configuration from file and environment variables.
// Environment variables use the JALAK_ prefix with dots replaced by
// underscores, e.g. JALAK_SERVER_PORT.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.enable_pprof", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "jalak-hijau.db")
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.topic", "jalak-hijau.alerts")

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.secret_key", "jalak-hijau/openai")

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("ai.timeout_ms", 30000)

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.forest_file", "forest.geojson")
	v.SetDefault("data.concession_file", "concessions.geojson")
	v.SetDefault("data.txn_file", "transactions.csv")
	v.SetDefault("data.company_file", "companies.csv")
	v.SetDefault("data.watch", false)
	v.SetDefault("data.synthetic_seed", 1)

	v.SetDefault("analysis.min_overlap_percent", 10.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "jalak-hijau")
	v.SetDefault("tracing.environment", "development")
	v.SetDefault("tracing.sampling_rate", 1.0)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to read config file")
		}
	}

	v.SetEnvPrefix("JALAK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidArgument, "invalid configuration")
	}
	return &cfg, nil
}
