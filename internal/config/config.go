// Package config holds the service configuration and its loader.
package config

import (
	"fmt"

	"github.com/turtacn/jalak-hijau/pkg/constants"
)

// Config holds the application's configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Vault    VaultConfig    `mapstructure:"vault"`
	AI       AIConfig       `mapstructure:"ai"`
	Data     DataConfig     `mapstructure:"data"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	EnablePprof  bool   `mapstructure:"enable_pprof"`
}

// DatabaseConfig selects the investigation store backend. Driver is "sqlite"
// for local/demo runs or "postgres" for shared deployments.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"` // sqlite file path
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig configures the session store. When disabled, sessions live in
// process memory and do not survive restarts.
type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Address      string `mapstructure:"address"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// KafkaConfig configures the alert event publisher. Disabled by default; the
// service publishes to a no-op sink when no broker is configured.
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// VaultConfig configures the secret provider for the AI API key. When
// disabled, the key is read from the environment.
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	MountPath string `mapstructure:"mount_path"`
	SecretKey string `mapstructure:"secret_key"`
}

// AIConfig configures the chat collaborator.
type AIConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Model     string `mapstructure:"model"`
	BaseURL   string `mapstructure:"base_url"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

// DataConfig locates the input datasets. Missing files trigger the synthetic
// generator, so an empty directory is a valid configuration.
type DataConfig struct {
	Dir            string `mapstructure:"dir"`
	ForestFile     string `mapstructure:"forest_file"`
	ConcessionFile string `mapstructure:"concession_file"`
	TxnFile        string `mapstructure:"txn_file"`
	CompanyFile    string `mapstructure:"company_file"`
	Watch          bool   `mapstructure:"watch"`
	SyntheticSeed  int64  `mapstructure:"synthetic_seed"`
}

// AnalysisConfig tunes the overlap analysis.
type AnalysisConfig struct {
	MinOverlapPercent float64 `mapstructure:"min_overlap_percent"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	Environment    string  `mapstructure:"environment"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// Validate checks for essential configuration values and fills derived
// defaults.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Analysis.MinOverlapPercent < 0 || c.Analysis.MinOverlapPercent > 100 {
		return fmt.Errorf("min_overlap_percent %v out of range [0,100]", c.Analysis.MinOverlapPercent)
	}
	if c.Analysis.MinOverlapPercent == 0 {
		c.Analysis.MinOverlapPercent = constants.DefaultMinOverlapPercent
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka enabled but no brokers configured")
	}
	if c.Vault.Enabled && c.Vault.Address == "" {
		return fmt.Errorf("vault enabled but no address configured")
	}
	return nil
}
