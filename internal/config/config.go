// Package config provides configuration management for the benchmark
// harness.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the harness.
type Config struct {
	Benchmark BenchmarkConfig `mapstructure:"benchmark"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Server    ServerConfig    `mapstructure:"server"`
	MongoDB   MongoDBConfig   `mapstructure:"mongodb"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// BenchmarkConfig holds run parameters.
type BenchmarkConfig struct {
	DataDir     string        `mapstructure:"data_dir"`
	Engines     []string      `mapstructure:"engines"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Runs        int           `mapstructure:"runs"`
	ScaleFactor float64       `mapstructure:"scale_factor"`
	Output      string        `mapstructure:"output"`
}

// PostgresConfig holds the PostGIS connection configuration.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// ServerConfig holds HTTP server configuration for the results API.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	ResultsDir   string        `mapstructure:"results_dir"`
	AuthToken    string        `mapstructure:"auth_token"`
}

// MongoDBConfig holds the optional results archive configuration.
type MongoDBConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// RedisConfig holds the optional progress event bus configuration.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("benchmark.data_dir", "data")
	v.SetDefault("benchmark.engines", []string{"duckdb", "geoframe", "lazygeo"})
	v.SetDefault("benchmark.timeout", 10*time.Second)
	v.SetDefault("benchmark.runs", 3)
	v.SetDefault("benchmark.scale_factor", 1.0)
	v.SetDefault("benchmark.output", "")

	v.SetDefault("postgres.dsn", "")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.results_dir", ".")
	v.SetDefault("server.auth_token", "")

	v.SetDefault("mongodb.uri", "")
	v.SetDefault("mongodb.database", "spatialbench")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/spatialbench")
	}

	v.SetEnvPrefix("SPATIALBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Missing config files are fine, everything has a default.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
