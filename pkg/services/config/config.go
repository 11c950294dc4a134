package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bi-tools/kpi-pulse/pkg/services/analysis"
	"github.com/bi-tools/kpi-pulse/pkg/services/insight"
)

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	DSN          string        `mapstructure:"dsn"`
	ConnTimeout  time.Duration `mapstructure:"conn_timeout"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
}

type AuthConfig struct {
	// APIKey gates /api/v1 when non-empty. Empty disables the check.
	APIKey string `mapstructure:"api_key"`
}

type Config struct {
	Server  ServerConfig           `mapstructure:"server"`
	DB      DBConfig               `mapstructure:"db"`
	Auth    AuthConfig             `mapstructure:"auth"`
	Scoring insight.ScoringConfig  `mapstructure:"scoring"`
	Anomaly analysis.AnomalyConfig `mapstructure:"anomaly"`
}

// LoadConfig reads an optional YAML file and overlays KPI_-prefixed
// environment variables (KPI_SERVER_PORT, KPI_DB_DSN, KPI_AUTH_API_KEY).
// An empty path yields defaults plus the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("KPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("db.dsn", "postgres://localhost:5432/kpi_pulse?sslmode=disable")
	v.SetDefault("db.conn_timeout", 5*time.Second)
	v.SetDefault("db.query_timeout", 5*time.Second)
	v.SetDefault("db.max_open_conns", 10)

	v.SetDefault("auth.api_key", "")

	scoring := insight.DefaultScoringConfig()
	v.SetDefault("scoring.driver_weight", scoring.DriverWeight)
	v.SetDefault("scoring.volatility_weight", scoring.VolatilityWeight)
	v.SetDefault("scoring.driver_full_scale", scoring.DriverFullScale)
	v.SetDefault("scoring.cv_low", scoring.CVLow)
	v.SetDefault("scoring.cv_high", scoring.CVHigh)
	v.SetDefault("scoring.flat_epsilon", scoring.FlatEpsilon)

	anomaly := analysis.DefaultAnomalyConfig()
	v.SetDefault("anomaly.revenue", anomaly.Revenue)
	v.SetDefault("anomaly.orders", anomaly.Orders)
	v.SetDefault("anomaly.customers", anomaly.Customers)
	v.SetDefault("anomaly.aov", anomaly.AOV)
}
