package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"hiredeck"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address         string   `envconfig:"HIREDECK_ADDRESS" default:":3443"`
	MetricsAddress  string   `envconfig:"HIREDECK_METRICS_ADDRESS" default:":8080"`
	BaseUrl         string   `envconfig:"HIREDECK_BASE_URL" default:"https://localhost:3443"`
	LogLevel        string   `envconfig:"HIREDECK_LOG_LEVEL" default:"info"`
	CORSOrigins     []string `envconfig:"HIREDECK_CORS_ORIGINS" default:"http://localhost:3000"`
	Kafka           kafkaConfig
	Auth            Auth
	MigrationFolder string `envconfig:"HIREDECK_MIGRATIONS_FOLDER" default:""`
}

type kafkaConfig struct {
	Brokers  []string `envconfig:"HIREDECK_KAFKA_BROKERS" default:""`
	Topic    string   `envconfig:"HIREDECK_KAFKA_TOPIC" default:""`
	ClientID string   `envconfig:"HIREDECK_KAFKA_CLIENT_ID" default:""`
}

type Auth struct {
	AuthenticationType string `envconfig:"HIREDECK_AUTH" default:""`
	JwtSigningKey      string `envconfig:"HIREDECK_JWT_KEY" default:""`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a sqlite-backed configuration used by the test suites.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: ":memory:",
		},
		Service: &svcConfig{
			Address:  "localhost:0",
			LogLevel: "info",
		},
	}
}
