package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const sampleSigningKey = "change-this-secret-key-in-production"

var (
	ErrMissingSigningKey  = errors.New("api.jwt_signing_key is required")
	ErrWeakSigningKey     = errors.New("api.jwt_signing_key must be at least 32 bytes and not the sample key in production")
	ErrUnsupportedJWTAlgo = errors.New("api.jwt_algorithm must be one of HS256, HS384, HS512")
	ErrInvalidTokenTTL    = errors.New("api.jwt_ttl_minutes must be positive")
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Storage  *StorageConfig  `mapstructure:"storage"`
	Log      *LogConfig      `mapstructure:"log"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	BaseURL            string   `mapstructure:"base_url"`
	Port               string   `mapstructure:"port"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	JWTAlgorithm       string   `mapstructure:"jwt_algorithm"`
	JWTTTLMinutes      int      `mapstructure:"jwt_ttl_minutes"`
	MetricsEnabled     bool     `mapstructure:"metrics_enabled"`
}

// TokenTTL is the lifetime of issued access tokens.
func (c *APIConfig) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type StorageConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	PublicEndpoint string `mapstructure:"public_endpoint"`
	AccessKey      string `mapstructure:"access_key"`
	SecretKey      string `mapstructure:"secret_key"`
	Bucket         string `mapstructure:"bucket"`
	UseSSL         bool   `mapstructure:"use_ssl"`
	Region         string `mapstructure:"region"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.base_url", "localhost:8000")
	v.SetDefault("api.port", "8000")
	v.SetDefault("api.allowed_cors_domains", []string{"*"})
	v.SetDefault("api.jwt_signing_key", "")
	v.SetDefault("api.jwt_algorithm", "HS256")
	v.SetDefault("api.jwt_ttl_minutes", 10080)
	v.SetDefault("api.metrics_enabled", true)

	v.SetDefault("gin.mode", "release")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "hostbuddy")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db_name", "hostbuddy")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.public_endpoint", "localhost:9000")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket", "images")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("log.level", "info")
}

// Load reads the yml file at path and overlays environment variables such as
// API_JWT_SIGNING_KEY or POSTGRES_HOST on top of it.
func Load(path string) (*AppConfig, error) {
	viper.SetConfigFile(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	return decode(viper.GetViper())
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *AppConfig) Validate() error {
	api := c.API
	if api.JWTSigningKey == "" {
		return ErrMissingSigningKey
	}
	if api.Environment == "production" && (len(api.JWTSigningKey) < 32 || api.JWTSigningKey == sampleSigningKey) {
		return ErrWeakSigningKey
	}

	switch strings.ToUpper(api.JWTAlgorithm) {
	case "HS256", "HS384", "HS512":
		api.JWTAlgorithm = strings.ToUpper(api.JWTAlgorithm)
	default:
		return ErrUnsupportedJWTAlgo
	}

	if api.JWTTTLMinutes <= 0 {
		return ErrInvalidTokenTTL
	}

	return nil
}

// Watch re-decodes the config file whenever it changes on disk and hands the
// result to fn. Invalid edits are reported through onErr and otherwise ignored.
func Watch(fn func(conf *AppConfig), onErr func(err error)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		conf, err := decode(viper.GetViper())
		if err != nil {
			onErr(fmt.Errorf("config.Watch %s -> %w", e.Name, err))
			return
		}
		fn(conf)
	})
	viper.WatchConfig()
}
