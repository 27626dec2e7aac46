package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SourceEmbedded = "embedded"
	SourceS3       = "s3"
)

type Config struct {
	APIPort int `mapstructure:"apiPort"`
	Log     struct {
		Level  string `mapstructure:"level"`
		Pretty bool   `mapstructure:"pretty"`
	} `mapstructure:"log"`
	Auth struct {
		JWTSecret    string        `mapstructure:"jwtSecret"`
		LoginDelay   time.Duration `mapstructure:"loginDelay"`
		SessionTTL   time.Duration `mapstructure:"sessionTTL"`
		SecureCookie bool          `mapstructure:"secureCookie"`
	} `mapstructure:"auth"`
	Content struct {
		Source        string `mapstructure:"source"`
		FetchAttempts uint   `mapstructure:"fetchAttempts"`
		S3            struct {
			Endpoint        string `mapstructure:"endpoint"`
			Region          string `mapstructure:"region"`
			Bucket          string `mapstructure:"bucket"`
			Prefix          string `mapstructure:"prefix"`
			AccessKeyID     string `mapstructure:"accessKeyID"`
			SecretAccessKey string `mapstructure:"secretAccessKey"`
		} `mapstructure:"s3"`
	} `mapstructure:"content"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
}

// keys lists every setting so AutomaticEnv can see it during Unmarshal.
var keys = []string{
	"apiPort",
	"log.level", "log.pretty",
	"auth.jwtSecret", "auth.loginDelay", "auth.sessionTTL", "auth.secureCookie",
	"content.source", "content.fetchAttempts",
	"content.s3.endpoint", "content.s3.region", "content.s3.bucket", "content.s3.prefix",
	"content.s3.accessKeyID", "content.s3.secretAccessKey",
	"cors.allowedOrigins",
}

// LoadEnvFile copies KEY=value pairs from a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// LoadConfig loads the configuration from file and environment variables.
// A missing file is not an error; an empty path reads the environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.APIPort == 0 {
		cfg.APIPort = 8081
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = uuid.NewString() // random per process
	}
	if !v.IsSet("auth.loginDelay") {
		cfg.Auth.LoginDelay = 500 * time.Millisecond
	}
	if cfg.Auth.SessionTTL == 0 {
		cfg.Auth.SessionTTL = 24 * time.Hour
	}

	if cfg.Content.Source == "" {
		cfg.Content.Source = SourceEmbedded
	}
	if cfg.Content.FetchAttempts == 0 {
		cfg.Content.FetchAttempts = 3
	}
	if cfg.Content.S3.Region == "" {
		cfg.Content.S3.Region = "us-east-1"
	}
	if cfg.Content.S3.Prefix == "" {
		cfg.Content.S3.Prefix = "catalog"
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	return &cfg, nil
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if c.APIPort < 1 || c.APIPort > 65535 {
		return fmt.Errorf("apiPort %d out of range", c.APIPort)
	}
	switch c.Content.Source {
	case SourceEmbedded:
	case SourceS3:
		if c.Content.S3.Bucket == "" {
			return errors.New("content.s3.bucket is required when content.source is s3")
		}
	default:
		return fmt.Errorf("unknown content.source %q", c.Content.Source)
	}
	if c.Auth.SessionTTL < 0 || c.Auth.LoginDelay < 0 {
		return errors.New("auth durations must not be negative")
	}
	return nil
}
