package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Name string
		Port string
		Mode string
	}
	Log struct {
		Level       string
		Development bool
	}
	Database struct {
		Driver       string
		Dsn          string
		MaxIdleConns int
		MaxOpenConns int
		AutoMigrate  bool
	}
	Redis struct {
		Addr     string
		DB       int
		Password string
	}
	RabbitMQ struct {
		Url   string
		Queue string
	}
	Likes struct {
		// Backend is "sql" or "redis".
		Backend string
	}
	Captcha struct {
		SecretKey string
		VerifyURL string
		Timeout   time.Duration
	}
	Identity struct {
		PlatformHeader string
		TrustedProxies []string
	}
	Admin struct {
		Username     string
		Password     string
		PasswordHash string
		JWTSecret    string
		TokenTTL     time.Duration
	}
	Mail struct {
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		From            string
		To              string
	}
	CORS struct {
		AllowOrigins []string
	}
}

var AppConfig *Config

// InitConfig reads config.yml from path (or ./config when empty) and applies
// environment overrides. A missing file is not an error; defaults and the
// environment are enough to boot.
func InitConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyEnvOverrides()

	AppConfig = cfg
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "portfolio")
	v.SetDefault("app.port", ":8080")
	v.SetDefault("app.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "portfolio.db")
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.maxopenconns", 20)
	v.SetDefault("database.automigrate", true)
	v.SetDefault("rabbitmq.queue", "comment.submitted")
	v.SetDefault("likes.backend", "sql")
	v.SetDefault("captcha.verifyurl", "https://www.google.com/recaptcha/api/siteverify")
	v.SetDefault("captcha.timeout", 10*time.Second)
	v.SetDefault("admin.tokenttl", 12*time.Hour)
}

// applyEnvOverrides lets deployment secrets live outside the yaml file.
func (c *Config) applyEnvOverrides() {
	c.App.Port = getEnvOrDefault("PORT", c.App.Port)
	if c.App.Port != "" && !strings.Contains(c.App.Port, ":") {
		c.App.Port = ":" + c.App.Port
	}

	c.Database.Dsn = getEnvOrDefault("DATABASE_URL", c.Database.Dsn)
	c.Database.Driver = getEnvOrDefault("DATABASE_DRIVER", c.Database.Driver)
	c.Redis.Addr = getEnvOrDefault("REDIS_ADDR", c.Redis.Addr)
	c.RabbitMQ.Url = getEnvOrDefault("RABBITMQ_URL", c.RabbitMQ.Url)

	c.Captcha.SecretKey = getEnvOrDefault("RECAPTCHA_SECRET_KEY", c.Captcha.SecretKey)

	c.Admin.Username = getEnvOrDefault("ADMIN_USERNAME", c.Admin.Username)
	c.Admin.Password = getEnvOrDefault("ADMIN_PASSWORD", c.Admin.Password)
	c.Admin.PasswordHash = getEnvOrDefault("ADMIN_PASSWORD_HASH", c.Admin.PasswordHash)
	c.Admin.JWTSecret = getEnvOrDefault("JWT_SECRET", c.Admin.JWTSecret)

	c.Mail.Region = getEnvOrDefault("AWS_REGION", c.Mail.Region)
	c.Mail.AccessKeyID = getEnvOrDefault("AWS_ACCESS_KEY_ID", c.Mail.AccessKeyID)
	c.Mail.SecretAccessKey = getEnvOrDefault("AWS_SECRET_ACCESS_KEY", c.Mail.SecretAccessKey)
	c.Mail.From = getEnvOrDefault("SES_FROM_EMAIL", c.Mail.From)
	c.Mail.To = getEnvOrDefault("SES_TO_EMAIL", c.Mail.To)
}

// getEnvOrDefault returns the environment value for key, or defaultValue when unset.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
