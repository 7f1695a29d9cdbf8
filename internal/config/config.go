package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port" validate:"required,numeric"`
		Env  string `mapstructure:"env" validate:"oneof=development production test"`
	} `mapstructure:"app"`
	DB struct {
		Path string `mapstructure:"path" validate:"required"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr" validate:"omitempty,hostname_port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	SMTP struct {
		Host string `mapstructure:"host"`
		Port string `mapstructure:"port" validate:"omitempty,numeric"`
		User string `mapstructure:"user"`
		Pass string `mapstructure:"pass"`
		To   string `mapstructure:"to" validate:"omitempty,email"`
	} `mapstructure:"smtp"`
	Admin struct {
		Username      string        `mapstructure:"username" validate:"required"`
		Password      string        `mapstructure:"password" validate:"required"`
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan" validate:"gt=0"`
	} `mapstructure:"admin"`
	Views struct {
		IdleTTL       time.Duration `mapstructure:"idle_ttl" validate:"gt=0"`
		SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"gt=0"`
	} `mapstructure:"views"`
	Scan struct {
		Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
		Step     int           `mapstructure:"step" validate:"gt=0,lte=100"`
		Settle   time.Duration `mapstructure:"settle" validate:"gt=0"`
	} `mapstructure:"scan"`
	Privacy struct {
		Retention       time.Duration `mapstructure:"retention" validate:"gt=0"`
		CleanupInterval time.Duration `mapstructure:"cleanup_interval" validate:"gt=0"`
	} `mapstructure:"privacy"`
	RateLimit struct {
		ContactLimit  int           `mapstructure:"contact_limit" validate:"gt=0"`
		ContactWindow time.Duration `mapstructure:"contact_window" validate:"gt=0"`
	} `mapstructure:"ratelimit"`
}

// SMTPConfigured reports whether contact mail can be sent.
func (c Config) SMTPConfigured() bool {
	return c.SMTP.User != "" && c.SMTP.Pass != ""
}

func (c Config) Production() bool {
	return c.App.Env == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("db.path", "portfolio.db")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin123")
	v.SetDefault("admin.token_lifespan", 24*time.Hour)
	v.SetDefault("views.idle_ttl", 10*time.Minute)
	v.SetDefault("views.sweep_interval", time.Minute)
	v.SetDefault("scan.interval", 30*time.Millisecond)
	v.SetDefault("scan.step", 2)
	v.SetDefault("scan.settle", 500*time.Millisecond)
	v.SetDefault("privacy.retention", 365*24*time.Hour)
	v.SetDefault("privacy.cleanup_interval", 24*time.Hour)
	v.SetDefault("ratelimit.contact_limit", 5)
	v.SetDefault("ratelimit.contact_window", time.Hour)
}

var envBindings = map[string]string{
	"app.port":                 "PORT",
	"app.env":                  "APP_ENV",
	"db.path":                  "DB_PATH",
	"redis.addr":               "REDIS_ADDR",
	"redis.password":           "REDIS_PASSWORD",
	"smtp.host":                "SMTP_HOST",
	"smtp.port":                "SMTP_PORT",
	"smtp.user":                "SMTP_USER",
	"smtp.pass":                "SMTP_PASS",
	"smtp.to":                  "TO_EMAIL",
	"admin.username":           "ADMIN_USERNAME",
	"admin.password":           "ADMIN_PASSWORD",
	"admin.jwt_secret":         "JWT_SECRET",
	"admin.token_lifespan":     "TOKEN_LIFESPAN",
	"views.idle_ttl":           "VIEW_IDLE_TTL",
	"scan.interval":            "SCAN_INTERVAL",
	"scan.step":                "SCAN_STEP",
	"scan.settle":              "SCAN_SETTLE",
	"privacy.retention":        "PRIVACY_RETENTION",
	"ratelimit.contact_limit":  "CONTACT_RATE_LIMIT",
	"ratelimit.contact_window": "CONTACT_RATE_WINDOW",
}

// LoadConfig reads .env, then config.yaml from dir (or an explicit file when
// path names one), then the environment. Later sources win.
func LoadConfig(path string) (cfg Config, err error) {
	if err := godotenv.Load(); err != nil {
		log.Println("note: .env file not found, using environment only")
	}

	v := viper.New()
	setDefaults(v)

	explicit := strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
	if explicit {
		v.SetConfigFile(path)
	} else {
		if path == "" {
			path = "."
		}
		v.AddConfigPath(path)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		log.Printf("note: config.yaml not found in %s, using defaults and environment", path)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return cfg, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}
