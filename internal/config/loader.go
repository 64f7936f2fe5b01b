package config

import (
	"fmt"
	"time"

	"github.com/growship/backend/internal/db"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Database       db.Config
	ServerAddr     string
	MigrationsPath string
	ReportDir      string
	ReportTTL      time.Duration
	AllowedOrigins []string
}

// Default returns the configuration used when no config file or env vars
// are present.
func Default() Config {
	return Config{
		Database:       db.DefaultConfig(),
		ServerAddr:     ":8080",
		MigrationsPath: "migrations",
		ReportDir:      "reports",
		ReportTTL:      30 * time.Minute,
		AllowedOrigins: []string{"*"},
	}
}

// Load reads config.yaml from configPath with environment overrides
// (APP_DATABASE_HOST, APP_SERVER_ADDR and so on).
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.addr")
	v.BindEnv("migrations.path")
	v.BindEnv("reports.dir")
	v.BindEnv("reports.ttl")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.addr") {
		cfg.ServerAddr = v.GetString("server.addr")
	}
	if v.IsSet("migrations.path") {
		cfg.MigrationsPath = v.GetString("migrations.path")
	}
	if v.IsSet("reports.dir") {
		cfg.ReportDir = v.GetString("reports.dir")
	}
	if v.IsSet("reports.ttl") {
		cfg.ReportTTL = v.GetDuration("reports.ttl")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}

	return cfg, nil
}
