package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress      = ":8080"
	defaultMigrationsPath  = "migrations"
	defaultTenantDatabase  = "passvault"
	defaultRangeServiceURL = "https://api.pwnedpasswords.com"
	defaultBreachAPIURL    = "https://haveibeenpwned.com/api/v3"
)

type Config struct {
	Env       string
	DB        DB
	Server    Server
	Tenant    Tenant
	LeakCheck LeakCheck
	Monitor   Monitor
	Logger    Logger
}

type DB struct {
	DatabaseURI string
	Migrations  string
}

type Server struct {
	RunAddress string
}

// Tenant controls routing of user-supplied stores.
type Tenant struct {
	// DatabaseName is the fixed database targeted inside a user-supplied
	// store, regardless of the database component of the connection string.
	DatabaseName string
	ProbeTimeout time.Duration
}

type LeakCheck struct {
	RangeServiceURL string
	BreachAPIURL    string
	APIKey          string
	Timeout         time.Duration
}

type Monitor struct {
	Interval time.Duration
}

type Logger struct {
	LogLevel string
}

// MustLoad reads configuration from the environment, with an optional .env
// file for local development. Environment variables always win.
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()

	viper.SetDefault("run_address", defaultRunAddress)
	viper.SetDefault("migrations_path", defaultMigrationsPath)
	viper.SetDefault("tenant_database_name", defaultTenantDatabase)
	viper.SetDefault("tenant_probe_timeout", "5s")
	viper.SetDefault("leakcheck_range_url", defaultRangeServiceURL)
	viper.SetDefault("leakcheck_breach_url", defaultBreachAPIURL)
	viper.SetDefault("leakcheck_timeout", "10s")
	viper.SetDefault("monitor_interval", "6h")
	viper.SetDefault("log_level", "info")

	return &Config{
		Env: viper.GetString("app_env"),
		DB: DB{
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Server: Server{
			RunAddress: viper.GetString("run_address"),
		},
		Tenant: Tenant{
			DatabaseName: viper.GetString("tenant_database_name"),
			ProbeTimeout: viper.GetDuration("tenant_probe_timeout"),
		},
		LeakCheck: LeakCheck{
			RangeServiceURL: viper.GetString("leakcheck_range_url"),
			BreachAPIURL:    viper.GetString("leakcheck_breach_url"),
			APIKey:          viper.GetString("hibp_api_key"),
			Timeout:         viper.GetDuration("leakcheck_timeout"),
		},
		Monitor: Monitor{
			Interval: viper.GetDuration("monitor_interval"),
		},
		Logger: Logger{
			LogLevel: viper.GetString("log_level"),
		},
	}
}
