package config

import (
	"fmt"
	"time"

	"github.com/ignatij/vineyard/pkg/service"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port               string
	DatabaseURL        string
	DBUsername         string
	DBPassword         string
	DBHost             string
	DBPort             string
	DBName             string
	LogLevel           string
	ReminderWindowDays int
	UpcomingAlertDays  int
	UpcomingAlertLimit int
	ReminderWorkers    int
	ReminderEvery      time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_USERNAME", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("REMINDER_WINDOW_DAYS", 3)
	v.SetDefault("UPCOMING_ALERT_DAYS", 7)
	v.SetDefault("UPCOMING_ALERT_LIMIT", 3)
	v.SetDefault("REMINDER_WORKERS", 0)
	v.SetDefault("REMINDER_EVERY", "0s")
}

// Load reads an optional .env file and then the environment.
func Load() Config {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Port:               v.GetString("PORT"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		DBUsername:         v.GetString("DB_USERNAME"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBName:             v.GetString("DB_NAME"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		ReminderWindowDays: v.GetInt("REMINDER_WINDOW_DAYS"),
		UpcomingAlertDays:  v.GetInt("UPCOMING_ALERT_DAYS"),
		UpcomingAlertLimit: v.GetInt("UPCOMING_ALERT_LIMIT"),
		ReminderWorkers:    v.GetInt("REMINDER_WORKERS"),
		ReminderEvery:      v.GetDuration("REMINDER_EVERY"),
	}
}

// ConnString returns DATABASE_URL, or a postgres URL built from the DB_*
// variables. It is empty when neither is complete.
func (c Config) ConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBUsername == "" || c.DBHost == "" || c.DBPort == "" || c.DBName == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUsername, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// Service returns the alert settings of the farm service.
func (c Config) Service() service.Config {
	return service.Config{
		UpcomingAlertDays:  c.UpcomingAlertDays,
		UpcomingAlertLimit: c.UpcomingAlertLimit,
		ReminderWindowDays: c.ReminderWindowDays,
		ReminderWorkers:    c.ReminderWorkers,
	}
}
