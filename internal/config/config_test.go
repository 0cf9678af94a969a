package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "DB_USERNAME", "DB_NAME", "REMINDER_WINDOW_DAYS", "REMINDER_EVERY"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, 3, cfg.ReminderWindowDays)
	assert.Equal(t, 7, cfg.UpcomingAlertDays)
	assert.Equal(t, 3, cfg.UpcomingAlertLimit)
	assert.Equal(t, time.Duration(0), cfg.ReminderEvery)
	assert.Empty(t, cfg.ConnString())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_USERNAME", "grape")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "vineyard")
	t.Setenv("UPCOMING_ALERT_LIMIT", "5")
	t.Setenv("REMINDER_EVERY", "1h")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://grape:secret@db:6543/vineyard?sslmode=disable", cfg.ConnString())
	assert.Equal(t, 5, cfg.Service().UpcomingAlertLimit)
	assert.Equal(t, time.Hour, cfg.ReminderEvery)

	t.Setenv("DATABASE_URL", "postgres://elsewhere/db")
	assert.Equal(t, "postgres://elsewhere/db", Load().ConnString())
}
