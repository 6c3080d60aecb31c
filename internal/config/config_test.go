package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[server]
http_port = 9090

[database]
host = "db"
port = 5433
user = "salon"
password = "secret"
dbname = "salon"

[scheduling]
timezone = "UTC"
open_time = "10:00"
close_time = "18:30"
slot_step_minutes = 15

[lock]
mode = "redis"
redis_addr = "redis:6379"

[events]
enabled = true
brokers = ["kafka:9092"]
`

func TestParse(t *testing.T) {
	cfg, err := Parse(sample)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout, "unset values keep defaults")
	assert.Equal(t, "host=db port=5433 user=salon password=secret dbname=salon sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, LockModeRedis, cfg.Lock.Mode)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "salon.bookings", cfg.Events.Topic)

	hours, err := cfg.Scheduling.BusinessHours()
	require.NoError(t, err)
	assert.Equal(t, "10:00", hours.Open.String())
	assert.Equal(t, "18:30", hours.Close.String())
	assert.Equal(t, 15*time.Minute, hours.Step)
	assert.Equal(t, time.UTC, hours.Location)
}

func TestDefaultBusinessHours(t *testing.T) {
	cfg, err := Parse(`[database]
dbname = "salon"`)
	require.NoError(t, err)

	hours, err := cfg.Scheduling.BusinessHours()
	require.NoError(t, err)
	assert.Equal(t, "11:00", hours.Open.String())
	assert.Equal(t, "20:00", hours.Close.String())
	assert.Equal(t, 30*time.Minute, hours.Step)
	assert.Equal(t, "Asia/Taipei", hours.Location.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing dbname", ``},
		{"close before open", "[database]\ndbname=\"x\"\n[scheduling]\nopen_time=\"20:00\"\nclose_time=\"11:00\""},
		{"bad timezone", "[database]\ndbname=\"x\"\n[scheduling]\ntimezone=\"Mars/Olympus\""},
		{"bad time", "[database]\ndbname=\"x\"\n[scheduling]\nopen_time=\"11h\""},
		{"redis without addr", "[database]\ndbname=\"x\"\n[lock]\nmode=\"redis\""},
		{"unknown lock mode", "[database]\ndbname=\"x\"\n[lock]\nmode=\"zookeeper\""},
		{"events without brokers", "[database]\ndbname=\"x\"\n[events]\nenabled=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "salon", cfg.Database.DBName)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
