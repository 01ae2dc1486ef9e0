package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "Europe/Berlin", cfg.App.Timezone)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "Config!A2:B500", cfg.Sheets.TargetsRange)
	assert.Equal(t, "All Records", cfg.Sheets.DefaultPartition)
	assert.Equal(t, "Daily Data!A2:G2", cfg.Sheets.StatisticsRange)
	assert.Equal(t, 2, cfg.Sheets.InventoryFirstRow)
	assert.Equal(t, 90000, cfg.Sheets.InventoryMaxRow)
	assert.Equal(t, 5, cfg.Sheets.MaxRetries)
	assert.Equal(t, time.Minute, cfg.Sheets.RetryDelay)
	assert.Equal(t, 2*time.Second, cfg.Sheets.CallDelay)
	assert.Equal(t, 5*time.Minute, cfg.Browser.ScrapeTimeout)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "*/30 * * * *", cfg.TrackerSync.CronSchedule)
	assert.Equal(t, 2, cfg.TrackerSync.MaxConcurrentPartitions)
	assert.Equal(t, 5*time.Second, cfg.TrackerSync.TargetDelay)
	assert.False(t, cfg.MirrorEnabled())
}

func TestNewConfig_Environment(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("SPREADSHEET_ID", "sheet-123")
	t.Setenv("SHEETS_RETRY_DELAY", "250ms")
	t.Setenv("TRACKER_SYNC_ENABLED", "false")
	t.Setenv("DATABASE_URL", "db:5432/tracker")
	t.Setenv("DATABASE_PASSWORD", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "sheet-123", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, 250*time.Millisecond, cfg.Sheets.RetryDelay)
	assert.False(t, cfg.TrackerSync.Enabled)
	assert.Equal(t, "postgres://postgres:secret@db:5432/tracker", cfg.Database.DSN)
	assert.True(t, cfg.MirrorEnabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Sheets: Sheets{SpreadsheetID: "x", InventoryFirstRow: 2, InventoryMaxRow: 10, MaxRetries: 1}}
	assert.NoError(t, valid.Validate())

	noSheet := valid
	noSheet.Sheets.SpreadsheetID = ""
	assert.Error(t, noSheet.Validate())

	badRows := valid
	badRows.Sheets.InventoryMaxRow = 1
	assert.Error(t, badRows.Validate())

	noRetries := valid
	noRetries.Sheets.MaxRetries = 0
	assert.Error(t, noRetries.Validate())
}
