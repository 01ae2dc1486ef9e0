package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Auth        Auth        `mapstructure:",squash"`
	Sheets      Sheets      `mapstructure:",squash"`
	Browser     Browser     `mapstructure:",squash"`
	TrackerSync TrackerSync `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Timezone string `mapstructure:"timezone"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Database is the optional statistics mirror. An empty URL disables it.
type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type Sheets struct {
	SpreadsheetID     string        `mapstructure:"spreadsheet_id"`
	CredentialsFile   string        `mapstructure:"google_credentials_file"`
	TargetsRange      string        `mapstructure:"targets_range"`
	DefaultPartition  string        `mapstructure:"default_partition"`
	PartitionLayout   string        `mapstructure:"partition_layout"`
	StatisticsRange   string        `mapstructure:"statistics_range"`
	InventoryFirstRow int           `mapstructure:"inventory_first_row"`
	InventoryMaxRow   int           `mapstructure:"inventory_max_row"`
	MaxRetries        int           `mapstructure:"sheets_max_retries"`
	RetryDelay        time.Duration `mapstructure:"sheets_retry_delay"`
	CallDelay         time.Duration `mapstructure:"sheets_call_delay"`
}

type Browser struct {
	Headless      bool          `mapstructure:"browser_headless"`
	Lang          string        `mapstructure:"browser_lang"`
	ScrapeTimeout time.Duration `mapstructure:"scrape_timeout"`
	ScrollDelay   time.Duration `mapstructure:"scroll_delay"`
	SettleDelay   time.Duration `mapstructure:"settle_delay"`
	MaxScrolls    int           `mapstructure:"max_scrolls"`
}

type TrackerSync struct {
	CronSchedule            string        `mapstructure:"tracker_sync_cron"`
	Enabled                 bool          `mapstructure:"tracker_sync_enabled"`
	MaxConcurrentPartitions int           `mapstructure:"tracker_sync_max_concurrent_partitions"`
	TargetDelay             time.Duration `mapstructure:"tracker_sync_target_delay"`
}

func SetDefaults() {
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TIMEZONE", "Europe/Berlin")

	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "")

	viper.SetDefault("AUTH_SECRET", "")

	viper.SetDefault("SPREADSHEET_ID", "")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "googleSheetApiAuth.json")
	viper.SetDefault("TARGETS_RANGE", "Config!A2:B500")
	viper.SetDefault("DEFAULT_PARTITION", "All Records")
	viper.SetDefault("PARTITION_LAYOUT", "classic")
	viper.SetDefault("STATISTICS_RANGE", "Daily Data!A2:G2")
	viper.SetDefault("INVENTORY_FIRST_ROW", 2)
	viper.SetDefault("INVENTORY_MAX_ROW", 90000)
	viper.SetDefault("SHEETS_MAX_RETRIES", 5)
	viper.SetDefault("SHEETS_RETRY_DELAY", "60s")
	viper.SetDefault("SHEETS_CALL_DELAY", "2s")

	viper.SetDefault("BROWSER_HEADLESS", true)
	viper.SetDefault("BROWSER_LANG", "en-US")
	viper.SetDefault("SCRAPE_TIMEOUT", "5m")
	viper.SetDefault("SCROLL_DELAY", "1s")
	viper.SetDefault("SETTLE_DELAY", "2s")
	viper.SetDefault("MAX_SCROLLS", 200)

	viper.SetDefault("TRACKER_SYNC_CRON", "*/30 * * * *")
	viper.SetDefault("TRACKER_SYNC_ENABLED", true)
	viper.SetDefault("TRACKER_SYNC_MAX_CONCURRENT_PARTITIONS", 2)
	viper.SetDefault("TRACKER_SYNC_TARGET_DELAY", "5s")
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Using variables loaded by godotenv (viper could not read .env): ", err)
	} else {
		logrus.Debug(".env read by viper")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.Database.URL != "" {
		config.Database.DSN = fmt.Sprintf(
			"%s://%s:%s@%s",
			config.Database.Driver,
			config.Database.User,
			config.Database.Password,
			config.Database.URL,
		)
	}

	return config, nil
}

// Validate checks the settings needed to talk to the spreadsheet
func (c *Config) Validate() error {
	if c.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("SPREADSHEET_ID is required")
	}
	if c.Sheets.InventoryFirstRow < 1 || c.Sheets.InventoryMaxRow < c.Sheets.InventoryFirstRow {
		return fmt.Errorf("invalid inventory rows %d..%d", c.Sheets.InventoryFirstRow, c.Sheets.InventoryMaxRow)
	}
	if c.Sheets.MaxRetries < 1 {
		return fmt.Errorf("SHEETS_MAX_RETRIES must be at least 1")
	}
	return nil
}

// MirrorEnabled reports whether statistics are also written to postgres
func (c *Config) MirrorEnabled() bool {
	return c.Database.DSN != ""
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Could not get the working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug(".env loaded from: ", location)
			return
		}
	}

	logrus.Debug("No .env file found, using the environment only")
}
