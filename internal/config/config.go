package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"gastank-alerts/internal/detector"
	"gastank-alerts/internal/logging"
)

// Source kinds accepted by input.source.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Detector  DetectorConfig  `mapstructure:"detector"`
	Input     InputConfig     `mapstructure:"input"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
	Output    OutputConfig    `mapstructure:"output"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DetectorConfig carries the seven detection parameters plus auto-tune.
type DetectorConfig struct {
	detector.Params `mapstructure:",squash"`
	AutoTune        bool `mapstructure:"auto_tune"`
}

// InputConfig selects where the series is loaded from.
type InputConfig struct {
	Source      string `mapstructure:"source"`
	Path        string `mapstructure:"path"`
	Column      string `mapstructure:"column"`
	LabelColumn string `mapstructure:"label_column"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity for the reading history.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ApplicationName string        `mapstructure:"application_name"`
	SensorID        string        `mapstructure:"sensor_id"`
	Lookback        time.Duration `mapstructure:"lookback"`
	Limit           int           `mapstructure:"limit"`
}

// SchedulerConfig governs how often the run command re-evaluates.
type SchedulerConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	AlignToBucket bool          `mapstructure:"align_to_bucket"`
	StartupDelay  time.Duration `mapstructure:"startup_delay"`
}

// AlertingConfig defines alert routing.
type AlertingConfig struct {
	Enabled   bool           `mapstructure:"enabled"`
	MinAlerts int            `mapstructure:"min_alerts"`
	Channels  []string       `mapstructure:"channels"`
	Telegram  TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig 描述 Telegram 告警参数。
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// OutputConfig sets CLI output behaviour.
type OutputConfig struct {
	CSVPath   string `mapstructure:"csv_path"`
	ShowLimit int    `mapstructure:"show_limit"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TANKWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "tankwatch")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	d := detector.DefaultParams()
	v.SetDefault("detector.lower_limit", d.LowerLimit)
	v.SetDefault("detector.upper_limit", d.UpperLimit)
	v.SetDefault("detector.slow_window", d.SlowWindow)
	v.SetDefault("detector.fast_window", d.FastWindow)
	v.SetDefault("detector.slope_delta", d.SlopeDelta)
	v.SetDefault("detector.plateau_length", d.PlateauLength)
	v.SetDefault("detector.plateau_delta", d.PlateauDelta)
	v.SetDefault("detector.auto_tune", false)

	v.SetDefault("input.source", SourceCSV)
	v.SetDefault("input.path", "")
	v.SetDefault("input.column", "values")
	v.SetDefault("input.label_column", "")

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.application_name", "tankwatch")
	v.SetDefault("database.sensor_id", "")
	v.SetDefault("database.lookback", "0s")
	v.SetDefault("database.limit", 5000)

	v.SetDefault("scheduler.interval", "5m")
	v.SetDefault("scheduler.align_to_bucket", true)
	v.SetDefault("scheduler.startup_delay", "0s")

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.min_alerts", 1)
	v.SetDefault("alerting.channels", []string{"telegram"})
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.bot_token", "")
	v.SetDefault("alerting.telegram.chat_id", "")
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("output.csv_path", "")
	v.SetDefault("output.show_limit", 20)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
// Detector thresholds are validated by the detector itself when applied.
func (c *Config) Validate() error {
	switch c.Input.Source {
	case SourceCSV:
	case SourcePostgres:
		if c.Database.SensorID == "" {
			return fmt.Errorf("database.sensor_id is required for the postgres source")
		}
		if c.Database.Lookback <= 0 && c.Database.Limit <= 0 {
			return fmt.Errorf("database.lookback or database.limit must be greater than zero")
		}
	default:
		return fmt.Errorf("input.source must be %q or %q, got %q", SourceCSV, SourcePostgres, c.Input.Source)
	}
	if strings.TrimSpace(c.Input.Column) == "" {
		return fmt.Errorf("input.column must not be empty")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if c.Alerting.MinAlerts < 1 {
		return fmt.Errorf("alerting.min_alerts must be at least 1")
	}
	if c.Output.ShowLimit < 0 {
		return fmt.Errorf("output.show_limit cannot be negative")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token 必须配置")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id 必须配置")
		}
	}
	return nil
}

// ResolveShowLimit returns either the CLI override or config default.
func (c *Config) ResolveShowLimit(override int) int {
	if override > 0 {
		return override
	}
	return c.Output.ShowLimit
}
