package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"skydeck/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Logging       logging.Config      `mapstructure:"logging"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Sources       SourcesConfig       `mapstructure:"sources"`
	Polling       PollingConfig       `mapstructure:"polling"`
	Alerting      AlertingConfig      `mapstructure:"alerting"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Export        ExportConfig        `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig governs the HTTP API listener.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig encapsulates the optional PostgreSQL alert archive.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig locates the key-value store backing notifications.
// When Addr is empty the in-memory store is used instead.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SourceConfig parameterises one upstream REST source.
type SourceConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SourcesConfig groups the four upstream sources.
type SourcesConfig struct {
	Flights   SourceConfig `mapstructure:"flights"`
	Crypto    SourceConfig `mapstructure:"crypto"`
	Rates     SourceConfig `mapstructure:"rates"`
	Weather   SourceConfig `mapstructure:"weather"`
	UserAgent string       `mapstructure:"user_agent"`
	RateBase  string       `mapstructure:"rate_base"`
}

// PollingConfig holds the per-view refresh cadence.
type PollingConfig struct {
	Flights time.Duration `mapstructure:"flights"`
	Crypto  time.Duration `mapstructure:"crypto"`
	Rates   time.Duration `mapstructure:"rates"`
	Weather time.Duration `mapstructure:"weather"`
}

// AlertingConfig defines alert thresholds and routing.
type AlertingConfig struct {
	Enabled        bool           `mapstructure:"enabled"`
	PriceChangePct float64        `mapstructure:"price_change_pct"`
	Cooldown       time.Duration  `mapstructure:"cooldown"`
	Telegram       TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig 描述 Telegram 告警参数。
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// NotificationsConfig names the key-value slots used for persistence.
type NotificationsConfig struct {
	StorageKey  string `mapstructure:"storage_key"`
	SettingsKey string `mapstructure:"settings_key"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SKYDECK")
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
	v.SetDefault("app.name", "skydeck")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")

	v.SetDefault("sources.flights.base_url", "https://opensky-network.org/api")
	v.SetDefault("sources.flights.timeout", "10s")
	v.SetDefault("sources.crypto.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("sources.crypto.timeout", "10s")
	v.SetDefault("sources.rates.base_url", "https://api.exchangerate-api.com/v4")
	v.SetDefault("sources.rates.timeout", "10s")
	v.SetDefault("sources.weather.base_url", "https://api.open-meteo.com/v1")
	v.SetDefault("sources.weather.timeout", "10s")
	v.SetDefault("sources.user_agent", "skydeck/1.0")
	v.SetDefault("sources.rate_base", "USD")

	v.SetDefault("polling.flights", "15s")
	v.SetDefault("polling.crypto", "30s")
	v.SetDefault("polling.rates", "60s")
	v.SetDefault("polling.weather", "300s")

	v.SetDefault("alerting.enabled", true)
	v.SetDefault("alerting.price_change_pct", 5.0)
	v.SetDefault("alerting.cooldown", "30m")
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("notifications.storage_key", "dashboard_notifications")
	v.SetDefault("notifications.settings_key", "notification_settings")

	v.SetDefault("export.max_data_points", 100000)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
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
func (c *Config) Validate() error {
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	for name, interval := range map[string]time.Duration{
		"polling.flights": c.Polling.Flights,
		"polling.crypto":  c.Polling.Crypto,
		"polling.rates":   c.Polling.Rates,
		"polling.weather": c.Polling.Weather,
	} {
		if interval <= 0 {
			return fmt.Errorf("%s must be greater than zero", name)
		}
	}
	if c.Alerting.PriceChangePct < 0 {
		return fmt.Errorf("alerting.price_change_pct cannot be negative")
	}
	if c.Sources.RateBase == "" {
		return fmt.Errorf("sources.rate_base must be set")
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

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
