package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	tokenTInvestENV   = "TINVEST_TOKEN"
	databaseDSN       = "DATABASE_DSN"

	defaultConfigFile = "configs/values_local.yaml"
	defaultBaseURL    = "https://invest-public-api.tinkoff.ru/rest/"
)

const (
	VariantBand     = "band"
	VariantCrossing = "crossing"

	IndicatorRemote = "remote"
	IndicatorLocal  = "local"
)

var configFlag = pflag.String("config", "", "path to the yaml config file")

// Config ...
type Config struct {
	Telegram struct {
		Token string `yaml:"token" mapstructure:"token"`
	} `yaml:"telegram" mapstructure:"telegram"`

	TInvest struct {
		Token          string        `yaml:"token" mapstructure:"token"`
		BaseURL        string        `yaml:"base_url" mapstructure:"base_url"`
		RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	} `yaml:"tinvest" mapstructure:"tinvest"`

	DB              string `yaml:"db_dsn" mapstructure:"db_dsn"`
	SubscribersFile string `yaml:"subscribers_file" mapstructure:"subscribers_file"`

	// Pause between the end of one scan cycle and the start of the next.
	ScanInterval time.Duration `yaml:"scan_interval" mapstructure:"scan_interval"`

	Strategy StrategyConfig `yaml:"strategy" mapstructure:"strategy"`

	// Request sent to the provider for the universe.
	Assets struct {
		InstrumentType   string `yaml:"instrument_type" mapstructure:"instrument_type"`
		InstrumentStatus string `yaml:"instrument_status" mapstructure:"instrument_status"`
	} `yaml:"assets" mapstructure:"assets"`

	// Local filter over the universe.
	Filter struct {
		ClassCode      string `yaml:"class_code" mapstructure:"class_code"`
		InstrumentType string `yaml:"instrument_type" mapstructure:"instrument_type"`
	} `yaml:"filter" mapstructure:"filter"`

	Service struct {
		Host      string `yaml:"host" mapstructure:"host"`
		AdminPort int    `yaml:"admin_port" mapstructure:"admin_port"`
	} `yaml:"service" mapstructure:"service"`

	Log logger.Config `yaml:"log" mapstructure:"log"`

	Tracing struct {
		Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
		Host    string `yaml:"host" mapstructure:"host"`
		Port    int    `yaml:"port" mapstructure:"port"`
	} `yaml:"tracing" mapstructure:"tracing"`
}

// StrategyConfig is copied into every registry entry when it is created.
type StrategyConfig struct {
	ShortEMA          int     `yaml:"short_ema" mapstructure:"short_ema"`
	LongEMA           int     `yaml:"long_ema" mapstructure:"long_ema"`
	Interval          string  `yaml:"interval" mapstructure:"interval"`
	HysteresisPct     float64 `yaml:"hysteresis_pct" mapstructure:"hysteresis_pct"`
	HysteresisPeriods int     `yaml:"hysteresis_periods" mapstructure:"hysteresis_periods"`
	Variant           string  `yaml:"variant" mapstructure:"variant"`
	IndicatorSource   string  `yaml:"indicator_source" mapstructure:"indicator_source"`
	// 0 keeps entries for the process lifetime.
	EvictAfter time.Duration `yaml:"evict_after" mapstructure:"evict_after"`
}

// ConfigError is returned for any invalid or unreadable configuration.
// It is fatal at startup.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "config: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfig resolves the config path (--config, then CONFIG_FILE, then the
// local default) and loads it.
func NewConfig() (*Config, error) {
	path := *configFlag
	if path == "" {
		path = os.Getenv(configFilePathENV)
	}
	if path == "" {
		path = defaultConfigFile
	}
	return Load(path)
}

// Load reads the file, applies env overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{Err: errors.Wrapf(err, "read %s", path)}
	}

	_ = v.BindEnv("telegram.token", tokenTelegramENV)
	_ = v.BindEnv("tinvest.token", tokenTInvestENV)
	_ = v.BindEnv("db_dsn", databaseDSN)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Err: errors.Wrapf(err, "decode %s", path)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tinvest.base_url", defaultBaseURL)
	v.SetDefault("tinvest.request_timeout", "30s")
	v.SetDefault("scan_interval", "60s")

	v.SetDefault("strategy.short_ema", 9)
	v.SetDefault("strategy.long_ema", 21)
	v.SetDefault("strategy.interval", "5m")
	v.SetDefault("strategy.hysteresis_pct", 0.5)
	v.SetDefault("strategy.hysteresis_periods", 3)
	v.SetDefault("strategy.variant", VariantBand)
	v.SetDefault("strategy.indicator_source", IndicatorRemote)
	v.SetDefault("strategy.evict_after", "0s")

	v.SetDefault("assets.instrument_type", "INSTRUMENT_TYPE_SHARE")
	v.SetDefault("assets.instrument_status", "INSTRUMENT_STATUS_BASE")
	v.SetDefault("filter.class_code", "TQBR")
	v.SetDefault("filter.instrument_type", "share")

	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.admin_port", 8080)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.service", "signal_bot")

	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var err error
	if c.Telegram.Token == "" {
		err = multierr.Append(err, fmt.Errorf("telegram.token is required (or %s)", tokenTelegramENV))
	}
	if c.TInvest.Token == "" {
		err = multierr.Append(err, fmt.Errorf("tinvest.token is required (or %s)", tokenTInvestENV))
	}
	if c.TInvest.RequestTimeout <= 0 {
		err = multierr.Append(err, errors.New("tinvest.request_timeout must be > 0"))
	}
	if c.ScanInterval <= 0 {
		err = multierr.Append(err, errors.New("scan_interval must be > 0"))
	}

	s := c.Strategy
	if s.ShortEMA <= 0 || s.LongEMA <= 0 {
		err = multierr.Append(err, errors.New("strategy.short_ema and strategy.long_ema must be > 0"))
	} else if s.ShortEMA >= s.LongEMA {
		err = multierr.Append(err, errors.New("strategy.short_ema must be < strategy.long_ema"))
	}
	if _, e := models.ParseInterval(s.Interval); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "strategy.interval"))
	}
	if s.HysteresisPct < 0 {
		err = multierr.Append(err, errors.New("strategy.hysteresis_pct must be >= 0"))
	}
	if s.HysteresisPeriods < 1 {
		err = multierr.Append(err, errors.New("strategy.hysteresis_periods must be >= 1"))
	}
	switch s.Variant {
	case VariantBand, VariantCrossing:
	default:
		err = multierr.Append(err, fmt.Errorf("strategy.variant %q: want %s or %s", s.Variant, VariantBand, VariantCrossing))
	}
	switch s.IndicatorSource {
	case IndicatorRemote, IndicatorLocal:
	default:
		err = multierr.Append(err, fmt.Errorf("strategy.indicator_source %q: want %s or %s", s.IndicatorSource, IndicatorRemote, IndicatorLocal))
	}
	if s.EvictAfter < 0 {
		err = multierr.Append(err, errors.New("strategy.evict_after must be >= 0"))
	}

	if c.Filter.ClassCode == "" || c.Filter.InstrumentType == "" {
		err = multierr.Append(err, errors.New("filter.class_code and filter.instrument_type are required"))
	}

	if err != nil {
		return &ConfigError{Err: err}
	}
	return nil
}

// Interval is the parsed strategy interval. Only valid after Validate.
func (c *Config) Interval() models.Interval {
	iv, _ := models.ParseInterval(c.Strategy.Interval)
	return iv
}

// AdminAddr is the listen address of the health server.
func (c *Config) AdminAddr() string {
	return fmt.Sprintf("%s:%d", c.Service.Host, c.Service.AdminPort)
}

// Redacted renders the effective config as yaml with secrets masked.
func (c *Config) Redacted() string {
	cp := *c
	cp.Telegram.Token = mask(cp.Telegram.Token)
	cp.TInvest.Token = mask(cp.TInvest.Token)
	cp.DB = mask(cp.DB)

	b, err := yaml.Marshal(&cp)
	if err != nil {
		return fmt.Sprintf("<unprintable config: %v>", err)
	}
	return string(b)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", 6) + s[len(s)-2:]
}
