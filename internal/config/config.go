package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Imagery   ImageryConfig   `yaml:"imagery" mapstructure:"imagery"`
	Inference InferenceConfig `yaml:"inference" mapstructure:"inference"`
	Solar     SolarConfig     `yaml:"solar" mapstructure:"solar"`
	Domain    DomainConfig    `yaml:"domain" mapstructure:"domain"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ImageryConfig configures the satellite imagery provider.
type ImageryConfig struct {
	Token       string `yaml:"token" mapstructure:"token"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Style       string `yaml:"style" mapstructure:"style"`
	Zoom        int    `yaml:"zoom" mapstructure:"zoom"`
	Size        int    `yaml:"size" mapstructure:"size"`
	HighDPI     bool   `yaml:"high_dpi" mapstructure:"high_dpi"`
	RatePerSec  int    `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// InferenceConfig holds the vision inference service settings.
type InferenceConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SolarConfig carries the physical and tariff assumptions behind every
// estimate the tool produces. These are policy numbers, not physics: keep
// them in config so a deployment can track local tariffs and grid intensity.
type SolarConfig struct {
	PanelAreaSqm     float64 `yaml:"panel_area_sqm" mapstructure:"panel_area_sqm"`
	UsableAreaRatio  float64 `yaml:"usable_area_ratio" mapstructure:"usable_area_ratio"`
	PanelCapacityKW  float64 `yaml:"panel_capacity_kw" mapstructure:"panel_capacity_kw"`
	DailyYieldPerKW  float64 `yaml:"daily_yield_per_kw" mapstructure:"daily_yield_per_kw"`
	TariffPerKWh     float64 `yaml:"tariff_per_kwh" mapstructure:"tariff_per_kwh"`
	GridCO2PerKWh    float64 `yaml:"grid_co2_per_kwh" mapstructure:"grid_co2_per_kwh"`
	CO2PerTreeYear   float64 `yaml:"co2_per_tree_year" mapstructure:"co2_per_tree_year"`
	CapacityKWPerSqm float64 `yaml:"capacity_kw_per_sqm" mapstructure:"capacity_kw_per_sqm"`
}

// DomainConfig bounds accepted coordinates. Defaults cover continental India;
// requests outside the box are rejected at input, never clamped.
type DomainConfig struct {
	MinLat float64 `yaml:"min_lat" mapstructure:"min_lat"`
	MaxLat float64 `yaml:"max_lat" mapstructure:"max_lat"`
	MinLon float64 `yaml:"min_lon" mapstructure:"min_lon"`
	MaxLon float64 `yaml:"max_lon" mapstructure:"max_lon"`
}

// ExportConfig sets where batch exports land and, optionally, a forced
// format. An empty format lets the exporter pick the natural one.
type ExportConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig configures the optional run-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SURYA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("imagery.base_url", "https://api.mapbox.com")
	v.SetDefault("imagery.style", "mapbox/satellite-v9")
	v.SetDefault("imagery.zoom", 19)
	v.SetDefault("imagery.size", 1280)
	v.SetDefault("imagery.high_dpi", true)
	v.SetDefault("imagery.rate_per_sec", 5)
	v.SetDefault("imagery.timeout_secs", 30)
	v.SetDefault("imagery.max_retries", 3)

	v.SetDefault("inference.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("inference.max_tokens", 2048)

	v.SetDefault("solar.panel_area_sqm", 1.7)
	v.SetDefault("solar.usable_area_ratio", 0.8)
	v.SetDefault("solar.panel_capacity_kw", 0.4)
	v.SetDefault("solar.daily_yield_per_kw", 4.5)
	v.SetDefault("solar.tariff_per_kwh", 7.0)
	v.SetDefault("solar.grid_co2_per_kwh", 0.82)
	v.SetDefault("solar.co2_per_tree_year", 20.0)
	v.SetDefault("solar.capacity_kw_per_sqm", 0.2)

	v.SetDefault("domain.min_lat", 8.0)
	v.SetDefault("domain.max_lat", 37.0)
	v.SetDefault("domain.min_lon", 68.0)
	v.SetDefault("domain.max_lon", 97.0)

	v.SetDefault("export.dir", ".")
	v.SetDefault("export.format", "")

	v.SetDefault("store.driver", "none")
	v.SetDefault("store.database_url", "suryaverify.db")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
