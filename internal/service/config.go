package service

import (
	"fmt"
	"time"

	"cultivation_monitor/internal/models"

	"github.com/spf13/viper"
)

// RangeConfig is the plausible and ideal band for one sensor metric. Values
// outside [Min,Max] are invalid; deviation from [IdealMin,IdealMax] feeds the
// health score.
type RangeConfig struct {
	Min      float64 `mapstructure:"min"`
	Max      float64 `mapstructure:"max"`
	IdealMin float64 `mapstructure:"ideal_min"`
	IdealMax float64 `mapstructure:"ideal_max"`
}

// NormalizerConfig drives validity decisions in the normalizer.
type NormalizerConfig struct {
	MinConfidence float64
	Ranges        map[models.Metric]RangeConfig
}

// HealthConfig holds the tunable scoring policy. Weights and decay are
// calibration knobs, deliberately configuration rather than constants.
type HealthConfig struct {
	SensorWeight         float64
	ClassificationWeight float64
	EMAAlpha             float64
	DecayHalfLife        time.Duration
	HealthyThreshold     float64
	WarningThreshold     float64
}

// AlertConfig drives the hysteresis machine.
type AlertConfig struct {
	DwellCycles int
	Cooldown    time.Duration
}

// InventoryConfig drives the forecaster.
type InventoryConfig struct {
	FitWindow time.Duration
	LeadTime  time.Duration
	Resources []models.InventoryItem
}

// TelemetryConfig drives the producer side.
type TelemetryConfig struct {
	Source        string
	PollInterval  time.Duration
	ClassifyEvery int
	BufferSize    int
	Zones         []string
}

// AuthConfig holds token signing material.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// Config is the full service configuration.
type Config struct {
	WindowCapacity int
	Normalizer     NormalizerConfig
	Health         HealthConfig
	Alerts         AlertConfig
	Inventory      InventoryConfig
	Telemetry      TelemetryConfig
	Auth           AuthConfig
}

func setDefaults() {
	viper.SetDefault("store.window_capacity", 256)
	viper.SetDefault("normalizer.min_confidence", 0.5)
	viper.SetDefault("health.sensor_weight", 0.6)
	viper.SetDefault("health.classification_weight", 0.4)
	viper.SetDefault("health.ema_alpha", 0.3)
	viper.SetDefault("health.decay_half_life", "6h")
	viper.SetDefault("health.healthy_threshold", 0.7)
	viper.SetDefault("health.warning_threshold", 0.4)
	viper.SetDefault("alerts.dwell_cycles", 2)
	viper.SetDefault("alerts.cooldown", "2m")
	viper.SetDefault("inventory.fit_window", "168h")
	viper.SetDefault("inventory.lead_time", "48h")
	viper.SetDefault("telemetry.source", "simulated")
	viper.SetDefault("telemetry.poll_interval", "15s")
	viper.SetDefault("telemetry.classify_every", 4)
	viper.SetDefault("telemetry.buffer_size", 1024)
	viper.SetDefault("auth.token_ttl", "1h")
}

// LoadConfig reads the typed configuration from viper (config file already
// loaded by the caller), applying defaults for anything unset.
func LoadConfig() (Config, error) {
	setDefaults()

	ranges := make(map[models.Metric]RangeConfig)
	if err := viper.UnmarshalKey("normalizer.ranges", &ranges); err != nil {
		return Config{}, fmt.Errorf("parse normalizer.ranges: %w", err)
	}

	var resources []models.InventoryItem
	if err := viper.UnmarshalKey("inventory.resources", &resources); err != nil {
		return Config{}, fmt.Errorf("parse inventory.resources: %w", err)
	}

	cfg := Config{
		WindowCapacity: viper.GetInt("store.window_capacity"),
		Normalizer: NormalizerConfig{
			MinConfidence: viper.GetFloat64("normalizer.min_confidence"),
			Ranges:        ranges,
		},
		Health: HealthConfig{
			SensorWeight:         viper.GetFloat64("health.sensor_weight"),
			ClassificationWeight: viper.GetFloat64("health.classification_weight"),
			EMAAlpha:             viper.GetFloat64("health.ema_alpha"),
			DecayHalfLife:        viper.GetDuration("health.decay_half_life"),
			HealthyThreshold:     viper.GetFloat64("health.healthy_threshold"),
			WarningThreshold:     viper.GetFloat64("health.warning_threshold"),
		},
		Alerts: AlertConfig{
			DwellCycles: viper.GetInt("alerts.dwell_cycles"),
			Cooldown:    viper.GetDuration("alerts.cooldown"),
		},
		Inventory: InventoryConfig{
			FitWindow: viper.GetDuration("inventory.fit_window"),
			LeadTime:  viper.GetDuration("inventory.lead_time"),
			Resources: resources,
		},
		Telemetry: TelemetryConfig{
			Source:        viper.GetString("telemetry.source"),
			PollInterval:  viper.GetDuration("telemetry.poll_interval"),
			ClassifyEvery: viper.GetInt("telemetry.classify_every"),
			BufferSize:    viper.GetInt("telemetry.buffer_size"),
			Zones:         viper.GetStringSlice("telemetry.zones"),
		},
		Auth: AuthConfig{
			SigningKey: viper.GetString("auth.signing_key"),
			TokenTTL:   viper.GetDuration("auth.token_ttl"),
		},
	}

	if cfg.Alerts.DwellCycles < 1 {
		return Config{}, fmt.Errorf("alerts.dwell_cycles must be >= 1, got %d", cfg.Alerts.DwellCycles)
	}
	return cfg, nil
}
