package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/smallbiznis/pointsale/internal/tier"
	"github.com/spf13/viper"
)

// DisplayConfig tunes presentation-only values on the checkout screen.
type DisplayConfig struct {
	Tiers tier.DisplayThresholds `mapstructure:"tiers"`
}

func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{Tiers: tier.DefaultDisplayThresholds()}
}

type DisplayConfigHolder struct {
	current atomic.Value // holds DisplayConfig
}

// NewStaticDisplayConfigHolder pins a config without reading files.
func NewStaticDisplayConfigHolder(cfg DisplayConfig) *DisplayConfigHolder {
	holder := &DisplayConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewDisplayConfigHolder() (*DisplayConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("display")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/pointsale")
	v.AddConfigPath(".")

	v.SetEnvPrefix("POINTSALE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultDisplayConfig()
	v.SetDefault("display.tiers.silver", defaults.Tiers.Silver)
	v.SetDefault("display.tiers.gold", defaults.Tiers.Gold)

	fromFile := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fromFile = false
	}

	cfg, err := decodeDisplayConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticDisplayConfigHolder(cfg)
	if !fromFile {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeDisplayConfig(v)
		if err != nil {
			log.Printf("[display-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[display-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *DisplayConfigHolder) Get() DisplayConfig {
	return h.current.Load().(DisplayConfig)
}

func decodeDisplayConfig(v *viper.Viper) (DisplayConfig, error) {
	var cfg DisplayConfig
	if err := v.UnmarshalKey("display", &cfg); err != nil {
		return DisplayConfig{}, err
	}
	if err := validateDisplayConfig(cfg); err != nil {
		return DisplayConfig{}, err
	}
	return cfg, nil
}

func validateDisplayConfig(cfg DisplayConfig) error {
	if cfg.Tiers.Silver < 0 || cfg.Tiers.Gold < 0 {
		return errors.New("display.tiers thresholds cannot be negative")
	}
	if cfg.Tiers.Gold < cfg.Tiers.Silver {
		return errors.New("display.tiers.gold must be >= display.tiers.silver")
	}
	return nil
}
