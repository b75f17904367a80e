package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// OverEntryPolicy names how a calculation path treats line-item amounts
// that exceed the invoice total.
type OverEntryPolicy string

const (
	// OverEntryClamp floors the rest amount at zero.
	OverEntryClamp OverEntryPolicy = "clamp"
	// OverEntryReject refuses the operation with an amount-mismatch error.
	OverEntryReject OverEntryPolicy = "reject"
)

// CommissionConfig carries the business tunables for commission tracking.
type CommissionConfig struct {
	NCFPrefix             string          `mapstructure:"ncfPrefix"`
	DefaultRestPercentage float64         `mapstructure:"defaultRestPercentage"`
	SavePolicy            OverEntryPolicy `mapstructure:"savePolicy"`
	UpdatePolicy          OverEntryPolicy `mapstructure:"updatePolicy"`
	ComparisonYears       int             `mapstructure:"comparisonYears"`
	LockoutMaxAttempts    int             `mapstructure:"lockoutMaxAttempts"`
	LockoutDuration       time.Duration   `mapstructure:"lockoutDuration"`
	SessionTTL            time.Duration   `mapstructure:"sessionTTL"`
}

func DefaultCommissionConfig() CommissionConfig {
	return CommissionConfig{
		NCFPrefix:             "B01000",
		DefaultRestPercentage: 25,
		SavePolicy:            OverEntryClamp,
		UpdatePolicy:          OverEntryReject,
		ComparisonYears:       6,
		LockoutMaxAttempts:    5,
		LockoutDuration:       5 * time.Minute,
		SessionTTL:            12 * time.Hour,
	}
}

// CommissionConfigHolder serves the current commission config and hot-reloads
// it when the backing file changes.
type CommissionConfigHolder struct {
	current atomic.Value // holds CommissionConfig
}

func NewCommissionConfigHolder() (*CommissionConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("commission")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/comisiones")
	v.AddConfigPath(".")

	v.SetEnvPrefix("COMISIONES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultCommissionConfig()
	v.SetDefault("commission.ncfPrefix", defaults.NCFPrefix)
	v.SetDefault("commission.defaultRestPercentage", defaults.DefaultRestPercentage)
	v.SetDefault("commission.savePolicy", string(defaults.SavePolicy))
	v.SetDefault("commission.updatePolicy", string(defaults.UpdatePolicy))
	v.SetDefault("commission.comparisonYears", defaults.ComparisonYears)
	v.SetDefault("commission.lockoutMaxAttempts", defaults.LockoutMaxAttempts)
	v.SetDefault("commission.lockoutDuration", defaults.LockoutDuration)
	v.SetDefault("commission.sessionTTL", defaults.SessionTTL)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg CommissionConfig
	if err := v.UnmarshalKey("commission", &cfg); err != nil {
		return nil, err
	}
	if err := validateCommissionConfig(cfg); err != nil {
		return nil, err
	}

	holder := &CommissionConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated CommissionConfig
		if err := v.UnmarshalKey("commission", &updated); err != nil {
			log.Printf("[commission-config] reload failed: %v", err)
			return
		}
		if err := validateCommissionConfig(updated); err != nil {
			log.Printf("[commission-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[commission-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticCommissionConfigHolder returns a holder pinned to cfg, for tests.
func NewStaticCommissionConfigHolder(cfg CommissionConfig) *CommissionConfigHolder {
	holder := &CommissionConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *CommissionConfigHolder) Get() CommissionConfig {
	return h.current.Load().(CommissionConfig)
}

func validateCommissionConfig(cfg CommissionConfig) error {
	if strings.TrimSpace(cfg.NCFPrefix) == "" {
		return errors.New("commission.ncfPrefix cannot be empty")
	}
	if cfg.DefaultRestPercentage < 0 || cfg.DefaultRestPercentage > 100 {
		return errors.New("commission.defaultRestPercentage must be within [0,100]")
	}
	switch cfg.SavePolicy {
	case OverEntryClamp, OverEntryReject:
	default:
		return errors.New("commission.savePolicy must be clamp or reject")
	}
	switch cfg.UpdatePolicy {
	case OverEntryClamp, OverEntryReject:
	default:
		return errors.New("commission.updatePolicy must be clamp or reject")
	}
	if cfg.LockoutMaxAttempts <= 0 {
		return errors.New("commission.lockoutMaxAttempts must be positive")
	}
	return nil
}
