package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Assumptions are the tunable business constants behind the derived metrics.
type Assumptions struct {
	// LifetimeCapMonths bounds the estimated customer lifetime used for LTV.
	LifetimeCapMonths int `mapstructure:"lifetimeCapMonths"`
	// HistoryMonths is the default span of the historical chart series.
	HistoryMonths int `mapstructure:"historyMonths"`
}

func DefaultAssumptions() Assumptions {
	return Assumptions{
		LifetimeCapMonths: 36,
		HistoryMonths:     12,
	}
}

type AssumptionsHolder struct {
	current atomic.Value // holds Assumptions
}

func NewAssumptionsHolder(cfg Config) (*AssumptionsHolder, error) {
	v := viper.New()

	v.SetConfigName("assumptions")
	v.SetConfigType("yml")
	if cfg.AssumptionsFile != "" {
		v.SetConfigFile(cfg.AssumptionsFile)
	}
	v.AddConfigPath("/var/lib/pulse/config")
	v.AddConfigPath("/etc/pulse")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultAssumptions()
	v.SetDefault("assumptions.lifetimeCapMonths", defaults.LifetimeCapMonths)
	v.SetDefault("assumptions.historyMonths", defaults.HistoryMonths)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var a Assumptions
	if err := v.UnmarshalKey("assumptions", &a); err != nil {
		return nil, err
	}
	if err := validateAssumptions(a); err != nil {
		return nil, err
	}

	holder := &AssumptionsHolder{}
	holder.current.Store(a)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Assumptions
		if err := v.UnmarshalKey("assumptions", &updated); err != nil {
			log.Printf("[assumptions] reload failed: %v", err)
			return
		}
		if err := validateAssumptions(updated); err != nil {
			log.Printf("[assumptions] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[assumptions] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticAssumptions returns a holder pinned to the given values. Test helper.
func NewStaticAssumptions(a Assumptions) *AssumptionsHolder {
	holder := &AssumptionsHolder{}
	holder.current.Store(a)
	return holder
}

func (h *AssumptionsHolder) Get() Assumptions {
	return h.current.Load().(Assumptions)
}

func validateAssumptions(a Assumptions) error {
	if a.LifetimeCapMonths <= 0 {
		return errors.New("assumptions.lifetimeCapMonths must be positive")
	}
	if a.HistoryMonths <= 0 || a.HistoryMonths > 60 {
		return errors.New("assumptions.historyMonths must be between 1 and 60")
	}
	return nil
}
