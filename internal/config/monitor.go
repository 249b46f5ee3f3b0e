package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/jarvis/pkg/log"
)

type MonitorConfig struct {
	PowerSupplyPath     string        `env:"JARVIS_POWER_SUPPLY_PATH" envDefault:"/sys/class/power_supply"`
	BatteryInitialDelay time.Duration `env:"JARVIS_BATTERY_INITIAL_DELAY" envDefault:"10s"`
	BatteryInterval     time.Duration `env:"JARVIS_BATTERY_INTERVAL" envDefault:"25m"`
	PlugInterval        time.Duration `env:"JARVIS_PLUG_INTERVAL" envDefault:"5s"`
	MediaPaths          []string      `env:"JARVIS_MEDIA_PATHS" envSeparator:"," envDefault:"/media,/run/media"`
	// Rescan period for mounts that produce no filesystem event
	DriveInterval time.Duration `env:"JARVIS_DRIVE_INTERVAL" envDefault:"30s"`
}

func NewMonitorConfig(ctx context.Context) *MonitorConfig {
	c := &MonitorConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Monitor config")
	}
	return c
}
