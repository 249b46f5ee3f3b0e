package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/sandevgo/jarvis/internal/providers/sysinfo"
	"github.com/sandevgo/jarvis/internal/providers/tools"
	"github.com/sandevgo/jarvis/internal/service/dialog"
	"github.com/sandevgo/jarvis/pkg/log"
)

// Battery announces low, critical and full levels.
type Battery struct {
	reader   tools.BatteryReader
	lines    *dialog.Book
	delay    time.Duration
	interval time.Duration
}

func NewBattery(reader tools.BatteryReader, lines *dialog.Book, delay, interval time.Duration) *Battery {
	return &Battery{reader: reader, lines: lines, delay: delay, interval: interval}
}

func (b *Battery) Name() string {
	return "battery"
}

func (b *Battery) Run(ctx context.Context, announce Announce) {
	timer := time.NewTimer(b.delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if !b.check(ctx, announce) {
			return
		}
		timer.Reset(b.interval)
	}
}

// check reports whether monitoring should continue.
func (b *Battery) check(ctx context.Context, announce Announce) bool {
	reading, err := b.reader.Read()
	if errors.Is(err, sysinfo.ErrNoBattery) {
		log.FromCtx(ctx).Info().Msg("no battery found, battery monitor disabled")
		return false
	}
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to read battery")
		return true
	}

	line, ok := tools.BatteryLine(b.lines, reading)
	log.FromCtx(ctx).Debug().Int("percent", reading.Percent).Bool("plugged", reading.Plugged).Bool("announce", ok).Msg("battery checked")
	if ok {
		announce(ctx, b.Name(), line+" "+tools.BatterySuffix(reading))
	}
	return true
}

// Plug announces charger connects and disconnects.
type Plug struct {
	reader   tools.BatteryReader
	lines    *dialog.Book
	interval time.Duration
}

func NewPlug(reader tools.BatteryReader, lines *dialog.Book, interval time.Duration) *Plug {
	return &Plug{reader: reader, lines: lines, interval: interval}
}

func (p *Plug) Name() string {
	return "plug"
}

func (p *Plug) Run(ctx context.Context, announce Announce) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var (
		plugged bool
		known   bool
	)
	for {
		reading, err := p.reader.Read()
		switch {
		case errors.Is(err, sysinfo.ErrNoBattery):
			log.FromCtx(ctx).Info().Msg("no battery found, plug monitor disabled")
			return
		case err != nil:
			log.FromCtx(ctx).Warn().Err(err).Msg("failed to read power supply")
		case !known:
			plugged, known = reading.Plugged, true
		case reading.Plugged != plugged:
			plugged = reading.Plugged
			key := dialog.PlugOut
			if plugged {
				key = dialog.PlugIn
			}
			announce(ctx, p.Name(), p.lines.Say(key)+" "+tools.BatterySuffix(reading))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
