package tools

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/jarvis/internal/providers/sysinfo"
	"github.com/sandevgo/jarvis/internal/service/dialog"
)

const noBatteryReply = "Sorry, I couldn't detect a battery."

type BatteryReader interface {
	Read() (sysinfo.Battery, error)
}

type DriveLister interface {
	List() ([]string, error)
}

type Power struct {
	battery BatteryReader
	drives  DriveLister
	lines   *dialog.Book
}

func NewPower(battery BatteryReader, drives DriveLister, lines *dialog.Book) *Power {
	return &Power{battery: battery, drives: drives, lines: lines}
}

// BatteryLine picks the announcement for a reading, shared with the
// battery monitor. ok is false when the level needs no announcement.
func BatteryLine(lines *dialog.Book, b sysinfo.Battery) (line string, ok bool) {
	switch {
	case b.Percent < 10:
		return lines.Say(dialog.BatteryCritical), true
	case b.Percent < 30:
		return lines.Say(dialog.BatteryLow), true
	case b.Percent == 100 && b.Plugged:
		return lines.Say(dialog.BatteryFull), true
	default:
		return lines.Sayf(dialog.BatteryOK, strconv.Itoa(b.Percent)), false
	}
}

// BatterySuffix is the "(Battery is at N%. Plugged in)" detail.
func BatterySuffix(b sysinfo.Battery) string {
	state := "Not plugged in"
	if b.Plugged {
		state = "Plugged in"
	}
	return fmt.Sprintf("(Battery is at %d%%. %s)", b.Percent, state)
}

func (p *Power) BatteryStatus(ctx context.Context, _ string) (string, error) {
	b, err := p.read()
	if err != nil {
		return "", err
	}
	line, _ := BatteryLine(p.lines, b)
	return line + " " + BatterySuffix(b), nil
}

func (p *Power) BatteryAdvice(ctx context.Context, _ string) (string, error) {
	b, err := p.read()
	if err != nil {
		return "", err
	}

	advice := "The battery is in good condition."
	switch {
	case b.Percent < 30 && !b.Plugged:
		advice = "Please connect the charger."
	case b.Percent < 30:
		advice = "It is charging, keep the charger connected."
	case b.Percent > 80 && b.Plugged:
		advice = "The battery level is quite high, you can disconnect the charger."
	case b.Percent > 80:
		advice = "The battery level is quite high."
	}
	return fmt.Sprintf("The device is running on %d%% battery power. %s", b.Percent, advice), nil
}

func (p *Power) read() (sysinfo.Battery, error) {
	b, err := p.battery.Read()
	if errors.Is(err, sysinfo.ErrNoBattery) {
		return b, errors.New(noBatteryReply)
	}
	return b, err
}

func (p *Power) PenDriveStatus(ctx context.Context, _ string) (string, error) {
	mounts, err := p.drives.List()
	if err != nil {
		return "", fmt.Errorf("unable to check removable drives: %w", err)
	}
	if len(mounts) == 0 {
		return "No, I don't detect any pen drives connected right now.", nil
	}

	labels := make([]string, len(mounts))
	for i, m := range mounts {
		labels[i] = sysinfo.Label(m)
	}
	return fmt.Sprintf("Yes, I detect %d pen drive(s) connected: %s.", len(mounts), strings.Join(labels, ", ")), nil
}
