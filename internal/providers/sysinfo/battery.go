// Package sysinfo reads battery and removable drive state from the
// kernel's sysfs and procfs files.
package sysinfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var ErrNoBattery = errors.New("no battery detected")

type Battery struct {
	Percent int
	Plugged bool
}

// PowerSupply reads /sys/class/power_supply (or a copy of its layout).
type PowerSupply struct {
	root string
}

func NewPowerSupply(root string) *PowerSupply {
	return &PowerSupply{root: root}
}

// Read averages the capacity of all batteries. The machine counts as
// plugged when any mains or USB supply is online, or a battery reports
// charging or full.
func (p *PowerSupply) Read() (Battery, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Battery{}, ErrNoBattery
		}
		return Battery{}, fmt.Errorf("read power supplies: %w", err)
	}

	var (
		total, count int
		plugged      bool
	)
	for _, e := range entries {
		dir := filepath.Join(p.root, e.Name())
		switch readAttr(dir, "type") {
		case "Battery":
			capacity, err := strconv.Atoi(readAttr(dir, "capacity"))
			if err != nil {
				continue
			}
			total += capacity
			count++
			switch readAttr(dir, "status") {
			case "Charging", "Full":
				plugged = true
			}
		case "Mains", "USB", "USB_C", "USB_PD":
			if readAttr(dir, "online") == "1" {
				plugged = true
			}
		}
	}

	if count == 0 {
		return Battery{}, ErrNoBattery
	}
	return Battery{Percent: clamp(total/count, 0, 100), Plugged: plugged}, nil
}

func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
