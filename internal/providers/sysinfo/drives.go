package sysinfo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const ProcMounts = "/proc/mounts"

// Drives lists filesystems mounted below the removable media roots.
type Drives struct {
	mounts string
	roots  []string
}

func NewDrives(mounts string, roots []string) *Drives {
	clean := make([]string, 0, len(roots))
	for _, r := range roots {
		if r = strings.TrimSpace(r); r != "" {
			clean = append(clean, filepath.Clean(r))
		}
	}
	return &Drives{mounts: mounts, roots: clean}
}

func (d *Drives) Roots() []string {
	return slices.Clone(d.roots)
}

// List returns mount points in sorted order.
func (d *Drives) List() ([]string, error) {
	f, err := os.Open(d.mounts)
	if err != nil {
		return nil, fmt.Errorf("open mounts: %w", err)
	}
	defer f.Close()

	var found []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		mount := unescapeMount(fields[1])
		if d.removable(mount) {
			found = append(found, mount)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read mounts: %w", err)
	}

	slices.Sort(found)
	return slices.Compact(found), nil
}

func (d *Drives) removable(mount string) bool {
	for _, root := range d.roots {
		if strings.HasPrefix(mount, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// /proc/mounts escapes blanks in paths as octal sequences
var mountEscapes = strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`)

func unescapeMount(s string) string {
	return mountEscapes.Replace(s)
}

// Label is the last path element, which is what desktops name the drive.
func Label(mount string) string {
	return filepath.Base(mount)
}
