package monitor

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sandevgo/jarvis/internal/providers/sysinfo"
	"github.com/sandevgo/jarvis/internal/service/dialog"
	"github.com/sandevgo/jarvis/pkg/log"
)

// mounts show up in the mount table shortly after their directory
const settleDelay = time.Second

type DriveSource interface {
	List() ([]string, error)
	Roots() []string
}

// Drives announces removable drives as they are mounted and removed.
// Filesystem events on the media roots trigger a rescan of the mount
// table; a slow periodic rescan catches anything the events miss.
type Drives struct {
	source   DriveSource
	lines    *dialog.Book
	interval time.Duration
	settle   time.Duration
}

func NewDrives(source DriveSource, lines *dialog.Book, interval time.Duration) *Drives {
	return &Drives{source: source, lines: lines, interval: interval, settle: settleDelay}
}

func (d *Drives) Name() string {
	return "drives"
}

func (d *Drives) Run(ctx context.Context, announce Announce) {
	logger := log.FromCtx(ctx)

	known, err := d.source.List()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to list drives")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn().Err(err).Msg("filesystem watcher unavailable, polling only")
	} else {
		defer watcher.Close()
		for _, root := range d.source.Roots() {
			d.watchTree(ctx, watcher, root)
		}
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	settle := time.NewTimer(d.settle)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watchEvents(watcher):
			if !ok {
				watcher = nil
				continue
			}
			logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("media event")
			if ev.Has(fsnotify.Create) {
				d.watchCreated(ctx, watcher, ev.Name)
			}
			settle.Reset(d.settle)
			continue
		case err, ok := <-watchErrors(watcher):
			if ok {
				logger.Warn().Err(err).Msg("filesystem watcher error")
			}
			continue
		case <-settle.C:
		case <-ticker.C:
		}

		known = d.rescan(ctx, known, announce)
	}
}

func (d *Drives) rescan(ctx context.Context, known []string, announce Announce) []string {
	current, err := d.source.List()
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to list drives")
		return known
	}

	for _, m := range current {
		if !slices.Contains(known, m) {
			announce(ctx, d.Name(), d.lines.Sayf(dialog.DriveIn, sysinfo.Label(m)))
		}
	}
	for _, m := range known {
		if !slices.Contains(current, m) {
			announce(ctx, d.Name(), d.lines.Sayf(dialog.DriveOut, sysinfo.Label(m)))
		}
	}
	return current
}

// mediaDepth covers both /media/<label> and /media/<user>/<label> layouts.
const mediaDepth = 2

// watchTree watches a media root and its subdirectories down to mediaDepth.
func (d *Drives) watchTree(ctx context.Context, w *fsnotify.Watcher, root string) {
	if w == nil {
		return
	}
	d.watchDepth(ctx, w, root, mediaDepth)
}

// watchCreated extends the watch to a directory created under a root,
// ignoring anything inside the drives themselves.
func (d *Drives) watchCreated(ctx context.Context, w *fsnotify.Watcher, dir string) {
	for _, root := range d.source.Roots() {
		rel, err := filepath.Rel(root, dir)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		level := len(strings.Split(rel, string(filepath.Separator)))
		if level < mediaDepth {
			d.watchDepth(ctx, w, dir, mediaDepth-level)
		}
		return
	}
}

func (d *Drives) watchDepth(ctx context.Context, w *fsnotify.Watcher, dir string, depth int) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.Add(dir); err != nil {
		log.FromCtx(ctx).Debug().Err(err).Str("path", dir).Msg("cannot watch media dir")
		return
	}
	if depth == 0 {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			d.watchDepth(ctx, w, filepath.Join(dir, e.Name()), depth-1)
		}
	}
}

// nil channels block forever, so a missing watcher drops out of select
func watchEvents(w *fsnotify.Watcher) <-chan fsnotify.Event {
	if w == nil {
		return nil
	}
	return w.Events
}

func watchErrors(w *fsnotify.Watcher) <-chan error {
	if w == nil {
		return nil
	}
	return w.Errors
}
