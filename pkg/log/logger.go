// Package log keeps a zerolog logger in the context.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

const (
	bufferSize   = 1000
	pollInterval = 5 * time.Millisecond
)

// NewContextWithLoggerTo installs a console logger writing to out, both as
// the global logger and in the returned context. Writes go through a
// non-blocking ring buffer; call the returned func to flush it.
func NewContextWithLoggerTo(ctx context.Context, out io.Writer, debug bool) (context.Context, func()) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	wr := diode.NewWriter(out, bufferSize, pollInterval, func(missed int) {
		fmt.Fprintf(os.Stderr, "log: dropped %d messages\n", missed)
	})

	console := zerolog.ConsoleWriter{
		Out:        wr,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(out),
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
	}

	log.Logger = zerolog.New(console).With().Timestamp().Logger()
	return log.Logger.WithContext(ctx), func() { _ = wr.Close() }
}

// FromCtx returns the context logger, or a disabled one.
func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}

// With returns ctx carrying a child logger tagged with component.
func With(ctx context.Context, component string) context.Context {
	l := FromCtx(ctx).With().Str("component", component).Logger()
	return l.WithContext(ctx)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
