// Package logging builds the structured loggers used across ragchat.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// New returns a console logger writing to w.
// Verbose loggers emit debug events; otherwise only warnings and errors.
func New(w io.Writer, verbose bool) zerolog.Logger {
	return NewConsole(w, verbose, isTerminal(w))
}

// NewConsole is New for writers that hide the terminal behind a wrapper.
// Output is colored only when color is set.
func NewConsole(w io.Writer, verbose, color bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    !color,
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// NewFile returns a logger appending JSON lines to the file at path.
// The caller closes the returned file.
func NewFile(path string, verbose bool) (zerolog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(f).Level(level).With().Timestamp().Logger(), f, nil
}

// Nop returns a logger that discards everything
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
