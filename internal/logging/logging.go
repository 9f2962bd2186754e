// Package logging configures the application logger: console output on
// stdout plus a JSON log file under the data directory, mirroring the
// stdout/log-dir pair the desktop shell has always shipped with.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const logFileName = "bolt-gives.log"

// New builds the application logger. Console output always works; the log
// file is best-effort - if the directory or file cannot be created we
// degrade to console-only rather than failing startup.
func New(level zerolog.Level, logDir string) zerolog.Logger {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stdout}}

	if logDir != "" {
		if f := openLogFile(logDir); f != nil {
			writers = append(writers, f)
		}
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func openLogFile(dir string) *os.File {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}
	return f
}
