package saveslot

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logDirName  = "log"
	logFileName = "saveslot.log"
)

// newLogger builds the engine's logger from its settings. Console output
// goes to stderr; with LogToFile set, a rolling file under the engine's
// base directory is written as well. The logger is instance-scoped so
// multiple engines (and tests) stay isolated.
func newLogger(settings Settings, baseDir string) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}

	var writer io.Writer = console

	if settings.LogToFile {
		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(baseDir, logDirName, logFileName),
			MaxAge:     3,
			MaxBackups: 3,
		}
		writer = zerolog.MultiLevelWriter(console, fileWriter)
	}

	level := zerolog.InfoLevel
	if settings.Verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("component", "saveslot").
		Logger()
}
