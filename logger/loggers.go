package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var outLogger zerolog.Logger
var errorLogger zerolog.Logger
var logFile *os.File

func init() {
	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	var errorOut io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	path := os.Getenv("LOG_FILE")
	if path == "" {
		path = "output.log"
	}

	if path != "none" {
		var err error
		logFile, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			l := zerolog.New(errorOut)
			l.Error().Err(err).Msg("Error loading log file")
		}
	}

	if logFile != nil {
		output = zerolog.MultiLevelWriter(output, logFile)
		errorOut = zerolog.MultiLevelWriter(errorOut, logFile)
	}

	outLogger = zerolog.New(output).With().Timestamp().Logger()
	errorLogger = zerolog.New(errorOut).With().Timestamp().Logger()
}

// SetLevel accepts zerolog level names (debug, info, warn, error...).
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func Close() error {
	if logFile == nil {
		return nil
	}
	return logFile.Close()
}

func Out() *zerolog.Event {
	return outLogger.Info()
}

func Warn() *zerolog.Event {
	return errorLogger.Warn()
}

func Err() *zerolog.Event {
	return errorLogger.Error()
}

func Debug() *zerolog.Event {
	return outLogger.Debug()
}
