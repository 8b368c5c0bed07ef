package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a new configured logger
func NewLogger(level string) *logrus.Logger {
	return NewFileLogger(level, "")
}

// NewFileLogger creates a logger writing to stdout and, when path is set,
// to a size-rotated log file as well
func NewFileLogger(level, path string) *logrus.Logger {
	logger := logrus.New()

	var out io.Writer = os.Stdout
	if path != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		})
	}
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	SetLevel(logger, level)

	return logger
}

// SetLevel parses level and applies it, falling back to info
func SetLevel(logger *logrus.Logger, level string) {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
}
