// internal/pkg/logger/logger.go
package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
)

// Setup configures the standard logrus logger from cfg and returns it.
// Packages log through the logrus package functions, so this must run
// before anything else logs.
func Setup(cfg *config.Config) *logrus.Logger {
	return Configure(logrus.StandardLogger(), cfg, os.Stdout)
}

// Configure applies format, level and output to l
func Configure(l *logrus.Logger, cfg *config.Config, out io.Writer) *logrus.Logger {
	if cfg.Logging.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	l.SetOutput(out)

	return l
}

// LogError records a failed operation with the module and function it happened in
func LogError(moduleName, funcName string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
	}
	if data != nil {
		fields["data"] = data
	}
	logrus.WithFields(fields).Error(err.Error())
}
