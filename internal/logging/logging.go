package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/buzunser/otagen/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the standard logrus logger. verbose forces debug level.
// It returns a closer for the log file, which is a no-op without one.
func Setup(cfg config.LogConfig, verbose bool) (io.Closer, error) {
	return configure(logrus.StandardLogger(), cfg, verbose, os.Stderr)
}

func configure(logger *logrus.Logger, cfg config.LogConfig, verbose bool, console io.Writer) (io.Closer, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = parsed
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	if cfg.File == "" {
		logger.SetOutput(console)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotate := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
	}
	logger.SetOutput(io.MultiWriter(console, rotate))

	return rotate, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
