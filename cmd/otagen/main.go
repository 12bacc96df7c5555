package main

import (
	"errors"
	"os"

	"github.com/buzunser/otagen/internal/cli"
	"github.com/buzunser/otagen/internal/config"
	"github.com/buzunser/otagen/internal/logging"
	"github.com/buzunser/otagen/internal/models"
	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit code.
// Logging starts from the built-in defaults; generate reconfigures it once
// the config file is loaded.
func run(args []string) int {
	if _, err := logging.Setup(config.Default().Log, false); err != nil {
		logrus.Error(err)
		return 1
	}

	rootCmd := cli.NewRootCmd()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		failure(err).Error("otagen failed")
		return 1
	}
	return 0
}

// failure attaches the error and, for generation errors, its kind and file.
func failure(err error) *logrus.Entry {
	entry := logrus.WithError(err)

	var genErr *models.OTAGenError
	if errors.As(err, &genErr) {
		entry = entry.WithField("kind", genErr.Type.String())
		if genErr.File != "" {
			entry = entry.WithField("file", genErr.File)
		}
	}
	return entry
}
