package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/buzunser/otagen/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLevels(t *testing.T) {
	logger := logrus.New()
	var console bytes.Buffer

	_, err := configure(logger, config.LogConfig{Level: "warn"}, false, &console)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	_, err = configure(logger, config.LogConfig{Level: "warn"}, true, &console)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	_, err = configure(logger, config.LogConfig{Level: "loud"}, false, &console)
	assert.Error(t, err)
}

func TestConfigureJSON(t *testing.T) {
	logger := logrus.New()
	var console bytes.Buffer

	_, err := configure(logger, config.LogConfig{Level: "info", Format: "json"}, false, &console)
	require.NoError(t, err)

	logger.WithField("device", "raphael").Info("Writing JSON")
	assert.Contains(t, console.String(), `"device":"raphael"`)
	assert.Contains(t, console.String(), `"msg":"Writing JSON"`)
}

func TestConfigureFile(t *testing.T) {
	logger := logrus.New()
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "otagen.log")

	closer, err := configure(logger, config.LogConfig{Level: "info", File: path, MaxSize: 1}, false, &console)
	require.NoError(t, err)

	logger.Info("Parsing filename...")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Parsing filename...")
	assert.Contains(t, console.String(), "Parsing filename...")
}
