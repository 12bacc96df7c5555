package cli

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/buzunser/otagen/internal/config"
	"github.com/buzunser/otagen/internal/models"
	"github.com/buzunser/otagen/internal/utils"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const archiveName = "PixelExperience_raphael-12.1-20230615-1230-OFFICIAL.zip"

func TestValidateConfig(t *testing.T) {
	err := validateConfig(&models.GenerateConfig{})
	var genErr *models.OTAGenError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, models.ErrInvalidConfig, genErr.Type)

	err = validateConfig(&models.GenerateConfig{LocalFile: "a.zip", GPGPassphrase: "x"})
	require.Error(t, err)

	err = validateConfig(&models.GenerateConfig{LocalFile: "a.zip", ExportKey: true})
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, models.ErrInvalidConfig, genErr.Type)
	assert.Contains(t, err.Error(), "--export-key")

	assert.NoError(t, validateConfig(&models.GenerateConfig{LocalFile: "a.zip", GPGKeyPath: "key.asc", ExportKey: true}))
	assert.NoError(t, validateConfig(&models.GenerateConfig{ZipURL: "https://example.com/" + archiveName}))
	assert.NoError(t, validateConfig(&models.GenerateConfig{LocalFile: archiveName}))
}

func TestRunGenerationBadKey(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/builds/"+archiveName, []byte("zip"), 0644)

	err := runGeneration(context.Background(), fs, config.Default(), &models.GenerateConfig{
		LocalFile:  "/builds/" + archiveName,
		GPGKeyPath: "/keys/missing.asc",
		OutputDir:  "/out",
	})

	var genErr *models.OTAGenError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, models.ErrSigning, genErr.Type)

	exists, _ := afero.DirExists(fs, "/out")
	assert.False(t, exists)
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	content := []byte("local archive bytes")
	localFile := filepath.Join(dir, "download.zip")
	require.NoError(t, os.WriteFile(localFile, content, 0644))

	configFile := filepath.Join(dir, "otagen.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("version: thirteen\n"), 0644))

	outDir := filepath.Join(dir, "out")
	url := "https://example.com/releases/" + archiveName

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"generate", url, "--local-file", localFile, "--pre", "-o", outDir, "--config", configFile})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(outDir, "raphael_pre.json"))
	require.NoError(t, err)

	var record models.DeviceRecord
	require.NoError(t, json.Unmarshal(data, &record))

	assert.Equal(t, "thirteen", record.Version)
	assert.Equal(t, archiveName, record.Filename)
	assert.Equal(t, url, record.URL)
	assert.Equal(t, int64(len(content)), record.Size)
	assert.Equal(t, utils.MD5Sum(content), record.FileHash)
	assert.Equal(t, utils.MD5Sum([]byte(archiveName)), record.ID)
	assert.Equal(t, int64(1686832200), record.Datetime)

	_, err = os.Stat(filepath.Join(outDir, "raphael.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateCommandRequiresInput(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"generate"})
	assert.Error(t, cmd.Execute())
}

func TestGenerateCommandTooManyArgs(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"generate", "a.zip", "b.zip"})
	assert.Error(t, cmd.Execute())
}
