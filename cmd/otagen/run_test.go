package main

import (
	"errors"
	"testing"

	"github.com/buzunser/otagen/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFailureFields(t *testing.T) {
	err := models.NewError(models.ErrOSName, "LineageOS_raphael-20.0-20230615-1230-OFFICIAL.zip", errors.New("file is for LineageOS, not PixelExperience"))

	entry := failure(err)
	assert.Equal(t, "OSName", entry.Data["kind"])
	assert.Equal(t, "LineageOS_raphael-20.0-20230615-1230-OFFICIAL.zip", entry.Data["file"])
	assert.Equal(t, err, entry.Data["error"])

	plain := failure(errors.New("unknown flag"))
	assert.NotContains(t, plain.Data, "kind")
	assert.NotContains(t, plain.Data, "file")
}

func TestRunExitCodes(t *testing.T) {
	assert.Equal(t, 1, run([]string{"generate"}))
	assert.Equal(t, 1, run([]string{"generate", "--no-such-flag"}))
	assert.Equal(t, 0, run([]string{"--help"}))
}
