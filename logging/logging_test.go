package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cypherab01/task-manager-api/config"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSONToConsole(t *testing.T) {
	logger := log.New()
	var buf bytes.Buffer

	closer, err := Configure(logger, config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("dropped")
	logger.WithField("module", "test").Warn("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "test", entry["module"])
	assert.Equal(t, log.WarnLevel, logger.GetLevel())
}

func TestConfigure_File(t *testing.T) {
	logger := log.New()
	path := filepath.Join(t.TempDir(), "app.log")
	var console bytes.Buffer

	closer, err := Configure(logger, config.LogConfig{
		Level:      "info",
		Format:     "text",
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}, &console)
	require.NoError(t, err)

	logger.Info("to both outputs")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both outputs")
	assert.Contains(t, console.String(), "to both outputs")
}

func TestConfigure_InvalidLevel(t *testing.T) {
	_, err := Configure(log.New(), config.LogConfig{Level: "loud", Format: "text"}, &bytes.Buffer{})
	assert.Error(t, err)
}
