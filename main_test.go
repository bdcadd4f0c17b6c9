package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/cypherab01/task-manager-api/config"
	"github.com/cypherab01/task-manager-api/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCloser struct {
	closed int
	err    error
}

func (c *recordingCloser) Close() error {
	c.closed++
	return c.err
}

func TestReleaseResources(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "main.db")})
	require.NoError(t, err)
	require.NoError(t, database.Ping(db))

	logFile := &recordingCloser{}
	releaseResources(db, logFile)

	assert.Error(t, database.Ping(db), "database should be closed")
	assert.Equal(t, 1, logFile.closed)
}

func TestReleaseResources_WithoutDatabase(t *testing.T) {
	logFile := &recordingCloser{err: errors.New("already closed")}
	releaseResources(nil, logFile)
	assert.Equal(t, 1, logFile.closed)
}
