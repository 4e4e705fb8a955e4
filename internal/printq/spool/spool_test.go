/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package spool

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikeb26/midway/internal/printq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestConnectCreatesSpoolDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "spool", "cards")
	dev := New(dir, zaptest.NewLogger(t))

	require.NoError(t, dev.Connect(context.Background()))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	busy, err := dev.Busy()
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestSubmitWritesAtomically(t *testing.T) {
	dir := t.TempDir()
	dev := New(dir, zaptest.NewLogger(t))
	require.NoError(t, dev.Connect(context.Background()))

	job := printq.Job{
		ID:     "j1",
		Origin: "fortune",
		Queued: time.Date(2026, 6, 5, 19, 30, 0, 0, time.UTC),
	}
	art := printq.Artifact{MIME: "image/png", Data: []byte("png bytes")}
	require.NoError(t, dev.Submit(context.Background(), job, art))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "20260605-193000-j1.png", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), data)
}

func TestExtensionFollowsMIME(t *testing.T) {
	assert.Equal(t, ".png", extFor("image/png"))
	assert.Equal(t, ".html", extFor("text/html"))
	assert.Equal(t, ".txt", extFor("text/plain"))
	assert.Equal(t, ".bin", extFor("application/octet-stream"))
}
