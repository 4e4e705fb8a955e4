/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestEmptyUntilFirstFrame(t *testing.T) {
	src := NewStaticSource()

	_, ok := src.Latest()
	assert.False(t, ok)

	src.SetFrame([]byte{1, 2, 3})
	snap, ok := src.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(1), snap.Seq)
	assert.Equal(t, []byte{1, 2, 3}, snap.Data)
	assert.False(t, snap.TakenAt.IsZero())
}

func TestSnapshotUnaffectedByCallerMutation(t *testing.T) {
	src := NewStaticSource()

	frame := []byte{1, 2, 3}
	src.SetFrame(frame)
	frame[0] = 99

	snap, ok := src.Latest()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, snap.Data)
}

func TestSeqIncrementsPerFrame(t *testing.T) {
	src := NewStaticSource()

	src.SetFrame([]byte{1})
	src.SetFrame([]byte{2})
	snap := src.SetFrame([]byte{3})

	assert.Equal(t, uint64(3), snap.Seq)

	latest, ok := src.Latest()
	require.True(t, ok)
	assert.Equal(t, snap.Seq, latest.Seq)
	assert.Equal(t, []byte{3}, latest.Data)
}
