package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sceneguard/internal/config"
	"sceneguard/internal/logger"
	"sceneguard/internal/model"
)

func frame(n byte) model.Frame {
	return model.Frame{Camera: "cam1", Data: []byte{n}}
}

func TestFrameBuffer_NotReadyUntilFull(t *testing.T) {
	b := NewFrameBuffer(3)
	b.Push(frame(1))
	b.Push(frame(2))

	assert.False(t, b.IsFull())
	assert.Equal(t, 2, b.Len())

	_, err := b.Snapshot()
	assert.ErrorIs(t, err, ErrBufferNotReady)

	b.Push(frame(3))
	assert.True(t, b.IsFull())
}

func TestFrameBuffer_EvictsOldest(t *testing.T) {
	b := NewFrameBuffer(3)
	for i := byte(1); i <= 5; i++ {
		b.Push(frame(i))
	}

	frames, err := b.Snapshot()
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, []byte{3}, frames[0].Data)
	assert.Equal(t, []byte{5}, frames[2].Data, "newest frame is last")
}

func TestFrameBuffer_FreezeDropsPushes(t *testing.T) {
	b := NewFrameBuffer(2)
	b.Push(frame(1))
	b.Push(frame(2))

	b.Freeze()
	assert.False(t, b.Push(frame(3)))
	frames, err := b.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, frames[1].Data)

	b.Thaw()
	assert.True(t, b.Push(frame(3)))
	frames, err = b.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, frames[1].Data)
}

func TestFrameBuffer_SnapshotIsCopy(t *testing.T) {
	b := NewFrameBuffer(2)
	b.Push(frame(1))
	b.Push(frame(2))

	frames, err := b.Snapshot()
	require.NoError(t, err)
	b.Push(frame(9))

	assert.Equal(t, []byte{1}, frames[0].Data)
}

func TestFrameBuffer_DefaultCapacityAndReset(t *testing.T) {
	b := NewFrameBuffer(0)
	assert.Equal(t, DefaultBufferSize, b.Capacity())

	b.Push(frame(1))
	b.Reset()
	assert.Equal(t, 0, b.Len())
}

func TestSnapshotStore_SaveDeleteClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	store := NewSnapshotStore(&config.Config{ImageDirectory: dir}, logger.NewDiscard())

	report := &model.Report{
		Camera:     "desk",
		CapturedAt: time.Date(2025, 3, 1, 10, 30, 15, 0, time.UTC),
		Objects:    []model.ConfirmedObject{{Name: "cup"}, {Name: "cell phone"}},
	}

	name, err := store.Save(report, []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01_10-30_15.000_desk_cup_cell-phone_.jpg", name)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	require.NoError(t, store.Delete(name))
	require.NoError(t, store.Delete(name), "deleting twice is not an error")

	_, err = store.Save(report, []byte("again"))
	require.NoError(t, err)
	require.NoError(t, store.Clear())
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSnapshotStore_PathRejectsTraversal(t *testing.T) {
	store := NewSnapshotStore(&config.Config{ImageDirectory: t.TempDir()}, logger.NewDiscard())

	for _, name := range []string{"", "../secret", "a/b.jpg", ".hidden"} {
		_, err := store.Path(name)
		assert.Error(t, err, name)
	}

	path, err := store.Path("ok.jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "ok.jpg"))
}
