package media

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanFilename(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []struct {
		in   string
		want string
	}{
		{"lamp.png", "1700000000_lamp.png"},
		{"my lamp.JPG", "1700000000_my_lamp.jpg"},
		{"photo.jpg.jpg", "1700000000_photo.jpg"},
		{"a.png.jpeg.png", "1700000000_a.png"},
		{"v1.2.webp", "1700000000_v1.2.webp"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CleanFilename(tt.in, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := CleanFilename("script.sh", now)
	assert.Error(t, err)
	_, err = CleanFilename("noext", now)
	assert.Error(t, err)
}

func TestLocal_Upload(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/uploads/")
	l.now = func() time.Time { return time.Unix(42, 0) }

	url, err := l.Upload(context.Background(), "desk lamp.png", bytes.NewBufferString("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/products/42_desk_lamp.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "products", "42_desk_lamp.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = l.Upload(context.Background(), "notes.txt", bytes.NewBufferString("x"))
	assert.Error(t, err)
}

func TestBackup_NextRun(t *testing.T) {
	b := NewBackup("src", "dest", time.Hour, 2)
	loc := time.UTC

	before := time.Date(2025, 3, 10, 1, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 3, 10, 2, 0, 0, 0, loc), b.NextRun(before))

	exactly := time.Date(2025, 3, 10, 2, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 3, 11, 2, 0, 0, 0, loc), b.NextRun(exactly))

	after := time.Date(2025, 3, 10, 23, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 3, 11, 2, 0, 0, 0, loc), b.NextRun(after))
}

func TestBackup_SnapshotAndCleanup(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "products"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "products", "a.png"), []byte("a"), 0644))

	b := NewBackup(src, dest, time.Hour, 2)
	snapshot, err := b.Snapshot()
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(snapshot, "products", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	b.Cleanup()
	assert.DirExists(t, snapshot)

	b.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	b.Cleanup()
	assert.NoDirExists(t, snapshot)
}

func TestBackup_RunStopsWithContext(t *testing.T) {
	b := NewBackup(t.TempDir(), t.TempDir(), time.Hour, 2)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
