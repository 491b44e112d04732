package theme

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStartedWatcher(t *testing.T, dir string) (*Watcher, chan string) {
	t.Helper()

	w, err := NewWatcher(nil)
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	changed := make(chan string, 8)
	w.SetChangeCallback(func(path string) { changed <- path })
	require.NoError(t, w.Watch(dir))
	require.NoError(t, w.Start())
	return w, changed
}

func waitForChange(t *testing.T, changed chan string) string {
	t.Helper()
	select {
	case path := <-changed:
		return path
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification arrived")
		return ""
	}
}

func TestWatcher_DeliversWriteForThemeFile(t *testing.T) {
	dir := t.TempDir()
	_, changed := newStartedWatcher(t, dir)

	target := filepath.Join(dir, "theme.css")
	require.NoError(t, os.WriteFile(target, []byte("text { color: #fff; }"), 0o644))

	assert.Equal(t, target, waitForChange(t, changed))
}

func TestWatcher_IgnoresUnrelatedExtensions(t *testing.T) {
	dir := t.TempDir()
	_, changed := newStartedWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0o644))
	time.Sleep(50 * time.Millisecond)
	target := filepath.Join(dir, "widgets.xml")
	require.NoError(t, os.WriteFile(target, []byte("<widget/>"), 0o644))

	// The txt write lands first but must not be delivered.
	assert.Equal(t, target, waitForChange(t, changed))
}

func TestWatcher_StopHaltsDelivery(t *testing.T) {
	dir := t.TempDir()
	w, changed := newStartedWatcher(t, dir)
	w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "theme.css"), []byte("{}"), 0o644))

	select {
	case path := <-changed:
		t.Fatalf("unexpected notification after Stop: %s", path)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_StartTwiceIsNoOp(t *testing.T) {
	dir := t.TempDir()
	w, changed := newStartedWatcher(t, dir)
	require.NoError(t, w.Start())

	target := filepath.Join(dir, "theme.css")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))

	assert.Equal(t, target, waitForChange(t, changed))
}
