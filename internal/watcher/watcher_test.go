package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type fileCollector struct {
	mu    sync.Mutex
	paths []string
}

func (c *fileCollector) add(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
}

func (c *fileCollector) seen(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.paths {
		if p == path {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_IngestsDroppedFile(t *testing.T) {
	dir := t.TempDir()
	col := &fileCollector{}
	w := NewWatcher([]string{dir}, []string{".txt"}, col.add, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "dropped.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 3*time.Second, func() bool { return col.seen(path) }) {
		t.Errorf("dropped file was not picked up: %v", col.paths)
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	col := &fileCollector{}
	w := NewWatcher([]string{dir}, []string{".txt"}, col.add, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "binary.exe")
	if err := os.WriteFile(path, []byte{0x4d, 0x5a}, 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if col.seen(path) {
		t.Error("non-matching extension should be ignored")
	}
}

func TestWatcher_SyncExistingPicksUpPreexistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "already-there.txt")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	col := &fileCollector{}
	w := NewWatcher([]string{dir}, []string{".txt"}, col.add, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	w.SyncExisting()
	if !waitFor(t, 3*time.Second, func() bool { return col.seen(path) }) {
		t.Error("pre-existing file was not picked up by SyncExisting")
	}
}

func TestWatcher_CreatesMissingRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not-yet")
	w := NewWatcher([]string{dir}, nil, func(string) {})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("root directory should have been created: %v", err)
	}
}
