package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"
)

// eventRecorder collects callback invocations safely across goroutines.
type eventRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *eventRecorder) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *eventRecorder) sorted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]string(nil), r.paths...)
	sort.Strings(out)
	return out
}

func (r *eventRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
}

func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		w.Stop()
	})
}

func TestWatcher_DebounceAndExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	indexed := &eventRecorder{}

	w := NewWatcher([]string{dir}, []string{".txt"}, false, indexed.record, nil)
	w.debounce = 50 * time.Millisecond
	startWatcher(t, w)

	target := filepath.Join(dir, "notes.txt")
	writeFile(t, target, "first")
	writeFile(t, target, "first second")
	writeFile(t, filepath.Join(dir, "image.png"), "binary")

	time.Sleep(600 * time.Millisecond)

	got := indexed.sorted()
	if len(got) != 1 {
		t.Fatalf("expected 1 indexed path after debounce, got %d: %v", len(got), got)
	}
	if got[0] != target {
		t.Errorf("expected %s, got %s", target, got[0])
	}
}

func TestWatcher_RemoveTriggersOnRemove(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doomed.txt")
	writeFile(t, target, "contents")

	indexed := &eventRecorder{}
	removed := &eventRecorder{}

	w := NewWatcher([]string{dir}, []string{".txt"}, false, indexed.record, removed.record)
	w.debounce = 50 * time.Millisecond
	startWatcher(t, w)

	if err := os.Remove(target); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for removed.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for remove callback")
		case <-time.After(20 * time.Millisecond):
		}
	}

	got := removed.sorted()
	if got[0] != target {
		t.Errorf("expected removed path %s, got %s", target, got[0])
	}
}

func TestWatcher_RemoveCancelsPendingIndex(t *testing.T) {
	dir := t.TempDir()
	indexed := &eventRecorder{}
	removed := &eventRecorder{}

	w := NewWatcher([]string{dir}, nil, false, indexed.record, removed.record)
	w.debounce = 300 * time.Millisecond
	startWatcher(t, w)

	target := filepath.Join(dir, "transient.txt")
	writeFile(t, target, "short-lived")
	if err := os.Remove(target); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}

	time.Sleep(600 * time.Millisecond)

	if n := indexed.count(); n != 0 {
		t.Errorf("expected no index callbacks for file removed before debounce, got %d", n)
	}
	if removed.count() == 0 {
		t.Error("expected a remove callback")
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		extensions []string
		want       bool
	}{
		{"match with dot", "/docs/a.txt", []string{".txt"}, true},
		{"match without dot", "/docs/a.txt", []string{"txt"}, true},
		{"case insensitive", "/docs/REPORT.PDF", []string{".pdf"}, true},
		{"no match", "/docs/a.png", []string{".txt", ".md"}, false},
		{"empty extensions match all", "/docs/a.anything", nil, true},
		{"no extension on file", "/docs/Makefile", []string{".txt"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchExtension(tt.path, tt.extensions); got != tt.want {
				t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
			}
		})
	}
}

func TestInDir(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		path string
		want bool
	}{
		{"direct child", "/data", "/data/a.txt", true},
		{"nested child", "/data", "/data/sub/a.txt", true},
		{"sibling", "/data", "/other/a.txt", false},
		{"parent", "/data/sub", "/data", false},
		{"prefix but not child", "/data", "/database/a.txt", false},
		{"same path", "/data", "/data", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inDir(tt.dir, tt.path); got != tt.want {
				t.Errorf("inDir(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
			}
		})
	}
}

func TestWatcher_SyncExistingFiles(t *testing.T) {
	dir := t.TempDir()
	mkdirAll(t, filepath.Join(dir, "sub"))
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "sub", "b.txt"), "b")
	writeFile(t, filepath.Join(dir, "skip.png"), "binary")

	indexed := &eventRecorder{}
	w := NewWatcher([]string{dir}, []string{".txt"}, true, indexed.record, nil)
	startWatcher(t, w)

	w.SyncExistingFiles()

	got := indexed.sorted()
	want := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "sub", "b.txt"),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d indexed paths, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("indexed[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestWatcher_StartCreatesMissingRootDirectory(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "not-yet-created")

	w := NewWatcher([]string{root}, nil, false, func(string) {}, nil)
	startWatcher(t, w)

	info, err := os.Stat(root)
	if err != nil {
		t.Fatalf("expected root to be created: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected created root to be a directory")
	}
}

func TestWatcher_HandleNewDirectoryIndexesContents(t *testing.T) {
	dir := t.TempDir()
	staging := t.TempDir()

	mkdirAll(t, filepath.Join(staging, "batch"))
	writeFile(t, filepath.Join(staging, "batch", "one.txt"), "one")
	writeFile(t, filepath.Join(staging, "batch", "two.txt"), "two")

	indexed := &eventRecorder{}
	w := NewWatcher([]string{dir}, []string{".txt"}, true, indexed.record, nil)
	w.debounce = 50 * time.Millisecond
	startWatcher(t, w)

	// Moving a populated directory in produces a single create event for
	// the directory itself.
	if err := os.Rename(filepath.Join(staging, "batch"), filepath.Join(dir, "batch")); err != nil {
		t.Fatalf("failed to move directory: %v", err)
	}

	time.Sleep(800 * time.Millisecond)

	got := indexed.sorted()
	want := []string{
		filepath.Join(dir, "batch", "one.txt"),
		filepath.Join(dir, "batch", "two.txt"),
	}
	if len(got) < len(want) {
		t.Fatalf("expected at least %d indexed paths, got %d: %v", len(want), len(got), got)
	}
	seen := make(map[string]bool, len(got))
	for _, p := range got {
		seen[p] = true
	}
	for _, p := range want {
		if !seen[p] {
			t.Errorf("expected %s to be indexed", p)
		}
	}
}

func TestWatcher_NewDirectoryWatchedForLaterWrites(t *testing.T) {
	dir := t.TempDir()
	indexed := &eventRecorder{}

	w := NewWatcher([]string{dir}, []string{".txt"}, true, indexed.record, nil)
	w.debounce = 50 * time.Millisecond
	startWatcher(t, w)

	sub := filepath.Join(dir, "later")
	mkdirAll(t, sub)
	// Give the watcher a moment to register the new directory.
	time.Sleep(200 * time.Millisecond)

	writeFile(t, filepath.Join(sub, "fresh.txt"), "fresh")
	time.Sleep(800 * time.Millisecond)

	got := indexed.sorted()
	found := false
	for _, p := range got {
		if p == filepath.Join(sub, "fresh.txt") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected write in new subdirectory to be indexed, got %v", got)
	}
}

func TestWatcher_Directories(t *testing.T) {
	roots := []string{"/a", "/b"}
	w := NewWatcher(roots, nil, false, nil, nil)

	got := w.Directories()
	if len(got) != 2 || got[0] != "/a" || got[1] != "/b" {
		t.Fatalf("unexpected directories: %v", got)
	}

	got[0] = "/mutated"
	if w.Directories()[0] != "/a" {
		t.Error("Directories should return a copy")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher([]string{dir}, nil, false, nil, nil)
	startWatcher(t, w)

	w.Stop()
	w.Stop()
}
