package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	changed []string
	removed []string
}

func (r *recorder) onChange(path string) {
	r.mu.Lock()
	r.changed = append(r.changed, path)
	r.mu.Unlock()
}

func (r *recorder) onRemove(path string) {
	r.mu.Lock()
	r.removed = append(r.removed, path)
	r.mu.Unlock()
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changed), len(r.removed)
}

func TestWatcher_DebounceAndExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w := New(dir, []string{".tmpl"}, rec.onChange, rec.onRemove, WithDebounce(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "advice.tmpl")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("v"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(500 * time.Millisecond)

	changed, _ := rec.counts()
	if changed != 1 {
		t.Errorf("expected one debounced change callback, got %d (%v)", changed, rec.changed)
	}
}

func TestWatcher_Remove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.tmpl")
	if err := os.WriteFile(path, []byte("v"), 0600); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	w := New(dir, []string{".tmpl"}, rec.onChange, rec.onRemove, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if _, removed := rec.counts(); removed != 1 {
		t.Errorf("expected one remove callback, got %d", removed)
	}
}

func TestWatcher_Start_missingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), nil, nil, nil)
	if err := w.Start(context.Background()); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w := New(t.TempDir(), nil, nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.tmpl", []string{".tmpl"}, true},
		{"/a/b.TMPL", []string{"tmpl"}, true},
		{"/a/b.md", []string{".tmpl"}, false},
		{"/a/b", nil, true},
		{"/a/b", []string{}, true},
	}
	for _, tt := range tests {
		got := matchExtension(tt.path, tt.extensions)
		if got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}
