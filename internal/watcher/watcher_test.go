package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		op   fsnotify.Op
		want bool
	}{
		{"tasks/a1-fix.md", fsnotify.Write, true},
		{"tasks/a1-fix.md", fsnotify.Remove, true},
		{"config.yml", fsnotify.Create, true},
		{"tasks/a1-fix.md", fsnotify.Chmod, false},
		{"tasks/.task-123", fsnotify.Create, false},
		{"activity.jsonl", fsnotify.Write, false},
	}
	for _, tt := range tests {
		if got := relevant(fsnotify.Event{Name: tt.name, Op: tt.op}); got != tt.want {
			t.Errorf("relevant(%s %s) = %v, want %v", tt.name, tt.op, got, tt.want)
		}
	}
}

func TestWatcherDebouncesChanges(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	fired := make(chan struct{}, 10)
	w, err := New([]string{dir}, func() {
		calls.Add(1)
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	w.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, func(err error) { t.Errorf("watch error: %v", err) })

	for i := range 3 {
		name := filepath.Join(dir, "t"+string(rune('a'+i))+".md")
		if err := os.WriteFile(name, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("callback not invoked")
	}

	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("callback invoked %d times, want 1", n)
	}
}
