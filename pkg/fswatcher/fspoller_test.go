package fswatcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var isSource = Ext(".bb", ".bbcode")

var epoch = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

func createFS(files ...string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, name := range files {
		fsys[name] = &fstest.MapFile{Data: []byte("[b]x[/b]"), ModTime: epoch}
	}
	return fsys
}

func TestSnapshot(t *testing.T) {
	fsys := createFS(
		"notes/a.bb",
		"notes/b.BBCODE",
		"notes/c.html",
		"notes/sub/d.bb",
		"notes/.git/e.bb",
		"other/f.bb",
	)
	p := NewPoller(fsys, "notes", isSource)
	files, err := p.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []string{"notes/a.bb", "notes/b.BBCODE", "notes/sub/d.bb"}, files)
	assert.Equal(t, files, p.Files())

	t.Run("skip hook", func(t *testing.T) {
		p := NewPoller(fsys, ".", isSource)
		p.AddShouldSkipHook(func(d fs.DirEntry) bool { return d.Name() == "sub" })
		files, err := p.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, []string{"notes/.git/e.bb", "notes/a.bb", "notes/b.BBCODE", "other/f.bb"}, files)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := NewPoller(fsys, "missing", isSource).Snapshot()
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestScan(t *testing.T) {
	fsys := createFS("a.bb", "b.bb", "c.bb")
	p := NewPoller(fsys, ".", isSource)
	_, err := p.Snapshot()
	require.NoError(t, err)

	events, err := p.Scan()
	require.NoError(t, err)
	assert.Empty(t, events)

	fsys["a.bb"] = &fstest.MapFile{Data: []byte("changed"), ModTime: epoch.Add(time.Second)}
	delete(fsys, "b.bb")
	fsys["d.bb"] = &fstest.MapFile{ModTime: epoch}
	fsys["e.txt"] = &fstest.MapFile{ModTime: epoch}

	events, err = p.Scan()
	require.NoError(t, err)
	assert.Equal(t, []Event{
		{Op: Write, Name: "a.bb"},
		{Op: Remove, Name: "b.bb"},
		{Op: Create, Name: "d.bb"},
	}, events)

	events, err = p.Scan()
	require.NoError(t, err)
	assert.Empty(t, events, "changes are reported once")
}

func TestScanRename(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.bb"), []byte("x"), 0644))

	p := NewPoller(os.DirFS(dir), ".", isSource)
	_, err := p.Snapshot()
	require.NoError(t, err)

	require.NoError(t, os.Rename(filepath.Join(dir, "old.bb"), filepath.Join(dir, "new.bb")))
	events, err := p.Scan()
	require.NoError(t, err)
	assert.Equal(t, []Event{{Op: Rename, Name: "old.bb", NewPath: "new.bb"}}, events)
	assert.Equal(t, "RENAME old.bb -> new.bb", events[0].String())
}

func TestRun(t *testing.T) {
	fsys := createFS("a.bb")
	p := NewPoller(fsys, ".", isSource)
	_, err := p.Snapshot()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan []Event, 1)
	var once sync.Once
	done := make(chan error)
	go func() {
		done <- p.Run(ctx, MinInterval, func(events []Event) {
			once.Do(func() { received <- events })
		}, nil)
	}()

	// Scan walks the map under the poller lock
	p.mu.Lock()
	fsys["b.bb"] = &fstest.MapFile{ModTime: epoch}
	p.mu.Unlock()

	select {
	case events := <-received:
		assert.Equal(t, []Event{{Op: Create, Name: "b.bb"}}, events)
	case <-time.After(time.Second):
		t.Fatal("no events received")
	}

	assert.Error(t, p.Run(ctx, MinInterval, func([]Event) {}, nil), "already running")

	cancel()
	assert.NoError(t, <-done)
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "CREATE", Create.String())
	assert.Equal(t, "WRITE", Write.String())
	assert.Equal(t, "REMOVE", Remove.String())
	assert.Equal(t, "?", Op(0).String())
	assert.Equal(t, "WRITE a.bb", Event{Op: Write, Name: "a.bb"}.String())
}
