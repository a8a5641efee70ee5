package fswatcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

const MinInterval = time.Millisecond * 20

// Poller watches files under a directory of a file system by comparing
// snapshots of their FileInfo.
type Poller struct {
	fsys fs.FS
	root string // directory inside fsys
	// match selects watched files, directories are always walked
	match      func(name string) bool
	shouldSkip func(d fs.DirEntry) bool

	files   map[string]fs.FileInfo
	running bool
	mu      *sync.Mutex
}

// NewPoller creates a poller for files under root matching match.
func NewPoller(fsys fs.FS, root string, match func(name string) bool) *Poller {
	if root == "" {
		root = "."
	}
	return &Poller{
		fsys:       fsys,
		root:       root,
		match:      match,
		shouldSkip: skipHidden,
		files:      map[string]fs.FileInfo{},
		mu:         new(sync.Mutex),
	}
}

// skipHidden skips dot directories
func skipHidden(d fs.DirEntry) bool {
	return d.IsDir() && d.Name() != "." && strings.HasPrefix(d.Name(), ".")
}

// AddShouldSkipHook sets a function that excludes directories or files
// from the walk.
func (p *Poller) AddShouldSkipHook(fn func(d fs.DirEntry) bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shouldSkip = fn
}

// list walks the root and returns FileInfo of matching files
func (p *Poller) list() (map[string]fs.FileInfo, error) {
	files := map[string]fs.FileInfo{}
	err := fs.WalkDir(p.fsys, p.root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			if name != p.root && errors.Is(err, fs.ErrNotExist) {
				// removed while walking
				return nil
			}
			return err
		}
		if p.shouldSkip != nil && p.shouldSkip(d) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || (p.match != nil && !p.match(name)) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files[name] = info
		return nil
	})
	return files, err
}

// Snapshot lists the watched files and remembers them as the state later
// scans are compared to.
func (p *Poller) Snapshot() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	files, err := p.list()
	if err != nil {
		return nil, err
	}
	p.files = files
	return sortedNames(files), nil
}

// Files returns the names of the known files
func (p *Poller) Files() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return sortedNames(p.files)
}

// Scan compares the file system with the last snapshot and returns the
// changes. Removed files that reappear under another name are reported
// as renames.
func (p *Poller) Scan() ([]Event, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, err := p.list()
	if err != nil {
		return nil, err
	}

	events := []Event{}
	added := map[string]fs.FileInfo{}
	for name, info := range current {
		old, existed := p.files[name]
		if !existed {
			added[name] = info
			continue
		}
		if !old.ModTime().Equal(info.ModTime()) || old.Size() != info.Size() {
			events = append(events, Event{Op: Write, Name: name})
		}
	}

	for _, name := range sortedNames(p.files) {
		if _, ok := current[name]; ok {
			continue
		}
		if newPath := findRenamed(p.files[name], added); newPath != "" {
			delete(added, newPath)
			events = append(events, Event{Op: Rename, Name: name, NewPath: newPath})
			continue
		}
		events = append(events, Event{Op: Remove, Name: name})
	}

	for name := range added {
		events = append(events, Event{Op: Create, Name: name})
	}

	p.files = current
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Name < events[j].Name
	})
	return events, nil
}

func findRenamed(old fs.FileInfo, added map[string]fs.FileInfo) string {
	for _, name := range sortedNames(added) {
		if os.SameFile(old, added[name]) {
			return name
		}
	}
	return ""
}

// Run scans every interval and passes changes to handle until ctx is done.
func (p *Poller) Run(ctx context.Context, interval time.Duration, handle func([]Event), onError func(error)) error {
	if interval < MinInterval {
		interval = MinInterval
	}

	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return errors.New("poller is already running")
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			events, err := p.Scan()
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			if len(events) > 0 {
				handle(events)
			}
		}
	}
}

func sortedNames(files map[string]fs.FileInfo) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ext returns a matcher for files with one of the given extensions,
// case insensitive.
func Ext(extensions ...string) func(name string) bool {
	return func(name string) bool {
		ext := strings.ToLower(path.Ext(name))
		for _, e := range extensions {
			if ext == strings.ToLower(e) {
				return true
			}
		}
		return false
	}
}
