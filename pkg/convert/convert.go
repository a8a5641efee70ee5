// Package convert renders BBCode source files of a directory tree into
// HTML files next to them and keeps them up to date.
package convert

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Dahie/rbbcode/pkg/bbcode"
	"github.com/Dahie/rbbcode/pkg/fswatcher"
	"github.com/Dahie/rbbcode/pkg/log"
	"github.com/dustin/go-humanize"
)

// SourceExtensions are the extensions of BBCode files
var SourceExtensions = []string{".bb", ".bbcode"}

var ExcludedDirs = map[string]bool{"node_modules": true}

const MaxFileSize int64 = 1024 * 1024

// Stats summarizes a conversion run
type Stats struct {
	Files    int
	Bytes    uint64 // size of the written HTML
	Warnings int
	Failed   int
	Duration time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("converted %d files (%s, %d warnings, %d failed) in %s",
		s.Files, humanize.Bytes(s.Bytes), s.Warnings, s.Failed, s.Duration.Round(time.Millisecond))
}

type Converter struct {
	fileSystem  fs.FS
	root        string            // path to the root directory on disk
	Sources     map[string]string // converted sources -> their output files
	MaxFileSize int64             // larger sources are skipped
	Document    bool              // write complete HTML documents

	Watcher *fswatcher.Poller

	parser *bbcode.Parser
	log    log.Logger
	mu     *sync.Mutex
}

// New creates a converter for the sources in fileSystem, whose files are
// written below root.
func New(fileSystem fs.FS, root string, parser *bbcode.Parser, logger log.Logger, options ...func(*Converter)) *Converter {
	if parser == nil {
		parser = bbcode.New()
	}
	if logger == nil {
		logger = log.NewEmptyLog()
	}
	c := &Converter{
		fileSystem:  fileSystem,
		root:        root,
		Sources:     map[string]string{},
		MaxFileSize: MaxFileSize,
		Watcher:     fswatcher.NewPoller(fileSystem, ".", IsSource),
		parser:      parser,
		log:         logger,
		mu:          new(sync.Mutex),
	}
	for _, option := range options {
		option(c)
	}
	c.Watcher.AddShouldSkipHook(c.shouldSkip)
	return c
}

// WithDocument makes the converter write complete HTML documents.
func WithDocument() func(*Converter) {
	return func(c *Converter) {
		c.Document = true
	}
}

func WithMaxFileSize(size int64) func(*Converter) {
	return func(c *Converter) {
		c.MaxFileSize = size
	}
}

func (c *Converter) shouldSkip(d fs.DirEntry) bool {
	name := d.Name()
	if d.IsDir() {
		if name == "." { // don't skip root folder
			return false
		}
		return strings.HasPrefix(name, ".") || ExcludedDirs[name]
	}
	if !IsSource(name) {
		return false
	}
	info, err := d.Info()
	return err == nil && info.Size() > c.MaxFileSize
}

// IsSource reports whether name has a BBCode extension
func IsSource(name string) bool {
	return fswatcher.Ext(SourceExtensions...)(name)
}

// OutputPath returns the path of the HTML file for a source file
func OutputPath(source string) string {
	return strings.TrimSuffix(source, path.Ext(source)) + ".html"
}

var writeFile = func(absPath string, data []byte) error {
	return os.WriteFile(absPath, data, 0644)
}

var removeFile = func(absPath string) error {
	err := os.Remove(absPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// ProcessFiles converts every source file below the root
func (c *Converter) ProcessFiles() (Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := time.Now()
	stats := Stats{}
	files, err := c.Watcher.Snapshot()
	if err != nil {
		return stats, err
	}
	for _, f := range files {
		c.convert(f, &stats)
	}
	stats.Duration = time.Since(t)
	return stats, nil
}

// ConvertFile converts a single source file
func (c *Converter) ConvertFile(relativePath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := Stats{}
	c.convert(relativePath, &stats)
	if stats.Failed > 0 {
		return fmt.Errorf("couldn't convert %s", relativePath)
	}
	return nil
}

func (c *Converter) convert(relativePath string, stats *Stats) {
	data, err := fs.ReadFile(c.fileSystem, relativePath)
	if err != nil {
		c.log.Error("Couldn't read file. %s", err)
		stats.Failed++
		return
	}

	res, err := c.parser.ParseResult(string(data))
	if err != nil {
		c.log.Error("Couldn't convert %s: %v", relativePath, err)
		stats.Failed++
		return
	}
	for _, w := range res.Warnings {
		c.log.Warning("%s:%s", relativePath, w)
	}

	out := []byte(res.HTML)
	if c.Document {
		out, err = Document(titleOf(relativePath), res.HTML)
		if err != nil {
			c.log.Error("Couldn't build document for %s: %v", relativePath, err)
			stats.Failed++
			return
		}
	}

	output := OutputPath(relativePath)
	for source, claimed := range c.Sources {
		if claimed == output && source != relativePath {
			c.log.Warning("%s and %s are both converted to %s", source, relativePath, output)
		}
	}
	if err := writeFile(filepath.Join(c.root, filepath.FromSlash(output)), out); err != nil {
		c.log.Error("Couldn't write %s: %v", output, err)
		stats.Failed++
		return
	}

	c.Sources[relativePath] = output
	stats.Files++
	stats.Bytes += uint64(len(out))
	stats.Warnings += len(res.Warnings)
}

// RemoveFile deletes the output of a removed source file
func (c *Converter) RemoveFile(relativePath string) {
	output, ok := c.Sources[relativePath]
	if !ok {
		return
	}
	delete(c.Sources, relativePath)
	if err := removeFile(filepath.Join(c.root, filepath.FromSlash(output))); err != nil {
		c.log.Error("Couldn't remove %s: %v", output, err)
		return
	}
	c.log.Info("Removed file: %s", output)
}

// MoveFile moves the output of a renamed source file
func (c *Converter) MoveFile(oldPath, newPath string) {
	c.RemoveFile(oldPath)
	stats := Stats{}
	c.convert(newPath, &stats)
	if stats.Failed == 0 {
		c.log.Info("File moved: %s -> %s", oldPath, newPath)
	}
}

// HandleEvents updates output files after changes of the sources
func (c *Converter) HandleEvents(events []fswatcher.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, event := range events {
		switch event.Op {
		case fswatcher.Create, fswatcher.Write:
			stats := Stats{}
			c.convert(event.Name, &stats)
			if stats.Failed == 0 {
				c.log.Info("Converted: %s -> %s", event.Name, OutputPath(event.Name))
			}
		case fswatcher.Remove:
			c.RemoveFile(event.Name)
		case fswatcher.Rename:
			c.MoveFile(event.Name, event.NewPath)
		}
	}
}

// Watch converts changed sources until ctx is done.
func (c *Converter) Watch(ctx context.Context, interval time.Duration) error {
	return c.Watcher.Run(ctx, interval, c.HandleEvents, func(err error) {
		c.log.Error("%s", err)
	})
}

func titleOf(relativePath string) string {
	return strings.TrimSuffix(path.Base(relativePath), path.Ext(relativePath))
}
