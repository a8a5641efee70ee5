// Package fswatcher polls a file system for changes of selected files.
package fswatcher

import "fmt"

// Event represents a single file system notification
type Event struct {
	Name    string // Path to the file
	NewPath string // new path after rename operation
	Op      Op     // File operation that triggered the event.
}

func (e Event) String() string {
	if e.Op == Rename {
		return fmt.Sprintf("%s %s -> %s", e.Op, e.Name, e.NewPath)
	}
	return fmt.Sprintf("%s %s", e.Op, e.Name)
}

// Op describes a type of event
type Op uint32

// Operations
const (
	Create Op = 1 << iota
	Write
	Remove
	Rename
)

func (op Op) String() string {
	switch op {
	case Create:
		return "CREATE"
	case Write:
		return "WRITE"
	case Remove:
		return "REMOVE"
	case Rename:
		return "RENAME"
	}
	return "?"
}
