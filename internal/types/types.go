// Package types defines every cross‑package data structure used by the lstree CLI.
package types

import (
	"io/fs"
	"time"
)

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
	NodeTypeReport    = "report"

	FormatPlain = "plain"
	FormatHTML  = "html"
	FormatXML   = "xml"
	FormatJSON  = "json"

	// LoopTag annotates a directory that was already expanded through another path.
	LoopTag = "recursive, not followed"
	// OpenDirectoryError is reported for directories that cannot be read.
	OpenDirectoryError = "error opening dir"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	DisplayPath  string
	AbsolutePath string
	IsDir        bool
}

// Entry is one filesystem object of a listing.
type Entry struct {
	Name       string
	Path       string
	LinkTarget string

	IsDir        bool
	IsSocket     bool
	IsFifo       bool
	IsExecutable bool
	IsOrphanLink bool
	Loop         bool
	Elided       bool

	Mode     fs.FileMode
	LinkMode fs.FileMode
	UID      uint32
	GID      uint32
	Size     int64

	AccessTime time.Time
	ChangeTime time.Time
	ModifyTime time.Time

	Device     uint64
	Inode      uint64
	LinkDevice uint64
	LinkInode  uint64

	Err string
	Tag string
}

// IsLink reports whether the entry is a symbolic link.
func (entry *Entry) IsLink() bool {
	return entry.Mode&fs.ModeSymlink != 0
}

// DirectoryKey returns the device and inode identifying the directory the entry resolves to.
func (entry *Entry) DirectoryKey() (uint64, uint64) {
	if entry.IsLink() {
		return entry.LinkDevice, entry.LinkInode
	}
	return entry.Device, entry.Inode
}

// NodeType returns the element name used by structured output formats.
func (entry *Entry) NodeType() string {
	if entry.IsDir {
		return NodeTypeDirectory
	}
	return NodeTypeFile
}

// Totals is the running summary of a render pass.
type Totals struct {
	Directories int   `json:"directories" xml:"directories"`
	Files       int   `json:"files" xml:"files"`
	Size        int64 `json:"bytes" xml:"size"`
}

// Add accumulates one rendered entry. Roots are not counted as directories.
func (totals *Totals) Add(entry *Entry, isRoot bool) {
	if entry.IsDir {
		if !isRoot {
			totals.Directories++
		}
		return
	}
	totals.Files++
	totals.Size += entry.Size
}
