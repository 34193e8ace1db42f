// Package walk lists directories into entries, either all at once into a
// tree arena or one directory level at a time.
package walk

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/lstree/internal/filter"
	"github.com/temirov/lstree/internal/inode"
	"github.com/temirov/lstree/internal/sorting"
	"github.com/temirov/lstree/internal/types"
)

const (
	hiddenPrefix = "."

	errorRootStatFormat = "stat root %s: %w"
	errorRootOpenFormat = "open root %s: %w"
	fileLimitTagFormat  = "%d entries exceeds filelimit, not opening dir"
)

// Options configures a traversal.
type Options struct {
	// MaxDepth bounds expansion: levels 0..MaxDepth-1 are expanded. Zero or
	// negative means unbounded.
	MaxDepth        int
	Sort            sorting.Strategy
	FollowSymlinks  bool
	IncludeHidden   bool
	DirsOnly        bool
	FiltersEnabled  bool
	IgnoreFileNames []string
	IgnorePatterns  []string
	IncludePatterns []string
	IgnoreCase      bool
	FileLimit       int
	// Warn receives problems that do not stop the traversal.
	Warn func(path string, warning error)
}

// frame remembers how many filter scopes a directory pushed.
type frame struct {
	directory *types.Entry
	scopes    int
}

// traversal owns the per-pass state shared by both modes.
type traversal struct {
	options  Options
	registry *inode.Registry
	filters  *filter.Stack
	includes filter.IncludeSet
	base     []filter.Rule
}

func newTraversal(options Options) *traversal {
	if options.Warn == nil {
		options.Warn = func(string, error) {}
	}
	var baseRules []filter.Rule
	for _, pattern := range options.IgnorePatterns {
		if rule, ok := filter.ParseRule(pattern); ok {
			baseRules = append(baseRules, rule)
		}
	}
	return &traversal{
		options:  options,
		registry: inode.NewRegistry(),
		filters:  filter.NewStack(options.IgnoreCase),
		includes: filter.NewIncludeSet(options.IncludePatterns, options.IgnoreCase),
		base:     baseRules,
	}
}

// rootEntries describes every root and checks that root directories can be
// opened, so failures surface before anything is rendered.
func rootEntries(roots []types.ValidatedPath) ([]*types.Entry, error) {
	entries := make([]*types.Entry, 0, len(roots))
	for _, root := range roots {
		entry, describeError := describe(root.AbsolutePath, root.DisplayPath)
		if describeError != nil {
			return nil, fmt.Errorf(errorRootStatFormat, root.DisplayPath, describeError)
		}
		if entry.IsDir {
			if probeError := probeDirectory(root.AbsolutePath); probeError != nil {
				return nil, fmt.Errorf(errorRootOpenFormat, root.DisplayPath, probeError)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func probeDirectory(path string) error {
	directoryHandle, openError := os.Open(path)
	if openError != nil {
		return openError
	}
	defer directoryHandle.Close()
	_, readError := directoryHandle.ReadDir(1)
	if readError != nil && !errors.Is(readError, io.EOF) {
		return readError
	}
	return nil
}

// enter lists the children of directory at level. The returned frame must be
// passed to leave once the children have been emitted.
func (walker *traversal) enter(directory *types.Entry, level int) ([]*types.Entry, bool, frame) {
	current := frame{directory: directory}
	if !directory.IsDir || directory.Err != "" || directory.Loop {
		return nil, false, current
	}
	if !walker.expandable(directory, level) {
		return nil, false, current
	}
	if !walker.claim(directory) {
		return nil, false, current
	}
	if level == 0 && len(walker.base) > 0 {
		walker.filters.Push(filter.NewScope(directory.Path, walker.base, nil))
		current.scopes++
	}

	if walker.options.FiltersEnabled {
		scope, loadError := filter.LoadScope(directory.Path, walker.options.IgnoreFileNames, nil)
		if loadError != nil {
			walker.options.Warn(directory.Path, loadError)
		}
		if scope != nil {
			walker.filters.Push(scope)
			current.scopes++
		}
	}

	children, readError := walker.readDirectory(directory)
	if readError != nil {
		directory.Err = types.OpenDirectoryError
		walker.options.Warn(directory.Path, readError)
		return nil, true, current
	}
	walker.options.Sort.Sort(children)

	if walker.options.FileLimit > 0 && len(children) > walker.options.FileLimit {
		directory.Elided = true
		directory.Tag = fmt.Sprintf(fileLimitTagFormat, len(children))
		return nil, false, current
	}

	return children, true, current
}

// leave pops the scopes pushed by enter.
func (walker *traversal) leave(current frame) {
	for index := 0; index < current.scopes; index++ {
		walker.filters.Pop()
	}
}

// expandable reports whether a directory at level may list its children.
// Roots are always followed; deeper symlinks only when configured.
func (walker *traversal) expandable(directory *types.Entry, level int) bool {
	if walker.options.MaxDepth > 0 && level >= walker.options.MaxDepth {
		return false
	}
	if level > 0 && directory.IsLink() && !walker.options.FollowSymlinks {
		return false
	}
	return true
}

// claim records the directory in the registry right before it is expanded. It
// returns false when an earlier occurrence in pre-order already claimed it.
func (walker *traversal) claim(directory *types.Entry) bool {
	device, inodeNumber := directory.DirectoryKey()
	if device == 0 && inodeNumber == 0 {
		return true
	}
	if walker.registry.Visited(device, inodeNumber) {
		directory.Loop = true
		directory.Tag = types.LoopTag
		return false
	}
	walker.registry.Record(device, inodeNumber)
	return true
}

// readDirectory returns the surviving, unsorted children of directory.
func (walker *traversal) readDirectory(directory *types.Entry) ([]*types.Entry, error) {
	directoryHandle, openError := os.Open(directory.Path)
	if openError != nil {
		return nil, openError
	}
	directoryEntries, readError := directoryHandle.ReadDir(-1)
	directoryHandle.Close()
	if readError != nil {
		return nil, readError
	}

	children := make([]*types.Entry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		name := directoryEntry.Name()
		if !walker.options.IncludeHidden && strings.HasPrefix(name, hiddenPrefix) {
			continue
		}
		childPath := filepath.Join(directory.Path, name)
		child, describeError := describe(childPath, name)
		if describeError != nil {
			walker.options.Warn(childPath, describeError)
			child.IsDir = directoryEntry.IsDir()
			child.Err = describeError.Error()
		}
		if walker.options.DirsOnly && !child.IsDir {
			continue
		}
		if walker.filters.Excluded(childPath, name, child.IsDir) {
			continue
		}
		if !walker.includes.Allows(name, child.IsDir) {
			continue
		}
		children = append(children, child)
	}
	return children, nil
}
