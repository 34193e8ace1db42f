// Package render drives an output Backend over a listing in depth-first
// pre-order and keeps the running totals.
package render

import (
	"fmt"

	"github.com/temirov/lstree/internal/types"
)

const (
	errorIntroFormat  = "render intro: %w"
	errorEntryFormat  = "render %s: %w"
	errorReportFormat = "render report: %w"
	errorOuttroFormat = "render outtro: %w"
)

// Decision is returned by Backend.PrintInfo.
type Decision int

const (
	// Descend renders the directory's children.
	Descend Decision = iota
	// Skip omits the children; the directory itself is still counted.
	Skip
)

// Source supplies entries to the pipeline. Children is called once for every
// directory before it is printed and reports whether its children were
// listed. Release is called after the directory and everything below it has
// been emitted.
type Source interface {
	Roots() []*types.Entry
	Children(directory *types.Entry, level int) ([]*types.Entry, bool)
	Release(directory *types.Entry)
}

// Backend formats entries for one output encoding.
type Backend interface {
	Intro() error
	PrintInfo(entry *types.Entry, cursor Cursor) (Decision, error)
	PrintFile(entry *types.Entry, cursor Cursor, descend bool) error
	Error(entry *types.Entry, cursor Cursor, message string) error
	Newline(entry *types.Entry, cursor Cursor, postDir bool, needComma bool) error
	Close(entry *types.Entry, cursor Cursor, needComma bool) error
	Report(totals types.Totals) error
	Outtro() error
}

type pipeline struct {
	source  Source
	backend Backend
	totals  types.Totals
	last    []bool
	names   []string
}

// Render emits every entry of source through backend and returns the totals
// passed to Backend.Report.
func Render(source Source, backend Backend) (types.Totals, error) {
	driver := &pipeline{source: source, backend: backend}
	if introError := backend.Intro(); introError != nil {
		return driver.totals, fmt.Errorf(errorIntroFormat, introError)
	}
	if siblingsError := driver.siblings(source.Roots(), 0); siblingsError != nil {
		return driver.totals, siblingsError
	}
	if reportError := backend.Report(driver.totals); reportError != nil {
		return driver.totals, fmt.Errorf(errorReportFormat, reportError)
	}
	if outtroError := backend.Outtro(); outtroError != nil {
		return driver.totals, fmt.Errorf(errorOuttroFormat, outtroError)
	}
	return driver.totals, nil
}

func (driver *pipeline) siblings(entries []*types.Entry, level int) error {
	for index, entry := range entries {
		isLast := index == len(entries)-1
		driver.last = append(driver.last[:level], isLast)
		driver.names = append(driver.names[:level], entry.Name)
		cursor := Cursor{
			Level: level,
			Index: index,
			Count: len(entries),
			last:  driver.last[:level+1],
			names: driver.names[:level+1],
		}
		if entryError := driver.entry(entry, cursor, !isLast); entryError != nil {
			return entryError
		}
	}
	return nil
}

func (driver *pipeline) entry(entry *types.Entry, cursor Cursor, needComma bool) error {
	var (
		children []*types.Entry
		expanded bool
	)
	if entry.IsDir {
		children, expanded = driver.source.Children(entry, cursor.Level)
		defer driver.source.Release(entry)
	}
	driver.totals.Add(entry, cursor.Level == 0)

	descend := false
	if entry.IsDir {
		decision, infoError := driver.backend.PrintInfo(entry, cursor)
		if infoError != nil {
			return fmt.Errorf(errorEntryFormat, entry.Path, infoError)
		}
		descend = expanded && decision == Descend && !entry.Elided
	}
	if printError := driver.backend.PrintFile(entry, cursor, descend); printError != nil {
		return fmt.Errorf(errorEntryFormat, entry.Path, printError)
	}
	if entry.Err != "" {
		if reportError := driver.backend.Error(entry, cursor, entry.Err); reportError != nil {
			return fmt.Errorf(errorEntryFormat, entry.Path, reportError)
		}
	}
	if newlineError := driver.backend.Newline(entry, cursor, descend, needComma); newlineError != nil {
		return fmt.Errorf(errorEntryFormat, entry.Path, newlineError)
	}
	if !descend {
		return nil
	}
	if childrenError := driver.siblings(children, cursor.Level+1); childrenError != nil {
		return childrenError
	}
	if closeError := driver.backend.Close(entry, cursor, needComma); closeError != nil {
		return fmt.Errorf(errorEntryFormat, entry.Path, closeError)
	}
	return nil
}
