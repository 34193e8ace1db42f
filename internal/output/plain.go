package output

import (
	"bufio"
	"io"

	"github.com/fatih/color"

	"github.com/temirov/lstree/internal/render"
	"github.com/temirov/lstree/internal/types"
)

type connectorSet struct {
	branch    string
	last      string
	branchPad string
	lastPad   string
	linkArrow string
	tagOpen   string
	tagClose  string
}

var (
	utf8Connectors = connectorSet{
		branch:    "├── ",
		last:      "└── ",
		branchPad: "│   ",
		lastPad:   "    ",
		linkArrow: " -> ",
		tagOpen:   "  [",
		tagClose:  "]",
	}
	asciiConnectors = connectorSet{
		branch:    "|-- ",
		last:      "`-- ",
		branchPad: "|   ",
		lastPad:   "    ",
		linkArrow: " -> ",
		tagOpen:   "  [",
		tagClose:  "]",
	}
)

// palette colors names by entry kind.
type palette struct {
	directory  *color.Color
	link       *color.Color
	orphan     *color.Color
	executable *color.Color
	socket     *color.Color
	fifo       *color.Color
	errorText  *color.Color
}

func newPalette() *palette {
	scheme := &palette{
		directory:  color.New(color.FgBlue, color.Bold),
		link:       color.New(color.FgCyan, color.Bold),
		orphan:     color.New(color.FgRed, color.Bold),
		executable: color.New(color.FgGreen, color.Bold),
		socket:     color.New(color.FgMagenta, color.Bold),
		fifo:       color.New(color.FgYellow),
		errorText:  color.New(color.FgRed),
	}
	for _, selected := range []*color.Color{scheme.directory, scheme.link, scheme.orphan, scheme.executable, scheme.socket, scheme.fifo, scheme.errorText} {
		selected.EnableColor()
	}
	return scheme
}

// paint returns name colored for the kind of entry, or name unchanged.
func (scheme *palette) paint(entry *types.Entry, name string) string {
	if scheme == nil {
		return name
	}
	switch {
	case entry.IsOrphanLink:
		return scheme.orphan.Sprint(name)
	case entry.IsLink():
		return scheme.link.Sprint(name)
	case entry.IsDir:
		return scheme.directory.Sprint(name)
	case entry.IsSocket:
		return scheme.socket.Sprint(name)
	case entry.IsFifo:
		return scheme.fifo.Sprint(name)
	case entry.IsExecutable:
		return scheme.executable.Sprint(name)
	}
	return name
}

// paintTarget colors a link target by what it resolves to.
func (scheme *palette) paintTarget(entry *types.Entry) string {
	if scheme == nil || entry.IsOrphanLink {
		return entry.LinkTarget
	}
	resolved := *entry
	resolved.Mode = entry.LinkMode
	return scheme.paint(&resolved, entry.LinkTarget)
}

func (scheme *palette) paintError(message string) string {
	if scheme == nil {
		return message
	}
	return scheme.errorText.Sprint(message)
}

// Plain writes the classic indented tree.
type Plain struct {
	writer     *bufio.Writer
	options    Options
	connectors connectorSet
	colors     *palette
}

// NewPlain returns a plain-text backend.
func NewPlain(writer io.Writer, options Options) *Plain {
	backend := &Plain{writer: bufio.NewWriter(writer), options: options, connectors: utf8Connectors}
	if options.Charset == CharsetASCII {
		backend.connectors = asciiConnectors
	}
	if options.Color {
		backend.colors = newPalette()
	}
	return backend
}

func (backend *Plain) Intro() error {
	return nil
}

// PrintInfo writes the indentation and attribute block of a directory.
func (backend *Plain) PrintInfo(entry *types.Entry, cursor render.Cursor) (render.Decision, error) {
	backend.writeLead(entry, cursor)
	if entry.Elided {
		return render.Skip, nil
	}
	return render.Descend, nil
}

func (backend *Plain) PrintFile(entry *types.Entry, cursor render.Cursor, _ bool) error {
	if !entry.IsDir {
		backend.writeLead(entry, cursor)
	}
	backend.writer.WriteString(backend.colors.paint(entry, displayName(entry, cursor, backend.options)))
	if entry.IsLink() && entry.LinkTarget != "" {
		backend.writer.WriteString(backend.connectors.linkArrow)
		backend.writer.WriteString(backend.colors.paintTarget(entry))
	}
	if backend.options.Classify {
		backend.writer.WriteString(classifySuffix(entry))
	}
	if entry.Tag != "" {
		backend.writer.WriteString(backend.connectors.tagOpen + entry.Tag + backend.connectors.tagClose)
	}
	return nil
}

func (backend *Plain) Error(_ *types.Entry, _ render.Cursor, message string) error {
	backend.writer.WriteString(backend.connectors.tagOpen + backend.colors.paintError(message) + backend.connectors.tagClose)
	return nil
}

func (backend *Plain) Newline(*types.Entry, render.Cursor, bool, bool) error {
	_, writeError := backend.writer.WriteString("\n")
	return writeError
}

func (backend *Plain) Close(*types.Entry, render.Cursor, bool) error {
	return nil
}

func (backend *Plain) Report(totals types.Totals) error {
	if backend.options.NoReport {
		return nil
	}
	backend.writer.WriteString("\n" + reportLine(totals, backend.options) + "\n")
	return nil
}

func (backend *Plain) Outtro() error {
	return backend.writer.Flush()
}

// writeLead writes the connectors for cursor followed by the attribute block.
func (backend *Plain) writeLead(entry *types.Entry, cursor render.Cursor) {
	if !backend.options.NoIndent && cursor.Level > 0 {
		for level := 1; level < cursor.Level; level++ {
			if cursor.LastAt(level) {
				backend.writer.WriteString(backend.connectors.lastPad)
			} else {
				backend.writer.WriteString(backend.connectors.branchPad)
			}
		}
		if cursor.IsLast() {
			backend.writer.WriteString(backend.connectors.last)
		} else {
			backend.writer.WriteString(backend.connectors.branch)
		}
	}
	backend.writer.WriteString(attributeBlock(entry, backend.options))
}
