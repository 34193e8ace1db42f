package output

import (
	"fmt"
	"io"

	"github.com/temirov/lstree/internal/render"
	"github.com/temirov/lstree/internal/types"
)

const (
	// CharsetUTF8 draws connectors with box-drawing characters.
	CharsetUTF8 = "utf8"
	// CharsetASCII draws connectors with plain ASCII.
	CharsetASCII = "ascii"

	// DefaultTimeFormat is the layout used for --date when none is configured.
	DefaultTimeFormat = "Jan _2 15:04"

	indentPrefix  = ""
	indentSpacer  = "  "
	pathSeparator = "/"

	errorUnknownFormat = "unsupported output format %q"
)

// Options controls what every backend prints for an entry.
type Options struct {
	FullPath   bool
	NoIndent   bool
	Charset    string
	ShowSize   bool
	HumanSize  bool
	ShowPerms  bool
	ShowUser   bool
	ShowGroup  bool
	ShowDate   bool
	ShowInode  bool
	ShowDevice bool
	Classify   bool
	Color      bool
	NoReport   bool
	ReportSize bool
	DirsOnly   bool
	Title      string
	BaseHREF   string
	TimeFormat string
}

// New returns the backend for format writing to writer.
func New(format string, writer io.Writer, options Options) (render.Backend, error) {
	if options.TimeFormat == "" {
		options.TimeFormat = DefaultTimeFormat
	}
	switch format {
	case types.FormatPlain, "":
		return NewPlain(writer, options), nil
	case types.FormatHTML:
		return NewHTML(writer, options), nil
	case types.FormatXML:
		return NewXML(writer, options), nil
	case types.FormatJSON:
		return NewJSON(writer, options), nil
	}
	return nil, fmt.Errorf(errorUnknownFormat, format)
}
