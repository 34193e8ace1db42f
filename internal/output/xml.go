package output

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/temirov/lstree/internal/render"
	"github.com/temirov/lstree/internal/types"
)

const (
	xmlRootElement   = "tree"
	xmlErrorElement  = "error"
	xmlReportElement = "report"
)

type xmlReport struct {
	XMLName     xml.Name `xml:"report"`
	Directories int      `xml:"directories"`
	Files       int      `xml:"files"`
	Size        int64    `xml:"size"`
}

// XML writes a <tree> document with nested <directory> and <file> elements.
type XML struct {
	writer  io.Writer
	options Options
	encoder *xml.Encoder
	open    []xml.StartElement
}

// NewXML returns an XML backend.
func NewXML(writer io.Writer, options Options) *XML {
	encoder := xml.NewEncoder(writer)
	encoder.Indent(indentPrefix, indentSpacer)
	return &XML{writer: writer, options: options, encoder: encoder}
}

func (backend *XML) Intro() error {
	if _, err := io.WriteString(backend.writer, xml.Header); err != nil {
		return err
	}
	return backend.push(xml.StartElement{Name: xml.Name{Local: xmlRootElement}})
}

func (backend *XML) PrintInfo(entry *types.Entry, _ render.Cursor) (render.Decision, error) {
	if entry.Elided {
		return render.Skip, nil
	}
	return render.Descend, nil
}

func (backend *XML) PrintFile(entry *types.Entry, cursor render.Cursor, _ bool) error {
	start := xml.StartElement{Name: xml.Name{Local: entry.NodeType()}}
	start.Attr = backend.attributes(entry, cursor)
	return backend.push(start)
}

func (backend *XML) Error(_ *types.Entry, _ render.Cursor, message string) error {
	return backend.encoder.EncodeElement(message, xml.StartElement{Name: xml.Name{Local: xmlErrorElement}})
}

// Newline closes leaf elements; directories stay open until Close.
func (backend *XML) Newline(_ *types.Entry, _ render.Cursor, postDir bool, _ bool) error {
	if postDir {
		return nil
	}
	return backend.pop()
}

func (backend *XML) Close(*types.Entry, render.Cursor, bool) error {
	return backend.pop()
}

func (backend *XML) Report(totals types.Totals) error {
	if backend.options.NoReport {
		return nil
	}
	return backend.encoder.Encode(xmlReport{Directories: totals.Directories, Files: totals.Files, Size: totals.Size})
}

func (backend *XML) Outtro() error {
	for len(backend.open) > 0 {
		if err := backend.pop(); err != nil {
			return err
		}
	}
	if err := backend.encoder.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(backend.writer, "\n")
	return err
}

func (backend *XML) push(start xml.StartElement) error {
	if err := backend.encoder.EncodeToken(start); err != nil {
		return err
	}
	backend.open = append(backend.open, start)
	return nil
}

func (backend *XML) pop() error {
	if len(backend.open) == 0 {
		return nil
	}
	start := backend.open[len(backend.open)-1]
	backend.open = backend.open[:len(backend.open)-1]
	return backend.encoder.EncodeToken(start.End())
}

func (backend *XML) attributes(entry *types.Entry, cursor render.Cursor) []xml.Attr {
	attributes := []xml.Attr{xmlAttribute("name", displayName(entry, cursor, backend.options))}
	if entry.IsLink() && entry.LinkTarget != "" {
		attributes = append(attributes, xmlAttribute("target", entry.LinkTarget))
	}
	if entry.Err == "" {
		if backend.options.ShowInode {
			attributes = append(attributes, xmlAttribute("inode", strconv.FormatUint(entry.Inode, 10)))
		}
		if backend.options.ShowDevice {
			attributes = append(attributes, xmlAttribute("dev", strconv.FormatUint(entry.Device, 10)))
		}
		if backend.options.ShowPerms {
			attributes = append(attributes,
				xmlAttribute("mode", octalMode(entry.Mode)),
				xmlAttribute("prot", permissionString(entry.Mode)),
			)
		}
		if backend.options.ShowUser {
			attributes = append(attributes, xmlAttribute("user", strconv.FormatUint(uint64(entry.UID), 10)))
		}
		if backend.options.ShowGroup {
			attributes = append(attributes, xmlAttribute("group", strconv.FormatUint(uint64(entry.GID), 10)))
		}
		if backend.options.ShowSize {
			attributes = append(attributes, xmlAttribute("size", strconv.FormatInt(entry.Size, 10)))
		}
		if backend.options.ShowDate {
			attributes = append(attributes, xmlAttribute("time", dateString(entry, backend.options)))
		}
	}
	if entry.Tag != "" {
		attributes = append(attributes, xmlAttribute("tag", entry.Tag))
	}
	return attributes
}

func xmlAttribute(name string, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}
