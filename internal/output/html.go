package output

import (
	"bufio"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/temirov/lstree/internal/render"
	"github.com/temirov/lstree/internal/types"
)

const (
	defaultHTMLTitle = "Directory Tree"

	htmlDocumentOpen = "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%TITLE%</title>\n</head>\n<body>\n<h1>%TITLE%</h1>\n"
	htmlDocumentEnd  = "</body>\n</html>\n"
	htmlTitleMarker  = "%TITLE%"
)

// HTML writes a standalone document with one nested list per directory.
type HTML struct {
	writer     *bufio.Writer
	options    Options
	listClosed bool
}

// NewHTML returns an HTML backend.
func NewHTML(writer io.Writer, options Options) *HTML {
	return &HTML{writer: bufio.NewWriter(writer), options: options}
}

func (backend *HTML) Intro() error {
	title := backend.options.Title
	if title == "" {
		title = defaultHTMLTitle
	}
	backend.writer.WriteString(strings.ReplaceAll(htmlDocumentOpen, htmlTitleMarker, html.EscapeString(title)))
	_, err := backend.writer.WriteString("<ul>\n")
	return err
}

func (backend *HTML) PrintInfo(entry *types.Entry, _ render.Cursor) (render.Decision, error) {
	if entry.Elided {
		return render.Skip, nil
	}
	return render.Descend, nil
}

func (backend *HTML) PrintFile(entry *types.Entry, cursor render.Cursor, descend bool) error {
	backend.writer.WriteString(backend.indent(cursor.Level) + "<li>")
	if block := attributeBlock(entry, backend.options); block != "" {
		backend.writer.WriteString("<code>" + html.EscapeString(strings.TrimSpace(block)) + "</code> ")
	}
	backend.writer.WriteString(backend.nameMarkup(entry, cursor))
	if entry.IsLink() && entry.LinkTarget != "" {
		backend.writer.WriteString(" &rarr; " + html.EscapeString(entry.LinkTarget))
	}
	if backend.options.Classify {
		backend.writer.WriteString(html.EscapeString(classifySuffix(entry)))
	}
	if entry.Tag != "" {
		backend.writer.WriteString(" <em>[" + html.EscapeString(entry.Tag) + "]</em>")
	}
	if descend {
		backend.writer.WriteString("\n" + backend.indent(cursor.Level+1) + "<ul>")
	}
	return nil
}

func (backend *HTML) Error(_ *types.Entry, _ render.Cursor, message string) error {
	backend.writer.WriteString(" <strong class=\"error\">[" + html.EscapeString(message) + "]</strong>")
	return nil
}

func (backend *HTML) Newline(_ *types.Entry, _ render.Cursor, postDir bool, _ bool) error {
	if !postDir {
		backend.writer.WriteString("</li>")
	}
	_, err := backend.writer.WriteString("\n")
	return err
}

func (backend *HTML) Close(_ *types.Entry, cursor render.Cursor, _ bool) error {
	_, err := backend.writer.WriteString(backend.indent(cursor.Level+1) + "</ul>\n" + backend.indent(cursor.Level) + "</li>\n")
	return err
}

func (backend *HTML) Report(totals types.Totals) error {
	backend.closeList()
	if backend.options.NoReport {
		return nil
	}
	_, err := backend.writer.WriteString("<hr>\n<p>" + html.EscapeString(reportLine(totals, backend.options)) + "</p>\n")
	return err
}

func (backend *HTML) Outtro() error {
	backend.closeList()
	backend.writer.WriteString(htmlDocumentEnd)
	return backend.writer.Flush()
}

func (backend *HTML) closeList() {
	if backend.listClosed {
		return
	}
	backend.listClosed = true
	backend.writer.WriteString("</ul>\n")
}

func (backend *HTML) indent(level int) string {
	if backend.options.NoIndent {
		return ""
	}
	return strings.Repeat(indentSpacer, level+1)
}

// nameMarkup returns the escaped name, linked below BaseHREF when set.
func (backend *HTML) nameMarkup(entry *types.Entry, cursor render.Cursor) string {
	name := html.EscapeString(displayName(entry, cursor, backend.options))
	if backend.options.BaseHREF == "" {
		return name
	}
	href := strings.TrimSuffix(backend.options.BaseHREF, pathSeparator) + pathSeparator
	if relativePath := cursor.RelativePath(); relativePath != "" {
		segments := strings.Split(relativePath, pathSeparator)
		for index, segment := range segments {
			segments[index] = url.PathEscape(segment)
		}
		href += strings.Join(segments, pathSeparator)
		if entry.IsDir {
			href += pathSeparator
		}
	}
	return "<a href=\"" + html.EscapeString(href) + "\">" + name + "</a>"
}
