package render

import (
	"strings"
)

// Cursor locates an entry among its siblings and ancestors. A Cursor is only
// valid for the duration of the callback it was passed to.
type Cursor struct {
	Level int
	Index int
	Count int
	last  []bool
	names []string
}

// IsLast reports whether the entry is the last surviving sibling.
func (cursor Cursor) IsLast() bool {
	return cursor.Index == cursor.Count-1
}

// LastAt reports whether the ancestor at level (or the entry itself when level
// equals Level) is the last of its siblings.
func (cursor Cursor) LastAt(level int) bool {
	if level < 0 || level >= len(cursor.last) {
		return false
	}
	return cursor.last[level]
}

// DisplayPath joins the names from the root down to the entry. The root keeps
// the spelling it was given on the command line.
func (cursor Cursor) DisplayPath() string {
	var builder strings.Builder
	for index, name := range cursor.names {
		if index > 0 && !strings.HasSuffix(builder.String(), pathSeparator) {
			builder.WriteString(pathSeparator)
		}
		builder.WriteString(name)
	}
	return builder.String()
}

// RelativePath joins the names below the root, or returns "" for a root.
func (cursor Cursor) RelativePath() string {
	if len(cursor.names) < 2 {
		return ""
	}
	return strings.Join(cursor.names[1:], pathSeparator)
}

const pathSeparator = "/"
