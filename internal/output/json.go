package output

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/temirov/lstree/internal/render"
	"github.com/temirov/lstree/internal/types"
)

const jsonIndentUnit = "  "

type jsonField struct {
	key   string
	value string
}

// JSON writes one array holding a tree object per root and a trailing report
// object that always carries the directory, file and byte totals. Objects are written by hand so entries can be emitted as they
// arrive.
type JSON struct {
	writer        *bufio.Writer
	options       Options
	containerOpen bool
	started       bool
}

// NewJSON returns a JSON backend.
func NewJSON(writer io.Writer, options Options) *JSON {
	return &JSON{writer: bufio.NewWriter(writer), options: options}
}

func (backend *JSON) Intro() error {
	_, writeError := backend.writer.WriteString("[")
	return writeError
}

func (backend *JSON) PrintInfo(entry *types.Entry, _ render.Cursor) (render.Decision, error) {
	if entry.Elided {
		return render.Skip, nil
	}
	return render.Descend, nil
}

// PrintFile opens the entry's object. Leaf objects stay open so Error can add
// a field; Newline closes them.
func (backend *JSON) PrintFile(entry *types.Entry, cursor render.Cursor, descend bool) error {
	backend.started = true
	backend.writer.WriteString("\n" + strings.Repeat(jsonIndentUnit, cursor.Level+1) + "{")
	for index, field := range backend.fields(entry, cursor) {
		if index > 0 {
			backend.writer.WriteString(",")
		}
		backend.writer.WriteString(encodeJSONString(field.key) + ":" + field.value)
	}
	backend.containerOpen = descend
	if descend {
		backend.writer.WriteString(`,"contents":[`)
	}
	return nil
}

func (backend *JSON) Error(_ *types.Entry, cursor render.Cursor, message string) error {
	if backend.containerOpen {
		backend.writer.WriteString("\n" + strings.Repeat(jsonIndentUnit, cursor.Level+2) + `{"error":` + encodeJSONString(message) + "}")
		return nil
	}
	backend.writer.WriteString(`,"error":` + encodeJSONString(message))
	return nil
}

func (backend *JSON) Newline(_ *types.Entry, _ render.Cursor, postDir bool, needComma bool) error {
	if postDir {
		return nil
	}
	backend.writer.WriteString("}")
	if needComma {
		backend.writer.WriteString(",")
	}
	return nil
}

func (backend *JSON) Close(_ *types.Entry, cursor render.Cursor, needComma bool) error {
	backend.writer.WriteString("\n" + strings.Repeat(jsonIndentUnit, cursor.Level+1) + "]}")
	if needComma {
		backend.writer.WriteString(",")
	}
	return nil
}

func (backend *JSON) Report(totals types.Totals) error {
	if backend.options.NoReport {
		return nil
	}
	fields := []jsonField{
		{key: "type", value: encodeJSONString(types.NodeTypeReport)},
		{key: "directories", value: strconv.Itoa(totals.Directories)},
		{key: "files", value: strconv.Itoa(totals.Files)},
		{key: "bytes", value: strconv.FormatInt(totals.Size, 10)},
	}
	if backend.started {
		backend.writer.WriteString(",")
	}
	backend.writer.WriteString("\n" + jsonIndentUnit + "{")
	for index, field := range fields {
		if index > 0 {
			backend.writer.WriteString(",")
		}
		backend.writer.WriteString(encodeJSONString(field.key) + ":" + field.value)
	}
	backend.writer.WriteString("}")
	return nil
}

func (backend *JSON) Outtro() error {
	backend.writer.WriteString("\n]\n")
	return backend.writer.Flush()
}

func (backend *JSON) fields(entry *types.Entry, cursor render.Cursor) []jsonField {
	fields := []jsonField{
		{key: "type", value: encodeJSONString(entry.NodeType())},
		{key: "name", value: encodeJSONString(displayName(entry, cursor, backend.options))},
	}
	if entry.IsLink() && entry.LinkTarget != "" {
		fields = append(fields, jsonField{key: "target", value: encodeJSONString(entry.LinkTarget)})
	}
	if entry.Err == "" {
		if backend.options.ShowInode {
			fields = append(fields, jsonField{key: "inode", value: strconv.FormatUint(entry.Inode, 10)})
		}
		if backend.options.ShowDevice {
			fields = append(fields, jsonField{key: "dev", value: strconv.FormatUint(entry.Device, 10)})
		}
		if backend.options.ShowPerms {
			fields = append(fields,
				jsonField{key: "mode", value: encodeJSONString(octalMode(entry.Mode))},
				jsonField{key: "prot", value: encodeJSONString(permissionString(entry.Mode))},
			)
		}
		if backend.options.ShowUser {
			fields = append(fields, jsonField{key: "user", value: encodeJSONString(strconv.FormatUint(uint64(entry.UID), 10))})
		}
		if backend.options.ShowGroup {
			fields = append(fields, jsonField{key: "group", value: encodeJSONString(strconv.FormatUint(uint64(entry.GID), 10))})
		}
		if backend.options.ShowSize {
			fields = append(fields, jsonField{key: "size", value: strconv.FormatInt(entry.Size, 10)})
		}
		if backend.options.ShowDate {
			fields = append(fields, jsonField{key: "time", value: encodeJSONString(dateString(entry, backend.options))})
		}
	}
	if entry.Tag != "" {
		fields = append(fields, jsonField{key: "tag", value: encodeJSONString(entry.Tag)})
	}
	return fields
}

func encodeJSONString(value string) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "\"\""
	}
	return string(encoded)
}
