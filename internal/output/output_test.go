package output_test

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gojsonq "github.com/thedevsaddam/gojsonq/v2"

	"github.com/temirov/lstree/internal/output"
	"github.com/temirov/lstree/internal/render"
	"github.com/temirov/lstree/internal/sorting"
	"github.com/temirov/lstree/internal/types"
	"github.com/temirov/lstree/internal/walk"
)

const (
	rootDisplayName  = "a"
	reportScanFormat = "%d directories, %d files, %d bytes"
)

func writeFixtureFile(t *testing.T, path string, size int) {
	t.Helper()
	if mkdirError := os.MkdirAll(filepath.Dir(path), 0o755); mkdirError != nil {
		t.Fatalf("mkdir: %v", mkdirError)
	}
	if writeError := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644); writeError != nil {
		t.Fatalf("write: %v", writeError)
	}
}

func renderDirectory(t *testing.T, rootDirectory string, format string, walkOptions walk.Options, outputOptions output.Options) string {
	t.Helper()
	rendered, _ := renderDirectoryTotals(t, rootDirectory, format, walkOptions, outputOptions)
	return rendered
}

func renderDirectoryTotals(t *testing.T, rootDirectory string, format string, walkOptions walk.Options, outputOptions output.Options) (string, types.Totals) {
	t.Helper()
	if walkOptions.Sort.Mode() == "" {
		walkOptions.Sort = sorting.New(sorting.ModeName, "", false)
	}
	roots := []types.ValidatedPath{{DisplayPath: rootDisplayName, AbsolutePath: rootDirectory, IsDir: true}}
	arena, buildError := walk.New(walkOptions).Build(roots)
	if buildError != nil {
		t.Fatalf("Build failed: %v", buildError)
	}
	var buffer bytes.Buffer
	backend, backendError := output.New(format, &buffer, outputOptions)
	if backendError != nil {
		t.Fatalf("New failed: %v", backendError)
	}
	totals, renderError := render.Render(arena, backend)
	if renderError != nil {
		t.Fatalf("Render failed: %v", renderError)
	}
	return buffer.String(), totals
}

func TestPlainSimpleScenario(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	if mkdirError := os.Mkdir(filepath.Join(rootDirectory, "b"), 0o755); mkdirError != nil {
		t.Fatalf("mkdir: %v", mkdirError)
	}
	writeFixtureFile(t, filepath.Join(rootDirectory, "c.txt"), 10)

	rendered := renderDirectory(t, rootDirectory, types.FormatPlain, walk.Options{}, output.Options{ReportSize: true})
	expected := "a\n├── b\n└── c.txt\n\n1 directories, 1 files, 10 bytes\n"
	if rendered != expected {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", rendered, expected)
	}
}

func TestPlainConnectors(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeFixtureFile(t, filepath.Join(rootDirectory, "d1", "x"), 1)
	writeFixtureFile(t, filepath.Join(rootDirectory, "d1", "y"), 1)
	writeFixtureFile(t, filepath.Join(rootDirectory, "d2", "w"), 1)
	writeFixtureFile(t, filepath.Join(rootDirectory, "z"), 1)

	testCases := []struct {
		name     string
		options  output.Options
		expected string
	}{
		{
			name:    "utf8",
			options: output.Options{NoReport: true},
			expected: "a\n" +
				"├── d1\n" +
				"│   ├── x\n" +
				"│   └── y\n" +
				"├── d2\n" +
				"│   └── w\n" +
				"└── z\n",
		},
		{
			name:    "ascii_classify",
			options: output.Options{NoReport: true, Charset: output.CharsetASCII, Classify: true},
			expected: "a/\n" +
				"|-- d1/\n" +
				"|   |-- x\n" +
				"|   `-- y\n" +
				"|-- d2/\n" +
				"|   `-- w\n" +
				"`-- z\n",
		},
		{
			name:    "full_path_no_indent",
			options: output.Options{NoReport: true, FullPath: true, NoIndent: true},
			expected: "a\n" +
				"a/d1\n" +
				"a/d1/x\n" +
				"a/d1/y\n" +
				"a/d2\n" +
				"a/d2/w\n" +
				"a/z\n",
		},
	}
	for _, testCase := range testCases {
		rendered := renderDirectory(t, rootDirectory, types.FormatPlain, walk.Options{}, testCase.options)
		if rendered != testCase.expected {
			t.Fatalf("%s: unexpected output:\n%s\nwant\n%s", testCase.name, rendered, testCase.expected)
		}
	}
}

func TestPlainAttributesAndDirsOnlyReport(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeFixtureFile(t, filepath.Join(rootDirectory, "c.txt"), 10)
	if chmodError := os.Chmod(filepath.Join(rootDirectory, "c.txt"), 0o640); chmodError != nil {
		t.Fatalf("chmod: %v", chmodError)
	}
	writeFixtureFile(t, filepath.Join(rootDirectory, "sub", "inner"), 1)

	rendered := renderDirectory(t, rootDirectory, types.FormatPlain, walk.Options{}, output.Options{ShowSize: true, ShowPerms: true})
	if !strings.Contains(rendered, "└── [-rw-r-----          10]  c.txt") && !strings.Contains(rendered, "├── [-rw-r-----          10]  c.txt") {
		t.Fatalf("missing attribute block:\n%s", rendered)
	}

	dirsOnly := renderDirectory(t, rootDirectory, types.FormatPlain, walk.Options{DirsOnly: true}, output.Options{DirsOnly: true})
	if !strings.HasSuffix(dirsOnly, "\n1 directories\n") || strings.Contains(dirsOnly, "c.txt") {
		t.Fatalf("unexpected dirs-only output:\n%s", dirsOnly)
	}
}

// countNodes walks decoded JSON and counts non-root directory and file nodes.
func countNodes(nodes []any, level int) (int, int) {
	directories, files := 0, 0
	for _, raw := range nodes {
		node, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		switch node["type"] {
		case types.NodeTypeDirectory:
			if level > 0 {
				directories++
			}
		case types.NodeTypeFile:
			files++
		}
		if contents, ok := node["contents"].([]any); ok {
			childDirectories, childFiles := countNodes(contents, level+1)
			directories += childDirectories
			files += childFiles
		}
	}
	return directories, files
}

func TestJSONRoundTripMatchesPlainTotals(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeFixtureFile(t, filepath.Join(rootDirectory, "top.txt"), 4)
	writeFixtureFile(t, filepath.Join(rootDirectory, "d1", "mid.txt"), 5)
	writeFixtureFile(t, filepath.Join(rootDirectory, "d1", "d2", "leaf.txt"), 6)
	if linkError := os.Symlink("..", filepath.Join(rootDirectory, "d1", "d2", "back")); linkError != nil {
		t.Skipf("symlinks unavailable: %v", linkError)
	}

	walkOptions := walk.Options{FollowSymlinks: true}
	outputOptions := output.Options{ReportSize: true}

	plain := renderDirectory(t, rootDirectory, types.FormatPlain, walkOptions, outputOptions)
	plainLines := strings.Split(strings.TrimSpace(plain), "\n")
	var plainDirectories, plainFiles int
	var plainBytes int64
	if _, scanError := fmt.Sscanf(plainLines[len(plainLines)-1], reportScanFormat, &plainDirectories, &plainFiles, &plainBytes); scanError != nil {
		t.Fatalf("cannot parse plain report %q: %v", plainLines[len(plainLines)-1], scanError)
	}
	if !strings.Contains(plain, "back -> ..  [recursive, not followed]") {
		t.Fatalf("expected the loop annotation:\n%s", plain)
	}

	encoded := renderDirectory(t, rootDirectory, types.FormatJSON, walkOptions, outputOptions)
	if !json.Valid([]byte(encoded)) {
		t.Fatalf("invalid JSON:\n%s", encoded)
	}

	report := gojsonq.New().FromString(encoded).Where("type", "=", types.NodeTypeReport).First()
	reportFields, ok := report.(map[string]any)
	if !ok {
		t.Fatalf("report object missing:\n%s", encoded)
	}
	if int(reportFields["directories"].(float64)) != plainDirectories || int(reportFields["files"].(float64)) != plainFiles || int64(reportFields["bytes"].(float64)) != plainBytes {
		t.Fatalf("report %v disagrees with plain totals %d/%d/%d", reportFields, plainDirectories, plainFiles, plainBytes)
	}

	var decoded []any
	if decodeError := json.Unmarshal([]byte(encoded), &decoded); decodeError != nil {
		t.Fatalf("decode: %v", decodeError)
	}
	directories, files := countNodes(decoded, 0)
	if directories != plainDirectories || files != plainFiles {
		t.Fatalf("reparsed counts %d/%d disagree with plain %d/%d", directories, files, plainDirectories, plainFiles)
	}
	if plainDirectories != 3 || plainFiles != 3 || plainBytes != 15 {
		t.Fatalf("unexpected totals %d/%d/%d", plainDirectories, plainFiles, plainBytes)
	}

	topLevelDirectories := gojsonq.New().FromString(encoded).From("[0].contents").Where("type", "=", types.NodeTypeDirectory).Count()
	if topLevelDirectories != 1 {
		t.Fatalf("expected one directory below the root, got %d", topLevelDirectories)
	}

	defaultEncoded, defaultTotals := renderDirectoryTotals(t, rootDirectory, types.FormatJSON, walkOptions, output.Options{})
	reportBytes, ok := gojsonq.New().FromString(defaultEncoded).Where("type", "=", types.NodeTypeReport).Pluck("bytes").([]any)
	if !ok || len(reportBytes) != 1 || int64(reportBytes[0].(float64)) != defaultTotals.Size || defaultTotals.Size != 15 {
		t.Fatalf("report bytes %v disagree with totals %+v:\n%s", reportBytes, defaultTotals, defaultEncoded)
	}
	reportFiles, ok := gojsonq.New().FromString(defaultEncoded).Where("type", "=", types.NodeTypeReport).Pluck("files").([]any)
	if !ok || len(reportFiles) != 1 || int(reportFiles[0].(float64)) != defaultTotals.Files {
		t.Fatalf("report files %v disagree with totals %+v", reportFiles, defaultTotals)
	}
}

func TestJSONErrorDirectoryStaysValid(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	t.Parallel()

	rootDirectory := t.TempDir()
	lockedDirectory := filepath.Join(rootDirectory, "locked")
	writeFixtureFile(t, filepath.Join(lockedDirectory, "secret"), 1)
	writeFixtureFile(t, filepath.Join(rootDirectory, "open.txt"), 1)
	if chmodError := os.Chmod(lockedDirectory, 0o000); chmodError != nil {
		t.Fatalf("chmod: %v", chmodError)
	}
	t.Cleanup(func() { _ = os.Chmod(lockedDirectory, 0o755) })

	encoded := renderDirectory(t, rootDirectory, types.FormatJSON, walk.Options{}, output.Options{})
	if !json.Valid([]byte(encoded)) {
		t.Fatalf("invalid JSON:\n%s", encoded)
	}
	if !strings.Contains(encoded, `{"error":"error opening dir"}`) {
		t.Fatalf("missing inline error:\n%s", encoded)
	}
}

func TestJSONMultipleRootsWithAttributes(t *testing.T) {
	t.Parallel()

	firstRoot := t.TempDir()
	secondRoot := t.TempDir()
	writeFixtureFile(t, filepath.Join(firstRoot, "one"), 1)
	writeFixtureFile(t, filepath.Join(secondRoot, "two"), 2)

	roots := []types.ValidatedPath{
		{DisplayPath: "first", AbsolutePath: firstRoot, IsDir: true},
		{DisplayPath: "second", AbsolutePath: secondRoot, IsDir: true},
	}
	arena, buildError := walk.New(walk.Options{Sort: sorting.New(sorting.ModeName, "", false)}).Build(roots)
	if buildError != nil {
		t.Fatalf("Build failed: %v", buildError)
	}
	var buffer bytes.Buffer
	backend, _ := output.New(types.FormatJSON, &buffer, output.Options{ShowPerms: true, ShowSize: true, ShowDate: true})
	if _, renderError := render.Render(arena, backend); renderError != nil {
		t.Fatalf("Render failed: %v", renderError)
	}
	if !json.Valid(buffer.Bytes()) {
		t.Fatalf("invalid JSON:\n%s", buffer.String())
	}
	names := gojsonq.New().FromString(buffer.String()).Where("type", "=", types.NodeTypeDirectory).Pluck("name")
	pluckedNames, ok := names.([]any)
	if !ok || len(pluckedNames) != 2 || pluckedNames[0] != "first" || pluckedNames[1] != "second" {
		t.Fatalf("unexpected root names %v", names)
	}
	size := gojsonq.New().FromString(buffer.String()).From("[1].contents").Where("name", "=", "two").Pluck("size")
	if sizes, ok := size.([]any); !ok || len(sizes) != 1 || sizes[0] != float64(2) {
		t.Fatalf("unexpected size %v", size)
	}
}

func TestXMLIsWellFormed(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeFixtureFile(t, filepath.Join(rootDirectory, "d1", "x & y.txt"), 3)
	writeFixtureFile(t, filepath.Join(rootDirectory, "z.txt"), 4)

	encoded := renderDirectory(t, rootDirectory, types.FormatXML, walk.Options{}, output.Options{ShowPerms: true})
	if !strings.HasPrefix(encoded, xml.Header) {
		t.Fatalf("missing XML header:\n%s", encoded)
	}
	decoder := xml.NewDecoder(strings.NewReader(encoded))
	elementCounts := map[string]int{}
	var names []string
	for {
		token, tokenError := decoder.Token()
		if errors.Is(tokenError, io.EOF) {
			break
		}
		if tokenError != nil {
			t.Fatalf("malformed XML: %v\n%s", tokenError, encoded)
		}
		if start, ok := token.(xml.StartElement); ok {
			elementCounts[start.Name.Local]++
			for _, attribute := range start.Attr {
				if attribute.Name.Local == "name" {
					names = append(names, attribute.Value)
				}
			}
		}
	}
	if elementCounts["tree"] != 1 || elementCounts["directory"] != 2 || elementCounts["file"] != 2 || elementCounts["report"] != 1 {
		t.Fatalf("unexpected element counts %v", elementCounts)
	}
	if strings.Join(names, ",") != "a,d1,x & y.txt,z.txt" {
		t.Fatalf("unexpected names %v", names)
	}
	if !strings.Contains(encoded, "<size>7</size>") {
		t.Fatalf("missing report size:\n%s", encoded)
	}
}

func TestHTMLDocument(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeFixtureFile(t, filepath.Join(rootDirectory, "docs", "read me.md"), 1)
	writeFixtureFile(t, filepath.Join(rootDirectory, "<tag>.txt"), 1)

	rendered := renderDirectory(t, rootDirectory, types.FormatHTML, walk.Options{}, output.Options{Title: "Listing", BaseHREF: "https://example.com/files"})
	for _, fragment := range []string{
		"<title>Listing</title>",
		`<a href="https://example.com/files/docs/">docs</a>`,
		`<a href="https://example.com/files/docs/read%20me.md">read me.md</a>`,
		"&lt;tag&gt;.txt",
		"<p>1 directories, 2 files</p>",
		"</html>",
	} {
		if !strings.Contains(rendered, fragment) {
			t.Fatalf("missing %q in:\n%s", fragment, rendered)
		}
	}
	if strings.Count(rendered, "<ul>") != strings.Count(rendered, "</ul>") || strings.Count(rendered, "<li>") != strings.Count(rendered, "</li>") {
		t.Fatalf("unbalanced lists:\n%s", rendered)
	}
}

func TestUnknownFormat(t *testing.T) {
	t.Parallel()

	if _, backendError := output.New("yaml", io.Discard, output.Options{}); backendError == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}
