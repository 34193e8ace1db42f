package render_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/temirov/lstree/internal/render"
	"github.com/temirov/lstree/internal/tree"
	"github.com/temirov/lstree/internal/types"
)

// recordingBackend logs every callback as one line.
type recordingBackend struct {
	calls []string
}

func (backend *recordingBackend) record(format string, arguments ...any) {
	backend.calls = append(backend.calls, fmt.Sprintf(format, arguments...))
}

func (backend *recordingBackend) Intro() error {
	backend.record("intro")
	return nil
}

func (backend *recordingBackend) PrintInfo(entry *types.Entry, cursor render.Cursor) (render.Decision, error) {
	backend.record("info %s %d", entry.Name, cursor.Level)
	if entry.Elided {
		return render.Skip, nil
	}
	return render.Descend, nil
}

func (backend *recordingBackend) PrintFile(entry *types.Entry, cursor render.Cursor, descend bool) error {
	backend.record("file %s %d descend=%t", entry.Name, cursor.Level, descend)
	return nil
}

func (backend *recordingBackend) Error(entry *types.Entry, _ render.Cursor, message string) error {
	backend.record("error %s %s", entry.Name, message)
	return nil
}

func (backend *recordingBackend) Newline(entry *types.Entry, _ render.Cursor, postDir bool, needComma bool) error {
	backend.record("newline %s postDir=%t comma=%t", entry.Name, postDir, needComma)
	return nil
}

func (backend *recordingBackend) Close(entry *types.Entry, _ render.Cursor, needComma bool) error {
	backend.record("close %s comma=%t", entry.Name, needComma)
	return nil
}

func (backend *recordingBackend) Report(totals types.Totals) error {
	backend.record("report %d %d %d", totals.Directories, totals.Files, totals.Size)
	return nil
}

func (backend *recordingBackend) Outtro() error {
	backend.record("outtro")
	return nil
}

// releaseTracker wraps a tree and checks that releases mirror Children calls.
type releaseTracker struct {
	*tree.Tree
	open []*types.Entry
	t    *testing.T
}

func (tracker *releaseTracker) Children(directory *types.Entry, level int) ([]*types.Entry, bool) {
	tracker.open = append(tracker.open, directory)
	return tracker.Tree.Children(directory, level)
}

func (tracker *releaseTracker) Release(directory *types.Entry) {
	if len(tracker.open) == 0 || tracker.open[len(tracker.open)-1] != directory {
		tracker.t.Fatalf("release of %s out of order", directory.Name)
	}
	tracker.open = tracker.open[:len(tracker.open)-1]
}

func sampleTree() *tree.Tree {
	arena := tree.New()
	root := arena.AddRoot(&types.Entry{Name: "a", IsDir: true})
	arena.MarkExpanded(root)
	directory := arena.AddChild(root, &types.Entry{Name: "b", IsDir: true})
	arena.MarkExpanded(directory)
	arena.AddChild(directory, &types.Entry{Name: "d.txt", Size: 3})
	arena.AddChild(root, &types.Entry{Name: "big", IsDir: true, Elided: true, Tag: "5 entries exceeds filelimit, not opening dir"})
	broken := arena.AddChild(root, &types.Entry{Name: "locked", IsDir: true, Err: types.OpenDirectoryError})
	arena.MarkExpanded(broken)
	arena.AddChild(root, &types.Entry{Name: "c.txt", Size: 10})
	return arena
}

func TestRenderCallSequence(t *testing.T) {
	backend := &recordingBackend{}
	source := &releaseTracker{Tree: sampleTree(), t: t}
	totals, renderError := render.Render(source, backend)
	if renderError != nil {
		t.Fatalf("Render failed: %v", renderError)
	}
	if len(source.open) != 0 {
		t.Fatalf("unreleased directories: %d", len(source.open))
	}

	expected := []string{
		"intro",
		"info a 0",
		"file a 0 descend=true",
		"newline a postDir=true comma=false",
		"info b 1",
		"file b 1 descend=true",
		"newline b postDir=true comma=true",
		"file d.txt 2 descend=false",
		"newline d.txt postDir=false comma=false",
		"close b comma=true",
		"info big 1",
		"file big 1 descend=false",
		"newline big postDir=false comma=true",
		"info locked 1",
		"file locked 1 descend=true",
		"error locked error opening dir",
		"newline locked postDir=true comma=true",
		"close locked comma=true",
		"file c.txt 1 descend=false",
		"newline c.txt postDir=false comma=false",
		"close a comma=false",
		"report 3 2 13",
		"outtro",
	}
	if strings.Join(backend.calls, "\n") != strings.Join(expected, "\n") {
		t.Fatalf("unexpected calls:\n%s", strings.Join(backend.calls, "\n"))
	}
	if totals.Directories != 3 || totals.Files != 2 || totals.Size != 13 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

// cursorBackend checks cursor bookkeeping for every entry.
type cursorBackend struct {
	recordingBackend
	t     *testing.T
	paths []string
}

func (backend *cursorBackend) PrintFile(entry *types.Entry, cursor render.Cursor, descend bool) error {
	if cursor.IsLast() != cursor.LastAt(cursor.Level) {
		backend.t.Fatalf("IsLast disagrees with LastAt for %s", entry.Name)
	}
	backend.paths = append(backend.paths, cursor.DisplayPath())
	return nil
}

func (backend *cursorBackend) Newline(entry *types.Entry, cursor render.Cursor, _ bool, needComma bool) error {
	if needComma == cursor.IsLast() {
		backend.t.Fatalf("needComma=%t for %s at index %d of %d", needComma, entry.Name, cursor.Index, cursor.Count)
	}
	return nil
}

func TestCursorTracksSiblingsAndPaths(t *testing.T) {
	arena := tree.New()
	first := arena.AddRoot(&types.Entry{Name: "./first", IsDir: true})
	arena.MarkExpanded(first)
	arena.AddChild(first, &types.Entry{Name: "x"})
	arena.AddChild(first, &types.Entry{Name: "y"})
	arena.AddRoot(&types.Entry{Name: "/", IsDir: true})

	backend := &cursorBackend{t: t}
	if _, renderError := render.Render(arena, backend); renderError != nil {
		t.Fatalf("Render failed: %v", renderError)
	}
	expectedPaths := []string{"./first", "./first/x", "./first/y", "/"}
	if strings.Join(backend.paths, ",") != strings.Join(expectedPaths, ",") {
		t.Fatalf("unexpected display paths %v", backend.paths)
	}
}
