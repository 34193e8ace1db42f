package walk

import (
	"fmt"

	"github.com/temirov/lstree/internal/types"
)

const (
	errorReleaseEmpty       = "walk: release without an open directory"
	errorReleaseOrderFormat = "walk: release of %s does not match the open directory"
)

// Stream lists one directory level at a time. Only the frames along the
// current path are retained.
type Stream struct {
	walker *traversal
	roots  []*types.Entry
	frames []frame
}

// Roots returns the top-level entries.
func (stream *Stream) Roots() []*types.Entry {
	return stream.roots
}

// Children reads the children of directory. Every call must be matched by a
// Release once the directory has been emitted.
func (stream *Stream) Children(directory *types.Entry, level int) ([]*types.Entry, bool) {
	children, expanded, current := stream.walker.enter(directory, level)
	stream.frames = append(stream.frames, current)
	return children, expanded
}

// Release closes the innermost open directory. Releases must mirror Children
// calls in reverse order.
func (stream *Stream) Release(directory *types.Entry) {
	if len(stream.frames) == 0 {
		panic(errorReleaseEmpty)
	}
	current := stream.frames[len(stream.frames)-1]
	if current.directory != directory {
		panic(fmt.Sprintf(errorReleaseOrderFormat, directory.Path))
	}
	stream.frames = stream.frames[:len(stream.frames)-1]
	stream.walker.leave(current)
}
