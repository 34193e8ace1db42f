package walk

import (
	"github.com/temirov/lstree/internal/tree"
	"github.com/temirov/lstree/internal/types"
)

// Builder produces listings for a fixed set of options.
type Builder struct {
	options Options
}

// New returns a builder for options.
func New(options Options) *Builder {
	return &Builder{options: options}
}

// Build materializes every root into a tree arena before anything is
// rendered. Root failures are returned; failures below the roots are recorded
// on the affected entries.
func (builder *Builder) Build(roots []types.ValidatedPath) (*tree.Tree, error) {
	entries, rootError := rootEntries(roots)
	if rootError != nil {
		return nil, rootError
	}
	walker := newTraversal(builder.options)
	arena := tree.New()
	for _, entry := range entries {
		identifier := arena.AddRoot(entry)
		builder.expand(walker, arena, identifier, entry, 0)
	}
	return arena, nil
}

func (builder *Builder) expand(walker *traversal, arena *tree.Tree, identifier tree.NodeID, directory *types.Entry, level int) {
	children, expanded, current := walker.enter(directory, level)
	defer walker.leave(current)
	if !expanded {
		return
	}
	arena.MarkExpanded(identifier)
	for _, child := range children {
		childIdentifier := arena.AddChild(identifier, child)
		if child.IsDir {
			builder.expand(walker, arena, childIdentifier, child, level+1)
		}
	}
}

// Open prepares an incremental listing. Roots are checked up front; their
// children are read when the renderer asks for them.
func (builder *Builder) Open(roots []types.ValidatedPath) (*Stream, error) {
	entries, rootError := rootEntries(roots)
	if rootError != nil {
		return nil, rootError
	}
	return &Stream{walker: newTraversal(builder.options), roots: entries}, nil
}
