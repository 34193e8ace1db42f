// Package inode tracks directories already expanded during one traversal.
package inode

type key struct {
	device uint64
	inode  uint64
}

// Registry records (device, inode) pairs. Entries are never removed, so memory is
// bounded by the number of distinct directories visited.
type Registry struct {
	seen map[key]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[key]struct{})}
}

// Visited reports whether the pair was recorded earlier.
func (registry *Registry) Visited(device uint64, inode uint64) bool {
	_, exists := registry.seen[key{device: device, inode: inode}]
	return exists
}

// Record stores the pair.
func (registry *Registry) Record(device uint64, inode uint64) {
	registry.seen[key{device: device, inode: inode}] = struct{}{}
}

// Len returns the number of distinct pairs recorded.
func (registry *Registry) Len() int {
	return len(registry.seen)
}
