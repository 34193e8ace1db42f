//go:build !unix

package walk

import (
	"io/fs"

	"github.com/temirov/lstree/internal/types"
)

// Without inode numbers loop detection relies on the depth bound alone.
func applyPlatformDetails(*types.Entry, fs.FileInfo) {}

func fileIdentity(fs.FileInfo) (uint64, uint64) {
	return 0, 0
}
