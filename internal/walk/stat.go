package walk

import (
	"io/fs"
	"os"

	"github.com/temirov/lstree/internal/types"
)

const executableBits fs.FileMode = 0o111

// describe lstat's path and classifies the result. A failed lstat yields an
// error entry rather than an error return so siblings keep going.
func describe(path string, name string) (*types.Entry, error) {
	entry := &types.Entry{Name: name, Path: path}
	linkInformation, lstatError := os.Lstat(path)
	if lstatError != nil {
		return entry, lstatError
	}
	applyFileInformation(entry, linkInformation)

	if linkInformation.Mode()&fs.ModeSymlink == 0 {
		classify(entry, linkInformation.Mode())
		return entry, nil
	}

	if linkTarget, readLinkError := os.Readlink(path); readLinkError == nil {
		entry.LinkTarget = linkTarget
	}
	targetInformation, statError := os.Stat(path)
	if statError != nil {
		entry.IsOrphanLink = true
		return entry, nil
	}
	entry.LinkMode = targetInformation.Mode()
	entry.LinkDevice, entry.LinkInode = fileIdentity(targetInformation)
	classify(entry, targetInformation.Mode())
	return entry, nil
}

func classify(entry *types.Entry, mode fs.FileMode) {
	entry.IsDir = mode.IsDir()
	entry.IsSocket = mode&fs.ModeSocket != 0
	entry.IsFifo = mode&fs.ModeNamedPipe != 0
	entry.IsExecutable = mode.IsRegular() && mode.Perm()&executableBits != 0
}

func applyFileInformation(entry *types.Entry, information fs.FileInfo) {
	entry.Mode = information.Mode()
	entry.Size = information.Size()
	entry.ModifyTime = information.ModTime()
	entry.AccessTime = information.ModTime()
	entry.ChangeTime = information.ModTime()
	applyPlatformDetails(entry, information)
}
