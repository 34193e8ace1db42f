//go:build unix

package walk

import (
	"io/fs"
	"syscall"

	"github.com/temirov/lstree/internal/types"
)

func applyPlatformDetails(entry *types.Entry, information fs.FileInfo) {
	systemStat, ok := information.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	entry.Device = uint64(systemStat.Dev)
	entry.Inode = uint64(systemStat.Ino)
	entry.UID = systemStat.Uid
	entry.GID = systemStat.Gid
	entry.AccessTime, entry.ChangeTime = statTimes(systemStat, entry.ModifyTime)
}

func fileIdentity(information fs.FileInfo) (uint64, uint64) {
	systemStat, ok := information.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0
	}
	return uint64(systemStat.Dev), uint64(systemStat.Ino)
}
