//go:build unix && !linux

package walk

import (
	"syscall"
	"time"
)

// statTimes falls back to the modification time where the Stat_t time fields
// are not portable across platforms.
func statTimes(_ *syscall.Stat_t, modifyTime time.Time) (time.Time, time.Time) {
	return modifyTime, modifyTime
}
