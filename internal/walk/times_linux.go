//go:build linux

package walk

import (
	"syscall"
	"time"
)

func statTimes(systemStat *syscall.Stat_t, _ time.Time) (time.Time, time.Time) {
	accessSeconds, accessNanoseconds := systemStat.Atim.Unix()
	changeSeconds, changeNanoseconds := systemStat.Ctim.Unix()
	return time.Unix(accessSeconds, accessNanoseconds), time.Unix(changeSeconds, changeNanoseconds)
}
