// Package sorting orders sibling entries before they are emitted.
package sorting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/temirov/lstree/internal/types"
)

// Mode selects the comparator applied to sibling lists.
type Mode string

const (
	ModeName             Mode = "name"
	ModeReverseName      Mode = "reverse-name"
	ModeVersion          Mode = "version"
	ModeSize             Mode = "size"
	ModeModifyTime       Mode = "mtime"
	ModeChangeTime       Mode = "ctime"
	ModeDirectoriesFirst Mode = "dirsfirst"
	ModeFilesFirst       Mode = "filesfirst"
	ModeNone             Mode = "none"
)

const errorUnknownModeFormat = "unknown sort mode %q (expected one of %s)"

var knownModes = []Mode{
	ModeName,
	ModeReverseName,
	ModeVersion,
	ModeSize,
	ModeModifyTime,
	ModeChangeTime,
	ModeDirectoriesFirst,
	ModeFilesFirst,
	ModeNone,
}

// ParseMode validates a configured sort mode. An empty value selects ModeName.
func ParseMode(value string) (Mode, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	if normalizedValue == "" {
		return ModeName, nil
	}
	for _, mode := range knownModes {
		if string(mode) == normalizedValue {
			return mode, nil
		}
	}
	names := make([]string, 0, len(knownModes))
	for _, mode := range knownModes {
		names = append(names, string(mode))
	}
	return "", fmt.Errorf(errorUnknownModeFormat, value, strings.Join(names, ", "))
}

// compareFunc returns a negative number when left sorts before right, zero when
// they tie and a positive number otherwise.
type compareFunc func(left *types.Entry, right *types.Entry) int

// Strategy is the comparator selected once per run.
type Strategy struct {
	mode      Mode
	partition func(*types.Entry) int
	compare   compareFunc
}

// New builds a strategy. secondary is consulted only by the partitioning modes
// and defaults to ModeName. reverse inverts the ordering within a partition and
// has no effect on ModeNone.
func New(mode Mode, secondary Mode, reverse bool) Strategy {
	strategy := Strategy{mode: mode}
	primary := mode
	switch mode {
	case ModeDirectoriesFirst:
		strategy.partition = directoriesFirstRank
		primary = secondaryMode(secondary)
	case ModeFilesFirst:
		strategy.partition = filesFirstRank
		primary = secondaryMode(secondary)
	}
	strategy.compare = comparatorFor(primary)
	if strategy.compare != nil && reverse {
		forward := strategy.compare
		strategy.compare = func(left *types.Entry, right *types.Entry) int {
			return forward(right, left)
		}
	}
	return strategy
}

// Mode returns the primary mode of the strategy.
func (strategy Strategy) Mode() Mode {
	return strategy.mode
}

// Sort reorders entries in place. The sort is stable so ModeNone and equal
// partitions keep directory read order.
func (strategy Strategy) Sort(entries []*types.Entry) {
	if strategy.partition == nil && strategy.compare == nil {
		return
	}
	sort.SliceStable(entries, func(leftIndex, rightIndex int) bool {
		left := entries[leftIndex]
		right := entries[rightIndex]
		if strategy.partition != nil {
			leftRank := strategy.partition(left)
			rightRank := strategy.partition(right)
			if leftRank != rightRank {
				return leftRank < rightRank
			}
		}
		if strategy.compare == nil {
			return false
		}
		return strategy.compare(left, right) < 0
	})
}

func secondaryMode(secondary Mode) Mode {
	switch secondary {
	case "", ModeDirectoriesFirst, ModeFilesFirst:
		return ModeName
	}
	return secondary
}

func comparatorFor(mode Mode) compareFunc {
	switch mode {
	case ModeNone:
		return nil
	case ModeReverseName:
		return withNameTieBreak(func(left *types.Entry, right *types.Entry) int {
			return strings.Compare(right.Name, left.Name)
		})
	case ModeVersion:
		return withNameTieBreak(func(left *types.Entry, right *types.Entry) int {
			return CompareVersion(left.Name, right.Name)
		})
	case ModeSize:
		return withNameTieBreak(func(left *types.Entry, right *types.Entry) int {
			return compareInt64(left.Size, right.Size)
		})
	case ModeModifyTime:
		return withNameTieBreak(func(left *types.Entry, right *types.Entry) int {
			return left.ModifyTime.Compare(right.ModifyTime)
		})
	case ModeChangeTime:
		return withNameTieBreak(func(left *types.Entry, right *types.Entry) int {
			return left.ChangeTime.Compare(right.ChangeTime)
		})
	}
	return compareNames
}

func withNameTieBreak(primary compareFunc) compareFunc {
	return func(left *types.Entry, right *types.Entry) int {
		if result := primary(left, right); result != 0 {
			return result
		}
		return compareNames(left, right)
	}
}

func compareNames(left *types.Entry, right *types.Entry) int {
	if result := strings.Compare(left.Name, right.Name); result != 0 {
		return result
	}
	return strings.Compare(left.Path, right.Path)
}

func compareInt64(left int64, right int64) int {
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	}
	return 0
}

func directoriesFirstRank(entry *types.Entry) int {
	if entry.IsDir {
		return 0
	}
	return 1
}

func filesFirstRank(entry *types.Entry) int {
	if entry.IsDir {
		return 1
	}
	return 0
}
