package output

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/temirov/lstree/internal/render"
	"github.com/temirov/lstree/internal/types"
	"github.com/temirov/lstree/internal/utils"
)

const (
	reportDirectoriesFormat = "%d directories"
	reportFilesFormat       = ", %d files"
	reportBytesFormat       = ", %d bytes"

	classifyDirectory  = "/"
	classifyExecutable = "*"
	classifySocket     = "="
	classifyFifo       = "|"
	classifyOrphan     = "@"
)

// displayName is the name printed for entry, honoring FullPath.
func displayName(entry *types.Entry, cursor render.Cursor, options Options) string {
	if options.FullPath {
		return cursor.DisplayPath()
	}
	return entry.Name
}

// permissionString renders mode the way ls -l does, e.g. "drwxr-xr-x".
func permissionString(mode fs.FileMode) string {
	var builder strings.Builder
	builder.WriteByte(typeLetter(mode))
	const letters = "rwxrwxrwx"
	permissions := mode.Perm()
	for index := 0; index < len(letters); index++ {
		if permissions&(1<<uint(8-index)) != 0 {
			builder.WriteByte(letters[index])
		} else {
			builder.WriteByte('-')
		}
	}
	protection := []byte(builder.String())
	applySpecialBit(protection, 3, mode&fs.ModeSetuid != 0, 's')
	applySpecialBit(protection, 6, mode&fs.ModeSetgid != 0, 's')
	applySpecialBit(protection, 9, mode&fs.ModeSticky != 0, 't')
	return string(protection)
}

func typeLetter(mode fs.FileMode) byte {
	switch {
	case mode&fs.ModeSymlink != 0:
		return 'l'
	case mode.IsDir():
		return 'd'
	case mode&fs.ModeSocket != 0:
		return 's'
	case mode&fs.ModeNamedPipe != 0:
		return 'p'
	case mode&fs.ModeCharDevice != 0:
		return 'c'
	case mode&fs.ModeDevice != 0:
		return 'b'
	}
	return '-'
}

// applySpecialBit replaces the execute slot with a lower-case letter when the
// execute bit is set and an upper-case one otherwise.
func applySpecialBit(protection []byte, position int, isSet bool, letter byte) {
	if !isSet {
		return
	}
	if protection[position] == '-' {
		protection[position] = letter - ('a' - 'A')
		return
	}
	protection[position] = letter
}

// octalMode renders the permission bits as four octal digits.
func octalMode(mode fs.FileMode) string {
	value := uint32(mode.Perm())
	if mode&fs.ModeSetuid != 0 {
		value |= 0o4000
	}
	if mode&fs.ModeSetgid != 0 {
		value |= 0o2000
	}
	if mode&fs.ModeSticky != 0 {
		value |= 0o1000
	}
	return fmt.Sprintf("%04o", value)
}

func sizeString(entry *types.Entry, options Options) string {
	if options.HumanSize {
		return utils.FormatFileSize(entry.Size)
	}
	return strconv.FormatInt(entry.Size, 10)
}

func dateString(entry *types.Entry, options Options) string {
	return utils.FormatTimestamp(entry.ModifyTime, options.TimeFormat)
}

// attributeFields returns the enabled metadata columns in display order.
func attributeFields(entry *types.Entry, options Options) []string {
	var fields []string
	if options.ShowInode {
		fields = append(fields, fmt.Sprintf("%7d", entry.Inode))
	}
	if options.ShowDevice {
		fields = append(fields, fmt.Sprintf("%4d", entry.Device))
	}
	if options.ShowPerms {
		fields = append(fields, permissionString(entry.Mode))
	}
	if options.ShowUser {
		fields = append(fields, fmt.Sprintf("%-8d", entry.UID))
	}
	if options.ShowGroup {
		fields = append(fields, fmt.Sprintf("%-8d", entry.GID))
	}
	if options.ShowSize {
		if options.HumanSize {
			fields = append(fields, fmt.Sprintf("%6s", sizeString(entry, options)))
		} else {
			fields = append(fields, fmt.Sprintf("%11s", sizeString(entry, options)))
		}
	}
	if options.ShowDate {
		fields = append(fields, dateString(entry, options))
	}
	return fields
}

// attributeBlock returns "[field field ...]  " or an empty string.
func attributeBlock(entry *types.Entry, options Options) string {
	if entry.Err != "" {
		return ""
	}
	fields := attributeFields(entry, options)
	if len(fields) == 0 {
		return ""
	}
	return "[" + strings.Join(fields, " ") + "]  "
}

// classifySuffix returns the ls -F style indicator for entry.
func classifySuffix(entry *types.Entry) string {
	switch {
	case entry.IsOrphanLink:
		return classifyOrphan
	case entry.IsDir:
		return classifyDirectory
	case entry.IsSocket:
		return classifySocket
	case entry.IsFifo:
		return classifyFifo
	case entry.IsExecutable:
		return classifyExecutable
	}
	return ""
}

// reportLine formats totals as "N directories, M files[, S bytes]".
func reportLine(totals types.Totals, options Options) string {
	line := fmt.Sprintf(reportDirectoriesFormat, totals.Directories)
	if !options.DirsOnly {
		line += fmt.Sprintf(reportFilesFormat, totals.Files)
	}
	if options.ReportSize {
		line += fmt.Sprintf(reportBytesFormat, totals.Size)
	}
	return line
}
