// Package config resolves listing options from config.yaml files and defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/temirov/lstree/internal/output"
	"github.com/temirov/lstree/internal/sorting"
	"github.com/temirov/lstree/internal/types"
	"github.com/temirov/lstree/internal/utils"
	"github.com/temirov/lstree/internal/walk"
)

const (
	// ColorAuto colors plain output only when it goes to a terminal.
	ColorAuto = "auto"
	// ColorAlways forces colored plain output.
	ColorAlways = "always"
	// ColorNever disables colored output.
	ColorNever = "never"

	errorUnknownFormatFormat  = "unsupported format %q (expected plain, html, xml or json)"
	errorUnknownCharsetFormat = "unsupported charset %q (expected utf8 or ascii)"
	errorUnknownColorFormat   = "unsupported color mode %q (expected auto, always or never)"
	errorSortFormat           = "sort: %w"
	errorSecondarySortFormat  = "secondary sort: %w"
	errorNegativeLimitFormat  = "file limit must not be negative, got %d"
)

// TreeOptions is the fully resolved configuration of one listing.
type TreeOptions struct {
	MaxDepth       int
	Sort           sorting.Mode
	SecondarySort  sorting.Mode
	Reverse        bool
	FollowSymlinks bool
	IncludeHidden  bool
	DirsOnly       bool
	FileLimit      int
	Stream         bool
	Format         string
	Color          string
	Charset        string
	Clipboard      bool

	FiltersEnabled  bool
	IgnoreFileNames []string
	Ignore          []string
	Include         []string
	IgnoreCase      bool

	FullPath   bool
	NoIndent   bool
	ShowSize   bool
	HumanSize  bool
	ShowPerms  bool
	ShowUser   bool
	ShowGroup  bool
	ShowDate   bool
	ShowInode  bool
	ShowDevice bool
	Classify   bool
	TimeFormat string

	NoReport   bool
	ReportSize bool

	Title    string
	BaseHREF string
}

// DefaultTreeOptions returns the options used when nothing is configured.
func DefaultTreeOptions() TreeOptions {
	return TreeOptions{
		Sort:            sorting.ModeName,
		Format:          types.FormatPlain,
		Color:           ColorAuto,
		Charset:         output.CharsetUTF8,
		FiltersEnabled:  true,
		IgnoreFileNames: []string{utils.GitIgnoreFileName, utils.IgnoreFileName},
		TimeFormat:      output.DefaultTimeFormat,
	}
}

// Apply overlays the configured values onto options.
func (configuration TreeConfiguration) Apply(options TreeOptions) TreeOptions {
	if configuration.Format != "" {
		options.Format = strings.ToLower(configuration.Format)
	}
	if configuration.Sort != "" {
		options.Sort = sorting.Mode(strings.ToLower(configuration.Sort))
	}
	if configuration.SecondarySort != "" {
		options.SecondarySort = sorting.Mode(strings.ToLower(configuration.SecondarySort))
	}
	if configuration.Color != "" {
		options.Color = strings.ToLower(configuration.Color)
	}
	if configuration.Charset != "" {
		options.Charset = strings.ToLower(configuration.Charset)
	}
	applyBool(&options.Reverse, configuration.Reverse)
	applyInt(&options.MaxDepth, configuration.MaxDepth)
	applyInt(&options.FileLimit, configuration.FileLimit)
	applyBool(&options.FollowSymlinks, configuration.FollowSymlinks)
	applyBool(&options.IncludeHidden, configuration.IncludeHidden)
	applyBool(&options.DirsOnly, configuration.DirsOnly)
	applyBool(&options.Stream, configuration.Stream)
	applyBool(&options.Clipboard, configuration.Clipboard)

	paths := configuration.Paths
	if len(paths.Exclude) > 0 {
		options.Ignore = append([]string{}, paths.Exclude...)
	}
	if len(paths.Include) > 0 {
		options.Include = append([]string{}, paths.Include...)
	}
	applyBool(&options.IgnoreCase, paths.IgnoreCase)
	if paths.UseGitignore != nil || paths.UseIgnoreFile != nil {
		useGitignore := paths.UseGitignore == nil || *paths.UseGitignore
		useIgnoreFile := paths.UseIgnoreFile == nil || *paths.UseIgnoreFile
		options.IgnoreFileNames = IgnoreFileNames(useGitignore, useIgnoreFile)
		options.FiltersEnabled = len(options.IgnoreFileNames) > 0
	}

	display := configuration.Display
	applyBool(&options.FullPath, display.FullPath)
	applyBool(&options.NoIndent, display.NoIndent)
	applyBool(&options.ShowSize, display.Size)
	applyBool(&options.HumanSize, display.HumanSize)
	applyBool(&options.ShowPerms, display.Perms)
	applyBool(&options.ShowUser, display.User)
	applyBool(&options.ShowGroup, display.Group)
	applyBool(&options.ShowDate, display.Date)
	applyBool(&options.ShowInode, display.Inode)
	applyBool(&options.ShowDevice, display.Device)
	applyBool(&options.Classify, display.Classify)
	if display.TimeFormat != "" {
		options.TimeFormat = display.TimeFormat
	}

	if configuration.Report.Enabled != nil {
		options.NoReport = !*configuration.Report.Enabled
	}
	applyBool(&options.ReportSize, configuration.Report.Size)

	if configuration.HTML.Title != "" {
		options.Title = configuration.HTML.Title
	}
	if configuration.HTML.BaseHREF != "" {
		options.BaseHREF = configuration.HTML.BaseHREF
	}
	return options
}

// IgnoreFileNames lists the per-directory ignore files that are consulted.
func IgnoreFileNames(useGitignore bool, useIgnoreFile bool) []string {
	var names []string
	if useGitignore {
		names = append(names, utils.GitIgnoreFileName)
	}
	if useIgnoreFile {
		names = append(names, utils.IgnoreFileName)
	}
	return names
}

// Validate rejects values no backend or comparator understands.
func (options TreeOptions) Validate() error {
	switch options.Format {
	case types.FormatPlain, types.FormatHTML, types.FormatXML, types.FormatJSON:
	default:
		return fmt.Errorf(errorUnknownFormatFormat, options.Format)
	}
	switch options.Charset {
	case output.CharsetUTF8, output.CharsetASCII:
	default:
		return fmt.Errorf(errorUnknownCharsetFormat, options.Charset)
	}
	switch options.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf(errorUnknownColorFormat, options.Color)
	}
	if _, err := sorting.ParseMode(string(options.Sort)); err != nil {
		return fmt.Errorf(errorSortFormat, err)
	}
	if options.SecondarySort != "" {
		if _, err := sorting.ParseMode(string(options.SecondarySort)); err != nil {
			return fmt.Errorf(errorSecondarySortFormat, err)
		}
	}
	if options.FileLimit < 0 {
		return fmt.Errorf(errorNegativeLimitFormat, options.FileLimit)
	}
	return nil
}

// WalkOptions converts the listing options for the tree builder.
func (options TreeOptions) WalkOptions(warn func(path string, warning error)) walk.Options {
	return walk.Options{
		MaxDepth:        options.MaxDepth,
		Sort:            sorting.New(options.Sort, options.SecondarySort, options.Reverse),
		FollowSymlinks:  options.FollowSymlinks,
		IncludeHidden:   options.IncludeHidden,
		DirsOnly:        options.DirsOnly,
		FiltersEnabled:  options.FiltersEnabled,
		IgnoreFileNames: options.IgnoreFileNames,
		IgnorePatterns:  options.Ignore,
		IncludePatterns: options.Include,
		IgnoreCase:      options.IgnoreCase,
		FileLimit:       options.FileLimit,
		Warn:            warn,
	}
}

// OutputOptions converts the listing options for a backend. colorEnabled is
// the already resolved color mode.
func (options TreeOptions) OutputOptions(colorEnabled bool) output.Options {
	return output.Options{
		FullPath:   options.FullPath,
		NoIndent:   options.NoIndent,
		Charset:    options.Charset,
		ShowSize:   options.ShowSize,
		HumanSize:  options.HumanSize,
		ShowPerms:  options.ShowPerms,
		ShowUser:   options.ShowUser,
		ShowGroup:  options.ShowGroup,
		ShowDate:   options.ShowDate,
		ShowInode:  options.ShowInode,
		ShowDevice: options.ShowDevice,
		Classify:   options.Classify,
		Color:      colorEnabled,
		NoReport:   options.NoReport,
		ReportSize: options.ReportSize,
		DirsOnly:   options.DirsOnly,
		Title:      options.Title,
		BaseHREF:   options.BaseHREF,
		TimeFormat: options.TimeFormat,
	}
}

func applyBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func applyInt(target *int, value *int) {
	if value != nil {
		*target = *value
	}
}
