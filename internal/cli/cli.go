// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/lstree/internal/config"
	"github.com/temirov/lstree/internal/output"
	"github.com/temirov/lstree/internal/render"
	"github.com/temirov/lstree/internal/services/clipboard"
	"github.com/temirov/lstree/internal/sorting"
	"github.com/temirov/lstree/internal/types"
	"github.com/temirov/lstree/internal/utils"
	"github.com/temirov/lstree/internal/walk"
)

const (
	versionTemplate      = "lstree version: %s\n"
	defaultPath          = "."
	rootUse              = "lstree [paths...]"
	rootShortDescription = "list directory contents as a tree"
	rootLongDescription  = `lstree lists the contents of one or more directories as a tree.
Entries matched by .gitignore and .ignore files are hidden; use --no-gitignore
and --no-ignore to show them. Use --format to select plain, html, xml or json
output, and lstree init to write a default config.yaml.`
	rootUsageExample = `  # Two levels of the current directory, directories first
  lstree -L 2 --dirsfirst

  # JSON listing with sizes and permissions written to a file
  lstree --format json -s -p -o tree.json ./cmd ./internal

  # Skip temporary files and copy the result to the clipboard
  lstree -I '*.tmp' --clipboard`

	initUse              = "init"
	initShortDescription = "write a default config.yaml"
	initSuccessFormat    = "configuration written to %s\n"

	configFlagName      = "config"
	outputFlagName      = "output"
	formatFlagName      = "format"
	levelFlagName       = "level"
	fileLimitFlagName   = "filelimit"
	sortFlagName        = "sort"
	reverseFlagName     = "reverse"
	dirsFirstFlagName   = "dirsfirst"
	filesFirstFlagName  = "filesfirst"
	versionSortFlagName = "version-sort"
	timeSortFlagName    = "time-sort"
	changeSortFlagName  = "change-sort"
	unsortedFlagName    = "unsorted"
	allFlagName         = "all"
	dirsOnlyFlagName    = "dirs-only"
	followFlagName      = "follow"
	fullPathFlagName    = "full-path"
	noIndentFlagName    = "no-indent"
	ignoreFlagName      = "ignore"
	patternFlagName     = "pattern"
	ignoreCaseFlagName  = "ignore-case"
	noGitignoreFlagName = "no-gitignore"
	noIgnoreFlagName    = "no-ignore"
	sizeFlagName        = "size"
	humanFlagName       = "human"
	permsFlagName       = "perms"
	userFlagName        = "user"
	groupFlagName       = "group"
	dateFlagName        = "date"
	inodeFlagName       = "inode"
	deviceFlagName      = "device"
	classifyFlagName    = "classify"
	timeFormatFlagName  = "timefmt"
	noReportFlagName    = "noreport"
	reportSizeFlagName  = "report-size"
	charsetFlagName     = "charset"
	colorFlagName       = "color"
	titleFlagName       = "title"
	baseHREFFlagName    = "base-href"
	streamFlagName      = "stream"
	clipboardFlagName   = "clipboard"
	versionFlagName     = "version"
	globalFlagName      = "global"
	forceFlagName       = "force"

	configFlagDescription      = "configuration file to read instead of ./config.yaml"
	outputFlagDescription      = "write the listing to a file instead of standard output"
	formatFlagDescription      = "output format: plain, html, xml or json"
	levelFlagDescription       = "descend at most this many levels (0 means unlimited)"
	fileLimitFlagDescription   = "do not descend into directories with more entries than this"
	sortFlagDescription        = "sort by name, reverse-name, version, size, mtime, ctime or none"
	reverseFlagDescription     = "reverse the sort order"
	dirsFirstFlagDescription   = "list directories before files"
	filesFirstFlagDescription  = "list files before directories"
	versionSortFlagDescription = "sort by version (natural) order"
	timeSortFlagDescription    = "sort by modification time"
	changeSortFlagDescription  = "sort by status change time"
	unsortedFlagDescription    = "keep directory order"
	allFlagDescription         = "list hidden entries"
	dirsOnlyFlagDescription    = "list directories only"
	followFlagDescription      = "descend into symbolic links to directories"
	fullPathFlagDescription    = "print the full path of every entry"
	noIndentFlagDescription    = "do not print indentation lines"
	ignoreFlagDescription      = "skip entries matching the pattern (repeatable, | separated)"
	patternFlagDescription     = "list only files matching the pattern (repeatable, | separated)"
	ignoreCaseFlagDescription  = "match patterns without regard to case"
	noGitignoreFlagDescription = "do not read .gitignore files"
	noIgnoreFlagDescription    = "do not read .ignore files"
	sizeFlagDescription        = "print the size of every entry"
	humanFlagDescription       = "print sizes in human readable units"
	permsFlagDescription       = "print permissions"
	userFlagDescription        = "print the owner id"
	groupFlagDescription       = "print the group id"
	dateFlagDescription        = "print the modification time"
	inodeFlagDescription       = "print inode numbers"
	deviceFlagDescription      = "print device numbers"
	classifyFlagDescription    = "append / * = | @ indicators"
	timeFormatFlagDescription  = "Go time layout used by --date"
	noReportFlagDescription    = "omit the directory and file count"
	reportSizeFlagDescription  = "add the total size to the report"
	charsetFlagDescription     = "connector characters: utf8 or ascii"
	colorFlagDescription       = "colorize plain output: auto, always or never"
	titleFlagDescription       = "title of the html document"
	baseHREFFlagDescription    = "link html entries below this URL"
	streamFlagDescription      = "read one directory at a time instead of building the whole tree first"
	clipboardFlagDescription   = "copy the listing to the system clipboard"
	versionFlagDescription     = "display application version"
	globalFlagDescription      = "write ~/.lstree/config.yaml instead of ./config.yaml"
	forceFlagDescription       = "overwrite an existing configuration file"

	errorAbsolutePathFormat  = "abs failed for '%s': %w"
	errorPathMissingFormat   = "path '%s' does not exist: %w"
	errorStatFormat          = "stat failed for '%s': %w"
	errorNoValidPaths        = "no valid paths"
	errorCreateOutputFormat  = "create output file %s: %w"
	errorCloseOutputFormat   = "close output file %s: %w"
	errorClipboardFormat     = "copy to clipboard: %w"
	errorLoadConfigFormat    = "load configuration: %w"
	errorInvalidOptionFormat = "invalid options: %w"
)

// Dependencies holds the process-wide services commands use.
type Dependencies struct {
	Logger *zap.Logger
	Copier clipboard.Copier
}

// Execute runs the lstree application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(Dependencies{Logger: logger, Copier: clipboard.NewService()})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// listingFlags mirrors every listing flag. Values only override configuration
// when the flag was set on the command line.
type listingFlags struct {
	configPath  string
	outputPath  string
	format      string
	level       int
	fileLimit   int
	sortMode    string
	reverse     bool
	dirsFirst   bool
	filesFirst  bool
	versionSort bool
	timeSort    bool
	changeSort  bool
	unsorted    bool
	all         bool
	dirsOnly    bool
	follow      bool
	fullPath    bool
	noIndent    bool
	ignore      []string
	include     []string
	ignoreCase  bool
	noGitignore bool
	noIgnore    bool
	size        bool
	human       bool
	perms       bool
	user        bool
	group       bool
	date        bool
	inode       bool
	device      bool
	classify    bool
	timeFormat  string
	noReport    bool
	reportSize  bool
	charset     string
	color       string
	title       string
	baseHREF    string
	stream      bool
	clipboard   bool
	showVersion bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}
	flags := &listingFlags{}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			return runListing(command, arguments, flags, dependencies)
		},
	}
	addListingFlags(rootCommand.Flags(), flags)
	rootCommand.AddCommand(createInitCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func addListingFlags(flagSet *pflag.FlagSet, flags *listingFlags) {
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	flagSet.StringVarP(&flags.outputPath, outputFlagName, "o", "", outputFlagDescription)
	flagSet.StringVar(&flags.format, formatFlagName, types.FormatPlain, formatFlagDescription)
	flagSet.IntVarP(&flags.level, levelFlagName, "L", 0, levelFlagDescription)
	flagSet.IntVar(&flags.fileLimit, fileLimitFlagName, 0, fileLimitFlagDescription)
	flagSet.StringVar(&flags.sortMode, sortFlagName, string(sorting.ModeName), sortFlagDescription)
	registerBooleanFlagP(flagSet, &flags.reverse, reverseFlagName, "r", false, reverseFlagDescription)
	registerBooleanFlag(flagSet, &flags.dirsFirst, dirsFirstFlagName, false, dirsFirstFlagDescription)
	registerBooleanFlag(flagSet, &flags.filesFirst, filesFirstFlagName, false, filesFirstFlagDescription)
	registerBooleanFlagP(flagSet, &flags.versionSort, versionSortFlagName, "v", false, versionSortFlagDescription)
	registerBooleanFlagP(flagSet, &flags.timeSort, timeSortFlagName, "t", false, timeSortFlagDescription)
	registerBooleanFlagP(flagSet, &flags.changeSort, changeSortFlagName, "c", false, changeSortFlagDescription)
	registerBooleanFlagP(flagSet, &flags.unsorted, unsortedFlagName, "U", false, unsortedFlagDescription)
	registerBooleanFlagP(flagSet, &flags.all, allFlagName, "a", false, allFlagDescription)
	registerBooleanFlagP(flagSet, &flags.dirsOnly, dirsOnlyFlagName, "d", false, dirsOnlyFlagDescription)
	registerBooleanFlagP(flagSet, &flags.follow, followFlagName, "l", false, followFlagDescription)
	registerBooleanFlagP(flagSet, &flags.fullPath, fullPathFlagName, "f", false, fullPathFlagDescription)
	registerBooleanFlagP(flagSet, &flags.noIndent, noIndentFlagName, "i", false, noIndentFlagDescription)
	flagSet.StringArrayVarP(&flags.ignore, ignoreFlagName, "I", nil, ignoreFlagDescription)
	flagSet.StringArrayVarP(&flags.include, patternFlagName, "P", nil, patternFlagDescription)
	registerBooleanFlag(flagSet, &flags.ignoreCase, ignoreCaseFlagName, false, ignoreCaseFlagDescription)
	registerBooleanFlag(flagSet, &flags.noGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	registerBooleanFlag(flagSet, &flags.noIgnore, noIgnoreFlagName, false, noIgnoreFlagDescription)
	registerBooleanFlagP(flagSet, &flags.size, sizeFlagName, "s", false, sizeFlagDescription)
	registerBooleanFlag(flagSet, &flags.human, humanFlagName, false, humanFlagDescription)
	registerBooleanFlagP(flagSet, &flags.perms, permsFlagName, "p", false, permsFlagDescription)
	registerBooleanFlagP(flagSet, &flags.user, userFlagName, "u", false, userFlagDescription)
	registerBooleanFlagP(flagSet, &flags.group, groupFlagName, "g", false, groupFlagDescription)
	registerBooleanFlagP(flagSet, &flags.date, dateFlagName, "D", false, dateFlagDescription)
	registerBooleanFlag(flagSet, &flags.inode, inodeFlagName, false, inodeFlagDescription)
	registerBooleanFlag(flagSet, &flags.device, deviceFlagName, false, deviceFlagDescription)
	registerBooleanFlagP(flagSet, &flags.classify, classifyFlagName, "F", false, classifyFlagDescription)
	flagSet.StringVar(&flags.timeFormat, timeFormatFlagName, output.DefaultTimeFormat, timeFormatFlagDescription)
	registerBooleanFlag(flagSet, &flags.noReport, noReportFlagName, false, noReportFlagDescription)
	registerBooleanFlag(flagSet, &flags.reportSize, reportSizeFlagName, false, reportSizeFlagDescription)
	flagSet.StringVar(&flags.charset, charsetFlagName, output.CharsetUTF8, charsetFlagDescription)
	registerColorFlag(flagSet, &flags.color)
	flagSet.StringVar(&flags.title, titleFlagName, "", titleFlagDescription)
	flagSet.StringVar(&flags.baseHREF, baseHREFFlagName, "", baseHREFFlagDescription)
	registerBooleanFlag(flagSet, &flags.stream, streamFlagName, false, streamFlagDescription)
	registerBooleanFlag(flagSet, &flags.clipboard, clipboardFlagName, false, clipboardFlagDescription)
	registerBooleanFlag(flagSet, &flags.showVersion, versionFlagName, false, versionFlagDescription)
}

// resolve layers explicitly set flags over the loaded configuration.
func (flags *listingFlags) resolve(flagSet *pflag.FlagSet, configuration config.TreeConfiguration) (config.TreeOptions, error) {
	options := configuration.Apply(config.DefaultTreeOptions())
	changed := flagSet.Changed

	if changed(formatFlagName) {
		options.Format = strings.ToLower(flags.format)
	}
	if changed(levelFlagName) {
		options.MaxDepth = flags.level
	}
	if changed(fileLimitFlagName) {
		options.FileLimit = flags.fileLimit
	}
	if changed(sortFlagName) {
		options.Sort = sorting.Mode(strings.ToLower(flags.sortMode))
	}
	shortcutSorts := []struct {
		name    string
		enabled bool
		mode    sorting.Mode
	}{
		{name: versionSortFlagName, enabled: flags.versionSort, mode: sorting.ModeVersion},
		{name: timeSortFlagName, enabled: flags.timeSort, mode: sorting.ModeModifyTime},
		{name: changeSortFlagName, enabled: flags.changeSort, mode: sorting.ModeChangeTime},
		{name: unsortedFlagName, enabled: flags.unsorted, mode: sorting.ModeNone},
	}
	for _, shortcut := range shortcutSorts {
		if changed(shortcut.name) && shortcut.enabled {
			options.Sort = shortcut.mode
		}
	}
	partition := sorting.Mode("")
	if changed(dirsFirstFlagName) && flags.dirsFirst {
		partition = sorting.ModeDirectoriesFirst
	}
	if changed(filesFirstFlagName) && flags.filesFirst {
		partition = sorting.ModeFilesFirst
	}
	if partition != "" {
		if options.Sort != sorting.ModeDirectoriesFirst && options.Sort != sorting.ModeFilesFirst {
			options.SecondarySort = options.Sort
		}
		options.Sort = partition
	}

	booleanOverrides := []struct {
		name   string
		value  bool
		target *bool
	}{
		{name: reverseFlagName, value: flags.reverse, target: &options.Reverse},
		{name: allFlagName, value: flags.all, target: &options.IncludeHidden},
		{name: dirsOnlyFlagName, value: flags.dirsOnly, target: &options.DirsOnly},
		{name: followFlagName, value: flags.follow, target: &options.FollowSymlinks},
		{name: fullPathFlagName, value: flags.fullPath, target: &options.FullPath},
		{name: noIndentFlagName, value: flags.noIndent, target: &options.NoIndent},
		{name: ignoreCaseFlagName, value: flags.ignoreCase, target: &options.IgnoreCase},
		{name: sizeFlagName, value: flags.size, target: &options.ShowSize},
		{name: humanFlagName, value: flags.human, target: &options.HumanSize},
		{name: permsFlagName, value: flags.perms, target: &options.ShowPerms},
		{name: userFlagName, value: flags.user, target: &options.ShowUser},
		{name: groupFlagName, value: flags.group, target: &options.ShowGroup},
		{name: dateFlagName, value: flags.date, target: &options.ShowDate},
		{name: inodeFlagName, value: flags.inode, target: &options.ShowInode},
		{name: deviceFlagName, value: flags.device, target: &options.ShowDevice},
		{name: classifyFlagName, value: flags.classify, target: &options.Classify},
		{name: noReportFlagName, value: flags.noReport, target: &options.NoReport},
		{name: reportSizeFlagName, value: flags.reportSize, target: &options.ReportSize},
		{name: streamFlagName, value: flags.stream, target: &options.Stream},
		{name: clipboardFlagName, value: flags.clipboard, target: &options.Clipboard},
	}
	for _, override := range booleanOverrides {
		if changed(override.name) {
			*override.target = override.value
		}
	}
	if options.HumanSize && changed(humanFlagName) {
		options.ShowSize = true
	}

	if changed(ignoreFlagName) {
		options.Ignore = utils.DeduplicatePatterns(append(append([]string{}, options.Ignore...), utils.SplitPatternList(flags.ignore)...))
	}
	if changed(patternFlagName) {
		options.Include = utils.SplitPatternList(flags.include)
	}
	if changed(noGitignoreFlagName) || changed(noIgnoreFlagName) {
		useGitignore := containsName(options.IgnoreFileNames, utils.GitIgnoreFileName)
		useIgnoreFile := containsName(options.IgnoreFileNames, utils.IgnoreFileName)
		if changed(noGitignoreFlagName) {
			useGitignore = !flags.noGitignore
		}
		if changed(noIgnoreFlagName) {
			useIgnoreFile = !flags.noIgnore
		}
		options.IgnoreFileNames = config.IgnoreFileNames(useGitignore, useIgnoreFile)
		options.FiltersEnabled = len(options.IgnoreFileNames) > 0
	}

	if changed(timeFormatFlagName) {
		options.TimeFormat = flags.timeFormat
	}
	if changed(charsetFlagName) {
		options.Charset = strings.ToLower(flags.charset)
	}
	if changed(colorFlagName) {
		options.Color = flags.color
	}
	if changed(titleFlagName) {
		options.Title = flags.title
	}
	if changed(baseHREFFlagName) {
		options.BaseHREF = flags.baseHREF
	}

	if err := options.Validate(); err != nil {
		return config.TreeOptions{}, fmt.Errorf(errorInvalidOptionFormat, err)
	}
	return options, nil
}

// runListing renders every path argument with the resolved options.
func runListing(command *cobra.Command, arguments []string, flags *listingFlags, dependencies Dependencies) (err error) {
	if len(arguments) == 0 {
		arguments = []string{defaultPath}
	}
	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: flags.configPath})
	if loadError != nil {
		return fmt.Errorf(errorLoadConfigFormat, loadError)
	}
	options, resolveError := flags.resolve(command.Flags(), configuration.Tree)
	if resolveError != nil {
		return resolveError
	}
	validatedPaths, pathValidationError := resolveAndValidatePaths(arguments)
	if pathValidationError != nil {
		return pathValidationError
	}

	builder := walk.New(options.WalkOptions(utils.WarningReporter(dependencies.Logger)))
	source, sourceError := openSource(builder, validatedPaths, options.Stream)
	if sourceError != nil {
		return sourceError
	}

	destination := command.OutOrStdout()
	if flags.outputPath != "" {
		outputFile, createError := os.Create(flags.outputPath)
		if createError != nil {
			return fmt.Errorf(errorCreateOutputFormat, flags.outputPath, createError)
		}
		defer func() {
			if closeError := outputFile.Close(); closeError != nil && err == nil {
				err = fmt.Errorf(errorCloseOutputFormat, flags.outputPath, closeError)
			}
		}()
		destination = outputFile
	}

	colored := colorEnabled(options.Color, destination)
	if options.Clipboard && options.Color == config.ColorAuto {
		colored = false
	}
	var captured bytes.Buffer
	writer := destination
	if options.Clipboard {
		writer = io.MultiWriter(destination, &captured)
	}

	backend, backendError := output.New(options.Format, writer, options.OutputOptions(colored))
	if backendError != nil {
		return backendError
	}
	if _, renderError := render.Render(source, backend); renderError != nil {
		return renderError
	}

	if options.Clipboard {
		if copyError := dependencies.Copier.Copy(captured.String()); copyError != nil {
			return fmt.Errorf(errorClipboardFormat, copyError)
		}
	}
	return nil
}

// openSource builds the whole tree up front unless streaming was requested.
func openSource(builder *walk.Builder, roots []types.ValidatedPath, streamed bool) (render.Source, error) {
	if streamed {
		stream, openError := builder.Open(roots)
		if openError != nil {
			return nil, openError
		}
		return stream, nil
	}
	arena, buildError := builder.Build(roots)
	if buildError != nil {
		return nil, buildError
	}
	return arena, nil
}

func createInitCommand() *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, err := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), initSuccessFormat, path)
			return err
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// resolveAndValidatePaths converts input paths to absolute form and validates their existence.
func resolveAndValidatePaths(inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		info, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath, fileStatusError)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{DisplayPath: inputPath, AbsolutePath: cleanPath, IsDir: info.IsDir()})
	}
	if len(result) == 0 {
		return nil, fmt.Errorf(errorNoValidPaths)
	}
	return result, nil
}

func containsName(names []string, target string) bool {
	for _, name := range names {
		if name == target {
			return true
		}
	}
	return false
}
