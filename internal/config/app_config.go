package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/lstree/internal/utils"
)

const (
	errorWorkingDirectoryFormat = "determine working directory: %w"
	errorResolvePathFormat      = "resolve configuration path %s: %w"
	errorStatFormat             = "stat configuration %s: %w"
	errorDirectoryFormat        = "configuration path %s is a directory"
	errorReadFormat             = "read configuration from %s: %w"
	errorDecodeFormat           = "decode configuration from %s: %w"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration is the content of a config.yaml file.
type ApplicationConfiguration struct {
	Tree TreeConfiguration `mapstructure:"tree"`
}

// TreeConfiguration holds listing defaults. Unset values are nil or empty so
// that a later file only overrides what it names.
type TreeConfiguration struct {
	Format         string               `mapstructure:"format"`
	Sort           string               `mapstructure:"sort"`
	SecondarySort  string               `mapstructure:"secondary_sort"`
	Reverse        *bool                `mapstructure:"reverse"`
	MaxDepth       *int                 `mapstructure:"max_depth"`
	FileLimit      *int                 `mapstructure:"file_limit"`
	FollowSymlinks *bool                `mapstructure:"follow_symlinks"`
	IncludeHidden  *bool                `mapstructure:"all"`
	DirsOnly       *bool                `mapstructure:"dirs_only"`
	Stream         *bool                `mapstructure:"stream"`
	Color          string               `mapstructure:"color"`
	Charset        string               `mapstructure:"charset"`
	Clipboard      *bool                `mapstructure:"clipboard"`
	Paths          PathConfiguration    `mapstructure:"paths"`
	Display        DisplayConfiguration `mapstructure:"display"`
	Report         ReportConfiguration  `mapstructure:"report"`
	HTML           HTMLConfiguration    `mapstructure:"html"`
}

// PathConfiguration configures which entries are listed.
type PathConfiguration struct {
	Exclude       []string `mapstructure:"exclude"`
	Include       []string `mapstructure:"include"`
	IgnoreCase    *bool    `mapstructure:"ignore_case"`
	UseGitignore  *bool    `mapstructure:"use_gitignore"`
	UseIgnoreFile *bool    `mapstructure:"use_ignore"`
}

// DisplayConfiguration selects the per-entry attributes.
type DisplayConfiguration struct {
	FullPath   *bool  `mapstructure:"full_path"`
	NoIndent   *bool  `mapstructure:"no_indent"`
	Size       *bool  `mapstructure:"size"`
	HumanSize  *bool  `mapstructure:"human"`
	Perms      *bool  `mapstructure:"perms"`
	User       *bool  `mapstructure:"user"`
	Group      *bool  `mapstructure:"group"`
	Date       *bool  `mapstructure:"date"`
	Inode      *bool  `mapstructure:"inode"`
	Device     *bool  `mapstructure:"device"`
	Classify   *bool  `mapstructure:"classify"`
	TimeFormat string `mapstructure:"time_format"`
}

// ReportConfiguration controls the trailing summary.
type ReportConfiguration struct {
	Enabled *bool `mapstructure:"enabled"`
	Size    *bool `mapstructure:"size"`
}

// HTMLConfiguration holds settings only the html format reads.
type HTMLConfiguration struct {
	Title    string `mapstructure:"title"`
	BaseHREF string `mapstructure:"base_href"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Tree.Paths.Exclude = utils.DeduplicatePatterns(merged.Tree.Paths.Exclude)
	merged.Tree.Paths.Include = utils.DeduplicatePatterns(merged.Tree.Paths.Include)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf(errorResolvePathFormat, explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeFormat, path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Tree = result.Tree.merge(override.Tree)
	return result
}

func (config TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := config
	result.Format = mergeString(result.Format, override.Format)
	result.Sort = mergeString(result.Sort, override.Sort)
	result.SecondarySort = mergeString(result.SecondarySort, override.SecondarySort)
	result.Color = mergeString(result.Color, override.Color)
	result.Charset = mergeString(result.Charset, override.Charset)
	result.Reverse = mergeBool(result.Reverse, override.Reverse)
	result.MaxDepth = mergeInt(result.MaxDepth, override.MaxDepth)
	result.FileLimit = mergeInt(result.FileLimit, override.FileLimit)
	result.FollowSymlinks = mergeBool(result.FollowSymlinks, override.FollowSymlinks)
	result.IncludeHidden = mergeBool(result.IncludeHidden, override.IncludeHidden)
	result.DirsOnly = mergeBool(result.DirsOnly, override.DirsOnly)
	result.Stream = mergeBool(result.Stream, override.Stream)
	result.Clipboard = mergeBool(result.Clipboard, override.Clipboard)
	result.Paths = result.Paths.merge(override.Paths)
	result.Display = result.Display.merge(override.Display)
	result.Report = result.Report.merge(override.Report)
	result.HTML = result.HTML.merge(override.HTML)
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.Include) > 0 {
		result.Include = append([]string{}, utils.DeduplicatePatterns(override.Include)...)
	}
	result.IgnoreCase = mergeBool(result.IgnoreCase, override.IgnoreCase)
	result.UseGitignore = mergeBool(result.UseGitignore, override.UseGitignore)
	result.UseIgnoreFile = mergeBool(result.UseIgnoreFile, override.UseIgnoreFile)
	return result
}

func (config DisplayConfiguration) merge(override DisplayConfiguration) DisplayConfiguration {
	result := config
	result.FullPath = mergeBool(result.FullPath, override.FullPath)
	result.NoIndent = mergeBool(result.NoIndent, override.NoIndent)
	result.Size = mergeBool(result.Size, override.Size)
	result.HumanSize = mergeBool(result.HumanSize, override.HumanSize)
	result.Perms = mergeBool(result.Perms, override.Perms)
	result.User = mergeBool(result.User, override.User)
	result.Group = mergeBool(result.Group, override.Group)
	result.Date = mergeBool(result.Date, override.Date)
	result.Inode = mergeBool(result.Inode, override.Inode)
	result.Device = mergeBool(result.Device, override.Device)
	result.Classify = mergeBool(result.Classify, override.Classify)
	result.TimeFormat = mergeString(result.TimeFormat, override.TimeFormat)
	return result
}

func (config ReportConfiguration) merge(override ReportConfiguration) ReportConfiguration {
	result := config
	result.Enabled = mergeBool(result.Enabled, override.Enabled)
	result.Size = mergeBool(result.Size, override.Size)
	return result
}

func (config HTMLConfiguration) merge(override HTMLConfiguration) HTMLConfiguration {
	result := config
	result.Title = mergeString(result.Title, override.Title)
	result.BaseHREF = mergeString(result.BaseHREF, override.BaseHREF)
	return result
}

func mergeString(current string, override string) string {
	if override != "" {
		return override
	}
	return current
}

func mergeBool(current *bool, override *bool) *bool {
	if override != nil {
		return cloneBool(override)
	}
	return current
}

func mergeInt(current *int, override *int) *int {
	if override != nil {
		return cloneInt(override)
	}
	return current
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
