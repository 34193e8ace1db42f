// Package utils contains helpers shared by the lstree packages.
package utils

import "strings"

// Ignore file constants used across the project.
const (
	// IgnoreFileName is the name of the generic ignore file.
	IgnoreFileName = ".ignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
)

// DeduplicatePatterns removes blank and duplicate patterns while preserving
// order. The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// SplitPatternList splits comma or pipe separated flag values into patterns.
func SplitPatternList(values []string) []string {
	var patterns []string
	for _, value := range values {
		patterns = append(patterns, strings.FieldsFunc(value, func(character rune) bool {
			return character == ',' || character == '|'
		})...)
	}
	return DeduplicatePatterns(patterns)
}
