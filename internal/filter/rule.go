// Package filter decides which directory entries are excluded from a listing.
//
// Rules come from gitignore-like files. Every directory that defines rules
// contributes a Scope; scopes are pushed and popped on a Stack that mirrors the
// directory recursion, and the innermost scope with a matching rule decides.
package filter

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"
)

const (
	commentMarker   = "#"
	negationMarker  = "!"
	escapeMarker    = `\`
	pathSeparator   = "/"
	anyDepthSegment = "**"
	anyDepthPrefix  = anyDepthSegment + pathSeparator
)

// Polarity tells whether a matching rule excludes or re-includes an entry.
type Polarity int

const (
	// Deny excludes matching entries.
	Deny Polarity = iota
	// Allow overrides an earlier or outer Deny.
	Allow
)

// Rule is one parsed filter line.
type Rule struct {
	Pattern       string
	Anchored      bool
	DirectoryOnly bool
	Polarity      Polarity
}

// ParseRule converts a single line into a Rule. The boolean result is false for
// empty lines and comments.
func ParseRule(line string) (Rule, bool) {
	trimmedLine := strings.TrimSpace(line)
	if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentMarker) {
		return Rule{}, false
	}

	rule := Rule{Polarity: Deny}
	switch {
	case strings.HasPrefix(trimmedLine, negationMarker):
		rule.Polarity = Allow
		trimmedLine = strings.TrimPrefix(trimmedLine, negationMarker)
	case strings.HasPrefix(trimmedLine, escapeMarker+negationMarker),
		strings.HasPrefix(trimmedLine, escapeMarker+commentMarker):
		trimmedLine = strings.TrimPrefix(trimmedLine, escapeMarker)
	}

	normalizedPattern := trimmedLine
	if strings.HasSuffix(normalizedPattern, pathSeparator) {
		rule.DirectoryOnly = true
		normalizedPattern = strings.TrimRight(normalizedPattern, pathSeparator)
	}
	if strings.HasPrefix(normalizedPattern, anyDepthPrefix) && !strings.Contains(strings.TrimPrefix(normalizedPattern, anyDepthPrefix), pathSeparator) {
		normalizedPattern = strings.TrimPrefix(normalizedPattern, anyDepthPrefix)
	}
	if strings.HasPrefix(normalizedPattern, pathSeparator) {
		rule.Anchored = true
		normalizedPattern = strings.TrimLeft(normalizedPattern, pathSeparator)
	} else if strings.Contains(normalizedPattern, pathSeparator) {
		rule.Anchored = true
	}
	if normalizedPattern == "" {
		return Rule{}, false
	}
	rule.Pattern = normalizedPattern
	return rule, true
}

// ParseRules reads rules line by line, keeping file order.
func ParseRules(reader io.Reader) ([]Rule, error) {
	var rules []Rule
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		rule, ok := ParseRule(scanner.Text())
		if !ok {
			continue
		}
		rules = append(rules, rule)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return rules, nil
}

// Matches reports whether the rule applies to a candidate. relativePath is the
// candidate path relative to the rule's scope origin in forward-slash form.
func (rule Rule) Matches(relativePath string, name string, isDir bool, foldCase bool) bool {
	if rule.DirectoryOnly && !isDir {
		return false
	}
	pattern := rule.Pattern
	if foldCase {
		pattern = strings.ToLower(pattern)
		relativePath = strings.ToLower(relativePath)
		name = strings.ToLower(name)
	}
	if !rule.Anchored {
		return globMatch(pattern, name)
	}
	if relativePath == "" || relativePath == "." || relativePath == ".." || strings.HasPrefix(relativePath, "../") {
		return false
	}
	return segmentsMatch(strings.Split(relativePath, pathSeparator), strings.Split(pattern, pathSeparator))
}

// segmentsMatch reports whether each pattern segment matches the corresponding
// path segment using filepath.Match semantics. A "**" segment matches zero or
// more path segments.
func segmentsMatch(pathSegments []string, patternSegments []string) bool {
	if len(patternSegments) == 0 {
		return len(pathSegments) == 0
	}
	if patternSegments[0] == anyDepthSegment {
		for consumed := 0; consumed <= len(pathSegments); consumed++ {
			if segmentsMatch(pathSegments[consumed:], patternSegments[1:]) {
				return true
			}
		}
		return false
	}
	if len(pathSegments) == 0 {
		return false
	}
	if !globMatch(patternSegments[0], pathSegments[0]) {
		return false
	}
	return segmentsMatch(pathSegments[1:], patternSegments[1:])
}

func globMatch(pattern string, value string) bool {
	isMatched, matchError := filepath.Match(pattern, value)
	return matchError == nil && isMatched
}
