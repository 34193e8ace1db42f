package filter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Scope is the rule set one directory contributes.
type Scope struct {
	Origin string
	Parent *Scope
	rules  []Rule
}

// NewScope creates a scope rooted at origin. Rules keep their file order.
func NewScope(origin string, rules []Rule, parent *Scope) *Scope {
	return &Scope{
		Origin: filepath.Clean(origin),
		Parent: parent,
		rules:  append([]Rule(nil), rules...),
	}
}

// Rules returns every rule in file order.
func (scope *Scope) Rules() []Rule {
	return append([]Rule(nil), scope.rules...)
}

// Deny returns the deny rules in file order.
func (scope *Scope) Deny() []Rule {
	return scope.withPolarity(Deny)
}

// Allow returns the allow-override rules in file order.
func (scope *Scope) Allow() []Rule {
	return scope.withPolarity(Allow)
}

func (scope *Scope) withPolarity(polarity Polarity) []Rule {
	var selected []Rule
	for _, rule := range scope.rules {
		if rule.Polarity == polarity {
			selected = append(selected, rule)
		}
	}
	return selected
}

// decide evaluates the scope's own rules; the last matching rule wins.
func (scope *Scope) decide(path string, name string, isDir bool, foldCase bool) (bool, bool) {
	relativePath := scope.relative(path)
	matched := false
	excluded := false
	for _, rule := range scope.rules {
		if !rule.Matches(relativePath, name, isDir, foldCase) {
			continue
		}
		matched = true
		excluded = rule.Polarity == Deny
	}
	return matched, excluded
}

func (scope *Scope) relative(path string) string {
	relativePath, relativeError := filepath.Rel(scope.Origin, filepath.Clean(path))
	if relativeError != nil {
		return ""
	}
	return filepath.ToSlash(relativePath)
}

const errorReadIgnoreFileFormat = "read ignore file %s: %w"

// LoadScope reads the named ignore files inside directory and returns the
// combined scope, or nil when none of them define rules. Missing files are
// skipped. A file that exists but cannot be read contributes no rules and its
// error is returned alongside whatever scope the other files produced.
func LoadScope(directory string, fileNames []string, parent *Scope) (*Scope, error) {
	var (
		combinedRules []Rule
		firstError    error
	)
	for _, fileName := range fileNames {
		ignoreFilePath := filepath.Join(directory, fileName)
		fileHandle, openError := os.Open(ignoreFilePath)
		if openError != nil {
			if errors.Is(openError, fs.ErrNotExist) {
				continue
			}
			if firstError == nil {
				firstError = fmt.Errorf(errorReadIgnoreFileFormat, ignoreFilePath, openError)
			}
			continue
		}
		rules, parseError := ParseRules(fileHandle)
		fileHandle.Close()
		if parseError != nil {
			if firstError == nil {
				firstError = fmt.Errorf(errorReadIgnoreFileFormat, ignoreFilePath, parseError)
			}
			continue
		}
		combinedRules = append(combinedRules, rules...)
	}
	if len(combinedRules) == 0 {
		return nil, firstError
	}
	return NewScope(directory, combinedRules, parent), firstError
}
