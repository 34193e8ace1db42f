package filter

import (
	"path/filepath"
	"strings"
)

const errorPopEmptyStack = "filter: pop on empty scope stack"

// Stack holds the scopes of the directories currently being traversed.
type Stack struct {
	scopes   []*Scope
	foldCase bool
}

// NewStack returns an empty stack. foldCase enables case-insensitive matching.
func NewStack(foldCase bool) *Stack {
	return &Stack{foldCase: foldCase}
}

// Push makes scope the innermost one. A scope without a parent inherits the
// current top.
func (stack *Stack) Push(scope *Scope) {
	if scope.Parent == nil {
		scope.Parent = stack.Top()
	}
	stack.scopes = append(stack.scopes, scope)
}

// Pop removes and returns the innermost scope. Popping an empty stack is a
// programming error and panics.
func (stack *Stack) Pop() *Scope {
	if len(stack.scopes) == 0 {
		panic(errorPopEmptyStack)
	}
	last := stack.scopes[len(stack.scopes)-1]
	stack.scopes = stack.scopes[:len(stack.scopes)-1]
	return last
}

// Top returns the innermost scope or nil.
func (stack *Stack) Top() *Scope {
	if len(stack.scopes) == 0 {
		return nil
	}
	return stack.scopes[len(stack.scopes)-1]
}

// Depth returns the number of pushed scopes.
func (stack *Stack) Depth() int {
	return len(stack.scopes)
}

// Excluded reports whether the candidate at path is filtered out. Scopes are
// consulted from the innermost outward and the first one with a matching rule
// decides.
func (stack *Stack) Excluded(path string, name string, isDir bool) bool {
	for scope := stack.Top(); scope != nil; scope = scope.Parent {
		if matched, excluded := scope.decide(path, name, isDir, stack.foldCase); matched {
			return excluded
		}
	}
	return false
}

// IncludeSet restricts files to names matching at least one pattern.
// Directories always pass.
type IncludeSet struct {
	patterns []string
	foldCase bool
}

// NewIncludeSet builds an include set. Empty patterns are dropped.
func NewIncludeSet(patterns []string, foldCase bool) IncludeSet {
	var kept []string
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if foldCase {
			trimmedPattern = strings.ToLower(trimmedPattern)
		}
		kept = append(kept, trimmedPattern)
	}
	return IncludeSet{patterns: kept, foldCase: foldCase}
}

// Allows reports whether the candidate survives the include patterns.
func (set IncludeSet) Allows(name string, isDir bool) bool {
	if isDir || len(set.patterns) == 0 {
		return true
	}
	if set.foldCase {
		name = strings.ToLower(name)
	}
	for _, pattern := range set.patterns {
		if isMatched, matchError := filepath.Match(pattern, name); matchError == nil && isMatched {
			return true
		}
	}
	return false
}
