package filter_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/lstree/internal/filter"
)

// scopeRoot is the origin of the outer scope used in tests.
const scopeRoot = "/project"

// nestedRoot is the origin of the inner scope used in tests.
const nestedRoot = "/project/nested"

func mustParse(t *testing.T, content string) []filter.Rule {
	t.Helper()
	rules, parseError := filter.ParseRules(strings.NewReader(content))
	if parseError != nil {
		t.Fatalf("ParseRules failed: %v", parseError)
	}
	return rules
}

func TestParseRule(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		line     string
		keep     bool
		expected filter.Rule
	}{
		{name: "empty_line", line: "   ", keep: false},
		{name: "comment", line: "# generated files", keep: false},
		{name: "plain_glob", line: "*.tmp", keep: true, expected: filter.Rule{Pattern: "*.tmp", Polarity: filter.Deny}},
		{name: "negation", line: "!keep.tmp", keep: true, expected: filter.Rule{Pattern: "keep.tmp", Polarity: filter.Allow}},
		{name: "leading_slash_anchors", line: "/build", keep: true, expected: filter.Rule{Pattern: "build", Anchored: true}},
		{name: "inner_slash_anchors", line: "docs/*.md", keep: true, expected: filter.Rule{Pattern: "docs/*.md", Anchored: true}},
		{name: "directory_only", line: "cache/", keep: true, expected: filter.Rule{Pattern: "cache", DirectoryOnly: true}},
		{name: "any_depth_prefix", line: "**/vendor", keep: true, expected: filter.Rule{Pattern: "vendor"}},
		{name: "escaped_negation", line: `\!bang`, keep: true, expected: filter.Rule{Pattern: "!bang"}},
		{name: "escaped_comment", line: `\#hash`, keep: true, expected: filter.Rule{Pattern: "#hash"}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			rule, kept := filter.ParseRule(testCase.line)
			if kept != testCase.keep {
				t.Fatalf("expected keep=%t, got %t", testCase.keep, kept)
			}
			if kept && rule != testCase.expected {
				t.Fatalf("unexpected rule: got %+v want %+v", rule, testCase.expected)
			}
		})
	}
}

func TestScopeViewsKeepFileOrder(t *testing.T) {
	rules := mustParse(t, "a\n!b\nc\n!d\n")
	scope := filter.NewScope(scopeRoot, rules, nil)
	deny := scope.Deny()
	allow := scope.Allow()
	if len(deny) != 2 || deny[0].Pattern != "a" || deny[1].Pattern != "c" {
		t.Fatalf("unexpected deny rules: %+v", deny)
	}
	if len(allow) != 2 || allow[0].Pattern != "b" || allow[1].Pattern != "d" {
		t.Fatalf("unexpected allow rules: %+v", allow)
	}
}

func TestInnerAllowOverridesOuterDeny(t *testing.T) {
	stack := filter.NewStack(false)
	stack.Push(filter.NewScope(scopeRoot, mustParse(t, "*.tmp\n"), nil))

	outerCandidate := filepath.Join(nestedRoot, "keep.tmp")
	if !stack.Excluded(outerCandidate, "keep.tmp", false) {
		t.Fatalf("expected outer deny to exclude keep.tmp")
	}

	stack.Push(filter.NewScope(nestedRoot, mustParse(t, "!keep.tmp\n"), nil))
	if stack.Excluded(outerCandidate, "keep.tmp", false) {
		t.Fatalf("expected inner allow to include keep.tmp")
	}
	if !stack.Excluded(filepath.Join(nestedRoot, "x.tmp"), "x.tmp", false) {
		t.Fatalf("expected x.tmp to stay excluded")
	}

	stack.Pop()
	if !stack.Excluded(outerCandidate, "keep.tmp", false) {
		t.Fatalf("expected deny to apply again after pop")
	}
}

func TestLastMatchingRuleWinsWithinScope(t *testing.T) {
	stack := filter.NewStack(false)
	stack.Push(filter.NewScope(scopeRoot, mustParse(t, "*.log\n!important.log\n"), nil))
	if stack.Excluded(filepath.Join(scopeRoot, "important.log"), "important.log", false) {
		t.Fatalf("expected later allow to re-include important.log")
	}

	stack.Push(filter.NewScope(nestedRoot, mustParse(t, "!important.log\nimportant.log\n"), nil))
	if !stack.Excluded(filepath.Join(nestedRoot, "important.log"), "important.log", false) {
		t.Fatalf("expected later deny to exclude important.log")
	}
}

func TestInnerAnchoredDenyBeatsOuterUnanchoredAllow(t *testing.T) {
	stack := filter.NewStack(false)
	stack.Push(filter.NewScope(scopeRoot, mustParse(t, "!*.md\n"), nil))
	stack.Push(filter.NewScope(nestedRoot, mustParse(t, "/README.md\n"), nil))

	if !stack.Excluded(filepath.Join(nestedRoot, "README.md"), "README.md", false) {
		t.Fatalf("expected innermost anchored deny to win")
	}
	if stack.Excluded(filepath.Join(nestedRoot, "deeper", "README.md"), "README.md", false) {
		t.Fatalf("anchored rule must not match below its origin level")
	}
}

func TestAnchoredAndUnanchoredMatching(t *testing.T) {
	stack := filter.NewStack(false)
	stack.Push(filter.NewScope(scopeRoot, mustParse(t, "/build\ncache/\ndocs/**/draft.md\n"), nil))

	testCases := []struct {
		name     string
		path     string
		isDir    bool
		excluded bool
	}{
		{name: "anchored_at_origin", path: "build", isDir: true, excluded: true},
		{name: "anchored_not_nested", path: "sub/build", isDir: true, excluded: false},
		{name: "directory_only_dir", path: "sub/cache", isDir: true, excluded: true},
		{name: "directory_only_file", path: "sub/cache", isDir: false, excluded: false},
		{name: "double_star_zero_segments", path: "docs/draft.md", excluded: true},
		{name: "double_star_many_segments", path: "docs/a/b/draft.md", excluded: true},
		{name: "double_star_other_root", path: "notes/draft.md", excluded: false},
	}
	for _, testCase := range testCases {
		candidate := filepath.Join(scopeRoot, filepath.FromSlash(testCase.path))
		got := stack.Excluded(candidate, filepath.Base(candidate), testCase.isDir)
		if got != testCase.excluded {
			t.Fatalf("%s: expected excluded=%t, got %t", testCase.name, testCase.excluded, got)
		}
	}
}

func TestFoldCaseMatching(t *testing.T) {
	stack := filter.NewStack(true)
	stack.Push(filter.NewScope(scopeRoot, mustParse(t, "*.TMP\n"), nil))
	if !stack.Excluded(filepath.Join(scopeRoot, "a.tmp"), "a.tmp", false) {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestPopEmptyStackPanics(t *testing.T) {
	defer func() {
		if recovered := recover(); recovered == nil {
			t.Fatalf("expected panic on unmatched pop")
		}
	}()
	filter.NewStack(false).Pop()
}

func TestIncludeSet(t *testing.T) {
	t.Parallel()

	set := filter.NewIncludeSet([]string{"*.go", " "}, false)
	if !set.Allows("main.go", false) {
		t.Fatalf("expected main.go to be allowed")
	}
	if set.Allows("README.md", false) {
		t.Fatalf("expected README.md to be rejected")
	}
	if !set.Allows("internal", true) {
		t.Fatalf("directories must always pass")
	}
	if !filter.NewIncludeSet(nil, false).Allows("anything", false) {
		t.Fatalf("empty include set must allow everything")
	}
}

func TestLoadScope(t *testing.T) {
	t.Parallel()

	ignoreFileNames := []string{".gitignore", ".ignore"}

	emptyDirectory := t.TempDir()
	scope, loadError := filter.LoadScope(emptyDirectory, ignoreFileNames, nil)
	if loadError != nil || scope != nil {
		t.Fatalf("expected no scope and no error, got %v %v", scope, loadError)
	}

	ruleDirectory := t.TempDir()
	if writeError := os.WriteFile(filepath.Join(ruleDirectory, ".gitignore"), []byte("*.tmp\n"), 0o644); writeError != nil {
		t.Fatalf("write: %v", writeError)
	}
	if writeError := os.WriteFile(filepath.Join(ruleDirectory, ".ignore"), []byte("# keep this one\n!keep.tmp\n"), 0o644); writeError != nil {
		t.Fatalf("write: %v", writeError)
	}
	scope, loadError = filter.LoadScope(ruleDirectory, ignoreFileNames, nil)
	if loadError != nil {
		t.Fatalf("LoadScope failed: %v", loadError)
	}
	rules := scope.Rules()
	if len(rules) != 2 || rules[0].Pattern != "*.tmp" || rules[1].Polarity != filter.Allow {
		t.Fatalf("unexpected rules: %+v", rules)
	}

	brokenDirectory := t.TempDir()
	if mkdirError := os.Mkdir(filepath.Join(brokenDirectory, ".gitignore"), 0o755); mkdirError != nil {
		t.Fatalf("mkdir: %v", mkdirError)
	}
	if writeError := os.WriteFile(filepath.Join(brokenDirectory, ".ignore"), []byte("build/\n"), 0o644); writeError != nil {
		t.Fatalf("write: %v", writeError)
	}
	scope, loadError = filter.LoadScope(brokenDirectory, ignoreFileNames, nil)
	if loadError == nil {
		t.Fatalf("expected an error for the unreadable ignore file")
	}
	if scope == nil || len(scope.Rules()) != 1 {
		t.Fatalf("expected the readable file to still contribute rules")
	}
}
