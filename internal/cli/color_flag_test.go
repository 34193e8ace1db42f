package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/pflag"

	"github.com/temirov/lstree/internal/config"
)

func TestRegisterColorFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name        string
		arguments   []string
		expected    string
		expectError bool
	}{
		{
			name:      "defaults_to_auto",
			arguments: []string{},
			expected:  config.ColorAuto,
		},
		{
			name:      "bare_flag_forces_color",
			arguments: []string{"--color"},
			expected:  config.ColorAlways,
		},
		{
			name:      "never_with_equals",
			arguments: []string{"--color=never"},
			expected:  config.ColorNever,
		},
		{
			name:      "ls_style_alias",
			arguments: []string{"--color=tty"},
			expected:  config.ColorAuto,
		},
		{
			name:        "rejects_invalid_text",
			arguments:   []string{"--color=sometimes"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var flagValue string
			flagSet := pflag.NewFlagSet("color-flag", pflag.ContinueOnError)
			flagSet.SetOutput(io.Discard)
			registerColorFlag(flagSet, &flagValue)
			parseErr := flagSet.Parse(testCase.arguments)
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected value %s, got %s", testCase.expected, flagValue)
			}
		})
	}
}

func TestColorEnabledForNonTerminalWriters(t *testing.T) {
	var buffer bytes.Buffer
	if colorEnabled(config.ColorAuto, &buffer) {
		t.Fatalf("auto must not color a buffer")
	}
	if !colorEnabled(config.ColorAlways, &buffer) {
		t.Fatalf("always must color any writer")
	}
	if colorEnabled(config.ColorNever, &buffer) {
		t.Fatalf("never must not color")
	}
}
