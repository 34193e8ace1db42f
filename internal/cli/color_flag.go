package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/temirov/lstree/internal/config"
)

const (
	colorFlagTypeName            = "when"
	invalidColorFlagValueMessage = "invalid color mode '%s' (expected auto, always or never)"
	noColorEnvironmentVariable   = "NO_COLOR"
)

var colorFlagLiterals = map[string]string{
	"":       config.ColorAlways,
	"always": config.ColorAlways,
	"yes":    config.ColorAlways,
	"force":  config.ColorAlways,
	"auto":   config.ColorAuto,
	"tty":    config.ColorAuto,
	"never":  config.ColorNever,
	"no":     config.ColorNever,
	"none":   config.ColorNever,
}

// colorFlagValue accepts the ls-style --color[=WHEN] spellings.
type colorFlagValue struct {
	target *string
}

func (value *colorFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf(invalidColorFlagValueMessage, input)
	}
	mode, ok := colorFlagLiterals[strings.ToLower(strings.TrimSpace(input))]
	if !ok {
		return fmt.Errorf(invalidColorFlagValueMessage, input)
	}
	*value.target = mode
	return nil
}

func (value *colorFlagValue) String() string {
	if value == nil || value.target == nil {
		return config.ColorAuto
	}
	return *value.target
}

func (value *colorFlagValue) Type() string {
	return colorFlagTypeName
}

func registerColorFlag(flagSet *pflag.FlagSet, target *string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = config.ColorAuto
	flagSet.Var(&colorFlagValue{target: target}, colorFlagName, colorFlagDescription)
	if lookup := flagSet.Lookup(colorFlagName); lookup != nil {
		lookup.NoOptDefVal = config.ColorAlways
	}
}

// colorEnabled resolves a color mode for writer. auto colors only terminals
// and honors NO_COLOR.
func colorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, disabled := os.LookupEnv(noColorEnvironmentVariable); disabled {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
