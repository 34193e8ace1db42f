// Package clipboard copies rendered listings to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

const errorUnavailableFormat = "clipboard unavailable: %w"

var errUnsupported = errors.New("no clipboard utility found (install xclip, xsel or wl-clipboard)")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard. It fails when no clipboard
// utility is installed.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf(errorUnavailableFormat, errUnsupported)
	}
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
