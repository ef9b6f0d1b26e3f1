// Package browser opens preview pages in the user's default web browser.
package browser

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

func init() {
	// xdg-open and friends are chatty; keep the terminal for our own output.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Opener launches URLs in the system browser.
type Opener struct{}

// Open asks the desktop environment to show url in the default browser.
func (Opener) Open(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}
