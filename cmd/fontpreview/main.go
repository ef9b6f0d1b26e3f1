// fontpreview shows how one character renders in each of a list of font
// families, on a local web page opened in the browser.
package main

import (
	"os"

	"github.com/fontpreview/fontpreview/cmd/fontpreview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
