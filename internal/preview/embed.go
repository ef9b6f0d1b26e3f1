// Package preview renders the HTML page that shows one character in each
// candidate font family. Rendering is pure: no I/O, no shared state.
package preview

import _ "embed"

//go:embed statics/template.html
var pageSource string

//go:embed statics/preview_block_template.html
var blockSource string

//go:embed statics/style.css
var styleSource string
