package preview

import (
	"errors"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/fontpreview/fontpreview/internal/ports"
)

var (
	// ErrAlreadyBuilt is returned by BuildFor on a builder that was already built.
	ErrAlreadyBuilt = errors.New("preview: builder already built")

	// ErrInvalidChar is returned for surrogate halves and values beyond U+10FFFF.
	ErrInvalidChar = errors.New("preview: not a Unicode scalar value")
)

// Document is a fully rendered HTML page. It is immutable and safe to share
// between goroutines.
type Document struct {
	html string
}

// NewDocument wraps an already rendered page.
func NewDocument(html string) Document {
	return Document{html: html}
}

func (d Document) String() string { return d.html }

// Len returns the size of the page in bytes.
func (d Document) Len() int { return len(d.html) }

// WriteTo writes the page to w.
func (d Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.html)
	return int64(n), err
}

// Builder accumulates font family names in insertion order and renders them
// into a Document. Duplicates are kept. A Builder is single use: once
// BuildFor has run, further additions are ignored and BuildFor fails.
type Builder struct {
	families []string
	built    bool
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// FromFamilies adds every family from seq in iteration order.
func FromFamilies(seq iter.Seq[ports.Family]) *Builder {
	b := New()
	for f := range seq {
		b.AddFamily(f)
	}
	return b
}

// AddFamily appends the family's default display name and returns b for chaining.
func (b *Builder) AddFamily(f ports.Family) *Builder {
	if b.built {
		return b
	}
	b.families = append(b.families, f.DefaultName())
	return b
}

// Len reports how many preview blocks the page will hold.
func (b *Builder) Len() int {
	return len(b.families)
}

// BuildFor renders one preview block per family showing c, then the page
// around them. Character and family names are HTML-escaped; the family name
// in the block's style attribute is CSS-escaped first.
func (b *Builder) BuildFor(c rune) (Document, error) {
	if b.built {
		return Document{}, ErrAlreadyBuilt
	}
	if !utf8.ValidRune(c) {
		return Document{}, ErrInvalidChar
	}
	b.built = true
	families := b.families
	b.families = nil

	char := string(c)
	var blocks strings.Builder
	for _, family := range families {
		blocks.WriteString(blockTemplate.render(map[string]string{
			slotChar:      char,
			slotFamily:    family,
			slotFamilyCSS: family,
		}))
	}

	page := pageTemplate.render(map[string]string{
		slotStyle:    styleSource,
		slotPreviews: blocks.String(),
	})
	return NewDocument(page), nil
}
