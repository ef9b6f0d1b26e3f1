package preview

import (
	"fmt"
	"html"
	"io"
	"slices"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	slotStyle     = "style"
	slotPreviews  = "font_previews"
	slotChar      = "char"
	slotFamily    = "family"
	slotFamilyCSS = "family_css"
)

// slotKind selects how a value is escaped when substituted.
type slotKind int

const (
	slotText      slotKind = iota // HTML-escaped
	slotRaw                       // trusted fragment, written verbatim
	slotCSSString                 // body of a quoted CSS string inside an HTML attribute
)

// Parsed once at init. A template whose slots drift from the declared set
// panics here, never while rendering.
var (
	pageTemplate = mustSlotTemplate("page", pageSource, map[string]slotKind{
		slotStyle:    slotRaw,
		slotPreviews: slotRaw,
	})
	blockTemplate = mustSlotTemplate("preview block", blockSource, map[string]slotKind{
		slotChar:      slotText,
		slotFamily:    slotText,
		slotFamilyCSS: slotCSSString,
	})
)

// slotTemplate is a static document with {{name}} substitution slots.
// Every value is escaped for the context its slot declares; raw slots are
// reserved for trusted fragments (the stylesheet and already-rendered blocks).
type slotTemplate struct {
	name  string
	tmpl  *fasttemplate.Template
	slots []string
	kinds map[string]slotKind
}

func newSlotTemplate(name, src string, kinds map[string]slotKind) (*slotTemplate, error) {
	t, err := fasttemplate.NewTemplate(src, "{{", "}}")
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}

	found := make(map[string]bool)
	t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		found[tag] = true
		return 0, nil
	})

	slots := make([]string, 0, len(kinds))
	for s, k := range kinds {
		if k < slotText || k > slotCSSString {
			return nil, fmt.Errorf("%s template: slot %q has unknown kind %d", name, s, k)
		}
		if !found[s] {
			return nil, fmt.Errorf("%s template: missing slot %q", name, s)
		}
		slots = append(slots, s)
	}
	slices.Sort(slots)

	var extra []string
	for tag := range found {
		if _, ok := kinds[tag]; !ok {
			extra = append(extra, tag)
		}
	}
	if len(extra) > 0 {
		slices.Sort(extra)
		return nil, fmt.Errorf("%s template: unknown slots %q", name, extra)
	}

	kindsCopy := make(map[string]slotKind, len(kinds))
	for s, k := range kinds {
		kindsCopy[s] = k
	}
	return &slotTemplate{name: name, tmpl: t, slots: slots, kinds: kindsCopy}, nil
}

func mustSlotTemplate(name, src string, kinds map[string]slotKind) *slotTemplate {
	t, err := newSlotTemplate(name, src, kinds)
	if err != nil {
		panic(err)
	}
	return t
}

// render substitutes every slot. values must carry exactly the declared slots.
func (t *slotTemplate) render(values map[string]string) string {
	if len(values) != len(t.slots) {
		panic(fmt.Sprintf("%s template: got %d values for %d slots", t.name, len(values), len(t.slots)))
	}
	return t.tmpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		v, ok := values[tag]
		if !ok {
			panic(fmt.Sprintf("%s template: no value for slot %q", t.name, tag))
		}
		switch t.kinds[tag] {
		case slotRaw:
			return io.WriteString(w, v)
		case slotCSSString:
			return io.WriteString(w, html.EscapeString(escapeCSSString(v)))
		default:
			return io.WriteString(w, html.EscapeString(v))
		}
	})
}

// escapeCSSString makes s safe inside a single- or double-quoted CSS string.
// Quotes, backslashes, markup characters and control characters become hex
// escapes; the trailing space ends each escape so a following hex digit is
// not swallowed. The attribute value is HTML-decoded before the CSS parser
// sees it, so HTML escaping alone cannot keep a quote from closing the string.
func escapeCSSString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\\', r == '\'', r == '"', r == '<', r == '>', r == '&',
			r < 0x20, r == 0x7f:
			fmt.Fprintf(&b, `\%x `, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
