// Package ports defines the contracts between the preview core and its
// adapters. Font discovery lives upstream; it hands over Family values.
package ports

import "strings"

// LocalizedName is one display name of a font family in one language.
// Lang is a BCP 47 tag as found in the font's name table ("en", "zh-Hans", ...).
// An empty Lang means the name carries no language tag.
type LocalizedName struct {
	Lang  string
	Value string
}

// Family is a font family record produced by the upstream font matcher.
// The preview page only ever reads its default display name.
type Family struct {
	Names []LocalizedName
}

// NewFamily returns a Family with a single untagged display name.
func NewFamily(name string) Family {
	return Family{Names: []LocalizedName{{Value: name}}}
}

// DefaultName returns the primary display name, independent of locale.
// An English or untagged name wins; otherwise the first name is used.
// Translated variants are never preferred over the default.
func (f Family) DefaultName() string {
	for _, n := range f.Names {
		if n.Lang == "" || isEnglish(n.Lang) {
			return n.Value
		}
	}
	if len(f.Names) > 0 {
		return f.Names[0].Value
	}
	return ""
}

func isEnglish(lang string) bool {
	lang = strings.ToLower(lang)
	return lang == "en" || strings.HasPrefix(lang, "en-") || strings.HasPrefix(lang, "en_")
}
