// Package classmodel builds normalized class models from extracted class
// descriptors: it resolves type names, derives use edges and collects
// ancestor classes.
package classmodel

import (
	"strings"

	"github.com/don7panic/classgen/models"
)

// ResolveTypeName turns a raw type annotation into the reference rendered in
// diagrams. Parameterized forms (text containing both '<' and '>') render as
// their erased name, since the diagram grammar cannot nest angle brackets.
// Other forward references keep their text verbatim in every position.
func ResolveTypeName(raw models.RawType) models.TypeReference {
	if isParameterized(raw.Text) {
		erased := ErasedName(raw)
		return models.TypeReference{
			Name:          erased,
			Full:          erased,
			Erased:        erased,
			Parameterized: true,
			Unresolved:    raw.Forward,
		}
	}
	if raw.Forward {
		return models.TypeReference{
			Name:       raw.Text,
			Full:       raw.Text,
			Erased:     raw.Text,
			Unresolved: true,
		}
	}
	return models.TypeReference{
		Name:   raw.Text,
		Full:   raw.Text,
		Erased: ErasedName(raw),
	}
}

// ErasedName returns the named type a use edge points at: raw's Base when
// the extractor supplied one, otherwise the text without pointer, slice and
// array prefixes, cut at the first type parameter list.
func ErasedName(raw models.RawType) string {
	if raw.Base != "" {
		return raw.Base
	}
	text := trimElementPrefixes(raw.Text)
	if i := strings.IndexAny(text, "<["); i > 0 {
		text = text[:i]
	}
	return text
}

// trimElementPrefixes strips leading "*", "[]" and "[N]".
func trimElementPrefixes(text string) string {
	for {
		switch {
		case strings.HasPrefix(text, "*"):
			text = text[1:]
		case strings.HasPrefix(text, "["):
			end := strings.IndexByte(text, ']')
			if end < 0 {
				return text
			}
			text = text[end+1:]
		default:
			return text
		}
	}
}

func isParameterized(text string) bool {
	return strings.Contains(text, "<") && strings.Contains(text, ">")
}
