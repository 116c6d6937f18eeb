package job

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind is the wire name of a job type.
type Kind string

const (
	KindUnselected Kind = "UNSELECTED"
	KindSVG        Kind = "svg"
	KindSTL        Kind = "stl"
	Kind3MF        Kind = "3mf"
	KindBacked3MF  Kind = "backed_3mf"
	KindStacked3MF Kind = "stacked_3mf"
)

// Kinds lists every submittable kind in display order.
func Kinds() []Kind {
	return []Kind{KindSVG, KindSTL, Kind3MF, KindBacked3MF, KindStacked3MF}
}

// ParseKind resolves a wire name, ignoring case and surrounding whitespace.
func ParseKind(raw string) (Kind, error) {
	candidate := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if candidate.Valid() {
		return candidate, nil
	}
	return KindUnselected, fmt.Errorf("%w: %q", ErrInvalidJobType, raw)
}

// Valid reports whether k is a submittable kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSVG, KindSTL, Kind3MF, KindBacked3MF, KindStacked3MF:
		return true
	default:
		return false
	}
}

// Extension returns the canonical output extension, including the dot.
func (k Kind) Extension() string {
	switch k {
	case KindSVG:
		return ".svg"
	case KindSTL:
		return ".stl"
	case Kind3MF, KindBacked3MF, KindStacked3MF:
		return ".3mf"
	default:
		return ""
	}
}

// ConsumesAll reports whether a submission of this kind uses every staged
// file rather than just the first.
func (k Kind) ConsumesAll() bool {
	return k == KindStacked3MF
}

var titleCaser = cases.Title(language.Und)

// DisplayName renders k for humans, e.g. "Backed 3MF".
func (k Kind) DisplayName() string {
	if !k.Valid() {
		return titleCaser.String(strings.ToLower(string(k)))
	}
	words := strings.Fields(strings.ReplaceAll(string(k), "_", " "))
	for i, word := range words {
		if len(word) <= 3 || strings.IndexFunc(word, unicode.IsDigit) >= 0 {
			words[i] = strings.ToUpper(word)
			continue
		}
		words[i] = titleCaser.String(word)
	}
	return strings.Join(words, " ")
}

func (k Kind) String() string {
	return string(k)
}
