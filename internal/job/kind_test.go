package job

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	for _, raw := range []string{"svg", "STL", " 3mf ", "Backed_3MF", "stacked_3mf"} {
		kind, err := ParseKind(raw)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", raw, err)
		}
		if !kind.Valid() {
			t.Fatalf("ParseKind(%q) returned invalid kind %q", raw, kind)
		}
	}
	for _, raw := range []string{"", "UNSELECTED", "png", "stacked"} {
		if _, err := ParseKind(raw); !errors.Is(err, ErrInvalidJobType) {
			t.Fatalf("ParseKind(%q) error = %v, want ErrInvalidJobType", raw, err)
		}
	}
}

func TestKindDisplayName(t *testing.T) {
	want := map[Kind]string{
		KindSVG:        "SVG",
		KindSTL:        "STL",
		Kind3MF:        "3MF",
		KindBacked3MF:  "Backed 3MF",
		KindStacked3MF: "Stacked 3MF",
		KindUnselected: "Unselected",
	}
	for kind, label := range want {
		if got := kind.DisplayName(); got != label {
			t.Fatalf("%s.DisplayName() = %q, want %q", kind, got, label)
		}
	}
}

func TestSpecForMatchesKind(t *testing.T) {
	for _, kind := range Kinds() {
		spec, err := SpecFor(kind, Dimensions{Z: 1}, 0.5)
		if err != nil {
			t.Fatalf("SpecFor(%s): %v", kind, err)
		}
		if spec.Kind() != kind {
			t.Fatalf("SpecFor(%s) produced %s", kind, spec.Kind())
		}
	}
	if _, err := SpecFor(KindUnselected, Dimensions{}, 0); !errors.Is(err, ErrInvalidJobType) {
		t.Fatalf("expected ErrInvalidJobType, got %v", err)
	}
}
