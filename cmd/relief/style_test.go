package main

import (
	"errors"
	"strings"
	"testing"
)

func TestStyleCheckLines(t *testing.T) {
	plain := style{}
	if got := plain.check("State directory", true, "/tmp"); got != "  State directory:     [OK] /tmp" {
		t.Fatalf("unexpected plain check %q", got)
	}
	if got := plain.check("Conversion server", false, ""); !strings.HasSuffix(got, "[FAIL]") {
		t.Fatalf("unexpected failing check %q", got)
	}

	colored := style{color: true}
	got := colored.check("State directory", false, "missing")
	if !strings.HasPrefix(got, ansiRed) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected red check line, got %q", got)
	}
}

func TestStyleHeadingAndNotice(t *testing.T) {
	plain := style{}
	if got := plain.heading("Workers", "(updated now)"); got != "== Workers == (updated now)\n-------------\n" {
		t.Fatalf("unexpected heading %q", got)
	}
	if got := plain.notice("Refresh failed", errors.New("boom")); got != "  ! Refresh failed: boom" {
		t.Fatalf("unexpected notice %q", got)
	}
}
