package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset       = "\x1b[0m"
	ansiRed         = "\x1b[31m"
	ansiGreen       = "\x1b[32m"
	ansiYellow      = "\x1b[33m"
	ansiCyan        = "\x1b[36m"
	ansiClearScreen = "\x1b[H\x1b[2J"
)

const checkLabelWidth = 20

// style renders headings and check lines, with ANSI colour only on a tty.
type style struct {
	color bool
}

func styleFor(w io.Writer) style {
	return style{color: isTerminal(w)}
}

func (s style) paint(code, text string) string {
	if !s.color || code == "" {
		return text
	}
	return code + text + ansiReset
}

// heading returns a title line and a rule of the same width. extra is shown
// after the title, uncoloured.
func (s style) heading(title, extra string) string {
	title = strings.TrimSpace(title)
	line := "== " + title + " =="
	rule := strings.Repeat("-", len(line))
	if extra != "" {
		return s.paint(ansiCyan, line) + " " + extra + "\n" + s.paint(ansiCyan, rule) + "\n"
	}
	return s.paint(ansiCyan, line) + "\n" + s.paint(ansiCyan, rule) + "\n"
}

// check renders one pass/fail line, as printed by doctor.
func (s style) check(label string, passed bool, detail string) string {
	tag, code := "[OK]", ansiGreen
	if !passed {
		tag, code = "[FAIL]", ansiRed
	}
	line := fmt.Sprintf("  %-*s %s", checkLabelWidth, label+":", tag)
	if detail != "" {
		line += " " + detail
	}
	return s.paint(code, line)
}

// notice renders a transient warning under a board section.
func (s style) notice(label string, err error) string {
	return s.paint(ansiYellow, fmt.Sprintf("  ! %s: %v", label, err))
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
