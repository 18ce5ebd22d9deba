package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestFlagIndicator(t *testing.T) {
	if got := ansi.Strip(FlagIndicator(true)); got != "● on" {
		t.Errorf("FlagIndicator(true) = %q, want %q", got, "● on")
	}
	if got := ansi.Strip(FlagIndicator(false)); got != "● off" {
		t.Errorf("FlagIndicator(false) = %q, want %q", got, "● off")
	}
}

func TestFormatKeyBinding(t *testing.T) {
	got := ansi.Strip(FormatKeyBinding("q", "quit"))
	if !strings.Contains(got, "q quit") {
		t.Errorf("FormatKeyBinding = %q, want to contain %q", got, "q quit")
	}
}
