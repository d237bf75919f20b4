package mdmath

import (
	"strings"
	"testing"
)

func TestThemeByName(t *testing.T) {
	expected := []string{"default", "gruvbox", "nord", "solarized-light", "boring"}
	for _, name := range expected {
		if _, ok := ThemeByName(name); !ok {
			t.Fatalf("expected theme %q to be available", name)
		}
	}
	if theme, ok := ThemeByName("  NORD "); !ok || theme.Name() != "nord" {
		t.Fatalf("expected case-insensitive lookup of nord")
	}
	if theme, ok := ThemeByName(""); !ok || theme.Name() != "default" {
		t.Fatalf("expected empty name to select the default theme")
	}
	if _, ok := ThemeByName("missing"); ok {
		t.Fatalf("expected unknown theme to be rejected")
	}

	available := AvailableThemes()
	if len(available) != len(expected) {
		t.Fatalf("expected %d themes, got %v", len(expected), available)
	}
	for i := 1; i < len(available); i++ {
		if available[i-1] > available[i] {
			t.Fatalf("expected sorted theme names, got %v", available)
		}
	}
}

func TestHighlightUsesThemeStyles(t *testing.T) {
	e := mustParse(t, `x + \pi`)
	out := Highlight(e, DefaultTheme())
	styles := DefaultTheme().Styles()
	for _, prefix := range []string{styles.Variable.Prefix, styles.Operator.Prefix, styles.Command.Prefix} {
		if !strings.Contains(out, prefix) {
			t.Fatalf("expected prefix %q in %q", prefix, out)
		}
	}
	if got := stripANSI(out); got != Render(e) {
		t.Fatalf("expected %q after stripping styles, got %q", Render(e), got)
	}
	boring, _ := ThemeByName("boring")
	if got := Highlight(e, boring); got != Render(e) {
		t.Fatalf("expected boring theme to add nothing, got %q", got)
	}
	if got := Highlight(e, nil); got != Render(e) {
		t.Fatalf("expected nil theme to add nothing, got %q", got)
	}
}
