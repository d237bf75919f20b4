package mdmath

import (
	"sort"
	"strings"
)

const (
	ansiBold   = "\x1b[1m"
	ansiItalic = "\x1b[3m"
)

// Style describes a terminal style as an ANSI prefix sequence.
type Style struct {
	Prefix string
}

// Styles groups the semantic styles used by Highlight.
type Styles struct {
	Number    Style
	Variable  Style
	Operator  Style
	Command   Style
	Function  Style
	Delimiter Style
}

// Theme provides named styles for highlighted expressions.
type Theme interface {
	Name() string
	Styles() Styles
}

type theme struct {
	name   string
	styles Styles
}

func (t theme) Name() string   { return t.name }
func (t theme) Styles() Styles { return t.styles }

// NewTheme returns a Theme from a Styles definition.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

func style(prefixes ...string) Style {
	var b strings.Builder
	for _, p := range prefixes {
		if p != "" {
			b.WriteString(p)
		}
	}
	return Style{Prefix: b.String()}
}

func fg(code string) string {
	return "\x1b[38;5;" + code + "m"
}

var builtinThemes = map[string]Theme{
	"default": theme{name: "default", styles: Styles{
		Number:    style(fg("179")),
		Variable:  style(ansiItalic, fg("117")),
		Operator:  style(fg("203")),
		Command:   style(ansiBold, fg("141")),
		Function:  style(fg("114")),
		Delimiter: style(fg("245")),
	}},
	"gruvbox": theme{name: "gruvbox", styles: Styles{
		Number:    style(fg("175")),
		Variable:  style(ansiItalic, fg("109")),
		Operator:  style(fg("167")),
		Command:   style(ansiBold, fg("214")),
		Function:  style(fg("142")),
		Delimiter: style(fg("246")),
	}},
	"nord": theme{name: "nord", styles: Styles{
		Number:    style(fg("139")),
		Variable:  style(ansiItalic, fg("110")),
		Operator:  style(fg("109")),
		Command:   style(ansiBold, fg("153")),
		Function:  style(fg("150")),
		Delimiter: style(fg("60")),
	}},
	"solarized-light": theme{name: "solarized-light", styles: Styles{
		Number:    style(fg("125")),
		Variable:  style(ansiItalic, fg("33")),
		Operator:  style(fg("160")),
		Command:   style(ansiBold, fg("61")),
		Function:  style(fg("64")),
		Delimiter: style(fg("245")),
	}},
	"boring": theme{name: "boring"},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}
