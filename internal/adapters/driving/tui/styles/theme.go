// Package styles holds the chat view's palette and lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme is the palette. Each colour has a light and a dark terminal
// variant; lipgloss picks one from the detected background.
type Theme struct {
	Primary    lipgloss.AdaptiveColor
	Secondary  lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Success    lipgloss.AdaptiveColor
	Warning    lipgloss.AdaptiveColor
	Error      lipgloss.AdaptiveColor
	Border     lipgloss.AdaptiveColor
	Surface    lipgloss.AdaptiveColor
}

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// DefaultTheme returns the Gemini blue palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    adaptive("#1A73E8", "#4285F4"),
		Secondary:  adaptive("#0E7490", "#06B6D4"),
		Foreground: adaptive("#1E1E2E", "#CDD6F4"),
		Muted:      adaptive("#6C6F85", "#6C7086"),
		Success:    adaptive("#40A02B", "#A6E3A1"),
		Warning:    adaptive("#DF8E1D", "#F9E2AF"),
		Error:      adaptive("#D20F39", "#F38BA8"),
		Border:     adaptive("#BCC0CC", "#45475A"),
		Surface:    adaptive("#E6E9EF", "#181825"),
	}
}

// Similarity bands for ScoreStyle.
const (
	StrongMatch = 0.5
	WeakMatch   = 0.25
)

// Styles are built once from a Theme and shared by every component.
type Styles struct {
	theme *Theme

	Title   lipgloss.Style
	Label   lipgloss.Style
	Normal  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	// InputField and FocusedField frame text inputs.
	InputField   lipgloss.Style
	FocusedField lipgloss.Style

	// Answer frames generated text with a left rule.
	Answer lipgloss.Style

	StatusBar lipgloss.Style
	Help      lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	field := func(border lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)
	}

	return &Styles{
		theme:        theme,
		Title:        fg(theme.Primary).Bold(true),
		Label:        fg(theme.Secondary).Bold(true),
		Normal:       fg(theme.Foreground),
		Muted:        fg(theme.Muted),
		Error:        fg(theme.Error),
		Success:      fg(theme.Success),
		Warning:      fg(theme.Warning),
		InputField:   field(theme.Border),
		FocusedField: field(theme.Primary),
		Answer: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Primary).
			PaddingLeft(1),
		StatusBar: fg(theme.Muted).Background(theme.Surface).Padding(0, 1),
		Help:      fg(theme.Muted),
	}
}

// DefaultStyles returns NewStyles(DefaultTheme()).
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// ScoreStyle colours a retrieval score: strong matches green, weak ones
// amber, and anything lower muted.
func (s *Styles) ScoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= StrongMatch:
		return s.Success
	case score >= WeakMatch:
		return s.Warning
	default:
		return s.Muted
	}
}
