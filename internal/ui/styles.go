// Package ui provides the terminal styling used by the CLI.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Theme is the single source of truth for CLI styling.
type Theme struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Header  lipgloss.Style
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // Green
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // Red
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // Yellow
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")), // Cyan
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),  // Gray
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	}
}

// PlainTheme returns a theme with no styling, used when stdout is not a
// terminal.
func PlainTheme() *Theme {
	plain := lipgloss.NewStyle()
	return &Theme{
		Success: plain, Error: plain, Warning: plain,
		Info: plain, Dim: plain, Header: plain,
	}
}

var theme = autoTheme()

func autoTheme() *Theme {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return DefaultTheme()
	}
	return PlainTheme()
}

// SetTheme replaces the active theme.
func SetTheme(t *Theme) {
	theme = t
}

// Success renders text in the success color (green).
func Success(text string) string {
	return theme.Success.Render(text)
}

// Error renders text in the error color (red).
func Error(text string) string {
	return theme.Error.Render(text)
}

// Warning renders text in the warning color (yellow).
func Warning(text string) string {
	return theme.Warning.Render(text)
}

// Info renders text in the info color (cyan).
func Info(text string) string {
	return theme.Info.Render(text)
}

// Dim renders text in a dimmed color (gray).
func Dim(text string) string {
	return theme.Dim.Render(text)
}

// Header renders text as a header (bold).
func Header(text string) string {
	return theme.Header.Render(text)
}

// Done renders text with a success checkmark.
func Done(text string) string {
	return theme.Success.Render("✓ " + text)
}

// Failed renders text with an error cross.
func Failed(text string) string {
	return theme.Error.Render("✗ " + text)
}
