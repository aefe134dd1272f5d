package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// NewHuhTheme returns the charm theme recoloured with the CLI's palette.
func NewHuhTheme() *huh.Theme {
	t := huh.ThemeCharm()

	accent := lipgloss.Color("#7D56F4")
	green := lipgloss.Color("#04B575")
	subtle := lipgloss.Color("#888888")

	t.Focused.Title = t.Focused.Title.Foreground(accent).Bold(true)
	t.Focused.Base = t.Focused.Base.BorderForeground(accent)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(accent)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(green)
	t.Focused.Description = t.Focused.Description.Foreground(subtle)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(lipgloss.Color("#FF0000"))
	t.Blurred.Title = t.Blurred.Title.Foreground(subtle)

	return t
}
