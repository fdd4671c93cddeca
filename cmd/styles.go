package cmd

import (
	"github.com/charmbracelet/lipgloss"
)

type uiStyles struct {
	title   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	section lipgloss.Style
	command lipgloss.Style
	muted   lipgloss.Style
	link    lipgloss.Style
	spinner lipgloss.Style
}

func newStyles() uiStyles {
	colors := catppuccinMocha()
	return uiStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(colors.accent),
		success: lipgloss.NewStyle().Foreground(colors.green),
		failure: lipgloss.NewStyle().Foreground(colors.red),
		section: lipgloss.NewStyle().Bold(true).Foreground(colors.text),
		command: lipgloss.NewStyle().Foreground(colors.blue).PaddingLeft(2),
		muted:   lipgloss.NewStyle().Foreground(colors.muted),
		link:    lipgloss.NewStyle().Foreground(colors.blue).Underline(true),
		spinner: lipgloss.NewStyle().Foreground(colors.accent),
	}
}

type uiColors struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	overlay lipgloss.Color
	accent  lipgloss.Color
	blue    lipgloss.Color
	green   lipgloss.Color
	yellow  lipgloss.Color
	red     lipgloss.Color
}

func catppuccinMocha() uiColors {
	return uiColors{
		text:    lipgloss.Color("#cdd6f4"),
		muted:   lipgloss.Color("#a6adc8"),
		overlay: lipgloss.Color("#6c7086"),
		accent:  lipgloss.Color("#cba6f7"),
		blue:    lipgloss.Color("#89b4fa"),
		green:   lipgloss.Color("#a6e3a1"),
		yellow:  lipgloss.Color("#f9e2af"),
		red:     lipgloss.Color("#f38ba8"),
	}
}
