// Package ui holds the terminal styles shared by the CLI help and the
// console output.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle ANSI 6 (Cyan) reads well on light and dark terminals
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle ANSI 2 (Green)
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle ANSI 8 (Gray) keeps descriptions dimmer than names
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle ANSI 3 (Yellow)
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// SpeakerStyle prefixes every line the assistant says
	SpeakerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)

	// CategoryStyle heads the groups in function listings
	CategoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
)
