package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#1DB954", "#04B575", "#FF5F87", "#FFA500", "#626262")

// struct Palette is the browser's stylesheet
//
// accent marks view labels and the highlighted card. The remaining styles colour status lines
// by tone and the grid's empty-collection message.
type Palette struct {
	label    lipgloss.Style
	card     lipgloss.Style
	cardDesc lipgloss.Style
	saved    lipgloss.Style
	failed   lipgloss.Style
	empty    lipgloss.Style
	hint     lipgloss.Style
}

func NewPalette(accent, saved, failed, empty, hint string) *Palette {
	return &Palette{
		label:    NewBold(accent).MarginBottom(1),
		card:     NewBold(accent).BorderLeftForeground(lipgloss.Color(accent)),
		cardDesc: NewStyle(accent).BorderLeftForeground(lipgloss.Color(accent)),
		saved:    NewBold(saved),
		failed:   NewBold(failed),
		empty:    NewStyle(empty),
		hint:     NewEm(hint),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
