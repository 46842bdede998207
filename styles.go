package main

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent      = lipgloss.AdaptiveColor{Light: "#5A3FD9", Dark: "#9D8CFF"}
	colorMuted       = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	colorSurface     = lipgloss.AdaptiveColor{Light: "#F2F2F2", Dark: "#1F1F28"}
	colorSelection   = lipgloss.AdaptiveColor{Light: "#D9D2FF", Dark: "#3B3270"}
	colorRowSelected = lipgloss.AdaptiveColor{Light: "#E6F4EA", Dark: "#1E3A28"}
	colorCopied      = lipgloss.AdaptiveColor{Light: "#FFF2CC", Dark: "#4A3F12"}
	colorError       = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"}
)

type styles struct {
	topBar, topStatus                  lipgloss.Style
	header, headerSorted, headerFrozen lipgloss.Style
	cell, cellSelected, cellEditing    lipgloss.Style
	cellCopied, cellDragOver           lipgloss.Style
	rowSelected, groupRow              lipgloss.Style
	fillHandle                         lipgloss.Style
	panel, panelTitle                  lipgloss.Style
	scrollTrack, scrollThumb           lipgloss.Style
	statusBar, statusSeg, statusHint   lipgloss.Style
	statusError                        lipgloss.Style
	cmdPrompt, cmdHint                 lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()
	panelBorder := lipgloss.NormalBorder()

	return styles{
		topBar:       base.Copy().Bold(true).Padding(0, 1),
		topStatus:    base.Copy().Foreground(colorMuted),
		header:       base.Copy().Bold(true).Background(colorSurface),
		headerSorted: base.Copy().Bold(true).Background(colorSurface).Foreground(colorAccent),
		headerFrozen: base.Copy().Bold(true).Background(colorSurface).Underline(true),
		cell:         base,
		cellSelected: base.Copy().Background(colorSelection).Bold(true),
		cellEditing:  base.Copy().Background(colorSelection).Underline(true),
		cellCopied:   base.Copy().Background(colorCopied),
		cellDragOver: base.Copy().Background(colorCopied).Faint(true),
		rowSelected:  base.Copy().Background(colorRowSelected),
		groupRow:     base.Copy().Bold(true).Foreground(colorAccent),
		fillHandle:   base.Copy().Foreground(colorAccent).Bold(true),
		panel:        base.Copy().BorderStyle(panelBorder).BorderForeground(colorMuted),
		panelTitle:   base.Copy().Bold(true).Padding(0, 1),
		scrollTrack:  base.Copy().Foreground(colorMuted),
		scrollThumb:  base.Copy().Foreground(colorAccent),
		statusBar:    base.Copy().Padding(0, 1),
		statusSeg:    base.Copy().Padding(0, 1).MarginRight(1),
		statusHint:   base.Copy().Foreground(colorMuted),
		statusError:  base.Copy().Foreground(colorError).Bold(true),
		cmdPrompt:    base.Copy().Bold(true),
		cmdHint:      base.Copy().Faint(true),
	}
}
