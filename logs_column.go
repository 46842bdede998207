package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxLogLines = 400

// logsPane shows job output and grid interactions in a scrollable panel
// under the grid.
type logsPane struct {
	title    string
	lines    []string
	view     viewport.Model
	width    int
	height   int
	barWidth int
}

func newLogsPane() *logsPane {
	return &logsPane{
		title:    "Log",
		view:     viewport.New(0, 0),
		barWidth: 1,
	}
}

func (p *logsPane) SetSize(width, height int, s styles) {
	if width < 0 {
		width = 0
	}
	if height < 3 {
		height = 3
	}
	p.width = width
	p.height = height

	frameW := s.panel.GetHorizontalFrameSize()
	frameH := s.panel.GetVerticalFrameSize()
	p.view.Width = maxInt(1, width-frameW-p.barWidth)
	p.view.Height = maxInt(1, height-frameH-1)
	p.clampOffset()
}

func (p *logsPane) Append(line string) {
	if line == "" {
		return
	}
	atBottom := p.view.AtBottom()
	p.lines = append(p.lines, line)
	if len(p.lines) > maxLogLines {
		p.lines = p.lines[len(p.lines)-maxLogLines:]
	}
	p.view.SetContent(strings.Join(p.lines, "\n"))
	if atBottom {
		p.view.GotoBottom()
	}
}

func (p *logsPane) clampOffset() {
	maxOffset := len(p.lines) - p.view.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if p.view.YOffset > maxOffset {
		p.view.SetYOffset(maxOffset)
	}
}

func (p *logsPane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.view, cmd = p.view.Update(msg)
	return cmd
}

func (p *logsPane) View(s styles) string {
	title := s.panelTitle.Render(fmt.Sprintf("%s (%d)", p.title, len(p.lines)))
	body := p.renderContent(s)
	inner := lipgloss.JoinVertical(lipgloss.Left, title, body)
	return s.panel.Copy().Width(p.width - s.panel.GetHorizontalBorderSize()).Render(inner)
}

func (p *logsPane) renderContent(s styles) string {
	lines := strings.Split(p.view.View(), "\n")
	height := p.view.Height
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	bar := p.renderScrollBar(s, height)
	for i := range lines {
		lines[i] = bar[i] + lines[i]
	}
	return strings.Join(lines, "\n")
}

func (p *logsPane) renderScrollBar(s styles, height int) []string {
	lines := make([]string, height)
	track := s.scrollTrack.Render("│")
	thumb := s.scrollThumb.Render("│")

	total := p.view.TotalLineCount()
	visible := p.view.Height
	if total <= visible || height <= 0 {
		for i := range lines {
			lines[i] = track
		}
		return lines
	}

	thumbHeight := int(math.Round(float64(visible) / float64(total) * float64(height)))
	if thumbHeight < 1 {
		thumbHeight = 1
	}
	maxOffset := total - visible
	offset := p.view.YOffset
	if offset < 0 {
		offset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	ratio := float64(offset) / float64(maxOffset)
	thumbStart := int(math.Round(ratio * float64(height-thumbHeight)))
	if thumbStart < 0 {
		thumbStart = 0
	}
	if thumbStart+thumbHeight > height {
		thumbStart = height - thumbHeight
	}
	for i := 0; i < height; i++ {
		if i >= thumbStart && i < thumbStart+thumbHeight {
			lines[i] = thumb
		} else {
			lines[i] = track
		}
	}
	return lines
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
