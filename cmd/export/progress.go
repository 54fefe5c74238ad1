package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"collage-video/internal/model"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#874BFD"))
)

const barWidth = 30

// progressPrinter draws a single updating status line per project.
type progressPrinter struct {
	w        io.Writer
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w, interval: 200 * time.Millisecond}
}

func (p *progressPrinter) update(name string, pr model.ExportProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if pr.Status == model.StatusRendering && now.Sub(p.last) < p.interval {
		return
	}
	p.last = now

	line := fmt.Sprintf("%s %s %s", titleStyle.Render(name), statusLabel(pr.Status), bar(pr.Percentage))
	if pr.TotalFrames > 0 {
		line += infoStyle.Render(fmt.Sprintf(" %d/%d", pr.CurrentFrame, pr.TotalFrames))
	}
	if pr.EstimatedSecondsRemaining != nil && pr.Status == model.StatusRendering {
		line += infoStyle.Render(fmt.Sprintf(" eta %s", (time.Duration(*pr.EstimatedSecondsRemaining * float64(time.Second))).Round(time.Second)))
	}
	if pr.Error != "" {
		line += " " + errorStyle.Render(pr.Error)
	}
	end := ""
	if pr.Status.Terminal() {
		end = "\n"
	}
	fmt.Fprintf(p.w, "\r\033[K%s%s", line, end)
}

func statusLabel(s model.Status) string {
	label := fmt.Sprintf("%-9s", s)
	switch s {
	case model.StatusError, model.StatusCancelled:
		return errorStyle.Render(label)
	case model.StatusComplete:
		return statusStyle.Render(label)
	}
	return infoStyle.Render(label)
}

func bar(pct float64) string {
	filled := int(pct / 100 * barWidth)
	filled = max(0, min(barWidth, filled))
	return barStyle.Render("[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]")
}
