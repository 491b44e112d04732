package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/milkwidget/milk/internal/markup"
	"github.com/milkwidget/milk/internal/style"
)

const (
	progressWidth = 24
	gaugeWidth    = 16
)

var sparkRamp = []rune("▁▂▃▄▅▆▇█")

func (s *Surface) renderProgress(n *markup.WidgetNode) string {
	var opts []progress.Option
	if n.FillColor.Valid {
		opts = append(opts, progress.WithSolidFill(flatHex(n.FillColor)))
	} else {
		opts = append(opts, progress.WithDefaultGradient())
	}
	bar := progress.New(opts...)
	bar.Width = progressWidth
	bar.ShowPercentage = n.ShowText
	return bar.ViewAs(s.ratio(n))
}

func (s *Surface) renderGraph(n *markup.WidgetNode) string {
	if n.Metric != "" {
		if sample, ok := s.ctx.Metric(n.Metric); ok && sample.Numeric {
			s.history[n] = append(s.history[n], sample.Value)
		}
	}

	limit := n.MaxPoints
	if limit <= 0 {
		limit = 60
	}
	pts := s.history[n]
	if len(pts) > limit {
		pts = pts[len(pts)-limit:]
		s.history[n] = pts
	}
	if len(pts) == 0 {
		return ""
	}

	lo, hi := n.Min, n.Max
	if n.AutoScale {
		lo, hi = pts[0], pts[0]
		for _, v := range pts {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	line := sparkline(pts, lo, hi)
	if n.FillColor.Valid {
		return lipgloss.NewStyle().Foreground(termColor(n.FillColor)).Render(line)
	}
	return line
}

// sparkline maps values onto the eight block-element levels.
func sparkline(values []float64, lo, hi float64) string {
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	var b strings.Builder
	for _, v := range values {
		t := (v - lo) / span
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		b.WriteRune(sparkRamp[int(t*float64(len(sparkRamp)-1)+0.5)])
	}
	return b.String()
}

func (s *Surface) renderGauge(n *markup.WidgetNode, sheet style.StyleSheet) string {
	ratio := s.ratio(n)
	filled := int(ratio*float64(gaugeWidth) + 0.5)
	if filled > gaugeWidth {
		filled = gaugeWidth
	}

	bar := strings.Repeat("█", filled)
	if n.FillColor.Valid {
		bar = lipgloss.NewStyle().Foreground(termColor(n.FillColor)).Render(bar)
	}
	track := strings.Repeat("░", gaugeWidth-filled)
	if n.TrackColor.Valid {
		track = lipgloss.NewStyle().Foreground(termColor(n.TrackColor)).Render(track)
	}

	readout := fmt.Sprintf("%.0f%s", s.value(n), n.Unit)
	out := "[" + bar + track + "] " + readout
	if n.Label != "" {
		out = textStyle(sheet).Render(n.Label) + " " + out
	}
	return out
}

func (s *Surface) renderClock(n *markup.WidgetNode, sheet style.StyleSheet) string {
	layout := n.Format
	if layout == "" {
		layout = "3:04"
		if n.TwentyFourHour {
			layout = "15:04"
		}
		if n.ShowSeconds {
			layout += ":05"
		}
		if !n.TwentyFourHour {
			layout += " PM"
		}
		if n.ShowDate {
			layout = "Mon Jan 2, " + layout
		}
	}
	return textStyle(sheet).Render(s.now().Format(layout))
}

// renderCalendar draws the current month with today highlighted.
func (s *Surface) renderCalendar(sheet style.StyleSheet) string {
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	const calWidth = 20 // 7 columns of "dd" plus 6 separators
	header := lipgloss.PlaceHorizontal(calWidth, lipgloss.Center, now.Format("January 2006"))

	lines := []string{header, "Su Mo Tu We Th Fr Sa"}
	week := make([]string, 0, 7)
	for i := 0; i < int(first.Weekday()); i++ {
		week = append(week, "  ")
	}
	for day := 1; day <= daysInMonth; day++ {
		cell := fmt.Sprintf("%2d", day)
		if day == now.Day() {
			cell = lipgloss.NewStyle().Reverse(true).Render(cell)
		}
		week = append(week, cell)
		if len(week) == 7 {
			lines = append(lines, strings.Join(week, " "))
			week = week[:0]
		}
	}
	if len(week) > 0 {
		lines = append(lines, strings.Join(week, " "))
	}

	out := strings.Join(lines, "\n")
	if sheet.TextColor.Valid {
		return lipgloss.NewStyle().Foreground(termColor(sheet.TextColor)).Render(out)
	}
	return out
}

// value is a data widget's current reading: the bound metric when one
// is named and sampled, otherwise the markup value.
func (s *Surface) value(n *markup.WidgetNode) float64 {
	if n.Metric != "" {
		if sample, ok := s.ctx.Metric(n.Metric); ok && sample.Numeric {
			return sample.Value
		}
	}
	return n.Value
}

// ratio normalizes a widget's value into [0,1] over its min/max span.
func (s *Surface) ratio(n *markup.WidgetNode) float64 {
	span := n.Max - n.Min
	if span <= 0 {
		return 0
	}
	r := (s.value(n) - n.Min) / span
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
