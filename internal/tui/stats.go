package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// maxFrameBuckets is how many one-second buckets the frame-rate history keeps.
const maxFrameBuckets = 60

// StatsTracker tracks refresh statistics for the stats pane and status line.
type StatsTracker struct {
	StartTime     time.Time
	TotalFrames   int
	PeakFPS       float64
	StatusChecks  int
	Unavailable   int // status checks that did not report a live frame
	PhotoProbes   int
	PhotoFailures int

	// Frames shown per second, oldest first. The last bucket is still filling.
	buckets     []int
	bucketStart time.Time
}

func newStatsTracker(now time.Time) StatsTracker {
	return StatsTracker{
		StartTime:   now,
		buckets:     []int{0},
		bucketStart: now.Truncate(time.Second),
	}
}

// advance rolls the bucket window forward to now.
func (s *StatsTracker) advance(now time.Time) {
	if s.bucketStart.IsZero() {
		s.bucketStart = now.Truncate(time.Second)
		s.buckets = []int{0}
		return
	}
	for now.Sub(s.bucketStart) >= time.Second {
		if done := s.buckets[len(s.buckets)-1]; float64(done) > s.PeakFPS {
			s.PeakFPS = float64(done)
		}
		s.buckets = append(s.buckets, 0)
		s.bucketStart = s.bucketStart.Add(time.Second)
		if len(s.buckets) > maxFrameBuckets {
			s.buckets = s.buckets[len(s.buckets)-maxFrameBuckets:]
		}
		// Long idle gap: nothing to backfill beyond the window.
		if now.Sub(s.bucketStart) > maxFrameBuckets*time.Second {
			s.bucketStart = now.Truncate(time.Second)
		}
	}
}

// recordStatus counts one completed status check.
func (s *StatsTracker) recordStatus(now time.Time, live bool) {
	s.advance(now)
	s.StatusChecks++
	if !live {
		s.Unavailable++
	}
}

// recordFrame counts one decoded frame put on screen.
func (s *StatsTracker) recordFrame(now time.Time) {
	s.advance(now)
	s.TotalFrames++
	s.buckets[len(s.buckets)-1]++
}

// recordProbe counts one photo probe result.
func (s *StatsTracker) recordProbe(ok bool) {
	s.PhotoProbes++
	if !ok {
		s.PhotoFailures++
	}
}

// CurrentFPS is the frame rate of the last complete second.
func (s *StatsTracker) CurrentFPS() float64 {
	if len(s.buckets) < 2 {
		return 0
	}
	return float64(s.buckets[len(s.buckets)-2])
}

// History returns the complete buckets, oldest first.
func (s *StatsTracker) History() []int {
	if len(s.buckets) < 2 {
		return nil
	}
	return append([]int(nil), s.buckets[:len(s.buckets)-1]...)
}

func (s *StatsTracker) formatUptime(now time.Time) string {
	d := now.Sub(s.StartTime).Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, sec)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}

// renderFrameChart draws the frames-per-second history as a bar chart.
func (s *StatsTracker) renderFrameChart(width, height int) string {
	if width < 4 || height < 2 {
		return ""
	}

	history := s.History()
	maxBars := width / 2
	if len(history) > maxBars {
		history = history[len(history)-maxBars:]
	}

	bc := barchart.New(width, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)

	barStyle := lipgloss.NewStyle().Foreground(ColorGreen).Background(ColorGreen)
	emptyStyle := lipgloss.NewStyle().Foreground(ColorDim).Background(ColorDim)

	for i := len(history); i < maxBars; i++ {
		bc.Push(barchart.BarData{
			Values: []barchart.BarValue{{Name: "EMPTY", Value: 0, Style: emptyStyle}},
		})
	}
	for _, n := range history {
		bc.Push(barchart.BarData{
			Values: []barchart.BarValue{{Name: "FPS", Value: float64(n), Style: barStyle}},
		})
	}

	bc.Draw()
	return bc.View()
}

// renderStatsPane renders the chart with a one-line summary above it.
func (m *PanelModel) renderStatsPane(width, height int) string {
	now := m.now()
	summary := fmt.Sprintf("fps %.0f  peak %.0f  frames %d  up %s",
		m.stats.CurrentFPS(), m.stats.PeakFPS, m.stats.TotalFrames, m.stats.formatUptime(now))
	summary = lipgloss.NewStyle().Foreground(ColorGray).Width(width).MaxWidth(width).Render(summary)

	chart := m.stats.renderFrameChart(width, height-1)
	if chart == "" {
		return summary
	}
	return strings.Join([]string{summary, chart}, "\n")
}
