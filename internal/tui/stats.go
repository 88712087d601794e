package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timedesk/internal/tracker"
)

// statsPeriods are the selectable windows, in calendar days.
var statsPeriods = []int{1, 7, 30}

type statsModel struct {
	tracker *tracker.Tracker
	userID  string
	topN    int
	width   int
	height  int

	period     int // index into statsPeriods
	activities []tracker.ActivityHours
	summary    tracker.EntrySummary

	chart barchart.Model
}

func newStatsModel(t *tracker.Tracker, topN int) statsModel {
	if topN < 1 {
		topN = tracker.DefaultTopActivities
	}
	return statsModel{
		tracker: t,
		topN:    topN,
		period:  1,
		chart:   barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s *statsModel) setUser(userID string) {
	s.userID = userID
	s.activities = nil
	s.summary = tracker.EntrySummary{}
}

func (s statsModel) days() int {
	return statsPeriods[s.period]
}

type statsDataMsg struct {
	activities []tracker.ActivityHours
	summary    tracker.EntrySummary
}

func (s statsModel) refresh() tea.Cmd {
	if s.userID == "" {
		return nil
	}
	days := s.days()
	return func() tea.Msg {
		entries := s.tracker.EntriesInPeriod(s.userID, days)
		return statsDataMsg{
			activities: tracker.TopActivities(entries, s.topN),
			summary:    tracker.Summarize(entries),
		}
	}
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		s.activities = msg.activities
		s.summary = msg.summary
		s.buildChart()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if s.period > 0 {
				s.period--
			}
			return s, s.refresh()
		case key.Matches(msg, keys.Right):
			if s.period < len(statsPeriods)-1 {
				s.period++
			}
			return s, s.refresh()
		}
	}
	return s, nil
}

func (s *statsModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i, a := range s.activities {
		style := lipgloss.NewStyle().Foreground(chartColors[i%len(chartColors)])
		bars = append(bars, barchart.BarData{
			Label: fmt.Sprintf("#%d", i+1),
			Values: []barchart.BarValue{{
				Name:  a.Label,
				Value: a.Hours,
				Style: style,
			}},
		})
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  "",
			Values: []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	var tabs []string
	for i, days := range statsPeriods {
		label := fmt.Sprintf("%dd", days)
		if i == s.period {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Top Activities"), "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)

	totals := fmt.Sprintf("  Total %s   Entries %d   Average %s",
		highlightStyle.Render(formatSeconds(s.summary.TotalSeconds)),
		s.summary.Count,
		highlightStyle.Render(formatSeconds(s.summary.AverageSeconds)),
	)

	nav := mutedStyle.Render("  ←/→: change period")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", s.chart.View(), "", s.renderLegend(), "", totals, "", nav,
		),
	)
}

func (s statsModel) renderLegend() string {
	if len(s.activities) == 0 {
		return mutedStyle.Render("  No data for this period")
	}
	var rows []string
	for i, a := range s.activities {
		dot := lipgloss.NewStyle().Foreground(chartColors[i%len(chartColors)]).Render("●")
		rows = append(rows, fmt.Sprintf("  %s #%d %-25s %6.2fh", dot, i+1, a.Label, a.Hours))
	}
	return strings.Join(rows, "\n")
}
