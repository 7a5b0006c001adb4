package tui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/breathcheck/internal/trends"
)

// totalTests is the lifetime test count shown next to the stats.
const totalTests = 23

// TrendsView shows the score history for the selected period.
type TrendsView struct {
	period trends.Period
	now    func() time.Time
	rng    *rand.Rand
	// series caches one generated history per period.
	series map[trends.Period]trends.Series
}

// NewTrendsView creates the trends screen opened on period.
func NewTrendsView(period trends.Period, now func() time.Time, rng *rand.Rand) *TrendsView {
	return &TrendsView{
		period: period,
		now:    now,
		rng:    rng,
		series: make(map[trends.Period]trends.Series),
	}
}

// Period returns the selected window.
func (v *TrendsView) Period() trends.Period {
	return v.period
}

// Series returns the history for the selected window, generating it on first use.
func (v *TrendsView) Series() trends.Series {
	s, ok := v.series[v.period]
	if !ok {
		s = trends.Generate(v.period, v.now(), v.rng)
		v.series[v.period] = s
	}
	return s
}

// Update handles messages for the trends screen.
func (v *TrendsView) Update(msg tea.Msg) (*TrendsView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "1":
		v.period = trends.Week
	case "2":
		v.period = trends.Month
	case "3":
		v.period = trends.Quarter
	case "left", "h":
		v.shift(-1)
	case "right", "l", "tab":
		v.shift(1)
	case "esc":
		return v, navigate(ScreenHome)
	}
	return v, nil
}

func (v *TrendsView) shift(delta int) {
	for i, p := range trends.Periods {
		if p == v.period {
			n := len(trends.Periods)
			v.period = trends.Periods[(i+delta+n)%n]
			return
		}
	}
	v.period = trends.Week
}

// View renders the trends screen.
func (v *TrendsView) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Your Trends"))
	b.WriteString("\n")

	tabs := make([]string, 0, len(trends.Periods))
	for i, p := range trends.Periods {
		label := fmt.Sprintf("%d %s", i+1, p.Label())
		if p == v.period {
			tabs = append(tabs, selectedStyle.Render(label))
		} else {
			tabs = append(tabs, unselectedStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	series := v.Series()
	b.WriteString(phaseTitleStyle.Render(trends.Chart(series, chartWidth, chartHeight)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat(" ", axisIndent) + axisLabels(series, chartWidth)))
	b.WriteString("\n\n")

	stats := trends.Stats(series)
	improvement := fmt.Sprintf("%+d", stats.Improvement)
	improvementStyle := successStyle
	if stats.Improvement < 0 {
		improvementStyle = errorStyle
	}
	card := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Average Score")+valueStyle.Render(fmt.Sprintf("%d", stats.Average)),
		labelStyle.Render("Best Score")+valueStyle.Render(fmt.Sprintf("%d", stats.Best)),
		labelStyle.Render("Improvement")+improvementStyle.Render(improvement),
		labelStyle.Render("Total Tests")+valueStyle.Render(fmt.Sprintf("%d", totalTests)),
	)
	b.WriteString(cardStyle.Render(card))
	b.WriteString("\n\n")

	b.WriteString(keyHint("1-3", "period") + "  " + keyHint("←/→", "switch") + "  " + keyHint("esc", "home"))
	return b.String()
}

const (
	chartWidth  = 60
	chartHeight = 10
	// axisIndent lines date labels up with the plot, past the score axis.
	axisIndent = 5
)

// axisLabels lays out the first and last labelled points under the chart.
func axisLabels(s trends.Series, width int) string {
	var first, last string
	for _, p := range s {
		if p.Label == "" {
			continue
		}
		if first == "" {
			first = p.Label
		}
		last = p.Label
	}
	if first == "" {
		return ""
	}
	gap := width - len(first) - len(last)
	if gap < 1 || first == last {
		return first
	}
	return first + strings.Repeat(" ", gap) + last
}
