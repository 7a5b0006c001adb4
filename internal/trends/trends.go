// Package trends generates the placeholder score history shown on the trends
// screen and summarises it.
package trends

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
)

// Period is a trends window in days.
type Period int

const (
	Week    Period = 7
	Month   Period = 30
	Quarter Period = 90
)

// Periods lists the selectable windows in display order.
var Periods = []Period{Week, Month, Quarter}

// ParsePeriod accepts "7", "30" or "90", with an optional "d" suffix.
func ParsePeriod(s string) (Period, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "d"))
	if err != nil {
		return 0, fmt.Errorf("invalid period %q", s)
	}
	p := Period(n)
	if !p.Valid() {
		return 0, fmt.Errorf("unsupported period %d (want 7, 30 or 90)", n)
	}
	return p, nil
}

// Valid returns true for the supported windows.
func (p Period) Valid() bool {
	return p == Week || p == Month || p == Quarter
}

// Label is the period's tab caption.
func (p Period) Label() string {
	return fmt.Sprintf("%d Days", int(p))
}

const (
	baseScore = 70
	gain      = 15
	jitter    = 3
	minScore  = 65
	maxScore  = 95
)

// Point is one day of the series. Label is empty on days the chart skips.
type Point struct {
	Date  time.Time
	Label string
	Score int
}

// Series is a trend ordered from oldest to newest.
type Series []Point

// Generate fabricates an upward-trending series ending at now. Scores climb
// from about 70 towards 85 with +/-3 points of noise, clamped to 65..95.
func Generate(p Period, now time.Time, rng *rand.Rand) Series {
	days := int(p)
	series := make(Series, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		base := baseScore + float64(days-i)*(gain/float64(days))
		variation := rng.Float64()*2*jitter - jitter
		score := int(math.Round(base + variation))
		score = max(minScore, min(maxScore, score))

		series = append(series, Point{
			Date:  date,
			Label: label(days, i, date),
			Score: score,
		})
	}
	return series
}

// label thins out axis captions so longer windows stay readable.
func label(days, i int, date time.Time) string {
	switch {
	case days <= 7:
		return date.Format("Mon")
	case days <= 30:
		if i%5 == 0 || i == days-1 {
			return strconv.Itoa(date.Day())
		}
	default:
		if i%15 == 0 || i == days-1 {
			return date.Format("Jan 2")
		}
	}
	return ""
}

// Scores returns the bare score values.
func (s Series) Scores() []int {
	out := make([]int, len(s))
	for i, p := range s {
		out[i] = p.Score
	}
	return out
}

// Summary holds the headline numbers under the chart.
type Summary struct {
	Average     int
	Best        int
	Improvement int
}

// Stats summarises a series. An empty series yields a zero Summary.
func Stats(s Series) Summary {
	if len(s) == 0 {
		return Summary{}
	}
	sum, best := 0, s[0].Score
	for _, p := range s {
		sum += p.Score
		best = max(best, p.Score)
	}
	return Summary{
		Average:     int(math.Round(float64(sum) / float64(len(s)))),
		Best:        best,
		Improvement: s[len(s)-1].Score - s[0].Score,
	}
}

// Chart plots the series as a line chart width columns wide and height rows
// tall, with the score axis fixed to the clamp bounds so windows compare.
// An empty series yields an empty chart.
func Chart(s Series, width, height int) string {
	if len(s) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	data := make([]float64, len(s))
	for i, p := range s {
		data[i] = float64(p.Score)
	}
	return asciigraph.Plot(data,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.LowerBound(minScore),
		asciigraph.UpperBound(maxScore),
		asciigraph.Precision(0),
		asciigraph.Offset(chartOffset),
	)
}

// chartOffset is the blank margin left of the score axis labels.
const chartOffset = 1
