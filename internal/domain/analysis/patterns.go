package analysis

import "github.com/medinsight/medinsight/internal/domain/history"

// Risk trend labels.
const (
	TrendEscalating = "escalating"
	TrendImproving  = "improving"
	TrendStable     = "stable"
)

// trendWindow caps how many of the most recent records feed the trend math.
const trendWindow = 10

var riskOrdinal = map[string]int{
	history.RiskLow:      1,
	history.RiskMedium:   2,
	history.RiskHigh:     3,
	history.RiskCritical: 4,
}

// Patterns carries the recurrence and trend signals computed over a history.
type Patterns struct {
	// Recurring lists disease labels appearing more than once, in
	// first-appearance order. Labels compare exactly and case-sensitively.
	Recurring []string

	// RiskTrend is one of the Trend constants.
	RiskTrend string

	// ProgressionScore is the normalized recent-versus-older risk delta,
	// clamped to [0,1].
	ProgressionScore float64

	TotalVisits      int
	UniqueConditions int
}

func (p Patterns) IsRecurring(label string) bool {
	for _, r := range p.Recurring {
		if r == label {
			return true
		}
	}
	return false
}

// Analyze computes recurrence and risk-trend signals. Records are expected
// most-recent-first, as the history parser produces them.
func Analyze(records history.PatientHistory) Patterns {
	p := Patterns{RiskTrend: TrendStable, TotalVisits: len(records)}

	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		if rec.Disease == "" {
			continue
		}
		if counts[rec.Disease] == 0 {
			order = append(order, rec.Disease)
		}
		counts[rec.Disease]++
	}
	p.UniqueConditions = len(counts)
	for _, label := range order {
		if counts[label] > 1 {
			p.Recurring = append(p.Recurring, label)
		}
	}

	window := records
	if len(window) > trendWindow {
		window = window[:trendWindow]
	}
	if len(window) < 2 {
		return p
	}

	ordinals := make([]float64, len(window))
	for i, rec := range window {
		ordinals[i] = float64(riskOrdinal[history.NormalizeRiskLevel(rec.RiskLevel)])
	}

	// Recent is the mean over the first (most recent) three ordinals; older
	// is the mean over the remainder, zero when the remainder is empty.
	split := 3
	if len(ordinals) < split {
		split = len(ordinals)
	}
	recent := mean(ordinals[:split])
	var older float64
	if rest := ordinals[split:]; len(rest) > 0 {
		older = mean(rest)
	}

	delta := recent - older
	switch {
	case delta > 0.5:
		p.RiskTrend = TrendEscalating
	case delta < -0.5:
		p.RiskTrend = TrendImproving
	}
	p.ProgressionScore = clamp(delta/4.0, 0, 1)
	return p
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
