// Package predict scores multi-condition health risks over a patient's
// encounter records. Scoring is a fixed pipeline: indicator-rule scores over
// distinct disease labels, derived-condition scores over the finished bases,
// then a weighted combination with age, progression, recurrence, and
// comorbidity signals.
package predict

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/medinsight/medinsight/internal/domain/analysis"
	"github.com/medinsight/medinsight/internal/domain/history"
)

// ErrNoPatientData reports an absent patientData payload. Its text is part
// of the wire contract.
var ErrNoPatientData = errors.New("No patient data provided")

// DefaultAge applies when the payload omits the patient age.
const DefaultAge = 30

// Weights of the combined risk score.
const (
	weightAge         = 0.15
	weightHistory     = 0.35
	weightProgression = 0.25
	weightComorbidity = 0.10
	recurrenceBonus   = 0.15
)

// Risk level thresholds on the 0-100 score. Boundary values take the higher
// tier.
const (
	thresholdCritical = 75
	thresholdHigh     = 50
	thresholdMedium   = 25
)

// Health score reported when no condition accumulates any evidence.
const baselineHealthScore = 85

type Service struct{}

func NewService() *Service { return &Service{} }

// Predict computes the full prediction report. It errors only when data is
// absent; field-level problems resolve to documented defaults instead.
func (s *Service) Predict(data *PatientData) (*Result, error) {
	if data == nil {
		return nil, ErrNoPatientData
	}

	age := DefaultAge
	if data.Age != nil {
		age = *data.Age
	}
	records := toHistory(data.Records)

	patterns := analysis.Analyze(records)
	risks := analysis.CategorizeByRisk(records)
	severeCount := len(risks.High) + len(risks.Critical)

	scores := conditionScores(records, severeCount)
	ageRisk := ageRiskFor(age)
	comorbidity := comorbidityScore(records)
	confidence := confidenceFor(len(records))

	result := &Result{
		Predictions:    []Prediction{},
		TrendDirection: trendDirection(patterns.RiskTrend),
	}

	for _, condition := range conditionOrder {
		historyScore := scores[condition]
		// No evidence, no prediction.
		if historyScore <= 0 {
			continue
		}

		recurring := patterns.IsRecurring(condition)
		bonus := 0.0
		if recurring {
			bonus = recurrenceBonus
		}
		riskScore := 100 * (ageRisk*weightAge +
			historyScore*weightHistory +
			patterns.ProgressionScore*weightProgression +
			bonus +
			comorbidity*weightComorbidity)
		level := levelFor(riskScore)

		factors := []string{}
		if age >= 60 {
			factors = append(factors, fmt.Sprintf("Age factor: %d years", age))
		}
		if historyScore > 0.3 {
			factors = append(factors, "Existing medical history")
		}
		if patterns.ProgressionScore > 0.3 {
			factors = append(factors, "Increasing risk trend")
		}
		if recurring {
			factors = append(factors, "Recurring condition")
		}
		if comorbidity > 0.2 {
			factors = append(factors, "Related health conditions present")
		}

		result.Predictions = append(result.Predictions, Prediction{
			Condition:       condition,
			RiskScore:       round1(riskScore),
			RiskLevel:       level,
			Confidence:      confidence,
			Factors:         factors,
			Recommendations: recommendationsFor(condition, level),
		})
	}

	sort.SliceStable(result.Predictions, func(i, j int) bool {
		return result.Predictions[i].RiskScore > result.Predictions[j].RiskScore
	})

	if len(result.Predictions) == 0 {
		result.OverallHealthScore = baselineHealthScore
	} else {
		var sum float64
		for _, p := range result.Predictions {
			sum += p.RiskScore
		}
		result.OverallHealthScore = round1(math.Max(0, 100-sum/float64(len(result.Predictions))))
	}
	return result, nil
}

// toHistory converts submitted records into the domain form, applying the
// same date and risk normalization the text parser uses, newest first.
func toHistory(inputs []RecordInput) history.PatientHistory {
	records := make(history.PatientHistory, 0, len(inputs))
	for _, in := range inputs {
		records = append(records, history.EncounterRecord{
			Date:        history.ParseDate(in.Date),
			Disease:     in.Disease,
			Description: in.Description,
			Treatment:   in.Treatment,
			RiskLevel:   history.NormalizeRiskLevel(in.Risk),
		})
	}
	history.SortMostRecentFirst(records)
	return records
}

// conditionScores runs the two scoring phases. Indicator rules count distinct
// disease labels mentioning an indicator; derived rules then combine the
// finished base scores, so caps on the bases propagate.
func conditionScores(records history.PatientHistory, severeCount int) map[string]float64 {
	labels := make(map[string]bool)
	for _, rec := range records {
		if rec.Disease != "" {
			labels[rec.Disease] = true
		}
	}

	scores := make(map[string]float64, len(conditionOrder))
	for _, rule := range indicatorRules {
		matched := matchingLabels(labels, rule.indicators)
		score := float64(matched)*rule.weight + float64(severeCount)*rule.severityWeight
		scores[rule.condition] = math.Min(score, 1.0)
	}
	for _, rule := range derivedRules {
		score := float64(matchingLabels(labels, rule.indicators)) * rule.weight
		for _, in := range rule.inputs {
			score += scores[in.condition] * in.coeff
		}
		scores[rule.condition] = math.Min(score, 1.0)
	}
	return scores
}

func matchingLabels(labels map[string]bool, indicators []string) int {
	matched := 0
	for label := range labels {
		if matchesAny(strings.ToLower(label), indicators) {
			matched++
		}
	}
	return matched
}

// comorbidityScore counts group keyword hits per record, so a repeated
// diagnosis contributes each time it appears.
func comorbidityScore(records history.PatientHistory) float64 {
	var metabolic, cardiovascular, respiratory int
	for _, rec := range records {
		if rec.Disease == "" {
			continue
		}
		label := strings.ToLower(rec.Disease)
		if matchesAny(label, metabolicConditions) {
			metabolic++
		}
		if matchesAny(label, cardiovascularConditions) {
			cardiovascular++
		}
		if matchesAny(label, respiratoryConditions) {
			respiratory++
		}
	}

	score := 0.0
	if metabolic >= 2 {
		score += 0.3
	}
	if cardiovascular >= 2 {
		score += 0.3
	}
	if respiratory >= 2 {
		score += 0.2
	}
	if metabolic >= 1 && cardiovascular >= 1 {
		score += 0.2
	}
	return math.Min(score, 1.0)
}

func matchesAny(label string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}

func ageRiskFor(age int) float64 {
	for _, bracket := range ageBrackets {
		if age < bracket.under {
			return bracket.risk
		}
	}
	return elderAgeRisk
}

func levelFor(score float64) string {
	switch {
	case score >= thresholdCritical:
		return history.RiskCritical
	case score >= thresholdHigh:
		return history.RiskHigh
	case score >= thresholdMedium:
		return history.RiskMedium
	default:
		return history.RiskLow
	}
}

// confidenceFor grows with the amount of evidence, capped at 0.95.
func confidenceFor(recordCount int) float64 {
	return math.Min(0.7+float64(recordCount)*0.03, 0.95)
}

func recommendationsFor(condition, level string) []string {
	rule := adviceRules[condition]
	elevated := level == history.RiskHigh || level == history.RiskCritical

	out := make([]string, 0, maxRecommendations)
	out = append(out, rule.base...)
	if elevated {
		out = append(out, rule.elevated...)
	}
	if level == history.RiskCritical {
		out = append(out, rule.critical...)
	}
	if elevated {
		out = append(out, followUpAdvice)
	}
	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}

// trendDirection maps the history risk trend onto the reported health
// direction: escalating risk reads as declining health.
func trendDirection(trend string) string {
	switch trend {
	case analysis.TrendEscalating:
		return "declining"
	case analysis.TrendImproving:
		return "improving"
	default:
		return "stable"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
