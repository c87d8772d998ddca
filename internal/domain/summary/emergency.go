// Package summary renders parsed patient histories into human-readable
// clinical overviews. Three composers share the same parsed input: the
// emergency composer builds the sectioned overview used for handoffs, the
// simple composer runs lightweight term statistics over raw blocks, and the
// entities composer groups recognized entities, falling back to rule-based
// extraction when the recognition service is unavailable.
package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/medinsight/medinsight/internal/domain/analysis"
	"github.com/medinsight/medinsight/internal/domain/history"
	"github.com/medinsight/medinsight/internal/domain/terms"
)

// Caps on how many items a summary line renders.
const (
	maxConditionsPerLine = 5
	maxWarningsPerLine   = 3
	maxRecurringPerLine  = 3
	maxRecentPerLine     = 3
)

// composeEmergency builds the sectioned emergency overview. Sections join
// with blank lines; emergencyMode gates the alert, recency, and consideration
// sections, leaving the profile and insight sections for routine summaries.
func composeEmergency(records history.PatientHistory, extractor *terms.Extractor, emergencyMode bool, now time.Time) string {
	timeline := analysis.CategorizeByTimeline(records, now)
	risks := analysis.CategorizeByRisk(records)
	patterns := analysis.Analyze(records)

	extracted := make(map[terms.Category]terms.Set, len(terms.Categories))
	for _, cat := range terms.Categories {
		extracted[cat] = terms.Set{}
	}
	var warnings []string
	for _, rec := range records {
		for cat, set := range extractor.Extract(rec.RawText) {
			for term := range set {
				extracted[cat].Add(term)
			}
		}
		warnings = append(warnings, extractor.WarningSentences(rec.Description)...)
		if rec.Warnings != "" {
			warnings = append(warnings, rec.Warnings)
		}
	}
	warnings = dedupe(warnings)

	var sections []string

	if emergencyMode {
		var alerts []string
		if highRisk := diseaseLabels(append(risks.Critical, risks.High...)); len(highRisk) > 0 {
			alerts = append(alerts, "High-Risk Conditions: "+joinCapped(highRisk, maxConditionsPerLine, ", "))
		}
		if len(warnings) > 0 {
			alerts = append(alerts, "Clinical Warnings: "+joinCapped(warnings, maxWarningsPerLine, "; "))
		}
		sections = appendSection(sections, "=== CRITICAL ALERTS ===", alerts)

		var recent []string
		if len(timeline.Last7Days) > 0 {
			recent = append(recent, fmt.Sprintf("Last 7 Days: %s (%d visit(s))",
				strings.Join(diseaseOrUnknown(timeline.Last7Days), ", "), len(timeline.Last7Days)))
		}
		if len(timeline.Last30Days) > 0 {
			recent = append(recent, "Last 30 Days: "+
				joinCapped(diseaseOrUnknown(timeline.Last30Days), maxRecentPerLine, ", "))
		}
		sections = appendSection(sections, "=== RECENT HISTORY ===", recent)
	}

	var profile []string
	if diagnosed := diseaseLabels(records); len(diagnosed) > 0 {
		profile = append(profile, "Diagnosed Conditions: "+joinCapped(diagnosed, maxConditionsPerLine, ", "))
	}
	if len(patterns.Recurring) > 0 {
		profile = append(profile, "Recurring Conditions: "+joinCapped(patterns.Recurring, maxRecurringPerLine, ", "))
	}
	if treatments := extracted[terms.CategoryTreatment].Sorted(); len(treatments) > 0 {
		profile = append(profile, "Treatment History: "+joinCapped(treatments, maxConditionsPerLine, ", "))
	}
	sections = appendSection(sections, "=== MEDICAL PROFILE ===", profile)

	if emergencyMode {
		var clinical []string
		if alerts := extracted[terms.CategoryWarning].Sorted(); len(alerts) > 0 {
			clinical = append(clinical, "Attention Required: "+joinCapped(alerts, maxConditionsPerLine, ", "))
		}
		if symptoms := extracted[terms.CategorySymptom].Sorted(); len(symptoms) > 0 {
			clinical = append(clinical, "Reported Symptoms: "+joinCapped(symptoms, maxConditionsPerLine, ", "))
		}
		sections = appendSection(sections, "=== CLINICAL CONSIDERATIONS ===", clinical)
	}

	insights := []string{}
	if dist := riskDistribution(risks); dist != "" {
		insights = append(insights, "Risk Distribution: "+dist)
	}
	insights = append(insights, "Risk Trend: "+titleCase(patterns.RiskTrend))
	insights = append(insights, fmt.Sprintf("Total Records: %d visits, %d unique conditions",
		patterns.TotalVisits, patterns.UniqueConditions))
	sections = appendSection(sections, "=== QUICK INSIGHTS ===", insights)

	return strings.Join(sections, "\n\n")
}

func appendSection(sections []string, header string, lines []string) []string {
	if len(lines) == 0 {
		return sections
	}
	return append(sections, header+"\n"+strings.Join(lines, "\n"))
}

// diseaseLabels returns the distinct disease labels of records, in record
// order, skipping records without one.
func diseaseLabels(records []history.EncounterRecord) []string {
	var labels []string
	for _, rec := range records {
		if rec.Disease != "" {
			labels = append(labels, rec.Disease)
		}
	}
	return dedupe(labels)
}

// diseaseOrUnknown lists one label per record, substituting "Unknown" when a
// record carries no disease field. No deduplication: recency lines count
// visits, not conditions.
func diseaseOrUnknown(records []history.EncounterRecord) []string {
	labels := make([]string, len(records))
	for i, rec := range records {
		if rec.Disease != "" {
			labels[i] = rec.Disease
		} else {
			labels[i] = "Unknown"
		}
	}
	return labels
}

func riskDistribution(risks analysis.RiskBuckets) string {
	var parts []string
	for _, tier := range []struct {
		name    string
		records []history.EncounterRecord
	}{
		{"Critical", risks.Critical},
		{"High", risks.High},
		{"Medium", risks.Medium},
		{"Low", risks.Low},
	} {
		if len(tier.records) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", tier.name, len(tier.records)))
		}
	}
	return strings.Join(parts, ", ")
}

// dedupe collapses duplicates keeping first-occurrence order, so composed
// output stays byte-deterministic.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func joinCapped(values []string, max int, sep string) string {
	if len(values) > max {
		values = values[:max]
	}
	return strings.Join(values, sep)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
