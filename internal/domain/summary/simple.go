package summary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/medinsight/medinsight/internal/domain/history"
	"github.com/medinsight/medinsight/internal/domain/terms"
)

// simpleRules is the reduced vocabulary of the lightweight composer: three
// categories instead of four, tuned for raw block text rather than parsed
// fields.
var simpleRules = map[terms.Category][]string{
	terms.CategoryDisease: {
		`(?:acute|chronic|severe|mild|primary|secondary)\s+\w+`,
		`(?:bronchitis|pneumonia|hypertension|diabetes|asthma|cancer|tumor)`,
		`(?:infection|inflammation|fracture|disorder|syndrome)`,
	},
	terms.CategoryTreatment: {
		`(?:prescribed|administered|given)\s+\w+`,
		`(?:antibiotics|medication|therapy|surgery|procedure)`,
		`(?:treatment|medication|drug|pill|injection)`,
	},
	terms.CategorySymptom: {
		`(?:cough|fever|pain|nausea|headache|dizziness)`,
		`(?:shortness of breath|chest pain|fatigue|weakness)`,
		`(?:presented with|complaining of|suffering from)`,
	},
}

// blockRiskTiers classifies a raw block by keyword lookup. Tiers are checked
// in order and the first hit wins, so a block mentioning both "severe" and
// "stable" classifies as critical.
var blockRiskTiers = []struct {
	level    string
	keywords []string
}{
	{history.RiskCritical, []string{"critical", "emergency", "life-threatening", "severe", "intensive care"}},
	{history.RiskHigh, []string{"high risk", "serious", "urgent", "unstable"}},
	{history.RiskMedium, []string{"medium", "moderate", "stable"}},
	{history.RiskLow, []string{"low", "mild", "stable", "routine"}},
}

// topTermLimit caps how many terms each simple-summary line shows.
const topTermLimit = 3

// composeSimple renders the lightweight summary: top terms by how many
// records mention them, and a keyword-based risk breakdown of the raw blocks.
func composeSimple(records history.PatientHistory, extractor *terms.Extractor) string {
	diseases := newTermCounter()
	treatments := newTermCounter()
	symptoms := newTermCounter()
	for _, rec := range records {
		extracted := extractor.Extract(rec.RawText)
		diseases.CountAll(extracted[terms.CategoryDisease])
		treatments.CountAll(extracted[terms.CategoryTreatment])
		symptoms.CountAll(extracted[terms.CategorySymptom])
	}

	riskCounts := classifyBlocks(records)

	var sections []string
	if top := diseases.Top(topTermLimit); len(top) > 0 {
		sections = append(sections, "**Chief Complaints/Diagnoses:** "+strings.Join(top, ", "))
	}
	if line := riskAssessmentLine(riskCounts); line != "" {
		sections = append(sections, "**Risk Assessment:** "+line)
	}
	if top := treatments.Top(topTermLimit); len(top) > 0 {
		sections = append(sections, "**Treatments:** "+strings.Join(top, ", "))
	}
	if top := symptoms.Top(topTermLimit); len(top) > 0 {
		sections = append(sections, "**Key Symptoms/Findings:** "+strings.Join(top, ", "))
	}
	sections = append(sections, fmt.Sprintf(
		"**Summary:** Patient has %d medical records. Most recent conditions show %s risk level.",
		len(records), dominantTier(riskCounts)))

	return strings.Join(sections, "\n\n")
}

// classifyBlocks buckets raw blocks by the first risk tier whose keywords
// appear in the lowercased text. Blocks matching no tier count as low.
func classifyBlocks(records history.PatientHistory) map[string]int {
	counts := make(map[string]int, len(blockRiskTiers))
	for _, rec := range records {
		block := strings.ToLower(rec.RawText)
		level := history.RiskLow
		for _, tier := range blockRiskTiers {
			if containsAny(block, tier.keywords) {
				level = tier.level
				break
			}
		}
		counts[level]++
	}
	return counts
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func riskAssessmentLine(counts map[string]int) string {
	var parts []string
	for _, tier := range blockRiskTiers {
		if n := counts[tier.level]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d records", titleCase(tier.level), n))
		}
	}
	return strings.Join(parts, ", ")
}

// dominantTier picks the tier holding the most blocks; ties resolve toward
// the more severe tier.
func dominantTier(counts map[string]int) string {
	best := history.RiskCritical
	for _, tier := range blockRiskTiers {
		if counts[tier.level] > counts[best] {
			best = tier.level
		}
	}
	return best
}

// termCounter tallies how many records mention each term, remembering
// first-appearance order so equal counts rank deterministically.
type termCounter struct {
	counts map[string]int
	order  []string
}

func newTermCounter() *termCounter {
	return &termCounter{counts: make(map[string]int)}
}

// CountAll counts one record's matches. Terms are walked in sorted order so
// first-appearance tie-breaks do not depend on map iteration.
func (tc *termCounter) CountAll(matched terms.Set) {
	for _, term := range matched.Sorted() {
		if tc.counts[term] == 0 {
			tc.order = append(tc.order, term)
		}
		tc.counts[term]++
	}
}

// Top returns the n most frequent terms, most frequent first.
func (tc *termCounter) Top(n int) []string {
	ranked := make([]string, len(tc.order))
	copy(ranked, tc.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return tc.counts[ranked[i]] > tc.counts[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
