package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/medinsight/medinsight/internal/domain/history"
	"github.com/medinsight/medinsight/internal/domain/terms"
	"github.com/medinsight/medinsight/internal/platform/nlp"
)

// EntityExtractor yields labeled entity spans for a piece of clinical text.
// *nlp.Client satisfies it.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) ([]nlp.Entity, error)
}

// fallbackConfidence is assigned to entities synthesized from the rule
// tables when no extraction service produced any.
const fallbackConfidence = 0.5

// Entity labels grouped into the summary sections.
var (
	diagnosisEntityLabels = map[string]bool{"DISEASE": true, "CONDITION": true, "PROBLEM": true}
	treatmentEntityLabels = map[string]bool{"TREATMENT": true, "MEDICATION": true, "PROCEDURE": true}
	symptomEntityLabels   = map[string]bool{"SYMPTOM": true, "SIGN": true}
	fallbackLabelFor      = map[terms.Category]string{
		terms.CategoryDisease:   "DISEASE",
		terms.CategoryTreatment: "TREATMENT",
		terms.CategorySymptom:   "SYMPTOM",
	}
)

// entitySectionLimit caps how many entity texts each section shows.
const entitySectionLimit = 5

// composeEntities renders the entity-driven summary. Each record is run
// through the extractor; records the service cannot cover (nil extractor,
// call error, or zero spans) fall back to the rule tables so the summary is
// always complete.
func composeEntities(ctx context.Context, records history.PatientHistory, extractor EntityExtractor, fallback *terms.Extractor) string {
	var all []nlp.Entity
	for _, rec := range records {
		all = append(all, recordEntities(ctx, rec.RawText, extractor, fallback)...)
	}

	var diseases, treatments, symptoms []string
	for _, ent := range all {
		switch {
		case diagnosisEntityLabels[ent.Label]:
			diseases = append(diseases, ent.Text)
		case treatmentEntityLabels[ent.Label]:
			treatments = append(treatments, ent.Text)
		case symptomEntityLabels[ent.Label]:
			symptoms = append(symptoms, ent.Text)
		}
	}

	riskCounts := classifyBlocks(records)

	var sections []string
	if uniq := dedupe(diseases); len(uniq) > 0 {
		sections = append(sections, "**Chief Complaints/Diagnoses:** "+joinCapped(uniq, entitySectionLimit, ", "))
	}
	if line := riskAssessmentLine(riskCounts); line != "" {
		sections = append(sections, "**Risk Assessment:** "+line)
	}
	if uniq := dedupe(treatments); len(uniq) > 0 {
		sections = append(sections, "**Treatments:** "+joinCapped(uniq, entitySectionLimit, ", "))
	}
	if uniq := dedupe(symptoms); len(uniq) > 0 {
		sections = append(sections, "**Key Symptoms/Findings:** "+joinCapped(uniq, entitySectionLimit, ", "))
	}
	sections = append(sections, fmt.Sprintf(
		"**Summary:** Patient has %d medical records with %d identified medical entities. Most recent conditions show %s risk level.",
		len(records), len(all), dominantTier(riskCounts)))

	return strings.Join(sections, "\n\n")
}

// recordEntities extracts one record's entities, synthesizing rule-table
// entities when the service yields nothing.
func recordEntities(ctx context.Context, text string, extractor EntityExtractor, fallback *terms.Extractor) []nlp.Entity {
	if extractor != nil {
		ents, err := extractor.Extract(ctx, text)
		if err == nil && len(ents) > 0 {
			return ents
		}
	}

	extracted := fallback.Extract(text)
	var ents []nlp.Entity
	for _, cat := range []terms.Category{terms.CategoryDisease, terms.CategoryTreatment, terms.CategorySymptom} {
		for _, term := range extracted[cat].Sorted() {
			ents = append(ents, nlp.Entity{
				Text:       term,
				Label:      fallbackLabelFor[cat],
				Confidence: fallbackConfidence,
			})
		}
	}
	return ents
}
