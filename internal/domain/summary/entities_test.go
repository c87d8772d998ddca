package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/medinsight/medinsight/internal/domain/history"
	"github.com/medinsight/medinsight/internal/domain/terms"
	"github.com/medinsight/medinsight/internal/platform/nlp"
)

type stubExtractor struct {
	entities []nlp.Entity
	err      error
	calls    int
}

func (s *stubExtractor) Extract(ctx context.Context, text string) ([]nlp.Entity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.entities, nil
}

func TestComposeEntities_GroupsByLabel(t *testing.T) {
	records := history.Parse("Description: Severe pneumonia case.")
	stub := &stubExtractor{entities: []nlp.Entity{
		{Text: "Pneumonia", Label: "DISEASE", Confidence: 0.93},
		{Text: "Chest congestion", Label: "PROBLEM", Confidence: 0.81},
		{Text: "Antibiotics", Label: "TREATMENT", Confidence: 0.88},
		{Text: "Azithromycin", Label: "MEDICATION", Confidence: 0.9},
		{Text: "Cough", Label: "SYMPTOM", Confidence: 0.85},
		{Text: "Fever", Label: "SIGN", Confidence: 0.8},
		{Text: "Lung", Label: "ANATOMY", Confidence: 0.77},
	}}

	got := composeEntities(context.Background(), records, stub, terms.NewExtractor())

	want := `**Chief Complaints/Diagnoses:** Pneumonia, Chest congestion

**Risk Assessment:** Critical: 1 records

**Treatments:** Antibiotics, Azithromycin

**Key Symptoms/Findings:** Cough, Fever

**Summary:** Patient has 1 medical records with 7 identified medical entities. Most recent conditions show critical risk level.`

	if got != want {
		t.Errorf("composeEntities mismatch\ngot:\n%s\n\nwant:\n%s", got, want)
	}
	if stub.calls != 1 {
		t.Errorf("extractor calls = %d, want 1", stub.calls)
	}
}

func TestComposeEntities_FallsBackOnError(t *testing.T) {
	records := history.Parse("Description: Severe pneumonia case.")
	stub := &stubExtractor{err: errors.New("service unavailable")}

	got := composeEntities(context.Background(), records, stub, terms.NewExtractor())

	if !strings.Contains(got, "pneumonia") {
		t.Errorf("fallback terms missing from summary:\n%s", got)
	}
	if !strings.Contains(got, "identified medical entities") {
		t.Errorf("expected complete summary despite extractor failure:\n%s", got)
	}
}

func TestComposeEntities_NilExtractorUsesFallback(t *testing.T) {
	records := history.Parse("Description: Severe pneumonia case.")

	got := composeEntities(context.Background(), records, nil, terms.NewExtractor())

	if !strings.Contains(got, "pneumonia") {
		t.Errorf("fallback terms missing from summary:\n%s", got)
	}
}

func TestRecordEntities_FallbackShape(t *testing.T) {
	ents := recordEntities(context.Background(), "Severe pneumonia case.", nil, terms.NewExtractor())

	if len(ents) == 0 {
		t.Fatal("expected fallback entities")
	}
	for _, ent := range ents {
		if ent.Confidence != fallbackConfidence {
			t.Errorf("entity %q confidence = %v, want %v", ent.Text, ent.Confidence, fallbackConfidence)
		}
		switch ent.Label {
		case "DISEASE", "TREATMENT", "SYMPTOM":
		default:
			t.Errorf("entity %q has unexpected fallback label %q", ent.Text, ent.Label)
		}
	}
}

func TestRecordEntities_EmptyServiceResultFallsBack(t *testing.T) {
	stub := &stubExtractor{entities: nil}
	ents := recordEntities(context.Background(), "Severe pneumonia case.", stub, terms.NewExtractor())

	if stub.calls != 1 {
		t.Errorf("extractor calls = %d, want 1", stub.calls)
	}
	if len(ents) == 0 {
		t.Fatal("expected rule-table entities when the service returns none")
	}
	if ents[0].Confidence != fallbackConfidence {
		t.Errorf("confidence = %v, want fallback", ents[0].Confidence)
	}
}
