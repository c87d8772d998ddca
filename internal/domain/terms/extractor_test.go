package terms

import (
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// Extract
// ---------------------------------------------------------------------------

func TestExtract_CategorizesMatches(t *testing.T) {
	e := NewExtractor()
	text := "Patient has chronic hypertension with persistent headache. " +
		"Prescribed medication and insulin. Monitor blood pressure and avoid salt."

	got := e.Extract(text)

	if !got[CategoryDisease].Has("hypertension") {
		t.Errorf("diseases = %v, want hypertension matched", got[CategoryDisease].Sorted())
	}
	if !got[CategoryDisease].Has("chronic hypertension with") {
		t.Errorf("diseases = %v, want the qualifier pattern matched", got[CategoryDisease].Sorted())
	}
	if !got[CategoryTreatment].Has("Prescribed medication") {
		t.Errorf("treatments = %v, want Prescribed medication", got[CategoryTreatment].Sorted())
	}
	if !got[CategoryTreatment].Has("insulin") {
		t.Errorf("treatments = %v, want insulin", got[CategoryTreatment].Sorted())
	}
	if !got[CategorySymptom].Has("headache") {
		t.Errorf("symptoms = %v, want headache", got[CategorySymptom].Sorted())
	}
	if !got[CategoryWarning].Has("Monitor") || !got[CategoryWarning].Has("avoid") {
		t.Errorf("warnings = %v, want Monitor and avoid", got[CategoryWarning].Sorted())
	}
}

func TestExtract_KeepsOriginalCasing(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("ASTHMA flare with Fever")

	if !got[CategoryDisease].Has("ASTHMA") {
		t.Errorf("diseases = %v, want verbatim ASTHMA", got[CategoryDisease].Sorted())
	}
	if !got[CategorySymptom].Has("Fever") {
		t.Errorf("symptoms = %v, want verbatim Fever", got[CategorySymptom].Sorted())
	}
}

func TestExtract_DeduplicatesWithinCategory(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("fever, fever and more fever")

	if want := []string{"fever"}; !reflect.DeepEqual(got[CategorySymptom].Sorted(), want) {
		t.Errorf("symptoms = %v, want %v", got[CategorySymptom].Sorted(), want)
	}
}

func TestExtract_WordBoundaries(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("checkup scheduled, painful history of asthmatic relatives")

	if got[CategoryWarning].Has("check") {
		t.Error("check matched inside checkup")
	}
	if got[CategorySymptom].Has("pain") {
		t.Error("pain matched inside painful")
	}
	if got[CategoryDisease].Has("asthma") {
		t.Error("asthma matched inside asthmatic")
	}
}

func TestExtract_EmptyText(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("")

	for _, cat := range Categories {
		if len(got[cat]) != 0 {
			t.Errorf("len(%s) = %d, want 0", cat, len(got[cat]))
		}
	}
}

// ---------------------------------------------------------------------------
// WarningSentences
// ---------------------------------------------------------------------------

func TestWarningSentences(t *testing.T) {
	e := NewExtractor()
	desc := "Condition is stable. Avoid strenuous exercise. " +
		"Patient responded well. Monitor glucose daily. Do not skip doses."

	got := e.WarningSentences(desc)

	want := []string{
		"Avoid strenuous exercise",
		"Monitor glucose daily",
		"Do not skip doses",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WarningSentences = %v, want %v", got, want)
	}
}

func TestWarningSentences_KeepsDuplicates(t *testing.T) {
	e := NewExtractor()

	got := e.WarningSentences("Monitor intake. Monitor intake.")

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (duplicates preserved)", len(got))
	}
}

func TestWarningSentences_NoIndicators(t *testing.T) {
	e := NewExtractor()

	if got := e.WarningSentences("All clear. Routine visit."); len(got) != 0 {
		t.Errorf("WarningSentences = %v, want none", got)
	}
}
