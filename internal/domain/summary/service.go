package summary

import (
	"context"
	"time"

	"github.com/medinsight/medinsight/internal/domain/history"
	"github.com/medinsight/medinsight/internal/domain/terms"
)

// Service renders patient histories into summaries. A Service is safe for
// concurrent use: the extractors compile their rule tables at construction
// and are read-only afterwards.
type Service struct {
	clinical *terms.Extractor
	simple   *terms.Extractor
	entities EntityExtractor
}

// NewService builds a Service. entities may be nil; ModeEntities then always
// uses the rule-table fallback.
func NewService(entities EntityExtractor) *Service {
	return &Service{
		clinical: terms.NewExtractor(),
		simple:   terms.NewRuleExtractor(simpleRules),
		entities: entities,
	}
}

// Summarize parses raw history text and renders it per opts. History that
// yields no records produces NoRecordsMessage, not an error.
func (s *Service) Summarize(ctx context.Context, raw string, opts Options) (*Report, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	records := history.Parse(raw)
	report := &Report{RecordCount: len(records)}
	for _, rec := range records {
		if !rec.DateKnown() {
			report.UnknownDates++
		}
	}
	// Attribution: the first record naming each field wins.
	for _, rec := range records {
		if report.Hospital == "" && rec.Hospital != "" {
			report.Hospital = rec.Hospital
		}
		if report.Doctor == "" && rec.Doctor != "" {
			report.Doctor = rec.Doctor
		}
	}

	if len(records) == 0 {
		report.Summary = NoRecordsMessage
		return report, nil
	}

	switch opts.Mode {
	case ModeSimple:
		report.Summary = composeSimple(records, s.simple)
	case ModeEntities:
		report.Summary = composeEntities(ctx, records, s.entities, s.clinical)
	default:
		report.Summary = composeEmergency(records, s.clinical, opts.EmergencyMode, now)
	}
	return report, nil
}
