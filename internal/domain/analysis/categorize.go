// Package analysis derives timeline, risk, recurrence, and trend signals
// from a parsed patient history.
package analysis

import (
	"time"

	"github.com/medinsight/medinsight/internal/domain/history"
)

// TimelineBuckets partitions records by how long ago they happened. Every
// record lands in exactly one bucket.
type TimelineBuckets struct {
	Last7Days  []history.EncounterRecord
	Last30Days []history.EncounterRecord
	Last90Days []history.EncounterRecord
	Older      []history.EncounterRecord
}

// CategorizeByTimeline buckets records by days elapsed between now and the
// record date, using inclusive 7/30/90 day thresholds. Records without a
// usable date go to Older regardless of the clock.
func CategorizeByTimeline(records history.PatientHistory, now time.Time) TimelineBuckets {
	var buckets TimelineBuckets
	for _, rec := range records {
		if !rec.DateKnown() {
			buckets.Older = append(buckets.Older, rec)
			continue
		}
		days := int(now.Sub(rec.Date) / (24 * time.Hour))
		switch {
		case days <= 7:
			buckets.Last7Days = append(buckets.Last7Days, rec)
		case days <= 30:
			buckets.Last30Days = append(buckets.Last30Days, rec)
		case days <= 90:
			buckets.Last90Days = append(buckets.Last90Days, rec)
		default:
			buckets.Older = append(buckets.Older, rec)
		}
	}
	return buckets
}

// RiskBuckets partitions records by normalized risk level.
type RiskBuckets struct {
	Critical []history.EncounterRecord
	High     []history.EncounterRecord
	Medium   []history.EncounterRecord
	Low      []history.EncounterRecord
}

// CategorizeByRisk buckets records by risk level. Unrecognized levels count
// as low, matching the record normalization rules.
func CategorizeByRisk(records history.PatientHistory) RiskBuckets {
	var buckets RiskBuckets
	for _, rec := range records {
		switch history.NormalizeRiskLevel(rec.RiskLevel) {
		case history.RiskCritical:
			buckets.Critical = append(buckets.Critical, rec)
		case history.RiskHigh:
			buckets.High = append(buckets.High, rec)
		case history.RiskMedium:
			buckets.Medium = append(buckets.Medium, rec)
		default:
			buckets.Low = append(buckets.Low, rec)
		}
	}
	return buckets
}
