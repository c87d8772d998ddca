package history

import (
	"strings"
	"time"
)

// Risk levels recognized on an encounter record. Anything else normalizes
// to RiskLow.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

var validRiskLevels = map[string]bool{
	RiskLow:      true,
	RiskMedium:   true,
	RiskHigh:     true,
	RiskCritical: true,
}

// SentinelDate marks a record whose date was absent or unparsable. It is far
// enough in the past that sentinel-dated records always sort as oldest.
var SentinelDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// NormalizeRiskLevel lower-cases a raw risk value and resolves anything
// outside the recognized set (including the empty string) to RiskLow.
func NormalizeRiskLevel(raw string) string {
	level := strings.ToLower(strings.TrimSpace(raw))
	if validRiskLevels[level] {
		return level
	}
	return RiskLow
}

// EncounterRecord is one clinical visit parsed out of a patient history blob.
// String fields left empty were absent from the source text.
type EncounterRecord struct {
	Date        time.Time `json:"date"`
	Hospital    string    `json:"hospital,omitempty"`
	Doctor      string    `json:"doctor,omitempty"`
	Disease     string    `json:"disease,omitempty"`
	Description string    `json:"description,omitempty"`
	Treatment   string    `json:"treatment,omitempty"`
	RiskLevel   string    `json:"riskLevel"`
	Warnings    string    `json:"warnings,omitempty"`
	RawText     string    `json:"-"`
}

// DateKnown reports whether the record carried a parsable date.
func (r *EncounterRecord) DateKnown() bool {
	return !r.Date.Equal(SentinelDate)
}

// PatientHistory is a sequence of encounter records ordered most recent
// first. Records with unknown dates sort last, keeping their parse order
// relative to each other.
type PatientHistory []EncounterRecord
