// Package history parses free-text patient histories into structured
// encounter records. Input is a blob of "Label: value" lines with records
// separated by "---" lines. Malformed or label-free blocks still yield a
// record carrying at least the raw text.
package history

import (
	"sort"
	"strings"
	"time"
)

// Separator is the literal content of a record separator line.
const Separator = "---"

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"01/02/2006",
	"2006-01-02",
	"02/01/2006",
	"January 2, 2006",
}

// Field labels recognized at the start of a line. Matching is
// case-sensitive. "Warning:" and "Warnings:" are both accepted.
const (
	labelDate        = "Date:"
	labelHospital    = "Hospital:"
	labelDoctor      = "Doctor:"
	labelDisease     = "Disease:"
	labelDescription = "Description:"
	labelTreatment   = "Treatment:"
	labelRiskLevel   = "Risk Level:"
	labelWarnings    = "Warnings:"
	labelWarning     = "Warning:"
)

var recordLabels = []string{
	labelDate,
	labelHospital,
	labelDoctor,
	labelDisease,
	labelDescription,
	labelTreatment,
	labelRiskLevel,
	labelWarnings,
	labelWarning,
}

// ParseDate parses a date value against the known layouts. Values that match
// no layout resolve to SentinelDate so the record sorts as oldest instead of
// failing the parse.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return SentinelDate
}

// Parse splits a raw history blob into encounter records sorted most recent
// first. It never fails: empty input yields an empty history and blocks
// without recognized labels yield records with only RawText set.
func Parse(raw string) PatientHistory {
	var records PatientHistory
	for _, block := range splitBlocks(raw) {
		records = append(records, parseBlock(block))
	}
	SortMostRecentFirst(records)
	return records
}

// SortMostRecentFirst orders records newest first. The sort is stable, so
// sentinel-dated records keep their original order at the tail.
func SortMostRecentFirst(records PatientHistory) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}

// splitBlocks cuts the blob on separator lines and drops empty blocks.
func splitBlocks(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var blocks []string
	var current []string
	flush := func() {
		block := strings.TrimSpace(strings.Join(current, "\n"))
		if block != "" {
			blocks = append(blocks, block)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == Separator {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

// parseBlock scans one block line by line. The first line carrying a given
// label wins; Description is the only multi-line field and runs until the
// next recognized label or the end of the block.
func parseBlock(block string) EncounterRecord {
	rec := EncounterRecord{
		Date:      SentinelDate,
		RiskLevel: RiskLow,
		RawText:   block,
	}

	lines := strings.Split(block, "\n")
	seen := make(map[string]bool, len(recordLabels))

	for i := 0; i < len(lines); i++ {
		label, value := matchLabel(lines[i])
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true

		switch label {
		case labelDate:
			rec.Date = ParseDate(value)
		case labelHospital:
			rec.Hospital = value
		case labelDoctor:
			rec.Doctor = value
		case labelDisease:
			rec.Disease = value
		case labelDescription:
			parts := []string{value}
			for i+1 < len(lines) {
				if next, _ := matchLabel(lines[i+1]); next != "" {
					break
				}
				i++
				parts = append(parts, lines[i])
			}
			rec.Description = strings.TrimSpace(strings.Join(parts, "\n"))
		case labelTreatment:
			rec.Treatment = value
		case labelRiskLevel:
			rec.RiskLevel = NormalizeRiskLevel(value)
		case labelWarnings, labelWarning:
			// Either spelling fills the same field; mark both as seen so a
			// later "Warning:" cannot overwrite an earlier "Warnings:".
			seen[labelWarnings] = true
			seen[labelWarning] = true
			rec.Warnings = value
		}
	}

	return rec
}

// matchLabel reports the label that opens the line, if any, and the trimmed
// value after it.
func matchLabel(line string) (label, value string) {
	trimmed := strings.TrimSpace(line)
	for _, l := range recordLabels {
		if strings.HasPrefix(trimmed, l) {
			return l, strings.TrimSpace(trimmed[len(l):])
		}
	}
	return "", ""
}
