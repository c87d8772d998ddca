package summary

import (
	"fmt"
	"time"
)

// Mode selects the summarization strategy.
type Mode string

const (
	// ModeEmergency renders the structured clinical overview from parsed
	// encounter records.
	ModeEmergency Mode = "emergency"
	// ModeSimple runs the lightweight pattern tables over raw text blocks.
	ModeSimple Mode = "simple"
	// ModeEntities uses the entity recognition service, falling back to
	// rule-based extraction when it is unavailable.
	ModeEntities Mode = "entities"
)

// ParseMode validates a raw mode string. Empty selects ModeEmergency.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case "":
		return ModeEmergency, nil
	case ModeEmergency, ModeSimple, ModeEntities:
		return Mode(raw), nil
	}
	return "", fmt.Errorf("unknown summary mode %q", raw)
}

// NoRecordsMessage is the summary for history text that yields no records.
const NoRecordsMessage = "No medical records found to summarize."

// Options control a single summarization run.
type Options struct {
	Mode Mode
	// EmergencyMode gates the alert and consideration sections in
	// ModeEmergency. The other modes ignore it.
	EmergencyMode bool
	// Now anchors timeline bucketing; zero means time.Now().
	Now time.Time
}

// Request is the wire form shared by the CLI runner and the HTTP handler.
type Request struct {
	History       string `json:"history"`
	EmergencyMode *bool  `json:"emergencyMode"`
}

// Emergency reports the requested emergency flag, defaulting to true when the
// field was absent from the payload.
func (r *Request) Emergency() bool {
	if r.EmergencyMode == nil {
		return true
	}
	return *r.EmergencyMode
}

// Response wraps a rendered summary for the wire.
type Response struct {
	Summary string `json:"summary"`
}

// Report carries a rendered summary together with the provenance fields a
// document renderer needs.
type Report struct {
	Summary      string
	Hospital     string
	Doctor       string
	RecordCount  int
	UnknownDates int
}
