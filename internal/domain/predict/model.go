package predict

// PatientData is the inbound prediction payload. A nil Age means the caller
// omitted it and DefaultAge applies.
type PatientData struct {
	Age     *int          `json:"age"`
	Records []RecordInput `json:"records"`
}

// RecordInput is one encounter as submitted by a caller. Dates follow the
// same formats the history parser accepts; unparsable values resolve to the
// sentinel and sort oldest.
type RecordInput struct {
	Date        string `json:"date"`
	Disease     string `json:"disease"`
	Risk        string `json:"risk"`
	Description string `json:"description,omitempty"`
	Treatment   string `json:"treatment,omitempty"`
}

// Prediction is one condition's scored risk.
type Prediction struct {
	Condition       string   `json:"condition"`
	RiskScore       float64  `json:"riskScore"`
	RiskLevel       string   `json:"riskLevel"`
	Confidence      float64  `json:"confidence"`
	Factors         []string `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

// Result is the assembled prediction report, highest risk first.
type Result struct {
	Predictions        []Prediction `json:"predictions"`
	OverallHealthScore float64      `json:"overallHealthScore"`
	TrendDirection     string       `json:"trendDirection"`
}

// Request and Response are the wire envelopes shared by the HTTP handler
// and the CLI runner.
type Request struct {
	PatientData *PatientData `json:"patientData"`
}

type Response struct {
	Prediction *Result `json:"prediction"`
}
