package terms

// Category identifies one group of extraction rules.
type Category string

const (
	CategoryDisease   Category = "disease"
	CategoryTreatment Category = "treatment"
	CategorySymptom   Category = "symptom"
	CategoryWarning   Category = "warning"
)

// Categories lists every rule group in a fixed render order.
var Categories = []Category{
	CategoryDisease, CategoryTreatment, CategorySymptom, CategoryWarning,
}

// categoryRules holds the pattern vocabulary per category. Each entry is the
// body of a regular expression; the extractor wraps it with word boundaries
// and compiles it case-insensitively. Adding a rule here extends extraction
// without touching the matching code.
var categoryRules = map[Category][]string{
	CategoryDisease: {
		`(?:acute|chronic|severe|mild|primary|secondary)\s+\w+(?:\s+\w+)?`,
		`(?:hypertension|diabetes|asthma|pneumonia|bronchitis|gastritis|dengue|arthritis|anemia|appendicitis|migraine|thyroid|fracture)`,
		`(?:infection|inflammation|disorder|syndrome|disease|condition|fever)`,
	},
	CategoryTreatment: {
		`(?:prescribed|administered|given|recommended)\s+\w+`,
		`(?:antibiotics|medication|therapy|surgery|procedure|treatment)`,
		`(?:insulin|aspirin|ibuprofen|acetaminophen|steroids|inhalers)`,
	},
	CategorySymptom: {
		`(?:cough|fever|pain|nausea|headache|dizziness|fatigue|weakness)`,
		`(?:shortness of breath|chest pain|abdominal pain)`,
		`(?:vomiting|diarrhea|bleeding|swelling|rash)`,
	},
	CategoryWarning: {
		`(?:warning|caution|contraindication|avoid|do not|allergic)`,
		`(?:emergency|urgent|immediate|critical|life-threatening)`,
		`(?:monitor|watch for|check|observe)`,
	},
}

// warningIndicators flag sentences that must surface verbatim when scanning
// a description field.
var warningIndicators = []string{
	"warning", "caution", "avoid", "do not",
	"contraindication", "emergency", "monitor", "immediate",
}
