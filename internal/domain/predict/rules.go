package predict

// Scored condition names as they appear in prediction output.
const (
	ConditionDiabetes     = "Type 2 Diabetes"
	ConditionHypertension = "Hypertension"
	ConditionHeartDisease = "Heart Disease"
	ConditionStroke       = "Stroke"
	ConditionKidney       = "Kidney Disease"
)

// conditionOrder fixes the evaluation order and the tie-break order of the
// sorted output.
var conditionOrder = []string{
	ConditionDiabetes,
	ConditionHypertension,
	ConditionHeartDisease,
	ConditionStroke,
	ConditionKidney,
}

// indicatorRule scores a condition from how many distinct disease labels
// mention one of its indicators. severityWeight adds per high or critical
// record on top of the label matches.
type indicatorRule struct {
	condition      string
	indicators     []string
	weight         float64
	severityWeight float64
}

var indicatorRules = []indicatorRule{
	{
		condition:  ConditionDiabetes,
		indicators: []string{"diabetes", "blood sugar", "glucose", "insulin"},
		weight:     0.3,
	},
	{
		condition:  ConditionHypertension,
		indicators: []string{"hypertension", "blood pressure", "bp"},
		weight:     0.3,
	},
	{
		condition:      ConditionHeartDisease,
		indicators:     []string{"heart", "cardiac", "coronary", "chest pain"},
		weight:         0.25,
		severityWeight: 0.1,
	},
}

// derivedRule scores a condition from already-final base scores, optionally
// mixing in indicator matches of its own. Derived rules run strictly after
// every indicator rule.
type derivedRule struct {
	condition  string
	indicators []string
	weight     float64
	inputs     []weightedInput
}

type weightedInput struct {
	condition string
	coeff     float64
}

var derivedRules = []derivedRule{
	{
		condition: ConditionStroke,
		inputs: []weightedInput{
			{ConditionHypertension, 0.4},
			{ConditionDiabetes, 0.3},
			{ConditionHeartDisease, 0.3},
		},
	},
	{
		condition:  ConditionKidney,
		indicators: []string{"kidney", "renal", "creatinine"},
		weight:     0.2,
		inputs: []weightedInput{
			{ConditionHypertension, 0.3},
			{ConditionDiabetes, 0.3},
		},
	},
}

// Comorbidity keyword groups, matched as substrings of lowercased disease
// labels and counted per record.
var (
	metabolicConditions      = []string{"diabetes", "obesity", "metabolic syndrome", "cholesterol"}
	cardiovascularConditions = []string{"hypertension", "heart disease", "coronary", "cardiac"}
	respiratoryConditions    = []string{"asthma", "copd", "bronchitis", "pneumonia"}
)

// ageBrackets map age to its baseline risk contribution; ages past the last
// bracket take elderAgeRisk.
var ageBrackets = []struct {
	under int
	risk  float64
}{
	{18, 0.1},
	{40, 0.2},
	{60, 0.4},
	{75, 0.6},
}

const elderAgeRisk = 0.8

// adviceRule is the recommendation table for one condition. Elevated entries
// append at high or critical risk, critical entries only at critical.
type adviceRule struct {
	base     []string
	elevated []string
	critical []string
}

var adviceRules = map[string]adviceRule{
	ConditionDiabetes: {
		base: []string{
			"Regular blood sugar monitoring",
			"Maintain healthy diet with controlled carbohydrate intake",
		},
		elevated: []string{
			"Consult endocrinologist for medication review",
			"Consider continuous glucose monitoring",
		},
	},
	ConditionHypertension: {
		base: []string{
			"Monitor blood pressure regularly",
			"Reduce sodium intake",
			"Regular cardiovascular exercise",
		},
		elevated: []string{
			"Immediate consultation with cardiologist recommended",
		},
	},
	ConditionHeartDisease: {
		base: []string{
			"Regular cardiac checkups",
			"Stress management and adequate rest",
			"Heart-healthy diet (low saturated fat)",
		},
		critical: []string{
			"Emergency cardiac evaluation recommended",
		},
	},
	ConditionStroke: {
		base: []string{
			"Control blood pressure and blood sugar",
			"Regular neurological assessments",
			"Antiplatelet therapy as prescribed",
		},
		elevated: []string{
			"Immediate stroke risk assessment needed",
		},
	},
	ConditionKidney: {
		base: []string{
			"Regular kidney function tests",
			"Stay well hydrated",
			"Limit protein and sodium intake",
		},
		elevated: []string{
			"Nephrology consultation recommended",
		},
	},
}

const followUpAdvice = "Schedule follow-up appointment within 2 weeks"

const maxRecommendations = 5
