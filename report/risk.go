package report

import "strings"

// Risk labels in decreasing order of urgency.
const (
	RiskEmergency = "Emergency"
	RiskHigh      = "High Risk"
	RiskModerate  = "Moderate Risk"
	RiskLow       = "Low Risk"
	RiskUnclear   = "Unclear"
)

// RiskAssessment is a coarse severity classification derived from the risk
// stratification section. The score is a fixed constant per label driving the
// urgency indicator, not a computed probability.
type RiskAssessment struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

// riskRules are tested in strict priority order: a report that explains why a
// case is "not low risk but an emergency" mentions several risk words, and
// the most urgent one must win.
var riskRules = []struct {
	needle string
	label  string
	score  int
}{
	{"emergency", RiskEmergency, 95},
	{"high", RiskHigh, 82},
	{"moderate", RiskModerate, 65},
	{"low", RiskLow, 35},
}

// ExtractRisk derives the risk label and score from the free-text risk
// section. Unrecognized or empty text yields Unclear/50.
func ExtractRisk(riskSectionText string) RiskAssessment {
	text := strings.ToLower(riskSectionText)
	for _, rule := range riskRules {
		if strings.Contains(text, rule.needle) {
			return RiskAssessment{Label: rule.label, Score: rule.score}
		}
	}
	return RiskAssessment{Label: RiskUnclear, Score: 50}
}
