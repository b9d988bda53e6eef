package report

// View bundles everything the presentation layer needs to render one report:
// the parsed sections, the derived risk assessment and the ranked condition
// cards. It is recomputed from the raw text on every render and never stored.
type View struct {
	Sections   Sections        `json:"sections"`
	Risk       RiskAssessment  `json:"risk"`
	Conditions []ConditionCard `json:"conditions"`
}

// BuildView parses the raw report text and derives the risk assessment and
// condition cards from the relevant sections. Like its parts it is total:
// malformed input degrades to empty sections, Unclear risk and at most one
// fallback condition card.
func BuildView(raw string) View {
	sections := Parse(raw)
	return View{
		Sections:   sections,
		Risk:       ExtractRisk(sections[KeyRiskStratification]),
		Conditions: ExtractConditions(sections[KeyMostLikelyCondition]),
	}
}
