package report

import (
	"strings"
)

// Section keys. Every parsed report contains exactly this closed set of keys;
// sections absent from the raw text map to empty strings.
const (
	KeyClinicalSummary     = "clinical_summary"
	KeyMostLikelyCondition = "most_likely_conditions"
	KeyRiskStratification  = "risk_stratification"
	KeyDiagnosticTests     = "recommended_diagnostic_tests"
	KeyNextSteps           = "recommended_next_steps"
	KeyWhatToMonitor       = "what_to_monitor"
	KeyRedFlags            = "red_flags"
	KeySupportiveAdvice    = "general_supportive_advice"
	KeyWhatNotToDo         = "what_not_to_do"
)

// SectionKeys lists all section keys in template order.
var SectionKeys = []string{
	KeyClinicalSummary,
	KeyMostLikelyCondition,
	KeyRiskStratification,
	KeyDiagnosticTests,
	KeyNextSteps,
	KeyWhatToMonitor,
	KeyRedFlags,
	KeySupportiveAdvice,
	KeyWhatNotToDo,
}

// Sections maps section keys to cleaned body text.
type Sections map[string]string

// sectionAliases maps normalized heading phrases (lowercased, markers and
// enumeration prefixes stripped) to section keys. The phrases are pinned to
// the structure SystemPrompt requests; trailing-colon variants are listed
// because models frequently emit "Clinical Summary:" style headings.
var sectionAliases = buildAliasTable(map[string][]string{
	KeyClinicalSummary:     {"clinical summary"},
	KeyMostLikelyCondition: {"most likely conditions", "most likely conditions (ranked)"},
	KeyRiskStratification:  {"risk stratification"},
	KeyDiagnosticTests:     {"recommended diagnostic tests"},
	KeyNextSteps:           {"recommended next steps"},
	KeyWhatToMonitor:       {"what to monitor"},
	KeyRedFlags:            {"red flags"},
	KeySupportiveAdvice:    {"general supportive advice"},
	KeyWhatNotToDo:         {"what not to do"},
})

func buildAliasTable(phrases map[string][]string) map[string]string {
	aliases := make(map[string]string)
	for key, list := range phrases {
		for _, phrase := range list {
			aliases[phrase] = key
			aliases[phrase+":"] = key
		}
	}
	return aliases
}

// Parse splits a raw AI report into named sections by matching heading lines
// against the alias table. It is total: any input, including failure messages
// from the AI service, yields a map with all nine keys present. Lines before
// the first recognized heading are discarded; unknown headings do not close
// the current section; when the same heading appears twice, the later body
// wins.
func Parse(raw string) Sections {
	sections := make(Sections, len(SectionKeys))
	for _, key := range SectionKeys {
		sections[key] = ""
	}

	currentKey := ""
	var body []string

	flush := func() {
		if currentKey == "" {
			return
		}
		sections[currentKey] = cleanBody(body)
	}

	for _, line := range strings.Split(raw, "\n") {
		if key, ok := matchHeading(line); ok {
			flush()
			currentKey = key
			body = body[:0]
			continue
		}
		if currentKey != "" {
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// matchHeading reports whether the line is a recognized section heading.
// A heading candidate is the line after stripping an optional run of 1-6 '#'
// markers followed by whitespace and an optional "N)" enumeration prefix;
// the remainder, lowercased and trimmed, must exactly match an alias.
func matchHeading(line string) (string, bool) {
	text := strings.TrimSpace(line)
	if text == "" {
		return "", false
	}

	if strings.HasPrefix(text, "#") {
		markers := len(text) - len(strings.TrimLeft(text, "#"))
		if markers > 6 {
			return "", false
		}
		rest := text[markers:]
		if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
			return "", false
		}
		text = strings.TrimSpace(rest)
	}

	text = stripEnumerationPrefix(text, ")")
	key, ok := sectionAliases[strings.ToLower(strings.TrimSpace(text))]
	return key, ok
}

// stripEnumerationPrefix removes a leading run of digits followed by one of
// the given suffix characters ("3) " or "2. " style), if present.
func stripEnumerationPrefix(text, suffixes string) string {
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(text) || !strings.ContainsRune(suffixes, rune(text[i])) {
		return text
	}
	return strings.TrimLeft(text[i+1:], " \t")
}

// cleanBody joins accumulated body lines, stripping stray leading heading
// markers from each line and trailing whitespace, then trims the result.
func cleanBody(lines []string) string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// cleanLine strips a leading run of '#' markers even when not followed by
// recognized heading text, then right-trims the line.
func cleanLine(line string) string {
	stripped := strings.TrimLeft(line, "#")
	if stripped != line {
		stripped = strings.TrimPrefix(stripped, " ")
	}
	return strings.TrimRight(stripped, " \t\r")
}
