package report

import (
	"regexp"
	"strconv"
	"strings"
)

// maxConditionCards caps how many condition cards a report can show.
const maxConditionCards = 5

// ConditionCard is one ranked candidate condition with an inferred confidence.
type ConditionCard struct {
	Title      string `json:"title"`
	Details    string `json:"details"`
	Confidence int    `json:"confidence"`
}

var (
	paragraphSplit = regexp.MustCompile(`\n[ \t]*\n+`)
	percentToken   = regexp.MustCompile(`(\d{1,3})\s*%`)
)

// ExtractConditions splits the "most likely conditions" section into ranked
// condition cards, at most five. When no paragraph yields a usable card but
// the section is non-blank, a single fallback card carries the whole text so
// the result page always has something to show.
func ExtractConditions(conditionsSectionText string) []ConditionCard {
	cards := []ConditionCard{}
	for _, paragraph := range paragraphSplit.Split(conditionsSectionText, -1) {
		card, ok := buildConditionCard(paragraph)
		if !ok {
			continue
		}
		cards = append(cards, card)
		if len(cards) == maxConditionCards {
			break
		}
	}

	if len(cards) == 0 {
		if trimmed := strings.TrimSpace(conditionsSectionText); trimmed != "" {
			cards = append(cards, ConditionCard{
				Title:      "Differential Assessment",
				Details:    trimmed,
				Confidence: 50,
			})
		}
	}
	return cards
}

func buildConditionCard(paragraph string) (ConditionCard, bool) {
	var lines []string
	for _, line := range strings.Split(paragraph, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return ConditionCard{}, false
	}

	// A paragraph whose first line is only a bullet or enumeration marker
	// has no title to show; reject it so the fallback card can take over.
	title := cleanCardTitle(lines[0])
	if title == "" {
		return ConditionCard{}, false
	}

	details := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		details = append(details, cleanLine(line))
	}

	return ConditionCard{
		Title:      title,
		Details:    strings.TrimSpace(strings.Join(details, "\n")),
		Confidence: inferConfidence(paragraph),
	}, true
}

// cleanCardTitle strips one leading bullet marker and one enumeration prefix
// ("- ", "* ", "1. ", "2) ") from a card's first line.
func cleanCardTitle(line string) string {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		line = strings.TrimLeft(line[2:], " \t")
	}
	return stripEnumerationPrefix(line, ".)")
}

// inferConfidence scans the paragraph for confidence wording, then overwrites
// the result with an explicit percentage token when one is present. The word
// cues run first but a percentage always wins.
func inferConfidence(paragraph string) int {
	text := strings.ToLower(paragraph)

	confidence := 50
	switch {
	case strings.Contains(text, "high"):
		confidence = 82
	case strings.Contains(text, "medium"), strings.Contains(text, "moderate"):
		confidence = 60
	case strings.Contains(text, "low"):
		confidence = 35
	}

	if match := percentToken.FindStringSubmatch(text); match != nil {
		if pct, err := strconv.Atoi(match[1]); err == nil {
			if pct > 100 {
				pct = 100
			}
			if pct < 0 {
				pct = 0
			}
			confidence = pct
		}
	}
	return confidence
}
