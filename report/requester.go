package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/zhanbolat3094-ctrl/HealthSignalAI/openai"
)

// Requester failure messages. Every failure path produces displayable text
// that is stored as the report body; the parser downstream tolerates these
// non-report strings and degrades to an all-empty section map.
const (
	msgMissingAPIKey = "OpenAI API key is missing.\n" +
		"Set OPENAI_API_KEY in .env or environment variables and submit the assessment again."
	msgClientUnavailable = "OpenAI client could not be initialized.\n" +
		"Set OPENAI_BASE_URL to a valid OpenAI-compatible endpoint and try again."
	msgNoTextualResponse = "Analysis completed, but no textual response was returned."
)

// GenerateAssessmentReport sends the payload and the fixed system prompt to
// the completion service and returns the raw report text. It never returns an
// error: every failure is converted into a human-readable message that is
// stored and displayed as the report itself.
func GenerateAssessmentReport(ctx context.Context, payload AssessmentPayload) string {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return msgMissingAPIKey
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4.1-mini"
	}
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	client, err := openai.NewClient(baseURL, apiKey)
	if err != nil {
		return msgClientUnavailable
	}

	userContent, err := json.Marshal(payload)
	if err != nil {
		return analysisFailed(err)
	}

	output, err := client.CreateChatCompletion(ctx, model, SystemPrompt, string(userContent))
	if err != nil {
		return analysisFailed(err)
	}
	if output == "" {
		return msgNoTextualResponse
	}
	return output
}

func analysisFailed(err error) string {
	return fmt.Sprintf("OpenAI analysis failed.\n"+
		"Please check API key/model/network and try again.\n"+
		"Technical details: %v", err)
}
