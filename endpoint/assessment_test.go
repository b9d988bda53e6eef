package endpoint_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zhanbolat3094-ctrl/HealthSignalAI/model"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/report"
	"github.com/stretchr/testify/assert"
)

const stubAIReport = `## Clinical Summary
Adult patient reporting episodic headaches with photophobia.

## Most Likely Conditions (Ranked)
Migraine without aura - 80% confidence.
Classic presentation with light sensitivity.

Tension-type headache - 40% confidence.

## Risk Stratification
Low risk. Routine follow-up is sufficient.

## Recommended Next Steps
Keep a headache diary and consult a neurologist if frequency increases.`

// startStubOpenAI runs an in-process chat completion endpoint and points the
// requester at it for the duration of the test.
func startStubOpenAI(t *testing.T, reply string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL)
}

func submitAssessmentBody() map[string]interface{} {
	answers := make([]string, len(report.AssessmentQuestions))
	for i := range answers {
		answers[i] = "No"
	}
	answers[0] = "Yes, severe headaches"
	return map[string]interface{}{
		"age":              34,
		"gender":           "female",
		"symptom_duration": "1-3d",
		"additional_notes": "Worse in bright light",
		"answers":          answers,
	}
}

func TestListAssessmentQuestions(t *testing.T) {
	r, _, token, _ := SetupServerWithUser(t, SignupCreds{Name: "Asmt User", Email: "asmt1@example.com", Password: "asmtpass1"})

	rr, err := doRequest(r, "GET", "/assessment/questions", nil, authHeaders(token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	data := ParseDataToMap(t, ParseAPIResp(t, rr).Data)
	questions := data["questions"].([]interface{})
	assert.Len(t, questions, len(report.AssessmentQuestions))
	assert.NotEmpty(t, data["duration_choices"])
	assert.NotEmpty(t, data["gender_choices"])
}

func TestSubmitAssessmentValidation(t *testing.T) {
	r, _, token, _ := SetupServerWithUser(t, SignupCreds{Name: "Asmt User", Email: "asmt2@example.com", Password: "asmtpass2"})

	cases := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"age out of range", func(body map[string]interface{}) { body["age"] = 150 }},
		{"age not a number", func(body map[string]interface{}) { body["age"] = "abc" }},
		{"unknown gender", func(body map[string]interface{}) { body["gender"] = "other" }},
		{"unknown duration", func(body map[string]interface{}) { body["symptom_duration"] = "forever" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := submitAssessmentBody()
			tc.mutate(body)
			b, _ := json.Marshal(body)
			rr, err := doRequest(r, "POST", "/assessment", b, authHeaders(token))
			assert.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestSubmitAssessmentStoresReport(t *testing.T) {
	r, db, token, userID := SetupServerWithUser(t, SignupCreds{Name: "Asmt User", Email: "asmt3@example.com", Password: "asmtpass3"})
	startStubOpenAI(t, stubAIReport)

	b, _ := json.Marshal(submitAssessmentBody())
	rr, err := doRequest(r, "POST", "/assessment", b, authHeaders(token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	data := ParseDataToMap(t, ParseAPIResp(t, rr).Data)
	assert.Equal(t, stubAIReport, data["raw_report"])
	assert.Equal(t, float64(len(report.AssessmentQuestions)), data["question_count"])

	view := data["view"].(map[string]interface{})
	risk := view["risk"].(map[string]interface{})
	assert.Equal(t, report.RiskLow, risk["label"])

	// The stored row carries the exact text and the submitted payload
	reportID := uint(data["report_id"].(float64))
	rr, err = doRequest(r, "GET", fmt.Sprintf("/report/%d", reportID), nil, authHeaders(token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	stored := ParseDataToMap(t, ParseAPIResp(t, rr).Data)
	assert.Equal(t, stubAIReport, stored["raw_report"])

	payload := stored["payload"].(map[string]interface{})
	assert.Equal(t, float64(34), payload["age"])
	assert.Equal(t, "female", payload["gender"])
	assert.Equal(t, "1-3d", payload["symptom_duration"])

	var count int64
	db.Model(&model.AssessmentReport{}).Where("user_id = ?", userID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmitAssessmentWithoutAPIKeyStoresFailureText(t *testing.T) {
	r, _, token, _ := SetupServerWithUser(t, SignupCreds{Name: "Asmt User", Email: "asmt4@example.com", Password: "asmtpass4"})
	t.Setenv("OPENAI_API_KEY", "")

	b, _ := json.Marshal(submitAssessmentBody())
	rr, err := doRequest(r, "POST", "/assessment", b, authHeaders(token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	data := ParseDataToMap(t, ParseAPIResp(t, rr).Data)
	raw := data["raw_report"].(string)
	assert.Contains(t, raw, "OpenAI API key is missing.")

	// The failure text carries no headings, so the view degrades gracefully
	view := data["view"].(map[string]interface{})
	sections := view["sections"].(map[string]interface{})
	for key, val := range sections {
		assert.Equal(t, "", val, "section %s should be empty for failure text", key)
	}
	risk := view["risk"].(map[string]interface{})
	assert.Equal(t, report.RiskUnclear, risk["label"])
}
