package report

// QuestionAnswer pairs one question from the fixed bank with the user's answer.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AssessmentPayload is the normalized request object sent to the AI service
// and persisted alongside the report. It is built once per submission and
// never mutated afterwards.
type AssessmentPayload struct {
	Age             int              `json:"age"`
	Gender          string           `json:"gender"`
	SymptomDuration string           `json:"symptom_duration"`
	AdditionalNotes string           `json:"additional_notes"`
	QuestionAnswers []QuestionAnswer `json:"question_answers"`
}

// BuildPayload maps raw questionnaire answers into an AssessmentPayload.
// Answers are matched to AssessmentQuestions by position; missing answers
// become empty strings and extra answers are dropped.
func BuildPayload(age int, gender, symptomDuration, additionalNotes string, answers []string) AssessmentPayload {
	questionAnswers := make([]QuestionAnswer, 0, len(AssessmentQuestions))
	for i, question := range AssessmentQuestions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		questionAnswers = append(questionAnswers, QuestionAnswer{
			Question: question,
			Answer:   answer,
		})
	}
	return AssessmentPayload{
		Age:             age,
		Gender:          gender,
		SymptomDuration: symptomDuration,
		AdditionalNotes: additionalNotes,
		QuestionAnswers: questionAnswers,
	}
}
