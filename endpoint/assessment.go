package endpoint

import (
	"encoding/json"
	"fmt"

	"github.com/zhanbolat3094-ctrl/HealthSignalAI/model"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/report"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/util"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type submitAssessmentRequest struct {
	Age             int      `json:"age" example:"34"`
	Gender          string   `json:"gender" example:"male"`
	SymptomDuration string   `json:"symptom_duration" example:"1-3d"`
	AdditionalNotes string   `json:"additional_notes" example:"Recent travel, no chronic conditions"`
	Answers         []string `json:"answers"`
}

func validateAssessmentRequest(c *gin.Context, req submitAssessmentRequest) bool {
	if req.Age < 1 || req.Age > 120 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body: age must be between 1 and 120",
			Err: fmt.Errorf("age out of range"),
		})
		return false
	}
	if !util.Contains(req.Gender, report.GenderChoices) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body: unknown gender value",
			Err: fmt.Errorf("invalid gender"),
		})
		return false
	}
	if !util.Contains(req.SymptomDuration, report.DurationChoices) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body: unknown symptom duration value",
			Err: fmt.Errorf("invalid symptom duration"),
		})
		return false
	}
	return true
}

// ListAssessmentQuestions godoc
// @Summary      List assessment questions
// @Description  Get the fixed question bank and the accepted choice values
// @Tags         Assessment
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=object} "Questions retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /assessment/questions [get]
func ListAssessmentQuestions(c *gin.Context) {
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Assessment questions retrieved",
		Data: map[string]interface{}{
			"question_count":   len(report.AssessmentQuestions),
			"questions":        report.AssessmentQuestions,
			"gender_choices":   report.GenderChoices,
			"duration_choices": report.DurationChoices,
			"prompt_version":   report.PromptVersion,
		},
	})
}

// SubmitAssessment godoc
// @Summary      Submit a symptom assessment
// @Description  Build the payload, request the AI report, persist it and return the parsed result. The submission always completes: AI failures are stored and shown as the report text.
// @Tags         Assessment
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body submitAssessmentRequest true "Questionnaire answers"
// @Success      200 {object} util.APIResponse{data=object} "Assessment completed"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /assessment [post]
func SubmitAssessment(c *gin.Context) {
	var req submitAssessmentRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	if !validateAssessmentRequest(c, req) {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}

	payload := report.BuildPayload(req.Age, req.Gender, req.SymptomDuration, req.AdditionalNotes, req.Answers)

	// One blocking round trip, no retries. Failures come back as
	// displayable text and are stored like any other report.
	rawReport := report.GenerateAssessmentReport(c.Request.Context(), payload)

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to encode assessment payload",
			Err: err,
		})
		return
	}

	assessment := model.AssessmentReport{
		UserID:   userID,
		Payload:  datatypes.JSON(payloadJSON),
		AIReport: rawReport,
	}
	if err := db.Create(&assessment).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to persist assessment report",
			Err: err,
		})
		return
	}

	util.LogReportCreated(userID, assessment.ID, c.ClientIP())

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Assessment completed",
		Data: map[string]interface{}{
			"report_id":      assessment.ID,
			"created_at":     assessment.CreatedAt,
			"payload":        payload,
			"question_count": len(report.AssessmentQuestions),
			"raw_report":     rawReport,
			"view":           report.BuildView(rawReport),
		},
	})
}
