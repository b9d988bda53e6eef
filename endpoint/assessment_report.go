package endpoint

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/zhanbolat3094-ctrl/HealthSignalAI/model"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/report"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// reportListItem is the compact representation used in report listings.
type reportListItem struct {
	ID        uint                  `json:"id"`
	CreatedAt string                `json:"created_at"`
	Risk      report.RiskAssessment `json:"risk"`
}

const createdLabelLayout = "2006-01-02 15:04"

// fetchOwnedReport loads a report by id scoped to the owning user. Reports
// belonging to other users resolve to record-not-found.
func fetchOwnedReport(db *gorm.DB, userID uint, id string) (model.AssessmentReport, error) {
	var assessment model.AssessmentReport
	err := db.Where("user_id = ?", userID).First(&assessment, id).Error
	return assessment, err
}

func respondReportNotFound(c *gin.Context, userID uint, id string) {
	util.LogUnauthorizedAccess(fmt.Sprintf("%d", userID), "", c.ClientIP(), fmt.Sprintf("report/%s", id), "report not owned or missing")
	util.CallErrorNotFound(c, util.APIErrorParams{
		Msg: "Report not found",
		Err: fmt.Errorf("report not found"),
	})
}

// decodePayload restores the persisted AssessmentPayload. A payload that
// cannot be decoded degrades to its zero value rather than failing the render.
func decodePayload(assessment model.AssessmentReport) report.AssessmentPayload {
	var payload report.AssessmentPayload
	_ = json.Unmarshal(assessment.Payload, &payload)
	return payload
}

// ListReports godoc
// @Summary      List the current user's assessment reports
// @Description  Get a paginated list of reports owned by the authenticated user, newest first
// @Tags         Report
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        limit query int false "Limit number of results" default(20)
// @Param        offset query int false "Offset for pagination" default(0)
// @Success      200 {object} util.APIResponse{data=object} "Reports retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /report [get]
func ListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}

	query := db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var assessments []model.AssessmentReport
	if err := query.Find(&assessments).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve reports",
			Err: err,
		})
		return
	}

	items := make([]reportListItem, 0, len(assessments))
	for _, assessment := range assessments {
		sections := report.Parse(assessment.AIReport)
		items = append(items, reportListItem{
			ID:        assessment.ID,
			CreatedAt: assessment.CreatedAt.Format(createdLabelLayout),
			Risk:      report.ExtractRisk(sections[report.KeyRiskStratification]),
		})
	}

	var totalReports int64
	db.Model(&model.AssessmentReport{}).Where("user_id = ?", userID).Count(&totalReports)

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Reports retrieved",
		Data: map[string]interface{}{"total": totalReports, "total_fetched": len(items), "reports": items},
	})
}

// GetReport godoc
// @Summary      Get an assessment report
// @Description  Get a stored report with its parsed sections, risk assessment and condition cards
// @Tags         Report
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Report ID"
// @Success      200 {object} util.APIResponse{data=object} "Report retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Report not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /report/{id} [get]
func GetReport(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing report ID",
			Err: fmt.Errorf("report ID is required"),
		})
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

	assessment, err := fetchOwnedReport(db, userID, id)
	if err != nil {
		respondReportNotFound(c, userID, id)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Report retrieved",
		Data: map[string]interface{}{
			"report_id":  assessment.ID,
			"created_at": assessment.CreatedAt.Format(createdLabelLayout),
			"payload":    decodePayload(assessment),
			"raw_report": assessment.AIReport,
			"view":       report.BuildView(assessment.AIReport),
		},
	})
}

// ExportReport godoc
// @Summary      Export an assessment report
// @Description  Download a stored report as a paginated plain-text document
// @Tags         Report
// @Produce      plain
// @Security     SessionToken
// @Param        id path int true "Report ID"
// @Success      200 {string} string "Report document"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Report not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /report/{id}/export [get]
func ExportReport(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing report ID",
			Err: fmt.Errorf("report ID is required"),
		})
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

	assessment, err := fetchOwnedReport(db, userID, id)
	if err != nil {
		respondReportNotFound(c, userID, id)
		return
	}

	username := ""
	var user model.User
	if err := db.First(&user, userID).Error; err == nil {
		username = user.Name
	}

	document := report.ExportDocument(
		assessment.ID,
		decodePayload(assessment),
		assessment.AIReport,
		username,
		assessment.CreatedAt.Format(createdLabelLayout),
	)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=assessment-report-%d.txt", assessment.ID))
	// Overwrite the JSON content type set by the CORS middleware before the
	// body is written, otherwise the download is mislabeled.
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(document))
}
