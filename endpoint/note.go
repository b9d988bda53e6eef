package endpoint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zhanbolat3094-ctrl/HealthSignalAI/middleware"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/model"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type noteRequest struct {
	Title   string `json:"title" example:"Follow-up questions"`
	Content string `json:"content" example:"Ask about the new medication"`
	IsDone  *bool  `json:"is_done,omitempty" example:"false"`
}

// getUserIDOrRespond returns the authenticated user's ID from context.
func getUserIDOrRespond(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "User not authenticated",
			Err: fmt.Errorf("user id not found in context"),
		})
		return 0, false
	}
	return userID, true
}

// fetchOwnedNote loads a note by id scoped to the owning user. A note that
// exists but belongs to someone else is indistinguishable from a missing one.
func fetchOwnedNote(db *gorm.DB, userID uint, id string) (model.Note, error) {
	var note model.Note
	err := db.Where("user_id = ?", userID).First(&note, id).Error
	return note, err
}

func respondNoteNotFound(c *gin.Context, userID uint, id string) {
	util.LogUnauthorizedAccess(fmt.Sprintf("%d", userID), "", c.ClientIP(), fmt.Sprintf("note/%s", id), "note not owned or missing")
	util.CallErrorNotFound(c, util.APIErrorParams{
		Msg: "Note not found",
		Err: fmt.Errorf("note not found"),
	})
}

// ListNotes godoc
// @Summary      List the current user's notes
// @Description  Get a paginated list of notes owned by the authenticated user
// @Tags         Note
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        limit query int false "Limit number of results" default(100)
// @Param        offset query int false "Offset for pagination" default(0)
// @Param        keyword query string false "Search keyword for note title or content"
// @Success      200 {object} util.APIResponse{data=object} "Notes retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /note [get]
func ListNotes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	keyword := c.Query("keyword")

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}

	// Open notes first, newest first within each group.
	query := db.Where("user_id = ?", userID).Order("is_done ASC").Order("created_at DESC")
	if keyword != "" {
		kw := "%" + keyword + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", kw, kw)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var notes []model.Note
	if err := query.Find(&notes).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve notes",
			Err: err,
		})
		return
	}

	var totalNotes int64
	db.Model(&model.Note{}).Where("user_id = ?", userID).Count(&totalNotes)

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Notes retrieved",
		Data: map[string]interface{}{"total": totalNotes, "total_fetched": len(notes), "notes": notes},
	})
}

// CreateNote godoc
// @Summary      Create a note
// @Description  Create a new note owned by the authenticated user
// @Tags         Note
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body noteRequest true "Note contents"
// @Success      200 {object} util.APIResponse{data=model.Note} "Note created"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /note [post]
func CreateNote(c *gin.Context) {
	var req noteRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body: title is required",
			Err: fmt.Errorf("title is required"),
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

	note := model.Note{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
	}
	if req.IsDone != nil {
		note.IsDone = *req.IsDone
	}

	if err := db.Create(&note).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to create note",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Note created",
		Data: note,
	})
}

// GetNoteInfo godoc
// @Summary      Get a note
// @Description  Get a single note owned by the authenticated user
// @Tags         Note
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Note ID"
// @Success      200 {object} util.APIResponse{data=model.Note} "Note retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Note not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /note/{id} [get]
func GetNoteInfo(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing note ID",
			Err: fmt.Errorf("note ID is required"),
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

	note, err := fetchOwnedNote(db, userID, id)
	if err != nil {
		respondNoteNotFound(c, userID, id)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Note retrieved",
		Data: note,
	})
}

// UpdateNote godoc
// @Summary      Update a note
// @Description  Update a note owned by the authenticated user
// @Tags         Note
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Note ID"
// @Param        request body noteRequest true "Fields to update"
// @Success      200 {object} util.APIResponse{data=model.Note} "Note updated"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Note not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /note/{id} [patch]
func UpdateNote(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing note ID",
			Err: fmt.Errorf("note ID is required"),
		})
		return
	}

	var req noteRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
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

	existing, err := fetchOwnedNote(db, userID, id)
	if err != nil {
		respondNoteNotFound(c, userID, id)
		return
	}

	updates := map[string]interface{}{}
	if title := strings.TrimSpace(req.Title); title != "" {
		updates["title"] = title
	}
	if req.Content != "" {
		updates["content"] = req.Content
	}
	if req.IsDone != nil {
		updates["is_done"] = *req.IsDone
	}

	if len(updates) > 0 {
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Failed to update note",
				Err: err,
			})
			return
		}
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Note updated",
		Data: existing,
	})
}

// DeleteNote godoc
// @Summary      Delete a note
// @Description  Delete a note owned by the authenticated user
// @Tags         Note
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Note ID"
// @Success      200 {object} util.APIResponse "Note deleted"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Note not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /note/{id} [delete]
func DeleteNote(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing note ID",
			Err: fmt.Errorf("note ID is required"),
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

	existing, err := fetchOwnedNote(db, userID, id)
	if err != nil {
		respondNoteNotFound(c, userID, id)
		return
	}

	if err := db.Delete(&existing).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to delete note",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Note deleted",
	})
}
