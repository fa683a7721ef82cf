package handlers

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"cadetboard/internal/services"
)

type RecordsHandler struct {
	records *services.RecordService
}

func NewRecordsHandler(records *services.RecordService) *RecordsHandler {
	return &RecordsHandler{records: records}
}

type SubmitRequest struct {
	LoggedUserNickname string      `json:"logged_user_nickname"`
	InstructorNickname string      `json:"instructor_nickname"`
	Purpose            string      `json:"purpose"`
	Rating             interface{} `json:"rating"`
	Text               string      `json:"text"`
}

type ReviewRequest struct {
	Timestamp string `json:"timestamp" binding:"required"`
	Reviewer  string `json:"reviewer" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

// Submit accepts a dialogue entry as JSON, or — like the legacy client — a
// raw text body which becomes an evidence-only submission.
func (h *RecordsHandler) Submit(c *gin.Context) {
	var in services.SubmitInput

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req SubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
		in = services.SubmitInput{
			Submitter: req.LoggedUserNickname,
			Subject:   req.InstructorNickname,
			Category:  req.Purpose,
			Score:     ratingString(req.Rating),
			Evidence:  req.Text,
		}
	} else {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}
		in = services.SubmitInput{Evidence: string(body)}
	}

	timestamp, err := h.records.Submit(c.Request.Context(), in)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to append dialogue"})
		return
	}

	c.JSON(200, gin.H{"message": "Dialogue added successfully", "timestamp": timestamp})
}

// Review updates the reviewer and status of an existing record.
func (h *RecordsHandler) Review(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid data. 'timestamp', 'reviewer', and 'status' are required."})
		return
	}

	err := h.records.Review(c.Request.Context(), req.Timestamp, req.Reviewer, req.Status)
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(400, gin.H{"error": "Unknown status value"})
	case errors.Is(err, services.ErrRecordNotFound):
		c.JSON(404, gin.H{"error": "Record not found for the given timestamp"})
	case err != nil:
		c.JSON(500, gin.H{"error": "Failed to update record"})
	default:
		c.JSON(200, gin.H{"message": "Status updated successfully"})
	}
}

// List returns records filtered by status (pending, approved or declined).
func (h *RecordsHandler) List(c *gin.Context) {
	records, err := h.records.ListByStatus(c.Request.Context(), c.Param("status"))
	if errors.Is(err, services.ErrInvalidStatus) {
		c.JSON(400, gin.H{"error": "Unknown status value"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to fetch records"})
		return
	}

	c.JSON(200, records)
}

func ratingString(rating interface{}) string {
	switch v := rating.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// json numbers arrive as float64; scores are whole numbers
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}
