package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zaffarpulse/pulse-hospital-app/models"
	"github.com/Zaffarpulse/pulse-hospital-app/services"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// SubmitElectrical accepts a daily electrical panel checklist.
func (h *ReportHandler) SubmitElectrical(c *gin.Context) {
	h.submit(c, models.SystemElectrical)
}

// SubmitAC accepts a daily air-conditioning checklist.
func (h *ReportHandler) SubmitAC(c *gin.Context) {
	h.submit(c, models.SystemAC)
}

func (h *ReportHandler) submit(c *gin.Context, systemType string) {
	userIDStr := c.Query("userId")
	if userIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User ID is required"})
		return
	}
	userID, err := strconv.Atoi(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User ID is required"})
		return
	}

	// The body is bound twice: once into the typed header struct for
	// validation, once into the flat field map that gets stored.
	bodyBytes, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var sub models.ChecklistSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}

	var fields models.ChecklistData
	if err := json.Unmarshal(bodyBytes, &fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}
	sub.Fields = fields

	report, err := h.reports.Submit(systemType, sub, userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetReports lists reports. A userId query limits the listing to that
// submitter's reports and overrides the other filters.
func (h *ReportHandler) GetReports(c *gin.Context) {
	if userIDStr := c.Query("userId"); userIDStr != "" {
		userID, err := strconv.Atoi(userIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
			return
		}

		reports, err := h.reports.ListBySubmitter(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch reports"})
			return
		}
		c.JSON(http.StatusOK, reports)
		return
	}

	reports, err := h.reports.List(models.ReportFilters{
		SystemType: c.Query("systemType"),
		Status:     c.Query("status"),
		Date:       c.Query("date"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, reports)
}

// GetReportByID returns a single report.
func (h *ReportHandler) GetReportByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Report not found"})
		return
	}

	report, err := h.reports.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// UpdateReport applies a partial patch; review and approval transitions are
// role-gated in the service.
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Report not found"})
		return
	}

	var updates models.ReportUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}

	report, err := h.reports.Update(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Report not found"})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.Is(err, services.ErrInsufficientRole):
			c.JSON(http.StatusForbidden, gin.H{"message": "Insufficient role for this action"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status transition"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}
