package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vallmere/sitetrack-backend/internal/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) ListByActivity(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}
	entries, err := h.progressService.ListEntries(c.Request.Context(), activityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress_entries": entries})
}

type upsertProgressEntryRequest struct {
	ActivityID uuid.UUID `json:"activity_id"`
	EntryDate  string    `json:"entry_date"`
	ActualQty  *float64  `json:"actual_qty"`
	PlannedQty *float64  `json:"planned_qty"`
}

func (h *ProgressHandler) Upsert(c *gin.Context) {
	var req upsertProgressEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := parseDate(req.EntryDate)
	if err != nil || date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entry_date must be YYYY-MM-DD"})
		return
	}
	entry, err := h.progressService.UpsertEntry(c.Request.Context(), req.ActivityID, *date, req.ActualQty, req.PlannedQty)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress_entry": entry})
}

func (h *ProgressHandler) Delete(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid progress entry id"})
		return
	}
	if err := h.progressService.DeleteEntry(c.Request.Context(), entryID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": entryID})
}
