package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vallmere/sitetrack-backend/internal/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

func (h *ScheduleHandler) ListByActivity(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}
	items, err := h.scheduleService.ListItems(c.Request.Context(), activityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule_items": items})
}

type createScheduleItemRequest struct {
	ActivityID uuid.UUID `json:"activity_id"`
	Name       string    `json:"name"`
	OrderIndex int       `json:"order_index"`
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req createScheduleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.scheduleService.CreateItem(c.Request.Context(), services.CreateScheduleItemInput{
		ActivityID: req.ActivityID,
		Name:       req.Name,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"schedule_item": item})
}

type updateScheduleItemRequest struct {
	Name            *string  `json:"name"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	ClearDates      bool     `json:"clear_dates"`
	PercentComplete *float64 `json:"percent_complete"`
	OrderIndex      *int     `json:"order_index"`
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule item id"})
		return
	}
	var req updateScheduleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}

	item, err := h.scheduleService.UpdateItem(c.Request.Context(), itemID, services.UpdateScheduleItemInput{
		Name:            req.Name,
		StartDate:       start,
		EndDate:         end,
		ClearDates:      req.ClearDates,
		PercentComplete: req.PercentComplete,
		OrderIndex:      req.OrderIndex,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule_item": item})
}

type setPredecessorRequest struct {
	PredecessorID *uuid.UUID `json:"predecessor_id"`
}

func (h *ScheduleHandler) SetPredecessor(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule item id"})
		return
	}
	var req setPredecessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.scheduleService.SetPredecessor(c.Request.Context(), itemID, req.PredecessorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule_item": item})
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule item id"})
		return
	}
	if err := h.scheduleService.DeleteItem(c.Request.Context(), itemID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": itemID})
}

func (h *ScheduleHandler) Propagate(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}
	result, err := h.scheduleService.Propagate(c.Request.Context(), activityID)
	if err != nil {
		respondError(c, err)
		return
	}
	failures := make([]gin.H, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, gin.H{"item_id": f.ItemID, "error": f.Err.Error()})
	}
	c.JSON(http.StatusOK, gin.H{"updated": result.Updated, "failures": failures})
}
