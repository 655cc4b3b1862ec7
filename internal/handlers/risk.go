package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vallmere/sitetrack-backend/internal/repos"
	"github.com/vallmere/sitetrack-backend/internal/services"
	"github.com/vallmere/sitetrack-backend/internal/utils"
)

type RiskHandler struct {
	riskService  services.RiskService
	snapshotRepo repos.RiskSnapshotRepo
}

func NewRiskHandler(riskService services.RiskService, snapshotRepo repos.RiskSnapshotRepo) *RiskHandler {
	return &RiskHandler{riskService: riskService, snapshotRepo: snapshotRepo}
}

func (h *RiskHandler) ListByActivity(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}
	snapshots, err := h.snapshotRepo.GetByActivityID(c.Request.Context(), nil, activityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"risk_snapshots": snapshots})
}

type runBatchRequest struct {
	PeriodKey string `json:"period_key"`
}

func (h *RiskHandler) RunBatch(c *gin.Context) {
	var req runBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	periodKey := req.PeriodKey
	if periodKey == "" {
		periodKey = utils.ISOWeekLabel(time.Now())
	}
	result, err := h.riskService.RunBatch(c.Request.Context(), periodKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}
