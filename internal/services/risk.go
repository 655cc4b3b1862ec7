package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vallmere/sitetrack-backend/internal/logger"
	"github.com/vallmere/sitetrack-backend/internal/planvalue"
	"github.com/vallmere/sitetrack-backend/internal/repos"
	"github.com/vallmere/sitetrack-backend/internal/trend"
	"github.com/vallmere/sitetrack-backend/internal/types"
	"github.com/vallmere/sitetrack-backend/internal/utils"
)

// BatchResult summarizes one scoring pass. Failed activities are logged and
// skipped; they never abort the rest of the batch.
type BatchResult struct {
	PeriodKey string      `json:"period_key"`
	Scored    []uuid.UUID `json:"scored"`
	Skipped   int         `json:"skipped"`
	Failed    int         `json:"failed"`
}

type RiskService interface {
	DelayRisk(ppc float64, history []float64) float64
	RunBatch(ctx context.Context, periodKey string) (*BatchResult, error)
	StartWorker(ctx context.Context, interval time.Duration)
}

type riskService struct {
	log          *logger.Logger
	activityRepo repos.ActivityRepo
	entryRepo    repos.ProgressEntryRepo
	snapshotRepo repos.RiskSnapshotRepo
}

func NewRiskService(log *logger.Logger, activityRepo repos.ActivityRepo, entryRepo repos.ProgressEntryRepo, snapshotRepo repos.RiskSnapshotRepo) RiskService {
	serviceLog := log.With("service", "RiskService")
	return &riskService{
		log:          serviceLog,
		activityRepo: activityRepo,
		entryRepo:    entryRepo,
		snapshotRepo: snapshotRepo,
	}
}

// DelayRisk combines the shortfall against plan with the recent variance
// trend into a bounded percentage: max(0, 100-ppc) plus the decline bonus,
// capped at 100.
func (s *riskService) DelayRisk(ppc float64, history []float64) float64 {
	baseRisk := 100 - ppc
	if baseRisk < 0 {
		baseRisk = 0
	}
	total := baseRisk + trend.DeclineBonus(history)
	if total > 100 {
		total = 100
	}
	return math.Round(total)
}

// RunBatch scores every activity with at least one progress entry and upserts
// one snapshot per activity for the given period key. The period is an
// explicit parameter so callers (and tests) control it; only the periodic
// worker derives it from the clock.
func (s *riskService) RunBatch(ctx context.Context, periodKey string) (*BatchResult, error) {
	if periodKey == "" {
		return nil, fmt.Errorf("%w: period key is required", ErrInvalidInput)
	}

	activities, err := s.activityRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	result := &BatchResult{PeriodKey: periodKey}
	for _, activity := range activities {
		entries, err := s.entryRepo.GetByActivityID(ctx, nil, activity.ID)
		if err != nil {
			s.log.Error("Skipping activity, progress lookup failed",
				"activity_id", activity.ID, "error", err)
			result.Failed++
			continue
		}
		if len(entries) == 0 {
			result.Skipped++
			continue
		}

		// entries arrive ordered by entry_date, so the history is chronological
		history := make([]float64, 0, len(entries))
		for _, e := range entries {
			var actual, planned float64
			if e.ActualQty != nil {
				actual = *e.ActualQty
			}
			if e.PlannedQty != nil {
				planned = *e.PlannedQty
			}
			history = append(history, trend.VariancePoint(actual, planned))
		}

		ppc := planvalue.AveragePPC(toPlanEntries(entries))
		riskPct := s.DelayRisk(ppc, history)
		classification := planvalue.Classify(ppc)

		metadata, err := json.Marshal(map[string]interface{}{
			"ppc":         ppc,
			"entry_count": len(entries),
			"trend_bonus": trend.DeclineBonus(history),
		})
		if err != nil {
			metadata = nil
		}

		snapshot := &types.RiskSnapshot{
			ID:             uuid.New(),
			ActivityID:     activity.ID,
			PeriodKey:      periodKey,
			RiskPct:        riskPct,
			Classification: string(classification),
			Metadata:       datatypes.JSON(metadata),
		}
		if err := s.snapshotRepo.Upsert(ctx, nil, snapshot); err != nil {
			s.log.Error("Skipping activity, snapshot write failed",
				"activity_id", activity.ID, "period_key", periodKey, "error", err)
			result.Failed++
			continue
		}
		result.Scored = append(result.Scored, activity.ID)
	}

	s.log.Info("Risk batch finished",
		"period_key", periodKey,
		"scored", len(result.Scored),
		"skipped", result.Skipped,
		"failed", result.Failed)
	return result, nil
}

// StartWorker runs the batch on a fixed interval until the context ends.
func (s *riskService) StartWorker(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				periodKey := utils.ISOWeekLabel(now)
				if _, err := s.RunBatch(ctx, periodKey); err != nil {
					s.log.Error("Periodic risk batch failed", "period_key", periodKey, "error", err)
				}
			}
		}
	}()
}
