package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/vallmere/sitetrack-backend/internal/logger"
	"github.com/vallmere/sitetrack-backend/internal/repos"
)

// RollupService folds schedule-item completion up into the parent activity.
// The rollup is the unweighted mean of the children's percent_complete,
// rounded to the nearest integer, written to both schedule_percent_complete
// and ppc: sub-items carry no separate planned baseline, so in rollup mode
// the two figures are the same number by definition.
type RollupService interface {
	Recalculate(ctx context.Context, activityID uuid.UUID) (*float64, error)
}

type rollupService struct {
	log          *logger.Logger
	itemRepo     repos.ScheduleItemRepo
	activityRepo repos.ActivityRepo
}

func NewRollupService(log *logger.Logger, itemRepo repos.ScheduleItemRepo, activityRepo repos.ActivityRepo) RollupService {
	serviceLog := log.With("service", "RollupService")
	return &rollupService{log: serviceLog, itemRepo: itemRepo, activityRepo: activityRepo}
}

// Recalculate returns the written rollup value, or nil when the activity has
// no schedule items; in that case nothing is written and progress/ppc remain
// owned by the progress-entry calculation.
func (s *rollupService) Recalculate(ctx context.Context, activityID uuid.UUID) (*float64, error) {
	items, err := s.itemRepo.GetByActivityID(ctx, nil, activityID)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule items: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var sum float64
	for _, it := range items {
		sum += it.PercentComplete
	}
	rollup := math.Round(sum / float64(len(items)))

	fields := map[string]interface{}{
		"schedule_percent_complete": rollup,
		"ppc":                       rollup,
	}
	if err := s.activityRepo.UpdateFields(ctx, nil, activityID, fields); err != nil {
		return nil, fmt.Errorf("writing rollup: %w", err)
	}
	return &rollup, nil
}
