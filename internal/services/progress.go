package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vallmere/sitetrack-backend/internal/logger"
	"github.com/vallmere/sitetrack-backend/internal/planvalue"
	"github.com/vallmere/sitetrack-backend/internal/repos"
	"github.com/vallmere/sitetrack-backend/internal/types"
)

type ProgressService interface {
	ListEntries(ctx context.Context, activityID uuid.UUID) ([]*types.ProgressEntry, error)
	UpsertEntry(ctx context.Context, activityID uuid.UUID, entryDate time.Time, actualQty, plannedQty *float64) (*types.ProgressEntry, error)
	DeleteEntry(ctx context.Context, entryID uuid.UUID) error
}

type progressService struct {
	log          *logger.Logger
	entryRepo    repos.ProgressEntryRepo
	itemRepo     repos.ScheduleItemRepo
	activityRepo repos.ActivityRepo
}

func NewProgressService(log *logger.Logger, entryRepo repos.ProgressEntryRepo, itemRepo repos.ScheduleItemRepo, activityRepo repos.ActivityRepo) ProgressService {
	serviceLog := log.With("service", "ProgressService")
	return &progressService{
		log:          serviceLog,
		entryRepo:    entryRepo,
		itemRepo:     itemRepo,
		activityRepo: activityRepo,
	}
}

func (s *progressService) ListEntries(ctx context.Context, activityID uuid.UUID) ([]*types.ProgressEntry, error) {
	return s.entryRepo.GetByActivityID(ctx, nil, activityID)
}

// UpsertEntry records one observation per activity per date; a second
// submission for the same date overwrites the stored quantities.
func (s *progressService) UpsertEntry(ctx context.Context, activityID uuid.UUID, entryDate time.Time, actualQty, plannedQty *float64) (*types.ProgressEntry, error) {
	if activityID == uuid.Nil {
		return nil, fmt.Errorf("%w: activity id is required", ErrInvalidInput)
	}
	if entryDate.IsZero() {
		return nil, fmt.Errorf("%w: entry date is required", ErrInvalidInput)
	}
	if actualQty != nil && *actualQty < 0 {
		return nil, fmt.Errorf("%w: actual_qty must not be negative", ErrInvalidInput)
	}
	if plannedQty != nil && *plannedQty < 0 {
		return nil, fmt.Errorf("%w: planned_qty must not be negative", ErrInvalidInput)
	}

	row := &types.ProgressEntry{
		ID:         uuid.New(),
		ActivityID: activityID,
		EntryDate:  dateOnly(entryDate),
		ActualQty:  actualQty,
		PlannedQty: plannedQty,
	}
	if err := s.entryRepo.Upsert(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("upserting progress entry: %w", err)
	}

	if err := s.refreshActivityFigures(ctx, activityID); err != nil {
		s.log.Error("Refreshing activity figures failed", "activity_id", activityID, "error", err)
	}
	return row, nil
}

func (s *progressService) DeleteEntry(ctx context.Context, entryID uuid.UUID) error {
	found, err := s.entryRepo.GetByIDs(ctx, nil, []uuid.UUID{entryID})
	if err != nil {
		return fmt.Errorf("fetching progress entry: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return fmt.Errorf("%w: progress entry %s", ErrNotFound, entryID)
	}
	activityID := found[0].ActivityID

	if err := s.entryRepo.DeleteByIDs(ctx, nil, []uuid.UUID{entryID}); err != nil {
		return fmt.Errorf("deleting progress entry: %w", err)
	}

	if err := s.refreshActivityFigures(ctx, activityID); err != nil {
		s.log.Error("Refreshing activity figures failed", "activity_id", activityID, "error", err)
	}
	return nil
}

// refreshActivityFigures recomputes progress and ppc from the entry history.
// When the activity has schedule items the rollup owns both figures and the
// entry-based calculation stays out of the way.
func (s *progressService) refreshActivityFigures(ctx context.Context, activityID uuid.UUID) error {
	items, err := s.itemRepo.GetByActivityID(ctx, nil, activityID)
	if err != nil {
		return fmt.Errorf("fetching schedule items: %w", err)
	}
	if len(items) > 0 {
		return nil
	}

	entries, err := s.entryRepo.GetByActivityID(ctx, nil, activityID)
	if err != nil {
		return fmt.Errorf("fetching progress entries: %w", err)
	}

	found, err := s.activityRepo.GetByIDs(ctx, nil, []uuid.UUID{activityID})
	if err != nil {
		return fmt.Errorf("fetching activity: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return fmt.Errorf("%w: activity %s", ErrNotFound, activityID)
	}
	activity := found[0]

	ppc := planvalue.AveragePPC(toPlanEntries(entries))

	var totalActual float64
	for _, e := range entries {
		if e.ActualQty != nil {
			totalActual += *e.ActualQty
		}
	}
	progress := 0.0
	if activity.TotalQty != nil {
		progress = planvalue.PPC(totalActual, *activity.TotalQty)
	}

	fields := map[string]interface{}{
		"progress": progress,
		"ppc":      ppc,
	}
	if err := s.activityRepo.UpdateFields(ctx, nil, activityID, fields); err != nil {
		return fmt.Errorf("writing activity figures: %w", err)
	}
	return nil
}

func toPlanEntries(entries []*types.ProgressEntry) []planvalue.Entry {
	out := make([]planvalue.Entry, 0, len(entries))
	for _, e := range entries {
		d := e.EntryDate
		out = append(out, planvalue.Entry{
			Date:    &d,
			Actual:  e.ActualQty,
			Planned: e.PlannedQty,
		})
	}
	return out
}
