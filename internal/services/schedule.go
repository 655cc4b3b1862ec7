package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vallmere/sitetrack-backend/internal/logger"
	"github.com/vallmere/sitetrack-backend/internal/repos"
	"github.com/vallmere/sitetrack-backend/internal/types"
)

type CreateScheduleItemInput struct {
	ActivityID uuid.UUID
	Name       string
	OrderIndex int
}

// UpdateScheduleItemInput carries the fields a user can edit directly. Nil
// means "leave unchanged"; ClearDates wipes both dates and the duration.
// Predecessor changes go through SetPredecessor so the cycle guard always
// runs.
type UpdateScheduleItemInput struct {
	Name            *string
	StartDate       *time.Time
	EndDate         *time.Time
	ClearDates      bool
	PercentComplete *float64
	OrderIndex      *int
}

type PropagationFailure struct {
	ItemID uuid.UUID
	Err    error
}

// PropagationResult reports which items were rescheduled and which writes
// failed. Failed writes are not rolled back; re-running the pass repairs any
// intermediate state.
type PropagationResult struct {
	Updated  []uuid.UUID
	Failures []PropagationFailure
}

type ScheduleService interface {
	ListItems(ctx context.Context, activityID uuid.UUID) ([]*types.ScheduleItem, error)
	CreateItem(ctx context.Context, input CreateScheduleItemInput) (*types.ScheduleItem, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateScheduleItemInput) (*types.ScheduleItem, error)
	SetPredecessor(ctx context.Context, itemID uuid.UUID, predecessorID *uuid.UUID) (*types.ScheduleItem, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	Propagate(ctx context.Context, activityID uuid.UUID) (*PropagationResult, error)
}

type scheduleService struct {
	log          *logger.Logger
	itemRepo     repos.ScheduleItemRepo
	activityRepo repos.ActivityRepo
	rollup       RollupService
	locks        *activityLocks
}

func NewScheduleService(log *logger.Logger, itemRepo repos.ScheduleItemRepo, activityRepo repos.ActivityRepo, rollup RollupService) ScheduleService {
	serviceLog := log.With("service", "ScheduleService")
	return &scheduleService{
		log:          serviceLog,
		itemRepo:     itemRepo,
		activityRepo: activityRepo,
		rollup:       rollup,
		locks:        newActivityLocks(),
	}
}

func (s *scheduleService) ListItems(ctx context.Context, activityID uuid.UUID) ([]*types.ScheduleItem, error) {
	return s.itemRepo.GetByActivityID(ctx, nil, activityID)
}

func (s *scheduleService) CreateItem(ctx context.Context, input CreateScheduleItemInput) (*types.ScheduleItem, error) {
	if input.ActivityID == uuid.Nil {
		return nil, fmt.Errorf("%w: activity id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	found, err := s.activityRepo.GetByIDs(ctx, nil, []uuid.UUID{input.ActivityID})
	if err != nil {
		return nil, fmt.Errorf("fetching activity: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: activity %s", ErrNotFound, input.ActivityID)
	}

	unlock := s.locks.acquire(input.ActivityID)
	defer unlock()

	// New items start unscheduled: no dates, no predecessor, 0% complete.
	row := &types.ScheduleItem{
		ID:         uuid.New(),
		ActivityID: input.ActivityID,
		Name:       input.Name,
		OrderIndex: input.OrderIndex,
	}
	if _, err := s.itemRepo.Create(ctx, nil, []*types.ScheduleItem{row}); err != nil {
		return nil, fmt.Errorf("creating schedule item: %w", err)
	}

	// A new child shifts the unweighted mean.
	if _, err := s.rollup.Recalculate(ctx, input.ActivityID); err != nil {
		s.log.Error("Rollup after item create failed", "activity_id", input.ActivityID, "error", err)
	}
	return row, nil
}

func (s *scheduleService) UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateScheduleItemInput) (*types.ScheduleItem, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if input.PercentComplete != nil && (*input.PercentComplete < 0 || *input.PercentComplete > 100) {
		return nil, fmt.Errorf("%w: percent_complete must be within [0,100]", ErrInvalidInput)
	}

	unlock := s.locks.acquire(item.ActivityID)
	defer unlock()

	fields := map[string]interface{}{}
	datesChanged := false
	percentChanged := false

	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.OrderIndex != nil {
		fields["order_index"] = *input.OrderIndex
	}
	if input.ClearDates {
		item.StartDate = nil
		item.EndDate = nil
		item.DurationDays = nil
		fields["start_date"] = nil
		fields["end_date"] = nil
		fields["duration_days"] = nil
		datesChanged = true
	} else {
		if input.StartDate != nil {
			d := dateOnly(*input.StartDate)
			item.StartDate = &d
			fields["start_date"] = &d
			datesChanged = true
		}
		if input.EndDate != nil {
			d := dateOnly(*input.EndDate)
			item.EndDate = &d
			fields["end_date"] = &d
			datesChanged = true
		}
		if datesChanged && item.StartDate != nil && item.EndDate != nil {
			if item.EndDate.Before(*item.StartDate) {
				return nil, fmt.Errorf("%w: end_date before start_date", ErrInvalidInput)
			}
			dur := daysInclusive(*item.StartDate, *item.EndDate)
			item.DurationDays = &dur
			fields["duration_days"] = &dur
		}
	}
	if input.PercentComplete != nil && *input.PercentComplete != item.PercentComplete {
		item.PercentComplete = *input.PercentComplete
		fields["percent_complete"] = *input.PercentComplete
		percentChanged = true
	}

	if len(fields) == 0 {
		return item, nil
	}
	if err := s.itemRepo.UpdateFields(ctx, nil, itemID, fields); err != nil {
		return nil, fmt.Errorf("updating schedule item: %w", err)
	}

	if datesChanged {
		if _, err := s.propagateLocked(ctx, item.ActivityID); err != nil {
			s.log.Error("Propagation after item update failed", "activity_id", item.ActivityID, "error", err)
		}
	}
	if percentChanged {
		if _, err := s.rollup.Recalculate(ctx, item.ActivityID); err != nil {
			s.log.Error("Rollup after item update failed", "activity_id", item.ActivityID, "error", err)
		}
	}
	return item, nil
}

func (s *scheduleService) SetPredecessor(ctx context.Context, itemID uuid.UUID, predecessorID *uuid.UUID) (*types.ScheduleItem, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(item.ActivityID)
	defer unlock()

	if predecessorID != nil {
		items, err := s.itemRepo.GetByActivityID(ctx, nil, item.ActivityID)
		if err != nil {
			return nil, fmt.Errorf("fetching schedule items: %w", err)
		}
		byID := make(map[uuid.UUID]*types.ScheduleItem, len(items))
		for _, it := range items {
			byID[it.ID] = it
		}
		if _, ok := byID[*predecessorID]; !ok {
			return nil, fmt.Errorf("%w: predecessor %s", ErrNotFound, *predecessorID)
		}
		if err := validatePredecessor(byID, itemID, *predecessorID); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.UpdateFields(ctx, nil, itemID, map[string]interface{}{"predecessor_id": predecessorID}); err != nil {
		return nil, fmt.Errorf("updating predecessor: %w", err)
	}
	item.PredecessorID = predecessorID

	if _, err := s.propagateLocked(ctx, item.ActivityID); err != nil {
		s.log.Error("Propagation after predecessor change failed", "activity_id", item.ActivityID, "error", err)
	}
	return item, nil
}

func (s *scheduleService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return err
	}

	unlock := s.locks.acquire(item.ActivityID)
	defer unlock()

	count, err := s.itemRepo.CountByPredecessorID(ctx, nil, itemID)
	if err != nil {
		return fmt.Errorf("checking predecessor references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d dependent item(s)", ErrPredecessorInUse, count)
	}

	if err := s.itemRepo.DeleteByIDs(ctx, nil, []uuid.UUID{itemID}); err != nil {
		return fmt.Errorf("deleting schedule item: %w", err)
	}

	if _, err := s.rollup.Recalculate(ctx, item.ActivityID); err != nil {
		s.log.Error("Rollup after item delete failed", "activity_id", item.ActivityID, "error", err)
	}
	return nil
}

func (s *scheduleService) Propagate(ctx context.Context, activityID uuid.UUID) (*PropagationResult, error) {
	unlock := s.locks.acquire(activityID)
	defer unlock()
	return s.propagateLocked(ctx, activityID)
}

// propagateLocked walks the predecessor graph in topological order and
// derives each dependent item's dates from its predecessor's end date in a
// single pass: an item rescheduled early in the pass feeds the recomputed end
// date to its own dependents before they are visited. Re-running with no
// upstream change writes nothing.
func (s *scheduleService) propagateLocked(ctx context.Context, activityID uuid.UUID) (*PropagationResult, error) {
	items, err := s.itemRepo.GetByActivityID(ctx, nil, activityID)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule items: %w", err)
	}

	byID := make(map[uuid.UUID]*types.ScheduleItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	dependents := make(map[uuid.UUID][]*types.ScheduleItem)
	indegree := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		indegree[it.ID] = 0
	}
	for _, it := range items {
		if it.PredecessorID == nil {
			continue
		}
		pred, ok := byID[*it.PredecessorID]
		if !ok {
			// Dangling reference: the item keeps its current dates this pass.
			s.log.Warn("Dangling predecessor reference, skipping item",
				"item_id", it.ID, "predecessor_id", *it.PredecessorID)
			continue
		}
		dependents[pred.ID] = append(dependents[pred.ID], it)
		indegree[it.ID]++
	}

	var queue []*types.ScheduleItem
	for _, it := range items {
		if indegree[it.ID] == 0 {
			queue = append(queue, it)
		}
	}

	var changed []*types.ScheduleItem
	visited := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		visited++

		if cur.PredecessorID != nil {
			if pred, ok := byID[*cur.PredecessorID]; ok && pred.EndDate != nil {
				newStart := dateOnly(*pred.EndDate).AddDate(0, 0, 1)
				if cur.StartDate == nil || !newStart.Equal(dateOnly(*cur.StartDate)) {
					dur := itemDuration(cur)
					newEnd := newStart.AddDate(0, 0, dur-1)
					cur.StartDate = &newStart
					cur.EndDate = &newEnd
					cur.DurationDays = &dur
					changed = append(changed, cur)
				}
			}
		}

		for _, dep := range dependents[cur.ID] {
			indegree[dep.ID]--
			if indegree[dep.ID] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	if visited < len(items) {
		// Should be unreachable while the assignment-time guard holds.
		s.log.Warn("Predecessor cycle detected, cyclic items left unscheduled",
			"activity_id", activityID, "skipped", len(items)-visited)
	}

	result := &PropagationResult{}
	for _, it := range changed {
		fields := map[string]interface{}{
			"start_date":    it.StartDate,
			"end_date":      it.EndDate,
			"duration_days": it.DurationDays,
		}
		if err := s.itemRepo.UpdateFields(ctx, nil, it.ID, fields); err != nil {
			s.log.Error("Failed to persist rescheduled item", "item_id", it.ID, "error", err)
			result.Failures = append(result.Failures, PropagationFailure{ItemID: it.ID, Err: err})
			continue
		}
		result.Updated = append(result.Updated, it.ID)
	}
	return result, nil
}

func (s *scheduleService) getItem(ctx context.Context, itemID uuid.UUID) (*types.ScheduleItem, error) {
	found, err := s.itemRepo.GetByIDs(ctx, nil, []uuid.UUID{itemID})
	if err != nil {
		return nil, fmt.Errorf("fetching schedule item: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("%w: schedule item %s", ErrNotFound, itemID)
	}
	return found[0], nil
}

// validatePredecessor rejects a candidate assignment that would close a loop.
// Self-reference fails immediately; otherwise the predecessor chain is walked
// upward and must terminate without revisiting a node or reaching the item.
func validatePredecessor(byID map[uuid.UUID]*types.ScheduleItem, itemID, predecessorID uuid.UUID) error {
	if predecessorID == itemID {
		return ErrSelfPredecessor
	}
	seen := make(map[uuid.UUID]bool)
	cur := predecessorID
	for {
		if cur == itemID || seen[cur] {
			return ErrCyclicDependency
		}
		seen[cur] = true
		node, ok := byID[cur]
		if !ok || node.PredecessorID == nil {
			return nil
		}
		cur = *node.PredecessorID
	}
}

// itemDuration resolves the duration to preserve across a reschedule: the
// stored duration_days when valid, else the span of the item's current dates
// (minimum 1), else a default of 1 day.
func itemDuration(item *types.ScheduleItem) int {
	if item.DurationDays != nil && *item.DurationDays >= 1 {
		return *item.DurationDays
	}
	if item.StartDate != nil && item.EndDate != nil {
		if d := daysInclusive(*item.StartDate, *item.EndDate); d >= 1 {
			return d
		}
	}
	return 1
}

// daysInclusive counts calendar days from start to end, both ends included.
func daysInclusive(start, end time.Time) int {
	start = dateOnly(start)
	end = dateOnly(end)
	d := int(end.Sub(start).Hours()/24) + 1
	if d < 1 {
		return 1
	}
	return d
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
