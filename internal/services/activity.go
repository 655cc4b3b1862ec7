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

type CreateActivityInput struct {
	ProjectID uuid.UUID
	Name      string
	Unit      string
	TotalQty  *float64
	StartDate *time.Time
	EndDate   *time.Time
}

type UpdateActivityInput struct {
	Name      *string
	Unit      *string
	TotalQty  *float64
	StartDate *time.Time
	EndDate   *time.Time
}

type ActivityService interface {
	Create(ctx context.Context, input CreateActivityInput) (*types.Activity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Activity, error)
	GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]*types.Activity, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateActivityInput) (*types.Activity, error)
	DailyGoal(ctx context.Context, id uuid.UUID, asOf time.Time) (float64, error)
}

type activityService struct {
	log          *logger.Logger
	activityRepo repos.ActivityRepo
	projectRepo  repos.ProjectRepo
}

func NewActivityService(log *logger.Logger, activityRepo repos.ActivityRepo, projectRepo repos.ProjectRepo) ActivityService {
	serviceLog := log.With("service", "ActivityService")
	return &activityService{log: serviceLog, activityRepo: activityRepo, projectRepo: projectRepo}
}

func (s *activityService) Create(ctx context.Context, input CreateActivityInput) (*types.Activity, error) {
	if input.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.TotalQty != nil && *input.TotalQty < 0 {
		return nil, fmt.Errorf("%w: total_qty must not be negative", ErrInvalidInput)
	}

	found, err := s.projectRepo.GetByIDs(ctx, nil, []uuid.UUID{input.ProjectID})
	if err != nil {
		return nil, fmt.Errorf("fetching project: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, input.ProjectID)
	}

	row := &types.Activity{
		ID:        uuid.New(),
		ProjectID: input.ProjectID,
		Name:      input.Name,
		Unit:      input.Unit,
		TotalQty:  input.TotalQty,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	if _, err := s.activityRepo.Create(ctx, nil, []*types.Activity{row}); err != nil {
		return nil, fmt.Errorf("creating activity: %w", err)
	}
	return row, nil
}

func (s *activityService) GetByID(ctx context.Context, id uuid.UUID) (*types.Activity, error) {
	found, err := s.activityRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("fetching activity: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("%w: activity %s", ErrNotFound, id)
	}
	return found[0], nil
}

func (s *activityService) GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]*types.Activity, error) {
	return s.activityRepo.GetByProjectID(ctx, nil, projectID)
}

func (s *activityService) Update(ctx context.Context, id uuid.UUID, input UpdateActivityInput) (*types.Activity, error) {
	activity, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.TotalQty != nil && *input.TotalQty < 0 {
		return nil, fmt.Errorf("%w: total_qty must not be negative", ErrInvalidInput)
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
		activity.Name = *input.Name
	}
	if input.Unit != nil {
		fields["unit"] = *input.Unit
		activity.Unit = *input.Unit
	}
	if input.TotalQty != nil {
		fields["total_qty"] = *input.TotalQty
		activity.TotalQty = input.TotalQty
	}
	if input.StartDate != nil {
		d := dateOnly(*input.StartDate)
		fields["start_date"] = &d
		activity.StartDate = &d
	}
	if input.EndDate != nil {
		d := dateOnly(*input.EndDate)
		fields["end_date"] = &d
		activity.EndDate = &d
	}
	if len(fields) == 0 {
		return activity, nil
	}

	if err := s.activityRepo.UpdateFields(ctx, nil, id, fields); err != nil {
		return nil, fmt.Errorf("updating activity: %w", err)
	}
	return activity, nil
}

// DailyGoal spreads the remaining quantity over the business days left until
// the activity's end date. Business-day counting is deliberately different
// from the calendar-day arithmetic the dependency scheduler uses.
func (s *activityService) DailyGoal(ctx context.Context, id uuid.UUID, asOf time.Time) (float64, error) {
	activity, err := s.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if activity.TotalQty == nil || activity.EndDate == nil {
		return 0, nil
	}
	remaining := *activity.TotalQty * (1 - activity.Progress/100)
	return planvalue.DailyGoal(remaining, asOf, *activity.EndDate), nil
}
