package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vallmere/sitetrack-backend/internal/logger"
	"github.com/vallmere/sitetrack-backend/internal/types"
)

type ScheduleItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ScheduleItem) ([]*types.ScheduleItem, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ScheduleItem, error)
	GetByActivityID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.ScheduleItem, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	CountByPredecessorID(ctx context.Context, tx *gorm.DB, predecessorID uuid.UUID) (int64, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type scheduleItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduleItemRepo(db *gorm.DB, baseLog *logger.Logger) ScheduleItemRepo {
	repoLog := baseLog.With("repo", "ScheduleItemRepo")
	return &scheduleItemRepo{db: db, log: repoLog}
}

func (r *scheduleItemRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ScheduleItem) ([]*types.ScheduleItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.ScheduleItem{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *scheduleItemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ScheduleItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScheduleItem
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scheduleItemRepo) GetByActivityID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.ScheduleItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScheduleItem
	if activityID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("order_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scheduleItemRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ScheduleItem{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return err
	}
	return nil
}

func (r *scheduleItemRepo) CountByPredecessorID(ctx context.Context, tx *gorm.DB, predecessorID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if predecessorID == uuid.Nil {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ScheduleItem{}).
		Where("predecessor_id = ?", predecessorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *scheduleItemRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.ScheduleItem{}).Error; err != nil {
		return err
	}
	return nil
}
