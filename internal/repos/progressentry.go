package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vallmere/sitetrack-backend/internal/logger"
	"github.com/vallmere/sitetrack-backend/internal/types"
)

type ProgressEntryRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ProgressEntry, error)
	GetByActivityID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.ProgressEntry, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ProgressEntry) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type progressEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressEntryRepo(db *gorm.DB, baseLog *logger.Logger) ProgressEntryRepo {
	repoLog := baseLog.With("repo", "ProgressEntryRepo")
	return &progressEntryRepo{db: db, log: repoLog}
}

func (r *progressEntryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ProgressEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProgressEntry
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

func (r *progressEntryRepo) GetByActivityID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.ProgressEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProgressEntry
	if activityID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("entry_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressEntryRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ProgressEntry) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	// Upsert by unique activity_id + entry_date
	if err := transaction.WithContext(ctx).
		Where("activity_id = ? AND entry_date = ?", row.ActivityID, row.EntryDate).
		Assign(map[string]interface{}{
			"actual_qty":  row.ActualQty,
			"planned_qty": row.PlannedQty,
		}).
		FirstOrCreate(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *progressEntryRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.ProgressEntry{}).Error; err != nil {
		return err
	}
	return nil
}
