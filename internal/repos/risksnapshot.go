package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vallmere/sitetrack-backend/internal/logger"
	"github.com/vallmere/sitetrack-backend/internal/types"
)

type RiskSnapshotRepo interface {
	GetByActivityID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.RiskSnapshot, error)
	GetByActivityAndPeriod(ctx context.Context, tx *gorm.DB, activityID uuid.UUID, periodKey string) (*types.RiskSnapshot, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.RiskSnapshot) error
}

type riskSnapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRiskSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) RiskSnapshotRepo {
	repoLog := baseLog.With("repo", "RiskSnapshotRepo")
	return &riskSnapshotRepo{db: db, log: repoLog}
}

func (r *riskSnapshotRepo) GetByActivityID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.RiskSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.RiskSnapshot
	if activityID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("period_key ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *riskSnapshotRepo) GetByActivityAndPeriod(ctx context.Context, tx *gorm.DB, activityID uuid.UUID, periodKey string) (*types.RiskSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if activityID == uuid.Nil || periodKey == "" {
		return nil, nil
	}

	var result types.RiskSnapshot
	err := transaction.WithContext(ctx).
		Where("activity_id = ? AND period_key = ?", activityID, periodKey).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *riskSnapshotRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.RiskSnapshot) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	// Upsert by unique activity_id + period_key
	if err := transaction.WithContext(ctx).
		Where("activity_id = ? AND period_key = ?", row.ActivityID, row.PeriodKey).
		Assign(map[string]interface{}{
			"risk_pct":       row.RiskPct,
			"classification": row.Classification,
			"metadata":       row.Metadata,
		}).
		FirstOrCreate(row).Error; err != nil {
		return err
	}
	return nil
}
