package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressEntry is one dated plan-vs-actual observation against an activity.
// At most one entry exists per activity per date; submissions for an existing
// date update the stored quantities in place.
type ProgressEntry struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ActivityID uuid.UUID      `gorm:"type:uuid;not null;index:idx_activity_entry_date,unique" json:"activity_id"`
	Activity   *Activity      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ActivityID;references:ID" json:"activity,omitempty"`
	EntryDate  time.Time      `gorm:"column:entry_date;type:date;not null;index:idx_activity_entry_date,unique" json:"entry_date"`
	ActualQty  *float64       `gorm:"column:actual_qty" json:"actual_qty,omitempty"`
	PlannedQty *float64       `gorm:"column:planned_qty" json:"planned_qty,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProgressEntry) TableName() string { return "progress_entry" }
