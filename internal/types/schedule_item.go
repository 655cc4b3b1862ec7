package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleItem is one node in an activity's dependency chain. Dates are
// date-granular. When PredecessorID is set the item's start date is driven by
// the predecessor's end date; the predecessor graph must stay acyclic.
// OrderIndex orders items for display only and has no scheduling meaning.
type ScheduleItem struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ActivityID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"activity_id"`
	Activity        *Activity      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ActivityID;references:ID" json:"activity,omitempty"`
	Name            string         `gorm:"column:name;not null" json:"name"`
	StartDate       *time.Time     `gorm:"column:start_date;type:date" json:"start_date,omitempty"`
	EndDate         *time.Time     `gorm:"column:end_date;type:date" json:"end_date,omitempty"`
	DurationDays    *int           `gorm:"column:duration_days" json:"duration_days,omitempty"`
	PercentComplete float64        `gorm:"column:percent_complete;not null;default:0" json:"percent_complete"`
	PredecessorID   *uuid.UUID     `gorm:"type:uuid;column:predecessor_id;index" json:"predecessor_id,omitempty"`
	OrderIndex      int            `gorm:"column:order_index;not null;default:0" json:"order_index"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ScheduleItem) TableName() string { return "schedule_item" }
