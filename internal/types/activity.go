package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity is one tracked unit of work on a project. Progress and PPC are
// derived: from progress entries when the activity has no schedule items, and
// from the schedule rollup when it does. SchedulePercentComplete is only
// meaningful while at least one schedule item exists.
type Activity struct {
	ID                      uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID               uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Project                 *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Name                    string         `gorm:"column:name;not null" json:"name"`
	Unit                    string         `gorm:"column:unit" json:"unit"`
	TotalQty                *float64       `gorm:"column:total_qty" json:"total_qty,omitempty"`
	StartDate               *time.Time     `gorm:"column:start_date;type:date" json:"start_date,omitempty"`
	EndDate                 *time.Time     `gorm:"column:end_date;type:date" json:"end_date,omitempty"`
	Progress                float64        `gorm:"column:progress;not null;default:0" json:"progress"`
	PPC                     float64        `gorm:"column:ppc;not null;default:0" json:"ppc"`
	SchedulePercentComplete *float64       `gorm:"column:schedule_percent_complete" json:"schedule_percent_complete,omitempty"`
	CreatedAt               time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt               time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Activity) TableName() string { return "activity" }
