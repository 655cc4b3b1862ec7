package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RiskSnapshot captures one activity's delay-risk score for one period.
// Exactly one row exists per activity per period key; repeated scoring passes
// update the row in place. The engine never deletes snapshots.
type RiskSnapshot struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ActivityID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_activity_period,unique" json:"activity_id"`
	Activity       *Activity      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ActivityID;references:ID" json:"activity,omitempty"`
	PeriodKey      string         `gorm:"column:period_key;not null;index:idx_activity_period,unique" json:"period_key"`
	RiskPct        float64        `gorm:"column:risk_pct;not null;default:0" json:"risk_pct"`
	Classification string         `gorm:"column:classification;not null" json:"classification"`
	Metadata       datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (RiskSnapshot) TableName() string { return "risk_snapshot" }
