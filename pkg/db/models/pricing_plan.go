package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	dbtypes "github.com/tradevista/websights-backend/pkg/db/types"
)

// PricingPlan is a billable plan definition.
type PricingPlan struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PlanKey       string           `gorm:"column:plan_key;not null;uniqueIndex" json:"plan_key"`
	Name          string           `gorm:"column:name;not null" json:"name"`
	MonthlyPrice  decimal.Decimal  `gorm:"column:monthly_price;type:numeric(10,2);not null" json:"monthly_price"`
	YearlyPrice   *decimal.Decimal `gorm:"column:yearly_price;type:numeric(10,2)" json:"yearly_price,omitempty"`
	TrialDays     int              `gorm:"column:trial_days;not null;default:0" json:"trial_days"`
	Features      pq.StringArray   `gorm:"column:features;type:text[]" json:"features"`
	Limits        dbtypes.JSONDoc  `gorm:"column:limits;type:jsonb" json:"limits"`
	StripePriceID *string          `gorm:"column:stripe_price_id" json:"stripe_price_id,omitempty"`
	UpdatedBy     *uuid.UUID       `gorm:"column:updated_by;type:uuid" json:"updated_by,omitempty"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
