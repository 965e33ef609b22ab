package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a tenant account.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Trade        string    `gorm:"column:trade;not null" json:"trade"`
	BusinessName string    `gorm:"column:business_name;not null" json:"business_name"`
	Phone        *string   `gorm:"column:phone" json:"phone,omitempty"`
	City         *string   `gorm:"column:city" json:"city,omitempty"`

	IsFounder     bool `gorm:"column:is_founder;not null;default:false" json:"is_founder"`
	FounderNumber *int `gorm:"column:founder_number;uniqueIndex" json:"founder_number,omitempty"`

	StripeCustomerID     *string `gorm:"column:stripe_customer_id;index" json:"-"`
	StripeSubscriptionID *string `gorm:"column:stripe_subscription_id" json:"-"`

	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
