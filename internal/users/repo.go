package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/pkg/db/models"
)

// Repository exposes tenant user persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUserDTO captures the fields required to insert a user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Trade        string
	BusinessName string
	Phone        *string
	City         *string
}

// ToModel converts the DTO into a persistable user.
func (dto CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		Name:         dto.Name,
		Trade:        dto.Trade,
		BusinessName: dto.BusinessName,
		Phone:        dto.Phone,
		City:         dto.City,
	}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByStripeCustomerID loads the user owning a Stripe customer.
func (r *Repository) FindByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users newest-first with the total count. A non-empty search
// term matches email, name, and business name as a substring.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(email) LIKE ? OR LOWER(name) LIKE ? OR LOWER(business_name) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.User
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// UpdateStripeRefs stores the Stripe customer/subscription identifiers.
func (r *Repository) UpdateStripeRefs(ctx context.Context, id uuid.UUID, customerID, subscriptionID *string) error {
	updates := map[string]any{}
	if customerID != nil {
		updates["stripe_customer_id"] = *customerID
	}
	if subscriptionID != nil {
		updates["stripe_subscription_id"] = *subscriptionID
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumns(updates).Error
}

// CountFounders reports how many founder slots have been claimed.
func (r *Repository) CountFounders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_founder = ?", true).
		Count(&count).Error
	return count, err
}

// ClaimFounderSlot marks the user a founder and assigns the next founder
// number. The claim runs as a single conditional UPDATE so two concurrent
// signups cannot both take the last slot; reports whether the claim won.
func (r *Repository) ClaimFounderSlot(ctx context.Context, id uuid.UUID, capacity int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE users
		SET is_founder = TRUE,
		    founder_number = (
			SELECT COALESCE(MAX(founder_number), 0) + 1
			FROM users
			WHERE is_founder = TRUE
		    )
		WHERE users.id = ?
		  AND users.is_founder = FALSE
		  AND (
			SELECT COALESCE(MAX(founder_number), 0)
			FROM users
			WHERE is_founder = TRUE
		  ) < ?`,
		id, capacity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
