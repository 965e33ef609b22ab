package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/pkg/config"
	"github.com/tradevista/websights-backend/pkg/db"
	"github.com/tradevista/websights-backend/pkg/db/models"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/pagination"
)

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, search string, limit, offset int) ([]models.User, int64, error)
	CountFounders(ctx context.Context) (int64, error)
	ClaimFounderSlot(ctx context.Context, id uuid.UUID, capacity int) (bool, error)
}

// FounderAvailability describes the founder program's remaining capacity.
// NextNumber is only set while slots remain.
type FounderAvailability struct {
	Available  bool  `json:"available"`
	NextNumber *int  `json:"next_number,omitempty"`
	Capacity   int   `json:"capacity"`
	Claimed    int64 `json:"claimed"`
	Remaining  int64 `json:"remaining"`
}

// Page is a window of users plus the total count.
type Page struct {
	Rows  []models.User `json:"rows"`
	Total int64         `json:"total"`
}

// Service exposes tenant account reads and the founder slot claim.
type Service interface {
	Profile(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, search string, limit, offset int) (*Page, error)
	FounderAvailability(ctx context.Context) (*FounderAvailability, error)
	ClaimFounder(ctx context.Context, userID uuid.UUID) (bool, error)
}

type service struct {
	repo       userRepository
	founderCfg config.FounderConfig
}

// NewService builds the users service.
func NewService(repo userRepository, founderCfg config.FounderConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, founderCfg: founderCfg}, nil
}

func (s *service) Profile(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
	return user, nil
}

func (s *service) List(ctx context.Context, search string, limit, offset int) (*Page, error) {
	if offset < 0 {
		offset = 0
	}
	rows, total, err := s.repo.List(ctx, strings.TrimSpace(search), pagination.NormalizeLimit(limit), offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing users")
	}
	return &Page{Rows: rows, Total: total}, nil
}

func (s *service) FounderAvailability(ctx context.Context) (*FounderAvailability, error) {
	claimed, err := s.repo.CountFounders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting founders")
	}

	capacity := s.founderCfg.Capacity
	remaining := int64(capacity) - claimed
	if remaining < 0 {
		remaining = 0
	}
	availability := &FounderAvailability{
		Available: remaining > 0,
		Capacity:  capacity,
		Claimed:   claimed,
		Remaining: remaining,
	}
	if availability.Available {
		next := int(claimed) + 1
		availability.NextNumber = &next
	}
	return availability, nil
}

// ClaimFounder tries to take a founder slot for the user. Losing the race for
// the last slot is not an error; the account simply joins as a regular tenant.
// Two concurrent claims can compute the same next number, which surfaces as a
// unique violation on the founder number index; the loser retries once and
// then concedes the slot.
func (s *service) ClaimFounder(ctx context.Context, userID uuid.UUID) (bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		claimed, err := s.repo.ClaimFounderSlot(ctx, userID, s.founderCfg.Capacity)
		if err == nil {
			return claimed, nil
		}
		if !db.IsUniqueViolation(err, "idx_users_founder_number") {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claiming founder slot")
		}
	}
	return false, nil
}
