package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/pkg/db"
	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

type contentRepository interface {
	Create(ctx context.Context, content *models.CMSContent) error
	List(ctx context.Context, category string) ([]models.CMSContent, error)
	FindByKey(ctx context.Context, key string) (*models.CMSContent, error)
	Update(ctx context.Context, content *models.CMSContent) error
	DeleteByKey(ctx context.Context, key string) (bool, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// CreateInput carries the fields for a new content entry.
type CreateInput struct {
	Key         string
	Value       string
	ContentType string
	Description *string
	Category    *string
}

// UpdateInput carries the mutable fields; nil pointers are left untouched.
type UpdateInput struct {
	Value       *string
	ContentType *string
	Description *string
	Category    *string
}

// Service exposes CMS content operations.
type Service interface {
	List(ctx context.Context, category string) ([]models.CMSContent, error)
	GetByKey(ctx context.Context, key string) (*models.CMSContent, error)
	Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.CMSContent, error)
	Update(ctx context.Context, actorID uuid.UUID, key string, input UpdateInput) (*models.CMSContent, error)
	Delete(ctx context.Context, actorID uuid.UUID, key string) error
}

type service struct {
	repo  contentRepository
	audit auditRecorder
}

// NewService builds the CMS service.
func NewService(repo contentRepository, recorder auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cms repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

func (s *service) List(ctx context.Context, category string) ([]models.CMSContent, error) {
	rows, err := s.repo.List(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing cms content")
	}
	return rows, nil
}

func (s *service) GetByKey(ctx context.Context, key string) (*models.CMSContent, error) {
	content, err := s.repo.FindByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "content not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cms content")
	}
	return content, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.CMSContent, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key is required")
	}
	contentType, err := resolveContentType(input.ContentType)
	if err != nil {
		return nil, err
	}
	if err := validateValue(input.Value, contentType); err != nil {
		return nil, err
	}

	content := &models.CMSContent{
		Key:         key,
		Value:       input.Value,
		ContentType: contentType,
		Description: input.Description,
		Category:    input.Category,
		UpdatedBy:   &actorID,
	}
	if err := s.repo.Create(ctx, content); err != nil {
		if db.IsUniqueViolation(err, "idx_cms_contents_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "content key already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating cms content")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "cms.create",
		Detail:  map[string]any{"key": key},
	})
	return content, nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, key string, input UpdateInput) (*models.CMSContent, error) {
	content, err := s.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	var changed []string
	if input.Value != nil {
		content.Value = *input.Value
		changed = append(changed, "value")
	}
	if input.ContentType != nil {
		contentType, err := resolveContentType(*input.ContentType)
		if err != nil {
			return nil, err
		}
		content.ContentType = contentType
		changed = append(changed, "content_type")
	}
	if input.Description != nil {
		content.Description = input.Description
		changed = append(changed, "description")
	}
	if input.Category != nil {
		content.Category = input.Category
		changed = append(changed, "category")
	}
	if err := validateValue(content.Value, content.ContentType); err != nil {
		return nil, err
	}
	content.UpdatedBy = &actorID

	if err := s.repo.Update(ctx, content); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cms content")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "cms.update",
		Detail:  map[string]any{"key": content.Key, "fields": changed},
	})
	return content, nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, key string) error {
	key = strings.TrimSpace(key)
	deleted, err := s.repo.DeleteByKey(ctx, key)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting cms content")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "content not found")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "cms.delete",
		Detail:  map[string]any{"key": key},
	})
	return nil
}

func resolveContentType(raw string) (enums.ContentType, error) {
	if strings.TrimSpace(raw) == "" {
		return enums.ContentTypeText, nil
	}
	contentType, err := enums.ParseContentType(raw)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid content type")
	}
	return contentType, nil
}

// validateValue rejects values that do not parse as their declared type.
// Text and HTML entries accept anything.
func validateValue(value string, contentType enums.ContentType) error {
	switch contentType {
	case enums.ContentTypeNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "value is not a valid number")
		}
	case enums.ContentTypeBoolean:
		if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "value is not a valid boolean")
		}
	case enums.ContentTypeJSON:
		if !json.Valid([]byte(value)) {
			return pkgerrors.New(pkgerrors.CodeValidation, "value is not valid JSON")
		}
	}
	return nil
}
