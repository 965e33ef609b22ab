package emails

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/pkg/db"
	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

type templateRepository interface {
	Create(ctx context.Context, template *models.EmailTemplate) error
	List(ctx context.Context) ([]models.EmailTemplate, error)
	FindByKey(ctx context.Context, key string) (*models.EmailTemplate, error)
	Update(ctx context.Context, template *models.EmailTemplate) error
	DeleteByKey(ctx context.Context, key string) (bool, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// CreateInput carries the fields for a new template.
type CreateInput struct {
	TemplateKey string
	Subject     string
	BodyHTML    string
	BodyText    *string
}

// UpdateInput carries the mutable fields; nil pointers are left untouched.
type UpdateInput struct {
	Subject  *string
	BodyHTML *string
	BodyText *string
}

// Rendered is a template with its {{placeholders}} substituted.
type Rendered struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	BodyText string `json:"body_text"`
}

// Service exposes email template operations.
type Service interface {
	List(ctx context.Context) ([]models.EmailTemplate, error)
	GetByKey(ctx context.Context, key string) (*models.EmailTemplate, error)
	Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.EmailTemplate, error)
	Update(ctx context.Context, actorID uuid.UUID, key string, input UpdateInput) (*models.EmailTemplate, error)
	Delete(ctx context.Context, actorID uuid.UUID, key string) error
	Render(ctx context.Context, key string, vars map[string]string) (*Rendered, error)
}

type service struct {
	repo  templateRepository
	audit auditRecorder
}

// NewService builds the email template service.
func NewService(repo templateRepository, recorder auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("emails repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

func (s *service) List(ctx context.Context) ([]models.EmailTemplate, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing email templates")
	}
	return rows, nil
}

func (s *service) GetByKey(ctx context.Context, key string) (*models.EmailTemplate, error) {
	template, err := s.repo.FindByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading email template")
	}
	return template, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.EmailTemplate, error) {
	key := strings.TrimSpace(input.TemplateKey)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template key is required")
	}
	if strings.TrimSpace(input.Subject) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject is required")
	}
	if strings.TrimSpace(input.BodyHTML) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "html body is required")
	}

	template := &models.EmailTemplate{
		TemplateKey: key,
		Subject:     input.Subject,
		BodyHTML:    input.BodyHTML,
		BodyText:    input.BodyText,
		UpdatedBy:   &actorID,
	}
	if err := s.repo.Create(ctx, template); err != nil {
		if db.IsUniqueViolation(err, "idx_email_templates_template_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "template key already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating email template")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "emails.create",
		Detail:  map[string]any{"template_key": key},
	})
	return template, nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, key string, input UpdateInput) (*models.EmailTemplate, error) {
	template, err := s.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	var changed []string
	if input.Subject != nil {
		if strings.TrimSpace(*input.Subject) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject cannot be empty")
		}
		template.Subject = *input.Subject
		changed = append(changed, "subject")
	}
	if input.BodyHTML != nil {
		if strings.TrimSpace(*input.BodyHTML) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "html body cannot be empty")
		}
		template.BodyHTML = *input.BodyHTML
		changed = append(changed, "body_html")
	}
	if input.BodyText != nil {
		template.BodyText = input.BodyText
		changed = append(changed, "body_text")
	}
	template.UpdatedBy = &actorID

	if err := s.repo.Update(ctx, template); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating email template")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "emails.update",
		Detail:  map[string]any{"template_key": template.TemplateKey, "fields": changed},
	})
	return template, nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, key string) error {
	key = strings.TrimSpace(key)
	deleted, err := s.repo.DeleteByKey(ctx, key)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting email template")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "emails.delete",
		Detail:  map[string]any{"template_key": key},
	})
	return nil
}

// Render substitutes {{name}} placeholders in the subject and bodies.
// Unknown placeholders are left in place so missing vars are visible in
// previews instead of silently vanishing.
func (s *service) Render(ctx context.Context, key string, vars map[string]string) (*Rendered, error) {
	template, err := s.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	replacer := strings.NewReplacer(pairs...)

	rendered := &Rendered{
		Subject:  replacer.Replace(template.Subject),
		BodyHTML: replacer.Replace(template.BodyHTML),
	}
	if template.BodyText != nil {
		rendered.BodyText = replacer.Replace(*template.BodyText)
	}
	return rendered, nil
}
