package emails

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/pkg/db/models"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

type stubTemplateRepo struct {
	rows      []models.EmailTemplate
	createErr error
	created   *models.EmailTemplate
	findRow   *models.EmailTemplate
	findErr   error
	updated   *models.EmailTemplate
	updateErr error
	deleted   bool
	deleteErr error
}

func (s *stubTemplateRepo) Create(ctx context.Context, template *models.EmailTemplate) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = template
	return nil
}

func (s *stubTemplateRepo) List(ctx context.Context) ([]models.EmailTemplate, error) {
	return s.rows, nil
}

func (s *stubTemplateRepo) FindByKey(ctx context.Context, key string) (*models.EmailTemplate, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.findRow == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.findRow, nil
}

func (s *stubTemplateRepo) Update(ctx context.Context, template *models.EmailTemplate) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = template
	return nil
}

func (s *stubTemplateRepo) DeleteByKey(ctx context.Context, key string) (bool, error) {
	if s.deleteErr != nil {
		return false, s.deleteErr
	}
	return s.deleted, nil
}

type stubRecorder struct {
	entries []audit.Entry
}

func (s *stubRecorder) Record(ctx context.Context, entry audit.Entry) {
	s.entries = append(s.entries, entry)
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc, _ := NewService(&stubTemplateRepo{}, &stubRecorder{})

	cases := []CreateInput{
		{Subject: "Hi", BodyHTML: "<p>x</p>"},
		{TemplateKey: "welcome", BodyHTML: "<p>x</p>"},
		{TemplateKey: "welcome", Subject: "Hi"},
	}
	for i, input := range cases {
		_, err := svc.Create(context.Background(), uuid.New(), input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestUpdateAuditNamesChangedFields(t *testing.T) {
	repo := &stubTemplateRepo{findRow: &models.EmailTemplate{
		TemplateKey: "welcome",
		Subject:     "Welcome",
		BodyHTML:    "<p>hi</p>",
	}}
	recorder := &stubRecorder{}
	svc, _ := NewService(repo, recorder)

	subject := "Welcome aboard"
	_, err := svc.Update(context.Background(), uuid.New(), "welcome", UpdateInput{Subject: &subject})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != "emails.update" {
		t.Fatalf("expected emails.update audit entry, got %+v", recorder.entries)
	}
	fields, ok := recorder.entries[0].Detail["fields"].([]string)
	if !ok {
		t.Fatalf("fields missing from detail: %+v", recorder.entries[0].Detail)
	}
	if len(fields) != 1 || fields[0] != "subject" {
		t.Fatalf("unexpected changed fields: %v", fields)
	}
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	text := "Welcome {{name}}, your site {{subdomain}} is live."
	repo := &stubTemplateRepo{findRow: &models.EmailTemplate{
		TemplateKey: "welcome",
		Subject:     "Welcome, {{name}}!",
		BodyHTML:    "<p>Welcome {{name}}</p>",
		BodyText:    &text,
	}}
	svc, _ := NewService(repo, &stubRecorder{})

	rendered, err := svc.Render(context.Background(), "welcome", map[string]string{
		"name":      "Joe",
		"subdomain": "joesplumbing",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if rendered.Subject != "Welcome, Joe!" {
		t.Fatalf("unexpected subject %q", rendered.Subject)
	}
	if rendered.BodyText != "Welcome Joe, your site joesplumbing is live." {
		t.Fatalf("unexpected text body %q", rendered.BodyText)
	}
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	repo := &stubTemplateRepo{findRow: &models.EmailTemplate{
		TemplateKey: "welcome",
		Subject:     "Hello {{name}}",
		BodyHTML:    "<p>{{missing}}</p>",
	}}
	svc, _ := NewService(repo, &stubRecorder{})

	rendered, err := svc.Render(context.Background(), "welcome", map[string]string{"name": "Joe"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if rendered.BodyHTML != "<p>{{missing}}</p>" {
		t.Fatalf("unknown placeholder should survive, got %q", rendered.BodyHTML)
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	svc, _ := NewService(&stubTemplateRepo{}, &stubRecorder{})

	_, err := svc.Render(context.Background(), "missing", nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRecordsAudit(t *testing.T) {
	recorder := &stubRecorder{}
	svc, _ := NewService(&stubTemplateRepo{deleted: true}, recorder)

	if err := svc.Delete(context.Background(), uuid.New(), "welcome"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != "emails.delete" {
		t.Fatalf("expected emails.delete audit entry, got %+v", recorder.entries)
	}
}
