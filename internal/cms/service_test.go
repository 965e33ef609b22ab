package cms

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

type stubContentRepo struct {
	rows      []models.CMSContent
	createErr error
	created   *models.CMSContent
	findRow   *models.CMSContent
	findErr   error
	updateErr error
	updated   *models.CMSContent
	deleted   bool
	deleteErr error
}

func (s *stubContentRepo) Create(ctx context.Context, content *models.CMSContent) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = content
	return nil
}

func (s *stubContentRepo) List(ctx context.Context, category string) ([]models.CMSContent, error) {
	return s.rows, nil
}

func (s *stubContentRepo) FindByKey(ctx context.Context, key string) (*models.CMSContent, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.findRow == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.findRow, nil
}

func (s *stubContentRepo) Update(ctx context.Context, content *models.CMSContent) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = content
	return nil
}

func (s *stubContentRepo) DeleteByKey(ctx context.Context, key string) (bool, error) {
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

func TestCreateRequiresKey(t *testing.T) {
	svc, _ := NewService(&stubContentRepo{}, &stubRecorder{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{Value: "hello"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsUnknownContentType(t *testing.T) {
	svc, _ := NewService(&stubContentRepo{}, &stubRecorder{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{Key: "k", ContentType: "yaml"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsValueNotMatchingType(t *testing.T) {
	svc, _ := NewService(&stubContentRepo{}, &stubRecorder{})
	ctx := context.Background()
	actor := uuid.New()

	cases := []struct {
		name        string
		contentType string
		value       string
	}{
		{"number", "number", "definitely not a number"},
		{"boolean", "boolean", "maybe"},
		{"json", "json", "{not json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, actor, CreateInput{Key: "k", Value: tc.value, ContentType: tc.contentType})
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateAcceptsParsableValues(t *testing.T) {
	repo := &stubContentRepo{}
	svc, _ := NewService(repo, &stubRecorder{})
	ctx := context.Background()
	actor := uuid.New()

	for key, input := range map[string]CreateInput{
		"max_sites":    {Key: "max_sites", Value: "42", ContentType: "number"},
		"banner_on":    {Key: "banner_on", Value: "true", ContentType: "boolean"},
		"footer_links": {Key: "footer_links", Value: `{"links":[]}`, ContentType: "json"},
	} {
		if _, err := svc.Create(ctx, actor, input); err != nil {
			t.Fatalf("Create(%s) returned error: %v", key, err)
		}
	}
}

func TestCreateDefaultsToText(t *testing.T) {
	repo := &stubContentRepo{}
	recorder := &stubRecorder{}
	svc, _ := NewService(repo, recorder)

	actor := uuid.New()
	content, err := svc.Create(context.Background(), actor, CreateInput{Key: "homepage_hero", Value: "Welcome"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if content.ContentType != enums.ContentTypeText {
		t.Fatalf("expected text content type, got %s", content.ContentType)
	}
	if content.UpdatedBy == nil || *content.UpdatedBy != actor {
		t.Fatal("actor not stamped on row")
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != "cms.create" {
		t.Fatalf("expected cms.create audit entry, got %+v", recorder.entries)
	}
}

func TestUpdateMissingKeyIsNotFound(t *testing.T) {
	svc, _ := NewService(&stubContentRepo{}, &stubRecorder{})

	value := "new"
	_, err := svc.Update(context.Background(), uuid.New(), "missing", UpdateInput{Value: &value})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	repo := &stubContentRepo{findRow: &models.CMSContent{
		Key:         "homepage_hero",
		Value:       "old",
		ContentType: enums.ContentTypeText,
	}}
	recorder := &stubRecorder{}
	svc, _ := NewService(repo, recorder)

	value := "new copy"
	content, err := svc.Update(context.Background(), uuid.New(), "homepage_hero", UpdateInput{Value: &value})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if content.Value != "new copy" {
		t.Fatalf("value not applied: %q", content.Value)
	}
	if content.ContentType != enums.ContentTypeText {
		t.Fatal("untouched field was modified")
	}
}

func TestUpdateRejectsValueNotMatchingType(t *testing.T) {
	repo := &stubContentRepo{findRow: &models.CMSContent{
		Key:         "max_sites",
		Value:       "42",
		ContentType: enums.ContentTypeNumber,
	}}
	svc, _ := NewService(repo, &stubRecorder{})

	value := "not numeric"
	_, err := svc.Update(context.Background(), uuid.New(), "max_sites", UpdateInput{Value: &value})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.updated != nil {
		t.Fatal("invalid value was persisted")
	}
}

func TestUpdateChecksValueAgainstNewType(t *testing.T) {
	repo := &stubContentRepo{findRow: &models.CMSContent{
		Key:         "banner_on",
		Value:       "sometimes",
		ContentType: enums.ContentTypeText,
	}}
	svc, _ := NewService(repo, &stubRecorder{})

	contentType := "boolean"
	_, err := svc.Update(context.Background(), uuid.New(), "banner_on", UpdateInput{ContentType: &contentType})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateAuditNamesChangedFields(t *testing.T) {
	repo := &stubContentRepo{findRow: &models.CMSContent{
		Key:         "homepage_hero",
		Value:       "old",
		ContentType: enums.ContentTypeText,
	}}
	recorder := &stubRecorder{}
	svc, _ := NewService(repo, recorder)

	value := "new copy"
	category := "marketing"
	_, err := svc.Update(context.Background(), uuid.New(), "homepage_hero", UpdateInput{Value: &value, Category: &category})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(recorder.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(recorder.entries))
	}
	fields, ok := recorder.entries[0].Detail["fields"].([]string)
	if !ok {
		t.Fatalf("fields missing from detail: %+v", recorder.entries[0].Detail)
	}
	if len(fields) != 2 || fields[0] != "value" || fields[1] != "category" {
		t.Fatalf("unexpected changed fields: %v", fields)
	}
}

func TestDeleteMissingKeyIsNotFound(t *testing.T) {
	svc, _ := NewService(&stubContentRepo{deleted: false}, &stubRecorder{})

	err := svc.Delete(context.Background(), uuid.New(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRecordsAudit(t *testing.T) {
	recorder := &stubRecorder{}
	svc, _ := NewService(&stubContentRepo{deleted: true}, recorder)

	if err := svc.Delete(context.Background(), uuid.New(), "homepage_hero"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != "cms.delete" {
		t.Fatalf("expected cms.delete audit entry, got %+v", recorder.entries)
	}
}

func TestGetByKeyDependencyFailure(t *testing.T) {
	svc, _ := NewService(&stubContentRepo{findErr: errors.New("db down")}, &stubRecorder{})

	_, err := svc.GetByKey(context.Background(), "any")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
