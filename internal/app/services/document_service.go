package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/akarpov/docflow/internal/app/models"
	"github.com/akarpov/docflow/internal/app/models/dto"
	"github.com/akarpov/docflow/internal/app/repositories"
	"github.com/akarpov/docflow/internal/app/templates"
	"github.com/akarpov/docflow/internal/pkg/apperrors"
	"github.com/akarpov/docflow/internal/pkg/render"
	"github.com/akarpov/docflow/internal/storage"
)

// Artifact is a rendered document ready for download.
type Artifact struct {
	Content     []byte
	ContentType string
	Filename    string
}

// DocumentService is the workflow engine: it owns document state, enforces
// legal transitions and actor checks, merges role-owned field contributions
// and produces the rendered artifact.
type DocumentService interface {
	Create(ctx context.Context, p models.Principal, req *dto.CreateDocumentRequest) (int64, error)
	ListMine(ctx context.Context, p models.Principal, includeHistory bool) ([]*models.Document, error)
	Get(ctx context.Context, p models.Principal, id int64) (*models.Document, error)
	Submit(ctx context.Context, p models.Principal, id int64, data map[string]string) (*models.Document, error)
	Review(ctx context.Context, p models.Principal, id int64, req *dto.ReviewRequest) (*models.Document, error)
	Finalize(ctx context.Context, p models.Principal, id int64) (*models.Document, error)
	Download(ctx context.Context, p models.Principal, id int64, format string) (*Artifact, error)
}

type documentService struct {
	docRepo  repositories.IDocumentRepository
	userRepo repositories.IUserRepository
	registry *templates.Registry
	store    storage.ObjectStorage
	logger   zerolog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	docRepo repositories.IDocumentRepository,
	userRepo repositories.IUserRepository,
	registry *templates.Registry,
	store storage.ObjectStorage,
	logger zerolog.Logger,
) DocumentService {
	return &documentService{
		docRepo:  docRepo,
		userRepo: userRepo,
		registry: registry,
		store:    store,
		logger:   logger,
	}
}

// curatorVisible are the only statuses curators see on documents created by
// others; in-progress drafts stay between the student and the creator. A
// curator who created a document keeps the creator's full view of it.
var curatorVisible = []models.DocumentStatus{models.StatusApprovedByTeacher, models.StatusCompleted}

// Create starts a document for a target student. Teacher-owned fields may be
// pre-filled at creation time.
func (s *documentService) Create(ctx context.Context, p models.Principal, req *dto.CreateDocumentRequest) (int64, error) {
	tpl, ok := s.registry.Get(req.TemplateName)
	if !ok {
		return 0, &apperrors.CustomError{
			Err:     apperrors.ErrTemplateNotFound,
			Message: fmt.Sprintf("template %q is not registered", req.TemplateName),
		}
	}

	student, err := s.userRepo.GetByEmail(ctx, req.StudentEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return 0, apperrors.NewResourceNotFoundError("no student with email " + req.StudentEmail)
		}
		return 0, err
	}
	if student.RoleType != models.RoleStudent {
		// Existence of non-student accounts is not disclosed either.
		return 0, apperrors.NewResourceNotFoundError("no student with email " + req.StudentEmail)
	}

	data := models.SubmittedData{}
	if len(req.TeacherData) > 0 {
		if err := checkFieldOwnership(tpl, req.TeacherData, models.RoleTeacher); err != nil {
			return 0, err
		}
		data = data.Merge(req.TeacherData)
	}

	doc := &models.Document{
		Title:         req.Title,
		TemplateName:  tpl.Name,
		StudentEmail:  student.Email,
		TeacherID:     p.ID,
		Status:        models.StatusAwaitingInput,
		SubmittedData: data,
	}
	id, err := s.docRepo.Create(ctx, doc)
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int64("documentID", id).
		Str("template", tpl.Name).
		Str("studentEmail", student.Email).
		Int64("teacherID", p.ID).
		Msg("Document created")

	return id, nil
}

// ListMine returns the role-scoped document view for the caller.
func (s *documentService) ListMine(ctx context.Context, p models.Principal, includeHistory bool) ([]*models.Document, error) {
	switch p.Role {
	case models.RoleStudent:
		statuses := []models.DocumentStatus{models.StatusAwaitingInput, models.StatusSentBack}
		if includeHistory {
			statuses = append(statuses, models.StatusCompleted)
		}
		return s.docRepo.ListByStudent(ctx, p.Email, statuses)
	case models.RoleTeacher:
		return s.docRepo.ListByTeacher(ctx, p.ID)
	case models.RoleCurator:
		// Curators also see documents they created themselves, whatever the
		// status; the two result sets can overlap once those are approved.
		created, err := s.docRepo.ListByTeacher(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		byStatus, err := s.docRepo.ListByStatuses(ctx, curatorVisible)
		if err != nil {
			return nil, err
		}
		seen := make(map[int64]bool, len(created))
		for _, doc := range created {
			seen[doc.ID] = true
		}
		for _, doc := range byStatus {
			if !seen[doc.ID] {
				created = append(created, doc)
			}
		}
		return created, nil
	}
	return nil, apperrors.NewForbiddenError("role has no document view")
}

// Get returns a single document if it is visible to the caller. Invisible
// documents answer NotFound rather than Forbidden so their existence is not
// disclosed.
func (s *documentService) Get(ctx context.Context, p models.Principal, id int64) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleTo(p, doc) {
		return nil, apperrors.ErrDocumentNotFound
	}
	return doc, nil
}

func visibleTo(p models.Principal, doc *models.Document) bool {
	switch p.Role {
	case models.RoleStudent:
		return doc.StudentEmail == p.Email
	case models.RoleTeacher:
		return doc.TeacherID == p.ID
	case models.RoleCurator:
		return doc.TeacherID == p.ID ||
			doc.Status == models.StatusApprovedByTeacher ||
			doc.Status == models.StatusCompleted
	}
	return false
}

// Submit merges the target student's field values and moves the document to
// SUBMITTED. Legal from AWAITING_INPUT and SENT_BACK; resubmission clears the
// teacher's review comment.
func (s *documentService) Submit(ctx context.Context, p models.Principal, id int64, data map[string]string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.StudentEmail != p.Email {
		return nil, apperrors.ErrDocumentNotFound
	}
	if doc.Status != models.StatusAwaitingInput && doc.Status != models.StatusSentBack {
		return nil, apperrors.NewInvalidStateError(string(doc.Status))
	}

	tpl, err := s.template(doc)
	if err != nil {
		return nil, err
	}
	if err := checkFieldOwnership(tpl, data, models.RoleStudent); err != nil {
		return nil, err
	}

	merged := doc.SubmittedData.Merge(data)
	err = s.docRepo.ApplyTransition(ctx, repositories.Transition{
		DocumentID:   doc.ID,
		FromStatus:   doc.Status,
		ToStatus:     models.StatusSubmitted,
		Data:         merged,
		StudentEmail: &p.Email,
	})
	if err != nil {
		return nil, transitionError(err, doc)
	}

	doc.Status = models.StatusSubmitted
	doc.SubmittedData = merged
	doc.ReviewComment = nil

	s.logger.Info().Int64("documentID", doc.ID).Str("studentEmail", p.Email).Msg("Document submitted")
	return doc, nil
}

// Review applies the creator's decision on a SUBMITTED document.
// Rejection requires a non-empty comment; approval may merge teacher-owned
// fields and clears any earlier comment.
func (s *documentService) Review(ctx context.Context, p models.Principal, id int64, req *dto.ReviewRequest) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.TeacherID != p.ID {
		return nil, apperrors.ErrDocumentNotFound
	}
	if doc.Status != models.StatusSubmitted {
		return nil, apperrors.NewInvalidStateError(string(doc.Status))
	}

	switch req.Action {
	case dto.ReviewActionReject:
		comment := strings.TrimSpace(req.Comment)
		if comment == "" {
			return nil, apperrors.NewValidationError("rejection requires a non-empty comment")
		}
		err = s.docRepo.ApplyTransition(ctx, repositories.Transition{
			DocumentID:    doc.ID,
			FromStatus:    doc.Status,
			ToStatus:      models.StatusSentBack,
			Data:          doc.SubmittedData,
			ReviewComment: &comment,
			TeacherID:     &p.ID,
		})
		if err != nil {
			return nil, transitionError(err, doc)
		}
		doc.Status = models.StatusSentBack
		doc.ReviewComment = &comment

	case dto.ReviewActionApprove:
		merged := doc.SubmittedData
		if len(req.Data) > 0 {
			tpl, err := s.template(doc)
			if err != nil {
				return nil, err
			}
			if err := checkFieldOwnership(tpl, req.Data, models.RoleTeacher); err != nil {
				return nil, err
			}
			merged = merged.Merge(req.Data)
		}
		err = s.docRepo.ApplyTransition(ctx, repositories.Transition{
			DocumentID: doc.ID,
			FromStatus: doc.Status,
			ToStatus:   models.StatusApprovedByTeacher,
			Data:       merged,
			TeacherID:  &p.ID,
		})
		if err != nil {
			return nil, transitionError(err, doc)
		}
		doc.Status = models.StatusApprovedByTeacher
		doc.SubmittedData = merged
		doc.ReviewComment = nil

	default:
		return nil, apperrors.NewValidationError("review action must be approve or reject")
	}

	s.logger.Info().
		Int64("documentID", doc.ID).
		Str("action", req.Action).
		Int64("teacherID", p.ID).
		Msg("Document reviewed")
	return doc, nil
}

// Finalize moves an approved document to its terminal state, renders the
// artifact and stores it. Exactly one of two racing finalize calls wins; the
// loser sees InvalidState from the conditional update.
func (s *documentService) Finalize(ctx context.Context, p models.Principal, id int64) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleTo(p, doc) {
		return nil, apperrors.ErrDocumentNotFound
	}
	if doc.Status != models.StatusApprovedByTeacher {
		return nil, apperrors.NewInvalidStateError(string(doc.Status))
	}

	// With no object storage configured the document still completes; the
	// artifact is rendered on demand at download time instead of archived.
	var artifactKey *string
	if s.store != nil {
		tpl, err := s.template(doc)
		if err != nil {
			return nil, err
		}
		content, err := render.Docx(tpl, doc.SubmittedData)
		if err != nil {
			return nil, fmt.Errorf("error rendering document: %w", err)
		}

		key := "documents/" + uuid.New().String() + ".docx"
		if _, err := s.store.Put(ctx, key, bytes.NewReader(content), int64(len(content)), render.ContentTypeDocx); err != nil {
			return nil, fmt.Errorf("error storing artifact: %w", err)
		}
		artifactKey = &key
	}

	err = s.docRepo.ApplyTransition(ctx, repositories.Transition{
		DocumentID:  doc.ID,
		FromStatus:  doc.Status,
		ToStatus:    models.StatusCompleted,
		Data:        doc.SubmittedData,
		ArtifactKey: artifactKey,
	})
	if err != nil {
		// The transition lost; remove the orphaned artifact.
		if artifactKey != nil {
			if delErr := s.store.Delete(ctx, *artifactKey); delErr != nil {
				s.logger.Error().Err(delErr).Str("key", *artifactKey).Msg("Failed to delete orphaned artifact")
			}
		}
		return nil, transitionError(err, doc)
	}

	doc.Status = models.StatusCompleted
	doc.ArtifactKey = artifactKey

	s.logger.Info().Int64("documentID", doc.ID).Msg("Document finalized")
	return doc, nil
}

// Download returns the rendered artifact. Completed documents stream the
// stored artifact; curators additionally get an on-the-fly preview while the
// document is approved but not yet finalized.
func (s *documentService) Download(ctx context.Context, p models.Principal, id int64, format string) (*Artifact, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Role != models.RoleTeacher && p.Role != models.RoleCurator {
		return nil, apperrors.ErrDocumentNotFound
	}
	if !visibleTo(p, doc) {
		return nil, apperrors.ErrDocumentNotFound
	}
	if doc.Status != models.StatusApprovedByTeacher && doc.Status != models.StatusCompleted {
		return nil, &apperrors.CustomError{
			Err:     apperrors.ErrArtifactNotReady,
			Message: fmt.Sprintf("document is still in status %s", doc.Status),
		}
	}

	tpl, err := s.template(doc)
	if err != nil {
		return nil, err
	}

	if format == "text" {
		return &Artifact{
			Content:     render.Text(tpl, doc.SubmittedData),
			ContentType: "text/plain; charset=utf-8",
			Filename:    artifactFilename(doc, ".txt"),
		}, nil
	}

	if doc.Status == models.StatusCompleted && doc.ArtifactKey != nil && s.store != nil {
		rc, _, err := s.store.Get(ctx, *doc.ArtifactKey)
		if err != nil {
			return nil, fmt.Errorf("error fetching artifact: %w", err)
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			return nil, fmt.Errorf("error reading artifact: %w", err)
		}
		return &Artifact{
			Content:     buf.Bytes(),
			ContentType: render.ContentTypeDocx,
			Filename:    artifactFilename(doc, ".docx"),
		}, nil
	}

	content, err := render.Docx(tpl, doc.SubmittedData)
	if err != nil {
		return nil, fmt.Errorf("error rendering document: %w", err)
	}
	return &Artifact{
		Content:     content,
		ContentType: render.ContentTypeDocx,
		Filename:    artifactFilename(doc, ".docx"),
	}, nil
}

func (s *documentService) template(doc *models.Document) (*templates.Template, error) {
	tpl, ok := s.registry.Get(doc.TemplateName)
	if !ok {
		return nil, fmt.Errorf("document %d references unregistered template %q", doc.ID, doc.TemplateName)
	}
	return tpl, nil
}

// checkFieldOwnership rejects any incoming key that is not declared by the
// template or whose declared owner differs from the caller's role. Ownership
// is enforced here, at the boundary; the merge itself is not a gate.
func checkFieldOwnership(tpl *templates.Template, data map[string]string, role models.RoleType) error {
	for key := range data {
		owner, ok := tpl.FieldOwner(key)
		if !ok {
			return apperrors.NewValidationError(fmt.Sprintf("field %q is not declared by template %s", key, tpl.Name))
		}
		if owner != role {
			return &apperrors.CustomError{
				Err:     apperrors.ErrFieldNotOwned,
				Message: fmt.Sprintf("field %q is owned by role %s", key, owner),
			}
		}
	}
	return nil
}

// transitionError maps a zero-row conditional update to InvalidState carrying
// the status the caller last observed.
func transitionError(err error, doc *models.Document) error {
	if errors.Is(err, apperrors.ErrInvalidState) {
		return apperrors.NewInvalidStateError(string(doc.Status))
	}
	return err
}

func artifactFilename(doc *models.Document, ext string) string {
	name := strings.TrimSpace(doc.Title)
	if name == "" {
		name = fmt.Sprintf("document-%d", doc.ID)
	}
	return strings.ReplaceAll(name, " ", "_") + ext
}
