package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akarpov/docflow/internal/app/models"
	"github.com/akarpov/docflow/internal/pkg/apperrors"
)

// Transition describes a single atomic workflow step. The update only lands
// when the row still matches (id, FromStatus) plus the optional actor guard,
// so a lost race affects zero rows and never double-applies a merge.
type Transition struct {
	DocumentID    int64
	FromStatus    models.DocumentStatus
	ToStatus      models.DocumentStatus
	Data          models.SubmittedData
	ReviewComment *string // nil clears the comment
	ArtifactKey   *string // set on finalize only
	StudentEmail  *string // when set, the row must belong to this student
	TeacherID     *int64  // when set, the row must be created by this teacher
}

// IDocumentRepository defines the interface for document-related database operations
type IDocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Document, error)
	ListByStudent(ctx context.Context, email string, statuses []models.DocumentStatus) ([]*models.Document, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]*models.Document, error)
	ListByStatuses(ctx context.Context, statuses []models.DocumentStatus) ([]*models.Document, error)
	ApplyTransition(ctx context.Context, t Transition) error
}

// DocumentRepository is the pgx implementation of IDocumentRepository
type DocumentRepository struct {
	db *pgxpool.Pool
}

var _ IDocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, title, template_name, student_email, teacher_id, status, submitted_data, review_comment, artifact_key, created_at, updated_at`

// Create inserts a new document row
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO documents (title, template_name, student_email, teacher_id, status, submitted_data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		doc.Title, doc.TemplateName, doc.StudentEmail, doc.TeacherID, doc.Status, doc.SubmittedData).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating document: %w", err)
	}
	return id, nil
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = $1`, id)
	return scanDocument(row)
}

// ListByStudent returns documents targeting the given student, optionally
// filtered to the given statuses.
func (r *DocumentRepository) ListByStudent(ctx context.Context, email string, statuses []models.DocumentStatus) ([]*models.Document, error) {
	if len(statuses) == 0 {
		rows, err := r.db.Query(ctx, `
			SELECT `+documentColumns+`
			FROM documents
			WHERE student_email = $1
			ORDER BY id`, email)
		if err != nil {
			return nil, fmt.Errorf("error listing documents: %w", err)
		}
		return scanDocuments(rows)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE student_email = $1 AND status = ANY($2)
		ORDER BY id`, email, statusStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	return scanDocuments(rows)
}

// ListByTeacher returns all documents created by the given teacher
func (r *DocumentRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]*models.Document, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE teacher_id = $1
		ORDER BY id`, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	return scanDocuments(rows)
}

// ListByStatuses returns all documents in any of the given statuses
func (r *DocumentRepository) ListByStatuses(ctx context.Context, statuses []models.DocumentStatus) ([]*models.Document, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE status = ANY($1)
		ORDER BY id`, statusStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	return scanDocuments(rows)
}

// ApplyTransition performs the conditional update guarding every workflow
// step. Zero affected rows mean the document changed under the caller (or was
// never theirs); the service maps that to InvalidState/NotFound.
func (r *DocumentRepository) ApplyTransition(ctx context.Context, t Transition) error {
	query := `
		UPDATE documents
		SET status = $1, submitted_data = $2, review_comment = $3, artifact_key = COALESCE($4, artifact_key), updated_at = now()
		WHERE id = $5 AND status = $6`
	args := []interface{}{t.ToStatus, t.Data, t.ReviewComment, t.ArtifactKey, t.DocumentID, t.FromStatus}

	if t.StudentEmail != nil {
		query += fmt.Sprintf(" AND student_email = $%d", len(args)+1)
		args = append(args, *t.StudentEmail)
	}
	if t.TeacherID != nil {
		query += fmt.Sprintf(" AND teacher_id = $%d", len(args)+1)
		args = append(args, *t.TeacherID)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error applying transition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	doc := &models.Document{}
	var status string
	err := row.Scan(
		&doc.ID, &doc.Title, &doc.TemplateName, &doc.StudentEmail, &doc.TeacherID,
		&status, &doc.SubmittedData, &doc.ReviewComment, &doc.ArtifactKey,
		&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("error fetching document: %w", err)
	}

	parsed, ok := models.ParseDocumentStatus(status)
	if !ok {
		return nil, fmt.Errorf("stored status %q is not a known document status", status)
	}
	doc.Status = parsed
	if doc.SubmittedData == nil {
		doc.SubmittedData = models.SubmittedData{}
	}

	return doc, nil
}

func scanDocuments(rows pgx.Rows) ([]*models.Document, error) {
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func statusStrings(statuses []models.DocumentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
