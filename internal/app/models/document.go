package models

import (
	"time"
)

// DocumentStatus defines the workflow status of a document
type DocumentStatus string

const (
	StatusAwaitingInput     DocumentStatus = "AWAITING_INPUT"      // Created by a teacher, waiting for the student
	StatusSubmitted         DocumentStatus = "SUBMITTED"           // Student supplied their fields, waiting for review
	StatusSentBack          DocumentStatus = "SENT_BACK"           // Teacher rejected with a comment, editable by the student again
	StatusApprovedByTeacher DocumentStatus = "APPROVED_BY_TEACHER" // Teacher accepted, visible to curators
	StatusCompleted         DocumentStatus = "COMPLETED"           // Curator finalized, terminal
)

// ParseDocumentStatus converts a stored status value into a DocumentStatus.
// The storage boundary must reject unknown values instead of carrying them around.
func ParseDocumentStatus(value string) (DocumentStatus, bool) {
	switch DocumentStatus(value) {
	case StatusAwaitingInput, StatusSubmitted, StatusSentBack, StatusApprovedByTeacher, StatusCompleted:
		return DocumentStatus(value), true
	}
	return "", false
}

// SubmittedData is the accumulated mapping of filled-in field values for a document.
type SubmittedData map[string]string

// Merge returns a new map with incoming keys overwriting existing ones.
// Values are opaque leaves; this is deliberately a shallow merge.
func (d SubmittedData) Merge(incoming SubmittedData) SubmittedData {
	merged := make(SubmittedData, len(d)+len(incoming))
	for k, v := range d {
		merged[k] = v
	}
	for k, v := range incoming {
		merged[k] = v
	}
	return merged
}

// Document defines the document model based on the 'documents' table.
// Title, template name, target student and creating teacher are immutable
// after creation; status, submitted data and the review comment evolve
// through the workflow.
type Document struct {
	ID            int64          `json:"id" db:"id" example:"1"`
	Title         string         `json:"title" db:"title" example:"Leave request"`
	TemplateName  string         `json:"templateName" db:"template_name" example:"LeaveRequest"`
	StudentEmail  string         `json:"studentEmail" db:"student_email" example:"student@vuz.edu"`
	TeacherID     int64          `json:"teacherId" db:"teacher_id" example:"2"`
	Status        DocumentStatus `json:"status" db:"status" example:"AWAITING_INPUT"`
	SubmittedData SubmittedData  `json:"submittedData" db:"submitted_data"`
	ReviewComment *string        `json:"reviewComment,omitempty" db:"review_comment"` // Set on rejection, cleared on every later non-rejecting transition
	ArtifactKey   *string        `json:"-" db:"artifact_key"`                         // Object storage key of the rendered artifact, set on finalize
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
}
