package dto

// CreateDocumentRequest creates a document for a target student from a template
type CreateDocumentRequest struct {
	TemplateName string            `json:"templateName" binding:"required" example:"LeaveRequest"`
	StudentEmail string            `json:"studentEmail" binding:"required,email" example:"student@vuz.edu"`
	Title        string            `json:"title" binding:"required" example:"Leave request"`
	TeacherData  map[string]string `json:"teacherData,omitempty"`
}

// CreateDocumentResponse carries the new document's identifier
type CreateDocumentResponse struct {
	DocumentID int64 `json:"documentId" example:"1"`
}

// SubmitRequest carries the student's field values
type SubmitRequest struct {
	Data map[string]string `json:"data" binding:"required"`
}

// Review actions
const (
	ReviewActionApprove = "approve"
	ReviewActionReject  = "reject"
)

// ReviewRequest carries the teacher's decision on a submitted document
type ReviewRequest struct {
	Action  string            `json:"action" binding:"required,oneof=approve reject" example:"approve"`
	Data    map[string]string `json:"data,omitempty"`
	Comment string            `json:"comment,omitempty" example:"missing dates"`
}
