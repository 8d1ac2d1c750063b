package document

import (
	"io"

	domain "loan-origination/internal/domain/document"
)

type UploadInput struct {
	Type        domain.Type
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	// ApplicationID is the public id; empty for a user-level document.
	ApplicationID string
}

type ReviewInput struct {
	DocumentID string
	Status     domain.Status
	Reason     string
}

type ChecklistDTO struct {
	ApplicationID string                 `json:"application_id"`
	Items         []domain.ChecklistItem `json:"items"`
	Complete      bool                   `json:"complete"`
	AllApproved   bool                   `json:"all_approved"`
}
