package document

import (
	"time"

	"loan-origination/internal/domain/application"
	"loan-origination/internal/domain/loantype"
)

type Type string

const (
	TypeIdentity            Type = "identity"
	TypeProofOfAddress      Type = "proof_of_address"
	TypeIncomeProof         Type = "income_proof"
	TypeCompanyRegistration Type = "company_registration"
	TypeTaxReturn           Type = "tax_return"
	TypeBankStatement       Type = "bank_statement"
	TypeSignedContract      Type = "signed_contract"
	TypeOther               Type = "other"
)

var allTypes = map[Type]bool{
	TypeIdentity: true, TypeProofOfAddress: true, TypeIncomeProof: true,
	TypeCompanyRegistration: true, TypeTaxReturn: true, TypeBankStatement: true,
	TypeSignedContract: true, TypeOther: true,
}

func (t Type) Valid() bool { return allTypes[t] }

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Document is one uploaded file. ApplicationID is nil for documents scoped
// to the user only.
type Document struct {
	ID              uint64                       `gorm:"primaryKey;column:id" json:"-"`
	DocumentID      string                       `gorm:"size:32;uniqueIndex:ux_documents_document_id;not null" json:"document_id"`
	UserID          string                       `gorm:"size:32;index:idx_documents_scope;not null" json:"user_id"`
	ApplicationID   *uint64                      `gorm:"index:idx_documents_scope" json:"-"`
	Application     *application.LoanApplication `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Type            Type                         `gorm:"type:varchar(32);index:idx_documents_scope;not null" json:"type"`
	FileName        string                       `gorm:"size:255;not null" json:"file_name"`
	FileURL         string                       `gorm:"type:text;not null" json:"file_url"`
	ContentType     string                       `gorm:"size:128" json:"content_type"`
	Size            int64                        `json:"size"`
	Status          Status                       `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	RejectionReason *string                      `gorm:"type:text" json:"rejection_reason,omitempty"`
	ReviewedBy      *string                      `gorm:"size:32" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time                   `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time                    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time                    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Document) TableName() string { return "documents" }

// RequiredTypes lists the document types an applicant of the category must
// upload before the application can be submitted.
func RequiredTypes(c loantype.Category) []Type {
	switch c {
	case loantype.CategoryParticular:
		return []Type{TypeIdentity, TypeProofOfAddress, TypeIncomeProof}
	case loantype.CategoryProfessional:
		return []Type{TypeIdentity, TypeCompanyRegistration, TypeTaxReturn, TypeBankStatement}
	default:
		return nil
	}
}

// ChecklistItem is one line of the per-application document checklist.
type ChecklistItem struct {
	Type     Type `json:"type"`
	Uploaded bool `json:"uploaded"`
	Approved bool `json:"approved"`
}

// Checklist computes, for each required type, whether at least one document
// was uploaded and whether one was approved. Nothing here is stored.
func Checklist(c loantype.Category, docs []Document) []ChecklistItem {
	uploaded := map[Type]bool{}
	approved := map[Type]bool{}
	for _, d := range docs {
		uploaded[d.Type] = true
		if d.Status == StatusApproved {
			approved[d.Type] = true
		}
	}
	req := RequiredTypes(c)
	out := make([]ChecklistItem, 0, len(req))
	for _, t := range req {
		out = append(out, ChecklistItem{Type: t, Uploaded: uploaded[t], Approved: approved[t]})
	}
	return out
}

// MissingTypes returns the required types with no upload at all.
func MissingTypes(c loantype.Category, uploaded map[Type]bool) []Type {
	var missing []Type
	for _, t := range RequiredTypes(c) {
		if !uploaded[t] {
			missing = append(missing, t)
		}
	}
	return missing
}
