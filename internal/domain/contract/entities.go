package contract

import (
	"time"

	"loan-origination/internal/domain/application"
)

type Status string

const (
	StatusGenerated Status = "generated"
	StatusSent      Status = "sent"
	StatusSigned    Status = "signed"
	StatusVerified  Status = "verified"
	StatusRejected  Status = "rejected"
)

// Contract is created once per approved application; the unique index on
// application_id makes a second insert fail at the storage layer.
type Contract struct {
	ID              uint64                       `gorm:"primaryKey;column:id" json:"-"`
	ContractID      string                       `gorm:"size:32;uniqueIndex:ux_contracts_contract_id;not null" json:"contract_id"`
	ApplicationID   uint64                       `gorm:"not null;uniqueIndex:ux_contracts_application" json:"-"`
	Application     *application.LoanApplication `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ContractNumber  string                       `gorm:"size:32;uniqueIndex:ux_contracts_number;not null" json:"contract_number"`
	FileURL         string                       `gorm:"type:text" json:"file_url"`
	Status          Status                       `gorm:"type:varchar(16);not null;default:'generated'" json:"status"`
	SignedFileURL   *string                      `gorm:"type:text" json:"signed_file_url,omitempty"`
	SignedAt        *time.Time                   `json:"signed_at,omitempty"`
	SentAt          *time.Time                   `json:"sent_at,omitempty"`
	VerifiedBy      *string                      `gorm:"size:32" json:"verified_by,omitempty"`
	VerifiedAt      *time.Time                   `json:"verified_at,omitempty"`
	RejectionReason *string                      `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time                    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time                    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Contract) TableName() string { return "contracts" }
