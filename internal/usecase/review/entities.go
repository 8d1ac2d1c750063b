package review

import (
	"time"

	"loan-origination/internal/domain/application"
	"loan-origination/internal/domain/contract"
)

type ContractRef struct {
	ContractID     string          `json:"contract_id"`
	ContractNumber string          `json:"contract_number"`
	Status         contract.Status `json:"status"`
}

type ReviewDTO struct {
	ApplicationID string             `json:"application_id"`
	Status        application.Status `json:"status"`
	StatusMessage *string            `json:"status_message,omitempty"`
	ReviewedBy    string             `json:"reviewed_by"`
	ReviewedAt    time.Time          `json:"reviewed_at"`
	Contract      *ContractRef       `json:"contract,omitempty"`
}
