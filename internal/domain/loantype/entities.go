package loantype

import (
	"time"
)

type Category string

const (
	CategoryParticular   Category = "particular"
	CategoryProfessional Category = "professional"
)

func (c Category) Valid() bool {
	return c == CategoryParticular || c == CategoryProfessional
}

// LoanType is a financing product template. It bounds every simulation and
// application made against it. Rates are annual percentages (5.9 = 5.9%).
type LoanType struct {
	ID                uint64    `gorm:"primaryKey;column:id" json:"-"`
	Slug              string    `gorm:"size:64;uniqueIndex:ux_loan_types_slug;not null" json:"id"`
	Name              string    `gorm:"size:128;not null" json:"name"`
	Category          Category  `gorm:"type:varchar(16);index;not null" json:"category"`
	MinAmount         float64   `gorm:"type:decimal(18,2);not null" json:"min_amount"`
	MaxAmount         float64   `gorm:"type:decimal(18,2);not null" json:"max_amount"`
	MinDurationMonths int       `gorm:"not null" json:"min_duration_months"`
	MaxDurationMonths int       `gorm:"not null" json:"max_duration_months"`
	MinRate           float64   `gorm:"type:decimal(6,3);not null" json:"min_rate"`
	MaxRate           float64   `gorm:"type:decimal(6,3);not null" json:"max_rate"`
	Features          []string  `gorm:"serializer:json;type:text" json:"features"`
	Active            bool      `gorm:"not null" json:"active"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanType) TableName() string { return "loan_types" }

func (lt *LoanType) AmountInBounds(amount float64) bool {
	return amount >= lt.MinAmount && amount <= lt.MaxAmount
}

func (lt *LoanType) DurationInBounds(months int) bool {
	return months >= lt.MinDurationMonths && months <= lt.MaxDurationMonths
}

// Consistent reports whether every min/max pair is ordered.
func (lt *LoanType) Consistent() bool {
	return lt.MinAmount <= lt.MaxAmount &&
		lt.MinDurationMonths <= lt.MaxDurationMonths &&
		lt.MinRate <= lt.MaxRate
}
