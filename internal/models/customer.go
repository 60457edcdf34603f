package models

import (
	"time"
)

type Customer struct {
	ID            string `firestore:"id" json:"id"`
	FullName      string `firestore:"fullName" json:"fullName"`
	CPF           string `firestore:"cpf" json:"cpf"` // digits only
	Phone         string `firestore:"phone" json:"phone,omitempty"`
	WhatsappPhone string `firestore:"whatsappPhone" json:"whatsappPhone,omitempty"`
	Address       string `firestore:"address" json:"address,omitempty"`
	BenefitNumber string `firestore:"benefitNumber" json:"benefitNumber,omitempty"`
	LoanBank      string `firestore:"loanBank" json:"loanBank,omitempty"`

	Stage             Stage             `firestore:"stage" json:"stage"`
	TransitionHistory []StageTransition `firestore:"transitionHistory" json:"transitionHistory,omitempty"`
	Prospecting       bool              `firestore:"prospecting" json:"prospecting"`

	// Loan-term fields recomputed by the scheduled recalculation.
	ContractedTermMonths int        `firestore:"contractedTermMonths" json:"contractedTermMonths,omitempty"`
	RemainingTermMonths  int        `firestore:"remainingTermMonths" json:"remainingTermMonths"`
	PaidInstallments     int        `firestore:"paidInstallments" json:"paidInstallments"`
	PercentPaid          float64    `firestore:"percentPaid" json:"percentPaid"`
	RecurrenceAlert      bool       `firestore:"recurrenceAlert" json:"recurrenceAlert"`
	FirstDiscountDate    *time.Time `firestore:"firstDiscountDate" json:"firstDiscountDate,omitempty"`
	LastTermUpdate       time.Time  `firestore:"lastTermUpdate" json:"lastTermUpdate"`

	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	CreatedBy string    `firestore:"createdBy" json:"createdBy"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
	UpdatedBy string    `firestore:"updatedBy" json:"updatedBy,omitempty"`
}

// TermUpdate is one customer's recalculated loan-term snapshot, produced by
// the recalculation job and written back in batches.
type TermUpdate struct {
	CustomerID          string
	RemainingTermMonths int
	PaidInstallments    int
	PercentPaid         float64
	RecurrenceAlert     bool
}
