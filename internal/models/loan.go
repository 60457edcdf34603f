package models

import (
	"time"
)

const (
	LoanStatusActive   = "active"
	LoanStatusApproved = "approved"
	LoanStatusSettled  = "settled"
	LoanStatusDenied   = "denied"
)

type Loan struct {
	ID           string    `firestore:"id" json:"id"`
	CustomerID   string    `firestore:"customerId" json:"customerId"`
	CustomerName string    `firestore:"customerName" json:"customerName,omitempty"`
	Amount       float64   `firestore:"amount" json:"amount"`
	TermMonths   int       `firestore:"termMonths" json:"termMonths"`
	InterestRate float64   `firestore:"interestRate" json:"interestRate"`
	Status       string    `firestore:"status" json:"status"`
	RequestedAt  time.Time `firestore:"requestedAt" json:"requestedAt"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
}
