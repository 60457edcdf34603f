package dto

import (
	"github.com/souzacred/crm-backend/internal/models"
)

type CreateCustomerRequest struct {
	FullName      string `json:"fullName"`
	CPF           string `json:"cpf"`
	Phone         string `json:"phone,omitempty"`
	WhatsappPhone string `json:"whatsappPhone,omitempty"`
	Address       string `json:"address,omitempty"`
	BenefitNumber string `json:"benefitNumber,omitempty"`
}

type CreateCustomerResponse struct {
	ID string `json:"id"`
}

// UpdateCustomerRequest carries optional fields; nil means leave unchanged.
// Stage is deliberately absent: stage changes go through the move-stage
// operation so the transition history stays complete.
type UpdateCustomerRequest struct {
	FullName      *string `json:"fullName,omitempty"`
	CPF           *string `json:"cpf,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	WhatsappPhone *string `json:"whatsappPhone,omitempty"`
	Address       *string `json:"address,omitempty"`
	BenefitNumber *string `json:"benefitNumber,omitempty"`
	LoanBank      *string `json:"loanBank,omitempty"`
	Prospecting   *bool   `json:"prospecting,omitempty"`
}

// CustomerFilters narrows list queries; nil/empty fields are not applied.
// A cursor issued under one filter combination is only valid under the same
// combination.
type CustomerFilters struct {
	Stage           models.Stage `json:"stage,omitempty"`
	Prospecting     *bool        `json:"prospecting,omitempty"`
	RecurrenceAlert *bool        `json:"recurrenceAlert,omitempty"`
	LoanBank        string       `json:"loanBank,omitempty"`
}

type MoveStageRequest struct {
	Stage models.Stage `json:"stage"`
}

type MoveStageResponse struct {
	CustomerID    string       `json:"customerId"`
	PreviousStage models.Stage `json:"previousStage"`
	Stage         models.Stage `json:"stage"`
	Changed       bool         `json:"changed"`
}

const (
	MatchName  = "name"
	MatchCPF   = "cpf"
	MatchPhone = "phone"
)

// SearchResult is one search hit tagged with the reason it matched.
type SearchResult struct {
	Customer  models.Customer `json:"customer"`
	MatchedBy string          `json:"matchedBy"`
}

// CustomerWithLoans is the get-customer response: the document plus the first
// page of its loans subcollection.
type CustomerWithLoans struct {
	models.Customer
	Loans     []models.Loan `json:"loans"`
	LoansMeta PageMeta      `json:"loansMeta"`
}

type DeleteCustomerResponse struct {
	CustomerID       string `json:"customerId"`
	LoansDeleted     int    `json:"loansDeleted"`
	DocumentsDeleted int    `json:"documentsDeleted"`
}
