package models

import (
	"time"
)

type Appointment struct {
	ID          string    `firestore:"id" json:"id"`
	CustomerID  string    `firestore:"customerId" json:"customerId"`
	Title       string    `firestore:"title" json:"title"`
	Description string    `firestore:"description" json:"description,omitempty"`
	ScheduledAt time.Time `firestore:"scheduledAt" json:"scheduledAt"`
	Done        bool      `firestore:"done" json:"done"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	CreatedBy   string    `firestore:"createdBy" json:"createdBy"`
}
