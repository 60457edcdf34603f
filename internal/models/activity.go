package models

import (
	"time"
)

// Activity is one entry of the recent-activity feed shown on the dashboard.
// Handlers append entries as a side effect of their main write.
type Activity struct {
	ID         string    `firestore:"id" json:"id"`
	Kind       string    `firestore:"kind" json:"kind"`
	Message    string    `firestore:"message" json:"message"`
	CustomerID string    `firestore:"customerId" json:"customerId,omitempty"`
	ActorUID   string    `firestore:"actorUid" json:"actorUid"`
	At         time.Time `firestore:"at" json:"at"`
}
