// Package queue defines message payloads exchanged over the message broker.
package queue

// EscalationCreatedEvent is published when a farmer raises a new
// escalation. It carries enough information for downstream consumers
// (officer notification, audit log) to act without querying the
// primary database.
type EscalationCreatedEvent struct {
	EscalationID uint64 `json:"escalation_id"`
	UserID       uint64 `json:"user_id"`
	ReporterName string `json:"reporter_name"`
	Location     string `json:"location"`
	Crop         string `json:"crop"`
	Concern      string `json:"concern"`
	Language     string `json:"language"`
	CreatedAt    string `json:"created_at"`
}
