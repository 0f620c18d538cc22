package domain

import "time"

// CredentialEventType names a change in a user's refresh credential.
type CredentialEventType string

const (
	// CredentialIssued is emitted after login stores a new refresh token.
	CredentialIssued CredentialEventType = "credential.issued"

	// CredentialRotated is emitted after a successful reissue.
	CredentialRotated CredentialEventType = "credential.rotated"

	// CredentialRevoked is emitted when a record is deleted by logout or by a failed
	// rotation.
	CredentialRevoked CredentialEventType = "credential.revoked"
)

// CredentialEvent describes a credential lifecycle change. It never carries token material.
type CredentialEvent struct {
	ID         string              `json:"id"`
	Type       CredentialEventType `json:"type"`
	UserID     string              `json:"user_id"`
	Reason     string              `json:"reason,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}
