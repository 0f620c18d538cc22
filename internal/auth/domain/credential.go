package domain

import "time"

// CredentialRecord pairs a user identity with the single refresh token currently valid
// for it. UserID is unique across records.
type CredentialRecord struct {
	UserID       string
	RefreshToken string
	UpdatedAt    time.Time
}

// AccountStanding is the live account state re-read on every authenticated request.
type AccountStanding struct {
	Certified bool
	Withdrawn bool
}

// AuthenticatedIdentity is attached to a request after its session token verified.
// It lives only as long as the request.
type AuthenticatedIdentity struct {
	UserID    string
	Certified bool
	Withdrawn bool
}

// NewAuthenticatedIdentity builds the request identity from a verified subject and the
// account's current standing.
func NewAuthenticatedIdentity(userID string, standing AccountStanding) *AuthenticatedIdentity {
	return &AuthenticatedIdentity{
		UserID:    userID,
		Certified: standing.Certified,
		Withdrawn: standing.Withdrawn,
	}
}
