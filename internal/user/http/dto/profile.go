// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/wemakepass/internal/user/usecase"
)

// ProfileResponse is the authenticated user's profile. Every field is envelope-encrypted.
type ProfileResponse struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

// ToProfileResponse converts a use case profile to its API representation.
func ToProfileResponse(profile *usecase.ProfileOutput) ProfileResponse {
	return ProfileResponse{
		UserID:   profile.UserID,
		Nickname: profile.Nickname,
		Email:    profile.Email,
	}
}

// PasswordAuthRequest carries the envelope-encrypted current password.
type PasswordAuthRequest struct {
	Password string `json:"password"`
}

// Validate checks presence and size. Decryption is left to the use case.
func (r *PasswordAuthRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(1, 1024),
		),
	)
}
