// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
	customValidation "github.com/allisson/wemakepass/internal/validation"
)

const (
	maxCiphertextLength = 1024
	maxTokenLength      = 2048
)

// LoginRequest carries envelope-encrypted credentials.
type LoginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// Validate checks presence and size only. Whether the values decrypt is decided by the
// login use case.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID,
			validation.Required,
			validation.Length(1, maxCiphertextLength),
		),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(1, maxCiphertextLength),
		),
	)
}

// ReissueRequest carries the user id and the plaintext refresh token to rotate.
type ReissueRequest struct {
	UserID       string `json:"userId"`
	RefreshToken string `json:"refreshToken"`
}

// Validate checks presence and size only. The token itself is judged by the rotation.
func (r *ReissueRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.RefreshToken,
			validation.Required,
			validation.Length(1, maxTokenLength),
		),
	)
}

// TokenResponse is returned by login and reissue. RefreshToken is envelope-encrypted.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// MapTokenPairToResponse converts a domain token pair to an API response.
func MapTokenPairToResponse(pair *authDomain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}
