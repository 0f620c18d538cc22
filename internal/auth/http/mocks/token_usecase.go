// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
)

// MockTokenUseCase is a mock implementation of TokenUseCase for testing.
type MockTokenUseCase struct {
	mock.Mock
}

// Login mocks the Login method of TokenUseCase.
func (m *MockTokenUseCase) Login(
	ctx context.Context,
	encryptedUserID, encryptedPassword string,
) (*authDomain.TokenPair, error) {
	args := m.Called(ctx, encryptedUserID, encryptedPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.TokenPair), args.Error(1)
}

// Reissue mocks the Reissue method of TokenUseCase.
func (m *MockTokenUseCase) Reissue(
	ctx context.Context,
	userID, refreshToken string,
) (*authDomain.TokenPair, error) {
	args := m.Called(ctx, userID, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.TokenPair), args.Error(1)
}

// Logout mocks the Logout method of TokenUseCase.
func (m *MockTokenUseCase) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Authenticate mocks the Authenticate method of TokenUseCase.
func (m *MockTokenUseCase) Authenticate(
	ctx context.Context,
	sessionToken string,
) (*authDomain.AuthenticatedIdentity, error) {
	args := m.Called(ctx, sessionToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.AuthenticatedIdentity), args.Error(1)
}
