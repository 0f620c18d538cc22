// Package usecase implements account business logic: the authenticated profile, the
// standing lookup used on every authenticated request, current password checks and
// account creation.
package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
	"github.com/allisson/wemakepass/internal/user/domain"
	appValidation "github.com/allisson/wemakepass/internal/validation"
)

// CreateAccountInput contains the input data for account creation
type CreateAccountInput struct {
	UserID    string
	Password  string
	Email     string
	Nickname  string
	Role      string
	Certified bool
}

// ProfileOutput is the authenticated user's profile with every field envelope-encrypted.
type ProfileOutput struct {
	UserID   string
	Nickname string
	Email    string
}

// UseCase defines the interface for account business logic operations
type UseCase interface {
	GetProfile(ctx context.Context, userID string) (*ProfileOutput, error)
	LookupStanding(ctx context.Context, userID string) (authDomain.AccountStanding, error)
	VerifyCurrentPassword(ctx context.Context, userID, encryptedPassword string) error
	CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error)
}

// AccountRepository interface defines account repository operations
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hashed string) bool
}

// Cipher is the transport envelope for profile fields and submitted passwords.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// UserUseCase handles account-related business logic
type UserUseCase struct {
	accountRepo AccountRepository
	hasher      PasswordHasher
	cipher      Cipher
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(accountRepo AccountRepository, hasher PasswordHasher, cipher Cipher) UseCase {
	return &UserUseCase{
		accountRepo: accountRepo,
		hasher:      hasher,
		cipher:      cipher,
	}
}

// GetProfile returns the encrypted profile of userID.
func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*ProfileOutput, error) {
	account, err := uc.accountRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &ProfileOutput{}
	fields := []struct {
		dst   *string
		value string
	}{
		{&out.UserID, account.ID},
		{&out.Nickname, account.Nickname},
		{&out.Email, account.Email},
	}
	for _, f := range fields {
		encrypted, err := uc.cipher.Encrypt(f.value)
		if err != nil {
			return nil, authDomain.WrapAuthError(authDomain.AESEncryptionError, err, "profile encryption failed")
		}
		*f.dst = encrypted
	}

	return out, nil
}

// LookupStanding returns the live certified and withdrawn flags of userID.
func (uc *UserUseCase) LookupStanding(ctx context.Context, userID string) (authDomain.AccountStanding, error) {
	account, err := uc.accountRepo.GetByID(ctx, userID)
	if err != nil {
		return authDomain.AccountStanding{}, err
	}

	return authDomain.AccountStanding{
		Certified: account.Certified,
		Withdrawn: account.Withdrawn(),
	}, nil
}

// VerifyCurrentPassword checks an envelope-encrypted password against the stored hash of
// userID. Clients call it before letting the user change the password.
func (uc *UserUseCase) VerifyCurrentPassword(ctx context.Context, userID, encryptedPassword string) error {
	password, err := uc.cipher.Decrypt(encryptedPassword)
	if err != nil {
		return authDomain.WrapAuthError(authDomain.AESDecryptionError, err, "current password")
	}

	account, err := uc.accountRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !uc.hasher.Verify(password, account.PasswordHash) {
		return authDomain.NewAuthError(authDomain.PasswordMismatch, "id="+userID)
	}
	return nil
}

// validateCreateAccountInput validates the account input using jellydator/validation
func (uc *UserUseCase) validateCreateAccountInput(input CreateAccountInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.UserID,
			validation.Required.Error("user id is required"),
			appValidation.NotBlank,
			appValidation.NoWhitespace,
			validation.Length(4, 64).Error("user id must be between 4 and 64 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Nickname,
			validation.Required.Error("nickname is required"),
			appValidation.NotBlank,
			validation.Length(1, 64).Error("nickname must be between 1 and 64 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
		validation.Field(&input.Role,
			validation.In(domain.RoleUser, domain.RoleAdmin).Error("role must be USER or ADMIN"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// CreateAccount stores a new account with an Argon2id password hash. A duplicate id
// fails with ErrAccountAlreadyExists.
func (uc *UserUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := uc.validateCreateAccountInput(input); err != nil {
		return nil, err
	}

	hashed, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	account := &domain.Account{
		ID:           input.UserID,
		PasswordHash: hashed,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Nickname:     strings.TrimSpace(input.Nickname),
		Role:         role,
		Certified:    input.Certified,
		RegisteredAt: time.Now().UTC(),
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}
