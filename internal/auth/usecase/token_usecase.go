package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
	authService "github.com/allisson/wemakepass/internal/auth/service"
	"github.com/allisson/wemakepass/internal/database"
	apperrors "github.com/allisson/wemakepass/internal/errors"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	txManager   database.TxManager
	credentials CredentialRepository
	accounts    AccountRepository
	standing    AccountStandingLookup
	codec       authService.TokenCodec
	passwords   authService.PasswordService
	cipher      Cipher
	events      EventPublisher
	logger      *slog.Logger
}

// rotation is the outcome of one pass of the rotation protocol.
type rotation struct {
	pair    *authDomain.TokenPair
	revoked bool
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
//
// txManager may be nil when credentials are not stored in the SQL database; rotations
// then rely on the store's conditional Replace alone.
func NewTokenUseCase(
	txManager database.TxManager,
	credentials CredentialRepository,
	accounts AccountRepository,
	standing AccountStandingLookup,
	codec authService.TokenCodec,
	passwords authService.PasswordService,
	cipher Cipher,
	events EventPublisher,
	logger *slog.Logger,
) TokenUseCase {
	return &tokenUseCase{
		txManager:   txManager,
		credentials: credentials,
		accounts:    accounts,
		standing:    standing,
		codec:       codec,
		passwords:   passwords,
		cipher:      cipher,
		events:      events,
		logger:      logger,
	}
}

// Login authenticates an account and issues a token pair.
//
// Checks run in order and the first failure wins: both values decrypt
// (AES_DECRYPTION_ERROR), the account exists (USER_ID_NOT_FOUND), the password matches
// (PASSWORD_MISMATCH), the account is not withdrawn (WITHDRAW_ACCOUNT) and it is certified
// (UNCERT_USER). On success any previous refresh token of the user is overwritten.
func (t *tokenUseCase) Login(
	ctx context.Context,
	encryptedUserID, encryptedPassword string,
) (*authDomain.TokenPair, error) {
	userID, err := t.cipher.Decrypt(encryptedUserID)
	if err != nil {
		return nil, authDomain.WrapAuthError(authDomain.AESDecryptionError, err, "login user id")
	}
	password, err := t.cipher.Decrypt(encryptedPassword)
	if err != nil {
		return nil, authDomain.WrapAuthError(authDomain.AESDecryptionError, err, "login password")
	}

	account, err := t.accounts.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.NewAuthError(authDomain.UserIDNotFound, "id="+userID)
		}
		return nil, err
	}

	if !t.passwords.Verify(password, account.PasswordHash) {
		return nil, authDomain.NewAuthError(authDomain.PasswordMismatch, "id="+userID)
	}
	if account.Withdrawn() {
		return nil, authDomain.NewAuthError(authDomain.WithdrawAccount, "id="+userID)
	}
	if !account.Certified {
		return nil, authDomain.NewAuthError(authDomain.UncertUser, "id="+userID)
	}

	t.upgradePasswordHash(ctx, account.ID, account.PasswordHash, password)

	refreshToken, err := t.codec.MintRefresh()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to mint refresh token")
	}

	record := &authDomain.CredentialRecord{
		UserID:       account.ID,
		RefreshToken: refreshToken,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := t.credentials.Save(ctx, record); err != nil {
		return nil, err
	}

	pair, err := t.issuePair(account.ID, refreshToken)
	if err != nil {
		return nil, err
	}

	t.publish(ctx, authDomain.CredentialIssued, account.ID, "login")
	return pair, nil
}

// Reissue runs the rotation protocol for userID.
//
// The presented token must equal the stored one byte for byte and the stored token must
// still verify. A stored token that no longer verifies is deleted before the request is
// rejected, so the user has to log in again. A successful rotation replaces the stored
// token conditionally on it being unchanged since it was read; the loser of two
// concurrent rotations is rejected. Every rejection is INVALID_REFRESH_TOKEN.
func (t *tokenUseCase) Reissue(ctx context.Context, userID, refreshToken string) (*authDomain.TokenPair, error) {
	var (
		result    *rotation
		rotateErr error
	)

	err := t.withTx(ctx, func(ctx context.Context) error {
		result, rotateErr = t.rotate(ctx, userID, refreshToken)
		// A rejection still commits so the fail-closed delete is kept.
		if errors.Is(rotateErr, authDomain.ErrInvalidRefreshToken) {
			return nil
		}
		return rotateErr
	})
	if err != nil {
		return nil, err
	}

	if rotateErr != nil {
		t.logger.Warn("refresh token rejected",
			slog.String("user_id", userID),
			slog.Any("error", rotateErr),
		)
		if result != nil && result.revoked {
			t.publish(ctx, authDomain.CredentialRevoked, userID, "rotation rejected")
		}
		return nil, rotateErr
	}

	t.publish(ctx, authDomain.CredentialRotated, userID, "")
	return result.pair, nil
}

func (t *tokenUseCase) rotate(ctx context.Context, userID, presented string) (*rotation, error) {
	record, err := t.credentials.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, authDomain.ErrCredentialNotFound) {
			return nil, authDomain.NewAuthError(authDomain.InvalidRefreshToken, "token info not found")
		}
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(record.RefreshToken), []byte(presented)) != 1 {
		return nil, authDomain.NewAuthError(
			authDomain.InvalidRefreshToken,
			"does not match previously issued token",
		)
	}

	if verified := t.codec.VerifyRefresh(record.RefreshToken); !verified.OK() {
		if err := t.credentials.Delete(ctx, userID); err != nil {
			t.logger.Error("failed to delete unverifiable credential",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}

		diagnostic := "token verification failed"
		if verified.Failure == authDomain.FailureExpired {
			diagnostic = "token expired"
		}
		return &rotation{revoked: true}, authDomain.WrapAuthError(
			authDomain.InvalidRefreshToken,
			verified.Err,
			diagnostic,
		)
	}

	next, err := t.codec.MintRefresh()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to mint refresh token")
	}

	if err := t.credentials.Replace(ctx, userID, record.RefreshToken, next); err != nil {
		if errors.Is(err, authDomain.ErrCredentialConflict) || errors.Is(err, authDomain.ErrCredentialNotFound) {
			return nil, authDomain.WrapAuthError(authDomain.InvalidRefreshToken, err, "concurrent rotation")
		}
		return nil, err
	}

	pair, err := t.issuePair(userID, next)
	if err != nil {
		return nil, err
	}
	return &rotation{pair: pair}, nil
}

// Logout deletes the user's refresh token.
func (t *tokenUseCase) Logout(ctx context.Context, userID string) error {
	if err := t.credentials.Delete(ctx, userID); err != nil {
		return err
	}

	t.publish(ctx, authDomain.CredentialRevoked, userID, "logout")
	return nil
}

// Authenticate verifies a session token and returns the caller's identity with its
// current standing. A subject without an account is treated as an invalid token.
func (t *tokenUseCase) Authenticate(
	ctx context.Context,
	sessionToken string,
) (*authDomain.AuthenticatedIdentity, error) {
	verified := t.codec.VerifySession(sessionToken)
	if !verified.OK() {
		return nil, authDomain.WrapAuthError(
			authDomain.ClassifyAccessFailure(verified.Failure),
			verified.Err,
			verified.Failure.String(),
		)
	}

	standing, err := t.standing.LookupStanding(ctx, verified.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.WrapAuthError(authDomain.InvalidAccessToken, err, "subject has no account")
		}
		return nil, err
	}

	return authDomain.NewAuthenticatedIdentity(verified.Subject, standing), nil
}

// issuePair mints the session token and encrypts the refresh token for transport.
func (t *tokenUseCase) issuePair(userID, refreshToken string) (*authDomain.TokenPair, error) {
	accessToken, err := t.codec.MintSession(userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to mint session token")
	}

	encrypted, err := t.cipher.Encrypt(refreshToken)
	if err != nil {
		return nil, authDomain.WrapAuthError(authDomain.AESEncryptionError, err, "refresh token")
	}

	return &authDomain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: encrypted,
	}, nil
}

// upgradePasswordHash replaces a legacy hash after a successful password check.
// Failures are logged; login proceeds with the old hash.
func (t *tokenUseCase) upgradePasswordHash(ctx context.Context, userID, currentHash, password string) {
	if !t.passwords.NeedsRehash(currentHash) {
		return
	}

	hashed, err := t.passwords.Hash(password)
	if err == nil {
		err = t.accounts.UpdatePasswordHash(ctx, userID, hashed)
	}
	if err != nil {
		t.logger.Warn("failed to upgrade password hash", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	t.logger.Info("password hash upgraded", slog.String("user_id", userID))
}

func (t *tokenUseCase) publish(
	ctx context.Context,
	eventType authDomain.CredentialEventType,
	userID, reason string,
) {
	if t.events == nil {
		return
	}

	event := authDomain.CredentialEvent{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Type:       eventType,
		UserID:     userID,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
	if err := t.events.Publish(ctx, event); err != nil {
		t.logger.Warn("failed to publish credential event",
			slog.String("type", string(eventType)),
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}

func (t *tokenUseCase) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.txManager == nil {
		return fn(ctx)
	}
	return t.txManager.WithTx(ctx, fn)
}
