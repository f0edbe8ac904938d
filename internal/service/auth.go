package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/metrics"
	"github.com/hostbuddy/api/internal/pkg/jwthelper"
	"github.com/hostbuddy/api/internal/repository"
)

const (
	minPasswordChars = 6
	maxPasswordBytes = 72

	DeleteConfirmation = "DELETE"
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateProfile(ctx context.Context, id uint, name, email string) (domain.User, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error
}

type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
	NeedsRehash(digest string) bool
}

type TokenIssuer interface {
	Issue(subject string) (jwthelper.Token, error)
}

type AuthService struct {
	repo     AuthUserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	recorder metrics.Recorder
}

func NewAuthService(repo AuthUserRepository, hasher PasswordHasher, tokens TokenIssuer, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		recorder: recorder,
	}
}

// ValidatePassword enforces the length bounds shared by registration and
// password change. The upper bound is checked before any truncation.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordChars {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}

	return nil
}

// Register creates the account. A duplicate email is detected by the store's
// unique constraint at insert time, never by a prior lookup.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" {
		return domain.User{}, validationError("name is required")
	}
	if email == "" {
		return domain.User{}, validationError("email is required")
	}
	if err := ValidatePassword(password); err != nil {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, translate("s.hasher.Hash", err)
	}

	created, err := s.repo.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return domain.User{}, translate("s.repo.Create", err)
	}

	return created, nil
}

// Login checks the credentials and issues an access token whose subject is
// the user's email. Unknown emails and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, jwthelper.Token, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.recorder.RecordLogin(false)
			return domain.User{}, jwthelper.Token{}, ErrInvalidCredentials
		}

		return domain.User{}, jwthelper.Token{}, translate("s.repo.FindByEmail", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recorder.RecordLogin(false)
		return domain.User{}, jwthelper.Token{}, ErrInvalidCredentials
	}

	s.rehashIfNeeded(ctx, user, password)

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return domain.User{}, jwthelper.Token{}, translate("s.tokens.Issue", err)
	}
	s.recorder.RecordLogin(true)

	return user, token, nil
}

// rehashIfNeeded upgrades legacy or weaker digests after a successful login.
// Failure only costs the upgrade, never the login.
func (s *AuthService) rehashIfNeeded(ctx context.Context, user domain.User, password string) {
	if !s.hasher.NeedsRehash(user.PasswordHash) {
		return
	}

	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.repo.UpdatePassword(ctx, user.ID, hash)
	}
	if err != nil {
		zap.L().Warn("password rehash failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}
}

// UpdateProfile applies the fields present in patch. A new email must not be
// held by any other user.
func (s *AuthService) UpdateProfile(ctx context.Context, user domain.User, patch domain.ProfilePatch) (domain.User, error) {
	current, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, translate("s.repo.FindByID", err)
	}

	name, email := current.Name, current.Email
	patch.Name.Apply(&name)
	patch.Email.Apply(&email)
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)

	if name == "" {
		return domain.User{}, validationError("name must not be empty")
	}
	if email == "" {
		return domain.User{}, validationError("email must not be empty")
	}
	if name == current.Name && email == current.Email {
		return current, nil
	}

	updated, err := s.repo.UpdateProfile(ctx, user.ID, name, email)
	if err != nil {
		return domain.User{}, translate("s.repo.UpdateProfile", err)
	}

	return updated, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, user domain.User, currentPassword, newPassword string) error {
	if err := s.checkPassword(ctx, user.ID, currentPassword); err != nil {
		return err
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return translate("s.hasher.Hash", err)
	}

	if err = s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return translate("s.repo.UpdatePassword", err)
	}

	return nil
}

// DeleteAccount removes the user and everything they own. It needs the
// current password and the confirmation phrase, compared ignoring case.
func (s *AuthService) DeleteAccount(ctx context.Context, user domain.User, password, confirmation string) error {
	if !strings.EqualFold(strings.TrimSpace(confirmation), DeleteConfirmation) {
		return ErrConfirmationMismatch
	}
	if err := s.checkPassword(ctx, user.ID, password); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return translate("s.repo.Delete", err)
	}

	return nil
}

func (s *AuthService) checkPassword(ctx context.Context, userID uint, password string) error {
	current, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return translate("s.repo.FindByID", err)
	}

	if !s.hasher.Verify(password, current.PasswordHash) {
		return ErrWrongPassword
	}

	return nil
}
