package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sample-social/internal/domain/entity"
	repo "github.com/oksasatya/sample-social/internal/domain/repository"
	"github.com/oksasatya/sample-social/pkg/helpers"
	"github.com/oksasatya/sample-social/pkg/validation"
)

// UserIndex mirrors users into a search backend.
type UserIndex interface {
	Put(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, userID string) error
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// AvatarStore persists an uploaded image and returns its public URL.
type AvatarStore interface {
	Put(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error)
}

// Avatar is an uploaded image handed to UploadAvatar.
type Avatar struct {
	Body        io.Reader
	Filename    string
	ContentType string
}

// ErrSearchUnavailable is returned by SearchUsers when no index is configured.
var ErrSearchUnavailable = errors.New("search unavailable")

type registerInput struct {
	Name     string `json:"name" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,pwd"`
}

type profileInput struct {
	Name     string  `json:"name" validate:"required,username"`
	Password *string `json:"password" validate:"omitempty,pwd"`
}

// AccountService owns registration, confirmation and profile management.
// Index and Avatars are optional.
type AccountService struct {
	Users    repo.UserRepository
	Statuses repo.StatusRepository
	Policy   Authorization
	Hasher   PasswordHasher
	Notifier Notifier
	Sessions Sessions
	Index    UserIndex
	Avatars  AvatarStore
	Logger   *logrus.Logger

	UsersPageSize    int
	StatusesPageSize int

	validate *validator.Validate
	newToken func() (string, error)
}

func NewAccountService(users repo.UserRepository, statuses repo.StatusRepository, policy Authorization, hasher PasswordHasher, notifier Notifier, sessions Sessions, logger *logrus.Logger) *AccountService {
	return &AccountService{
		Users:            users,
		Statuses:         statuses,
		Policy:           policy,
		Hasher:           hasher,
		Notifier:         notifier,
		Sessions:         sessions,
		Logger:           logger,
		UsersPageSize:    10,
		StatusesPageSize: 20,
		validate:         validation.New(),
		newToken:         helpers.NewActivationToken,
	}
}

func (s *AccountService) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return newValidationError(validation.ToDetails(err))
	}
	return nil
}

// Register creates an unactivated account and queues its confirmation email.
// No session is started.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	in := registerInput{
		Name:     strings.TrimSpace(name),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	if err := s.check(in); err != nil {
		return nil, err
	}

	token, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("activation token: %w", err)
	}
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		Name:            in.Name,
		Email:           in.Email,
		Password:        hash,
		ActivationToken: token,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, newValidationError(map[string]string{"email": "has already been taken"})
		}
		return nil, err
	}

	log := s.Logger.WithField("user_id", u.ID)
	if err := s.Notifier.SendConfirmationEmail(ctx, u, token); err != nil {
		log.WithError(err).Warn("confirmation email not queued")
	}
	s.index(ctx, u)
	log.Info("user registered")
	return u, nil
}

// ConfirmEmail activates the account owning token and logs it in.
// A token works once; afterwards it is unknown.
func (s *AccountService) ConfirmEmail(ctx context.Context, token string) (*entity.User, TokenPair, error) {
	if token == "" {
		return nil, TokenPair{}, ErrNotFound
	}
	u, err := s.Users.Activate(ctx, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, TokenPair{}, ErrNotFound
		}
		return nil, TokenPair{}, err
	}
	pair, err := s.Sessions.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.index(ctx, u)
	s.Logger.WithField("user_id", u.ID).Info("email confirmed")
	return u, pair, nil
}

// UpdateProfile changes name and optionally password. Input is validated
// before authorization; the target is untouched on any failure.
func (s *AccountService) UpdateProfile(ctx context.Context, actingID, targetID, name string, password *string) (*entity.User, error) {
	in := profileInput{Name: strings.TrimSpace(name), Password: password}
	if err := s.check(in); err != nil {
		return nil, err
	}

	acting, target, err := s.pair(ctx, actingID, targetID)
	if err != nil {
		return nil, err
	}
	if !s.Policy.CanUpdate(acting, target) {
		return nil, ErrForbidden
	}

	var hash *string
	if password != nil {
		h, err := s.Hasher.Hash(*password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = &h
	}
	u, err := s.Users.UpdateProfile(ctx, target.ID, in.Name, hash)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.index(ctx, u)
	return u, nil
}

// DeleteAccount removes targetID. Follow edges and statuses go with it.
func (s *AccountService) DeleteAccount(ctx context.Context, actingID, targetID string) error {
	acting, target, err := s.pair(ctx, actingID, targetID)
	if err != nil {
		return err
	}
	if !s.Policy.CanDestroy(acting, target) {
		return ErrForbidden
	}
	if err := s.Users.Delete(ctx, target.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	log := s.Logger.WithFields(logrus.Fields{"user_id": target.ID, "by": acting.ID})
	if s.Sessions != nil {
		if err := s.Sessions.Revoke(ctx, target.ID); err != nil {
			log.WithError(err).Warn("revoke session failed")
		}
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, target.ID); err != nil {
			log.WithError(err).Warn("remove search document failed")
		}
	}
	log.Info("user deleted")
	return nil
}

func (s *AccountService) ListUsers(ctx context.Context, page, pageSize int) (entity.Page[entity.User], error) {
	page, size, offset := pageWindow(page, pageSize, s.UsersPageSize)
	users, total, err := s.Users.List(ctx, offset, size)
	if err != nil {
		return entity.Page[entity.User]{}, err
	}
	return newPage(users, page, size, total), nil
}

// GetProfile returns the user and one page of their statuses, newest first.
func (s *AccountService) GetProfile(ctx context.Context, id string, statusPage int) (*entity.User, entity.Page[entity.Status], error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, entity.Page[entity.Status]{}, err
	}
	page, size, offset := pageWindow(statusPage, s.StatusesPageSize, s.StatusesPageSize)
	statuses, total, err := s.Statuses.ListByUser(ctx, u.ID, offset, size)
	if err != nil {
		return nil, entity.Page[entity.Status]{}, err
	}
	return u, newPage(statuses, page, size, total), nil
}

// UploadAvatar stores a new avatar for targetID under the update policy.
func (s *AccountService) UploadAvatar(ctx context.Context, actingID, targetID string, file Avatar) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, errors.New("avatar storage not configured")
	}
	acting, target, err := s.pair(ctx, actingID, targetID)
	if err != nil {
		return nil, err
	}
	if !s.Policy.CanUpdate(acting, target) {
		return nil, ErrForbidden
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return nil, newValidationError(map[string]string{"avatar": "must be an image"})
	}

	url, err := s.Avatars.Put(ctx, target.ID, file.Body, file.Filename, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.Users.UpdateAvatar(ctx, target.ID, url); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	target.AvatarURL = url
	s.index(ctx, target)
	return target, nil
}

// SearchUsers resolves index hits against the store, skipping stale documents.
func (s *AccountService) SearchUsers(ctx context.Context, q string, size int) ([]entity.User, error) {
	if s.Index == nil {
		return nil, ErrSearchUnavailable
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return []entity.User{}, nil
	}
	_, size, _ = pageWindow(1, size, s.UsersPageSize)

	ids, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	out := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.Users.GetByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

func (s *AccountService) find(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// pair loads the acting and target users. A missing actor is a forbidden request.
func (s *AccountService) pair(ctx context.Context, actingID, targetID string) (*entity.User, *entity.User, error) {
	target, err := s.find(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	if actingID == target.ID {
		return target, target, nil
	}
	acting, err := s.find(ctx, actingID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil, ErrForbidden
	}
	if err != nil {
		return nil, nil, err
	}
	return acting, target, nil
}

func (s *AccountService) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Put(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("index user failed")
	}
}
