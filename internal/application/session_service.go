package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sample-social/internal/domain/entity"
	repo "github.com/oksasatya/sample-social/internal/domain/repository"
	"github.com/oksasatya/sample-social/pkg/helpers"
)

// Sessions starts and ends authenticated sessions for a user.
type Sessions interface {
	IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error)
	Revoke(ctx context.Context, userID string) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// SessionService issues JWT pairs backed by a Redis session hash per user.
type SessionService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Hasher PasswordHasher
	Redis  *redis.Client
	Logger *logrus.Logger
	TTL    time.Duration
}

func NewSessionService(users repo.UserRepository, jwt *helpers.JWTManager, hasher PasswordHasher, rdb *redis.Client, logger *logrus.Logger, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{Users: users, JWT: jwt, Hasher: hasher, Redis: rdb, Logger: logger, TTL: ttl}
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Authenticate validates email/password. Unactivated accounts cannot log in.
func (s *SessionService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.Hasher.Compare(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.Activated {
		return nil, ErrEmailNotVerified
	}
	return u, nil
}

func (s *SessionService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *SessionService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.pair(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := helpers.SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, s.TTL)
		if _, err := pipe.Exec(ctx); err != nil {
			s.Logger.WithError(err).WithField("key", key).Error("store session failed")
			return TokenPair{}, err
		}
	}
	return pair, nil
}

// Refresh rotates the session id and tokens when the refresh token matches the live session.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	key := helpers.SessionKey(u.ID)
	if s.Redis != nil {
		sid, rErr := s.Redis.HGet(ctx, key, "sid").Result()
		if rErr != nil || sid != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	sid := uuid.NewString()
	pair, err := s.pair(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{"sid": sid, "updated_at": nowRFC3339()})
		pipe.Expire(ctx, key, s.TTL)
		if _, err := pipe.Exec(ctx); err != nil {
			return TokenPair{}, "", err
		}
	}
	return pair, u.ID, nil
}

// Revoke drops the user's session so outstanding tokens stop working.
func (s *SessionService) Revoke(ctx context.Context, userID string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, helpers.SessionKey(userID)).Err()
}

// Logout is Revoke for the acting user.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	return s.Revoke(ctx, userID)
}

func (s *SessionService) pair(userID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

var _ Sessions = (*SessionService)(nil)
