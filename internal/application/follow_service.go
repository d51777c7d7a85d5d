package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sample-social/internal/domain/entity"
	repo "github.com/oksasatya/sample-social/internal/domain/repository"
)

// FollowService manages directed follow edges between users.
type FollowService struct {
	Users    repo.UserRepository
	Follows  repo.FollowRepository
	Logger   *logrus.Logger
	PageSize int
}

func NewFollowService(users repo.UserRepository, follows repo.FollowRepository, logger *logrus.Logger) *FollowService {
	return &FollowService{Users: users, Follows: follows, Logger: logger, PageSize: 20}
}

// Follow makes actingID follow targetID and reports whether an edge was created.
// Following an already followed user is a no-op.
func (s *FollowService) Follow(ctx context.Context, actingID, targetID string) (bool, error) {
	if actingID == targetID {
		return false, ErrSelfFollow
	}
	if err := s.exists(ctx, targetID); err != nil {
		return false, err
	}
	created, err := s.Follows.Create(ctx, actingID, targetID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if created {
		s.Logger.WithFields(logrus.Fields{"follower_id": actingID, "followee_id": targetID}).Debug("follow created")
	}
	return created, nil
}

// Unfollow removes the edge if present and reports whether one was removed.
func (s *FollowService) Unfollow(ctx context.Context, actingID, targetID string) (bool, error) {
	if actingID == targetID {
		return false, ErrSelfFollow
	}
	removed, err := s.Follows.Delete(ctx, actingID, targetID)
	if err != nil {
		return false, err
	}
	if removed {
		s.Logger.WithFields(logrus.Fields{"follower_id": actingID, "followee_id": targetID}).Debug("follow removed")
	}
	return removed, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, actingID, targetID string) (bool, error) {
	if actingID == "" || actingID == targetID {
		return false, nil
	}
	return s.Follows.Exists(ctx, actingID, targetID)
}

// ListFollowers returns users following userID in the order they followed.
func (s *FollowService) ListFollowers(ctx context.Context, userID string, page, pageSize int) (entity.Page[entity.User], error) {
	return s.list(ctx, userID, page, pageSize, s.Follows.Followers)
}

// ListFollowings returns users userID follows in the order they were followed.
func (s *FollowService) ListFollowings(ctx context.Context, userID string, page, pageSize int) (entity.Page[entity.User], error) {
	return s.list(ctx, userID, page, pageSize, s.Follows.Followings)
}

type edgeLister func(ctx context.Context, userID string, offset, limit int) ([]entity.User, int, error)

func (s *FollowService) list(ctx context.Context, userID string, page, pageSize int, fetch edgeLister) (entity.Page[entity.User], error) {
	if err := s.exists(ctx, userID); err != nil {
		return entity.Page[entity.User]{}, err
	}
	page, size, offset := pageWindow(page, pageSize, s.PageSize)
	users, total, err := fetch(ctx, userID, offset, size)
	if err != nil {
		return entity.Page[entity.User]{}, err
	}
	// self edges are rejected on write; filter anyway so a listing never shows its owner
	kept := users[:0]
	for _, u := range users {
		if u.ID != userID {
			kept = append(kept, u)
		}
	}
	return newPage(kept, page, size, total), nil
}

func (s *FollowService) exists(ctx context.Context, id string) error {
	if _, err := s.Users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
