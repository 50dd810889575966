package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fantamatto_bot/internal/model"
	"fantamatto_bot/internal/repository"
)

type UserService struct {
	repo     UserRepository
	password string
}

func NewUserService(repo UserRepository, registrationPassword string) *UserService {
	return &UserService{
		repo:     repo,
		password: registrationPassword,
	}
}

// Start records the first contact of a chat and returns its current row.
func (s *UserService) Start(ctx context.Context, chatID int64, username, firstName string) (*model.User, error) {
	err := s.repo.UpsertUser(ctx, &model.User{
		ChatID:    chatID,
		Username:  username,
		FirstName: firstName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return s.GetUser(ctx, chatID)
}

// Register checks the password and marks the chat registered. There is no
// attempt limit.
func (s *UserService) Register(ctx context.Context, chatID int64, password string) error {
	if strings.TrimSpace(password) != s.password {
		return ErrWrongPassword
	}

	err := s.repo.SetRegistered(ctx, chatID, true)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to register user: %w", err)
	}

	return nil
}

func (s *UserService) GetUser(ctx context.Context, chatID int64) (*model.User, error) {
	user, err := s.repo.GetUser(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) IsRegistered(ctx context.Context, chatID int64) (bool, error) {
	user, err := s.GetUser(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Registered, nil
}

func (s *UserService) Standing(ctx context.Context, chatID int64) (*model.Standing, error) {
	standing, err := s.repo.RankAndPoints(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, fmt.Errorf("failed to get standing: %w", err)
	}
	return standing, nil
}

func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]*model.User, error) {
	users, err := s.repo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return users, nil
}

func (s *UserService) ListRegistered(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.ListRegisteredUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered users: %w", err)
	}
	return users, nil
}
