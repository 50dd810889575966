package mocks

import (
	"context"

	"fantamatto_bot/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) UpsertUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(ctx context.Context, chatID int64) (*model.User, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) SetRegistered(ctx context.Context, chatID int64, registered bool) error {
	args := m.Called(ctx, chatID, registered)
	return args.Error(0)
}

func (m *MockUserRepository) ListRegisteredUsers(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) Leaderboard(ctx context.Context, limit int) ([]*model.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) RankAndPoints(ctx context.Context, chatID int64) (*model.Standing, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Standing), args.Error(1)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ReloadCatalog(ctx context.Context, entries []model.CatalogEntry) (int, error) {
	args := m.Called(ctx, entries)
	return args.Int(0), args.Error(1)
}

func (m *MockCatalogRepository) ListCatalog(ctx context.Context) ([]*model.Matto, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Matto), args.Error(1)
}

func (m *MockCatalogRepository) GetMatto(ctx context.Context, id int64) (*model.Matto, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Matto), args.Error(1)
}

type MockSightingRepository struct {
	mock.Mock
}

func (m *MockSightingRepository) GetUser(ctx context.Context, chatID int64) (*model.User, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockSightingRepository) GetMatto(ctx context.Context, id int64) (*model.Matto, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Matto), args.Error(1)
}

func (m *MockSightingRepository) RecordSighting(ctx context.Context, s *model.Sighting) (int, error) {
	args := m.Called(ctx, s)
	return args.Int(0), args.Error(1)
}

func (m *MockSightingRepository) DeleteSighting(ctx context.Context, id int64) (*model.Sighting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sighting), args.Error(1)
}

func (m *MockSightingRepository) GalleryForMatto(ctx context.Context, mattoID int64) ([]*model.MattoSighting, error) {
	args := m.Called(ctx, mattoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MattoSighting), args.Error(1)
}

func (m *MockSightingRepository) GalleryForUser(ctx context.Context, chatID int64) (*model.UserGallery, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserGallery), args.Error(1)
}

type MockBroadcastRepository struct {
	mock.Mock
}

func (m *MockBroadcastRepository) ListRegisteredIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockBroadcastRepository) SetRegistered(ctx context.Context, chatID int64, registered bool) error {
	args := m.Called(ctx, chatID, registered)
	return args.Error(0)
}
