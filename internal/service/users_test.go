package service

import (
	"context"
	"errors"
	"testing"

	"fantamatto_bot/internal/model"
	"fantamatto_bot/internal/repository"
	"fantamatto_bot/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserService_Start(t *testing.T) {
	mockRepo := &mocks.MockUserRepository{}
	service := NewUserService(mockRepo, "secret")

	mockRepo.On("UpsertUser", mock.Anything, &model.User{ChatID: 1, Username: "mario", FirstName: "Mario"}).
		Return(nil)
	mockRepo.On("GetUser", mock.Anything, int64(1)).
		Return(&model.User{ChatID: 1, Username: "mario", Registered: true, TotalPoints: 30}, nil)

	user, err := service.Start(context.Background(), 1, "mario", "Mario")
	assert.NoError(t, err)
	assert.True(t, user.Registered)
	assert.Equal(t, 30, user.TotalPoints)

	mockRepo.On("UpsertUser", mock.Anything, &model.User{ChatID: 2}).
		Return(errors.New("db down"))

	_, err = service.Start(context.Background(), 2, "", "")
	assert.ErrorContains(t, err, "db down")

	mockRepo.AssertExpectations(t)
}

func TestUserService_Register(t *testing.T) {
	mockRepo := &mocks.MockUserRepository{}
	service := NewUserService(mockRepo, "fantamattopwd")

	tests := []struct {
		name          string
		chatID        int64
		password      string
		mockSetup     func()
		expectedError error
	}{
		{
			name:          "Wrong password",
			chatID:        1,
			password:      "nope",
			mockSetup:     func() {},
			expectedError: ErrWrongPassword,
		},
		{
			name:     "Correct password with surrounding spaces",
			chatID:   2,
			password: "  fantamattopwd \n",
			mockSetup: func() {
				mockRepo.On("SetRegistered", mock.Anything, int64(2), true).Return(nil)
			},
		},
		{
			name:     "Unknown chat",
			chatID:   3,
			password: "fantamattopwd",
			mockSetup: func() {
				mockRepo.On("SetRegistered", mock.Anything, int64(3), true).Return(repository.ErrNotFound)
			},
			expectedError: ErrUserNotFound,
		},
		{
			name:          "Case matters",
			chatID:        4,
			password:      "FantamattoPWD",
			mockSetup:     func() {},
			expectedError: ErrWrongPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			err := service.Register(context.Background(), tt.chatID, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
		})
	}

	mockRepo.AssertNotCalled(t, "SetRegistered", mock.Anything, int64(1), true)
	mockRepo.AssertExpectations(t)
}

func TestUserService_IsRegistered(t *testing.T) {
	mockRepo := &mocks.MockUserRepository{}
	service := NewUserService(mockRepo, "pwd")

	mockRepo.On("GetUser", mock.Anything, int64(1)).Return(&model.User{ChatID: 1, Registered: true}, nil)
	mockRepo.On("GetUser", mock.Anything, int64(2)).Return(nil, repository.ErrNotFound)
	mockRepo.On("GetUser", mock.Anything, int64(3)).Return(nil, errors.New("boom"))

	ok, err := service.IsRegistered(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.IsRegistered(context.Background(), 2)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = service.IsRegistered(context.Background(), 3)
	assert.Error(t, err)
}

func TestUserService_Standing(t *testing.T) {
	mockRepo := &mocks.MockUserRepository{}
	service := NewUserService(mockRepo, "pwd")

	mockRepo.On("RankAndPoints", mock.Anything, int64(1)).
		Return(&model.Standing{ChatID: 1, TotalPoints: 50, Rank: 1}, nil)
	mockRepo.On("RankAndPoints", mock.Anything, int64(2)).
		Return(nil, repository.ErrNotFound)

	standing, err := service.Standing(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, standing.Rank)

	_, err = service.Standing(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestUserService_Leaderboard(t *testing.T) {
	mockRepo := &mocks.MockUserRepository{}
	service := NewUserService(mockRepo, "pwd")

	board := []*model.User{{ChatID: 1, TotalPoints: 10}, {ChatID: 2, TotalPoints: 5}}
	mockRepo.On("Leaderboard", mock.Anything, 0).Return(board, nil)
	mockRepo.On("ListRegisteredUsers", mock.Anything).Return(nil, errors.New("boom"))

	users, err := service.Leaderboard(context.Background(), 0)
	assert.NoError(t, err)
	assert.Equal(t, board, users)

	_, err = service.ListRegistered(context.Background())
	assert.ErrorContains(t, err, "failed to list registered users")
}
