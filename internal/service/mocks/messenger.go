package mocks

import (
	"context"

	"fantamatto_bot/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendText(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

func (m *MockMessenger) SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error {
	args := m.Called(ctx, chatID, fileID, caption)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(event model.FeedEvent) int {
	args := m.Called(event)
	return args.Int(0)
}
