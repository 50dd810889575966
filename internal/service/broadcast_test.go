package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fantamatto_bot/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBroadcastService_Broadcast(t *testing.T) {
	mockRepo := &mocks.MockBroadcastRepository{}
	mockMessenger := &mocks.MockMessenger{}
	service := NewBroadcastService(mockRepo, mockMessenger)

	blocked := fmt.Errorf("telegram: Forbidden: bot was blocked by the user: %w", ErrRecipientUnreachable)

	mockRepo.On("ListRegisteredIDs", mock.Anything).Return([]int64{1, 2, 3}, nil)

	mockMessenger.On("SendText", mock.Anything, int64(1), "hello").Return(nil)
	mockMessenger.On("SendPhoto", mock.Anything, int64(1), "photo", "").Return(nil)

	mockMessenger.On("SendText", mock.Anything, int64(2), "hello").Return(blocked)
	mockRepo.On("SetRegistered", mock.Anything, int64(2), false).Return(nil)

	mockMessenger.On("SendText", mock.Anything, int64(3), "hello").Return(nil)
	mockMessenger.On("SendPhoto", mock.Anything, int64(3), "photo", "").Return(errors.New("timeout"))

	res, err := service.Broadcast(context.Background(), "hello", "photo")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, []int64{2}, res.Removed)
	assert.Equal(t, 1, res.Failed)

	mockRepo.AssertExpectations(t)
	mockMessenger.AssertExpectations(t)
	mockMessenger.AssertNotCalled(t, "SendPhoto", mock.Anything, int64(2), mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "SetRegistered", mock.Anything, int64(3), false)
}

func TestBroadcastService_Broadcast_TextOnly(t *testing.T) {
	mockRepo := &mocks.MockBroadcastRepository{}
	mockMessenger := &mocks.MockMessenger{}
	service := NewBroadcastService(mockRepo, mockMessenger)

	mockRepo.On("ListRegisteredIDs", mock.Anything).Return([]int64{1}, nil)
	mockMessenger.On("SendText", mock.Anything, int64(1), "news").Return(nil)

	res, err := service.Broadcast(context.Background(), "news", "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	mockMessenger.AssertNotCalled(t, "SendPhoto", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBroadcastService_Broadcast_ListError(t *testing.T) {
	mockRepo := &mocks.MockBroadcastRepository{}
	service := NewBroadcastService(mockRepo, &mocks.MockMessenger{})

	mockRepo.On("ListRegisteredIDs", mock.Anything).Return(nil, errors.New("boom"))

	_, err := service.Broadcast(context.Background(), "x", "")
	assert.ErrorContains(t, err, "failed to list recipients")
}

func TestBroadcastService_Broadcast_Cancelled(t *testing.T) {
	mockRepo := &mocks.MockBroadcastRepository{}
	service := NewBroadcastService(mockRepo, &mocks.MockMessenger{})

	mockRepo.On("ListRegisteredIDs", mock.Anything).Return([]int64{1, 2}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := service.Broadcast(ctx, "x", "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Sent)
}
