package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fantamatto_bot/internal/metrics"
	"fantamatto_bot/pkg/logger"

	"go.uber.org/zap"
)

type BroadcastResult struct {
	Sent    int
	Removed []int64
	Failed  int
}

type BroadcastService struct {
	repo      BroadcastRepository
	messenger Messenger
}

func NewBroadcastService(repo BroadcastRepository, messenger Messenger) *BroadcastService {
	return &BroadcastService{
		repo:      repo,
		messenger: messenger,
	}
}

// Broadcast sends text followed by the photo to every registered chat.
// Chats that turn out to be unreachable are unregistered; other failures
// are logged and skipped. Sends happen without holding any store lock.
func (s *BroadcastService) Broadcast(ctx context.Context, text, fileID string) (*BroadcastResult, error) {
	log := logger.Logger()
	started := time.Now()
	defer func() {
		metrics.BroadcastDuration.Observe(time.Since(started).Seconds())
	}()

	ids, err := s.repo.ListRegisteredIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}

	res := &BroadcastResult{}
	for _, chatID := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		err := s.deliver(ctx, chatID, text, fileID)
		switch {
		case err == nil:
			res.Sent++
			metrics.BroadcastMessages.WithLabelValues(metrics.OutcomeSent).Inc()

		case errors.Is(err, ErrRecipientUnreachable):
			metrics.BroadcastMessages.WithLabelValues(metrics.OutcomeUnreachable).Inc()
			log.Info("unregistering unreachable user", zap.Int64("chat_id", chatID), zap.Error(err))

			if err := s.repo.SetRegistered(ctx, chatID, false); err != nil {
				log.Error("failed to unregister user", zap.Int64("chat_id", chatID), zap.Error(err))
				continue
			}
			metrics.UsersUnregistered.Inc()
			res.Removed = append(res.Removed, chatID)

		default:
			res.Failed++
			metrics.BroadcastMessages.WithLabelValues(metrics.OutcomeFailed).Inc()
			log.Error("failed to deliver broadcast", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}

	return res, nil
}

func (s *BroadcastService) deliver(ctx context.Context, chatID int64, text, fileID string) error {
	if err := s.messenger.SendText(ctx, chatID, text); err != nil {
		return err
	}
	if fileID == "" {
		return nil
	}
	return s.messenger.SendPhoto(ctx, chatID, fileID, "")
}
