package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fantamatto_bot/internal/metrics"
	"fantamatto_bot/internal/model"
	"fantamatto_bot/internal/repository"
	"fantamatto_bot/pkg/logger"

	"go.uber.org/zap"
)

type SightingService struct {
	repo SightingRepository
	feed Publisher
}

// NewSightingService wires the service. feed may be nil.
func NewSightingService(repo SightingRepository, feed Publisher) *SightingService {
	return &SightingService{
		repo: repo,
		feed: feed,
	}
}

// Select snapshots the chosen target so a later catalog change does not alter
// what the pending photo is worth.
func (s *SightingService) Select(ctx context.Context, mattoID int64, username, firstName string) (*model.PendingReport, error) {
	m, err := s.repo.GetMatto(ctx, mattoID)
	if err != nil {
		if errors.Is(err, repository.ErrMattoNotFound) {
			return nil, ErrMattoNotFound
		}
		return nil, fmt.Errorf("failed to get matto: %w", err)
	}

	return &model.PendingReport{
		MattoID:   m.ID,
		MattoName: m.Name,
		Points:    m.Points,
		Username:  username,
		FirstName: firstName,
	}, nil
}

// Report records the photo for a pending selection and credits the points.
func (s *SightingService) Report(ctx context.Context, chatID int64, pending model.PendingReport, fileID string) (*model.ReportResult, error) {
	sighting := &model.Sighting{
		UserChatID:    chatID,
		MattoID:       pending.MattoID,
		MattoName:     pending.MattoName,
		PointsAwarded: pending.Points,
		FileID:        fileID,
		CreatedAt:     time.Now().UTC(),
	}

	total, err := s.repo.RecordSighting(ctx, sighting)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrMattoNotFound):
			return nil, ErrMattoNotFound
		}
		return nil, fmt.Errorf("failed to record sighting: %w", err)
	}

	metrics.SightingsRecorded.Inc()
	logger.Logger().Info("sighting recorded",
		zap.Int64("chat_id", chatID),
		zap.Int64("sighting_id", sighting.ID),
		zap.String("matto", sighting.MattoName),
		zap.Int("points", sighting.PointsAwarded),
		zap.Int("total_points", total),
	)

	if s.feed != nil {
		s.feed.Publish(model.FeedEvent{
			Type:        model.FeedEventSighting,
			SightingID:  sighting.ID,
			ChatID:      chatID,
			Reporter:    model.DisplayName(chatID, pending.Username, pending.FirstName),
			MattoID:     sighting.MattoID,
			MattoName:   sighting.MattoName,
			Points:      sighting.PointsAwarded,
			TotalPoints: total,
			CreatedAt:   sighting.CreatedAt,
		})
	}

	return &model.ReportResult{
		Sighting:    sighting,
		TotalPoints: total,
	}, nil
}

func (s *SightingService) Delete(ctx context.Context, sightingID int64) (*model.Sighting, error) {
	deleted, err := s.repo.DeleteSighting(ctx, sightingID)
	if err != nil {
		if errors.Is(err, repository.ErrSightingNotFound) {
			return nil, ErrSightingNotFound
		}
		return nil, fmt.Errorf("failed to delete sighting: %w", err)
	}

	metrics.SightingsDeleted.Inc()
	logger.Logger().Info("sighting deleted",
		zap.Int64("sighting_id", deleted.ID),
		zap.Int64("chat_id", deleted.UserChatID),
		zap.Int("points", deleted.PointsAwarded),
	)

	return deleted, nil
}

func (s *SightingService) MattoGallery(ctx context.Context, mattoID int64) (*model.Matto, []*model.MattoSighting, error) {
	m, err := s.repo.GetMatto(ctx, mattoID)
	if err != nil {
		if errors.Is(err, repository.ErrMattoNotFound) {
			return nil, nil, ErrMattoNotFound
		}
		return nil, nil, fmt.Errorf("failed to get matto: %w", err)
	}

	gallery, err := s.repo.GalleryForMatto(ctx, mattoID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get matto gallery: %w", err)
	}

	return m, gallery, nil
}

func (s *SightingService) UserGallery(ctx context.Context, chatID int64) (*model.User, *model.UserGallery, error) {
	user, err := s.repo.GetUser(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	gallery, err := s.repo.GalleryForUser(ctx, chatID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user gallery: %w", err)
	}

	return user, gallery, nil
}
