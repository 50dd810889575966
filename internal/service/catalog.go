package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fantamatto_bot/internal/catalog"
	"fantamatto_bot/internal/metrics"
	"fantamatto_bot/internal/model"
	"fantamatto_bot/internal/repository"
)

type ReloadResult struct {
	Loaded  int
	Skipped []catalog.SkippedLine
}

type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Reload parses r and replaces the catalog with it. Every sighting and every
// user's points are wiped in the process.
func (s *CatalogService) Reload(ctx context.Context, r io.Reader) (*ReloadResult, error) {
	parsed, err := catalog.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	n, err := s.repo.ReloadCatalog(ctx, parsed.Entries)
	if err != nil {
		return nil, fmt.Errorf("failed to reload catalog: %w", err)
	}

	metrics.CatalogReloads.Inc()

	return &ReloadResult{
		Loaded:  n,
		Skipped: parsed.Skipped,
	}, nil
}

func (s *CatalogService) List(ctx context.Context) ([]*model.Matto, error) {
	matti, err := s.repo.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	return matti, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*model.Matto, error) {
	m, err := s.repo.GetMatto(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMattoNotFound) {
			return nil, ErrMattoNotFound
		}
		return nil, fmt.Errorf("failed to get matto: %w", err)
	}
	return m, nil
}
