package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fantamatto_bot/internal/model"
	"fantamatto_bot/pkg/logger"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Matto struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	Points int    `db:"points"`
}

func (m *Matto) toModel() *model.Matto {
	return &model.Matto{ID: m.ID, Name: m.Name, Points: m.Points}
}

// ReloadCatalog replaces the whole catalog. This is destructive and cannot be
// undone: every sighting is deleted and every user's total is reset to zero
// in the same transaction that swaps the targets.
//
// Entries are deduplicated by exact name, first occurrence wins.
func (r *Repository) ReloadCatalog(ctx context.Context, entries []model.CatalogEntry) (int, error) {
	log := logger.Logger()

	seen := make(map[string]struct{}, len(entries))
	unique := make([]model.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Name]; ok {
			log.Warn("duplicate matto name dropped", zap.String("name", e.Name), zap.Int("points", e.Points))
			continue
		}
		seen[e.Name] = struct{}{}
		unique = append(unique, e)
	}

	r.Lock()
	defer r.Unlock()

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		// Sightings go first so no foreign key ever points at a deleted matto.
		for _, table := range []string{"sightings", "matti"} {
			query, args, err := r.sb.Delete(table).ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		resetQuery, resetArgs, err := r.sb.
			Update("users").
			Set("total_points", 0).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, resetQuery, resetArgs...); err != nil {
			return fmt.Errorf("failed to reset points: %w", err)
		}

		if len(unique) == 0 {
			return nil
		}

		builder := r.sb.
			Insert("matti").
			Columns("name", "points")
		for _, e := range unique {
			builder = builder.Values(e.Name, e.Points)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build matti insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert matti: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info("catalog reloaded", zap.Int("matti", len(unique)))

	return len(unique), nil
}

// ListCatalog orders by points descending, then name.
func (r *Repository) ListCatalog(ctx context.Context) ([]*model.Matto, error) {
	r.Lock()
	defer r.Unlock()

	query, args, err := r.sb.
		Select("id", "name", "points").
		From("matti").
		OrderBy("points DESC", "name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []Matto
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matti: %w", err)
	}

	matti := make([]*model.Matto, len(rows))
	for i := range rows {
		matti[i] = rows[i].toModel()
	}

	return matti, nil
}

func (r *Repository) GetMatto(ctx context.Context, id int64) (*model.Matto, error) {
	r.Lock()
	defer r.Unlock()

	return r.getMatto(ctx, r.db, id)
}

func (r *Repository) getMatto(ctx context.Context, q sqlx.QueryerContext, id int64) (*model.Matto, error) {
	query, args, err := r.sb.
		Select("id", "name", "points").
		From("matti").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var m Matto
	err = sqlx.GetContext(ctx, q, &m, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMattoNotFound
		}
		return nil, err
	}

	return m.toModel(), nil
}
