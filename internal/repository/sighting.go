package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fantamatto_bot/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Sighting struct {
	ID            int64     `db:"id"`
	UserChatID    int64     `db:"user_chat_id"`
	MattoID       int64     `db:"matto_id"`
	MattoName     string    `db:"matto_name"`
	PointsAwarded int       `db:"points_awarded"`
	FileID        string    `db:"file_id"`
	CreatedAt     time.Time `db:"created_at"`
}

func (s *Sighting) toModel() *model.Sighting {
	return &model.Sighting{
		ID:            s.ID,
		UserChatID:    s.UserChatID,
		MattoID:       s.MattoID,
		MattoName:     s.MattoName,
		PointsAwarded: s.PointsAwarded,
		FileID:        s.FileID,
		CreatedAt:     s.CreatedAt,
	}
}

type mattoSighting struct {
	SightingID int64          `db:"sighting_id"`
	FileID     string         `db:"file_id"`
	CreatedAt  time.Time      `db:"created_at"`
	ChatID     int64          `db:"chat_id"`
	Username   sql.NullString `db:"username"`
	FirstName  sql.NullString `db:"first_name"`
}

type userSighting struct {
	SightingID    int64     `db:"sighting_id"`
	FileID        string    `db:"file_id"`
	CreatedAt     time.Time `db:"created_at"`
	PointsAwarded int       `db:"points_awarded"`
	GroupName     string    `db:"group_name"`
}

var sightingColumns = []string{"id", "user_chat_id", "matto_id", "matto_name", "points_awarded", "file_id", "created_at"}

// RecordSighting stores the sighting and credits its points to the reporter
// atomically. It fills in s.ID and s.CreatedAt and returns the new total.
func (r *Repository) RecordSighting(ctx context.Context, s *model.Sighting) (int, error) {
	r.Lock()
	defer r.Unlock()

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	var total int
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := r.sb.
			Update("users").
			Set("total_points", squirrel.Expr("total_points + ?", s.PointsAwarded)).
			Where(squirrel.Eq{"chat_id": s.UserChatID}).
			ToSql()
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to credit points: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}

		if _, err := r.getMatto(ctx, tx, s.MattoID); err != nil {
			return err
		}

		query, args, err = r.sb.
			Insert("sightings").
			Columns("user_chat_id", "matto_id", "matto_name", "points_awarded", "file_id", "created_at").
			Values(s.UserChatID, s.MattoID, s.MattoName, s.PointsAwarded, s.FileID, s.CreatedAt).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build sighting insert query: %w", err)
		}

		err = tx.QueryRowxContext(ctx, query, args...).Scan(&s.ID)
		if err != nil {
			return fmt.Errorf("failed to insert sighting: %w", err)
		}

		query, args, err = r.sb.
			Select("total_points").
			From("users").
			Where(squirrel.Eq{"chat_id": s.UserChatID}).
			ToSql()
		if err != nil {
			return err
		}

		return tx.GetContext(ctx, &total, query, args...)
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

// DeleteSighting removes a sighting and takes back exactly the points it
// awarded. The deleted row is returned.
func (r *Repository) DeleteSighting(ctx context.Context, id int64) (*model.Sighting, error) {
	r.Lock()
	defer r.Unlock()

	var deleted Sighting
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := r.sb.
			Select(sightingColumns...).
			From("sightings").
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &deleted, query, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSightingNotFound
			}
			return err
		}

		query, args, err = r.sb.
			Delete("sightings").
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to delete sighting: %w", err)
		}

		query, args, err = r.sb.
			Update("users").
			Set("total_points", squirrel.Expr("total_points - ?", deleted.PointsAwarded)).
			Where(squirrel.Eq{"chat_id": deleted.UserChatID}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to revoke points: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return deleted.toModel(), nil
}

// GalleryForMatto lists every sighting of a target, newest first.
func (r *Repository) GalleryForMatto(ctx context.Context, mattoID int64) ([]*model.MattoSighting, error) {
	r.Lock()
	defer r.Unlock()

	query, args, err := r.sb.
		Select(
			"s.id AS sighting_id",
			"s.file_id",
			"s.created_at",
			"u.chat_id",
			"u.username",
			"u.first_name",
		).
		From("sightings s").
		Join("users u ON u.chat_id = s.user_chat_id").
		Where(squirrel.Eq{"s.matto_id": mattoID}).
		OrderBy("s.created_at DESC", "s.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []mattoSighting
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get matto gallery: %w", err)
	}

	gallery := make([]*model.MattoSighting, len(rows))
	for i, row := range rows {
		gallery[i] = &model.MattoSighting{
			SightingID: row.SightingID,
			FileID:     row.FileID,
			CreatedAt:  row.CreatedAt,
			ChatID:     row.ChatID,
			Username:   row.Username.String,
			FirstName:  row.FirstName.String,
		}
	}

	return gallery, nil
}

// GalleryForUser groups a user's sightings by target. Sightings whose target
// is gone fall back to the name recorded at submission time.
func (r *Repository) GalleryForUser(ctx context.Context, chatID int64) (*model.UserGallery, error) {
	r.Lock()
	defer r.Unlock()

	query, args, err := r.sb.
		Select(
			"s.id AS sighting_id",
			"s.file_id",
			"s.created_at",
			"s.points_awarded",
			"COALESCE(m.name, NULLIF(s.matto_name, ''), 'unknown') AS group_name",
		).
		From("sightings s").
		LeftJoin("matti m ON m.id = s.matto_id").
		Where(squirrel.Eq{"s.user_chat_id": chatID}).
		OrderBy("s.created_at DESC", "s.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []userSighting
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get user gallery: %w", err)
	}

	gallery := &model.UserGallery{ChatID: chatID}
	groups := make(map[string]*model.GalleryGroup)
	for _, row := range rows {
		g, ok := groups[row.GroupName]
		if !ok {
			g = &model.GalleryGroup{MattoName: row.GroupName}
			groups[row.GroupName] = g
			gallery.Groups = append(gallery.Groups, g)
		}
		g.Count++
		g.TotalPoints += row.PointsAwarded
		g.Photos = append(g.Photos, model.GalleryPhoto{
			SightingID: row.SightingID,
			FileID:     row.FileID,
			CreatedAt:  row.CreatedAt,
		})
	}

	return gallery, nil
}
