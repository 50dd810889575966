package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fantamatto_bot/internal/model"

	"github.com/Masterminds/squirrel"
)

type User struct {
	ChatID      int64          `db:"chat_id"`
	Username    sql.NullString `db:"username"`
	FirstName   sql.NullString `db:"first_name"`
	Registered  bool           `db:"registered"`
	TotalPoints int            `db:"total_points"`
	CreatedAt   time.Time      `db:"created_at"`
}

type standing struct {
	ChatID      int64 `db:"chat_id"`
	TotalPoints int   `db:"total_points"`
	Rank        int   `db:"user_rank"`
}

var userColumns = []string{"chat_id", "username", "first_name", "registered", "total_points", "created_at"}

func (u *User) toModel() *model.User {
	return &model.User{
		ChatID:      u.ChatID,
		Username:    u.Username.String,
		FirstName:   u.FirstName.String,
		Registered:  u.Registered,
		TotalPoints: u.TotalPoints,
		CreatedAt:   u.CreatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// UpsertUser inserts the user if absent. An existing row is left untouched,
// including its registration flag and points.
func (r *Repository) UpsertUser(ctx context.Context, user *model.User) error {
	r.Lock()
	defer r.Unlock()

	query, args, err := r.sb.
		Insert("users").
		SetMap(map[string]interface{}{
			"chat_id":    user.ChatID,
			"username":   nullString(user.Username),
			"first_name": nullString(user.FirstName),
			"created_at": time.Now().UTC(),
		}).
		Suffix("ON CONFLICT (chat_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *Repository) GetUser(ctx context.Context, chatID int64) (*model.User, error) {
	r.Lock()
	defer r.Unlock()

	var user User
	query, args, err := r.sb.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"chat_id": chatID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) SetRegistered(ctx context.Context, chatID int64, registered bool) error {
	r.Lock()
	defer r.Unlock()

	query, args, err := r.sb.
		Update("users").
		Set("registered", registered).
		Where(squirrel.Eq{"chat_id": chatID}).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListRegisteredUsers orders by display name, case-insensitively.
func (r *Repository) ListRegisteredUsers(ctx context.Context) ([]*model.User, error) {
	r.Lock()
	defer r.Unlock()

	query, args, err := r.sb.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"registered": true}).
		OrderBy("LOWER(COALESCE(NULLIF(username, ''), first_name, '')) ASC", "chat_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var users []User
	err = r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered users: %w", err)
	}

	return toModels(users), nil
}

func (r *Repository) ListRegisteredIDs(ctx context.Context) ([]int64, error) {
	r.Lock()
	defer r.Unlock()

	query, args, err := r.sb.
		Select("chat_id").
		From("users").
		Where(squirrel.Eq{"registered": true}).
		OrderBy("chat_id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	ids := []int64{}
	err = r.db.SelectContext(ctx, &ids, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered ids: %w", err)
	}

	return ids, nil
}

// Leaderboard returns registered users by points, ties broken by chat id.
// A non-positive limit returns everyone.
func (r *Repository) Leaderboard(ctx context.Context, limit int) ([]*model.User, error) {
	r.Lock()
	defer r.Unlock()

	builder := r.sb.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"registered": true}).
		OrderBy("total_points DESC", "chat_id ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var users []User
	err = r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return toModels(users), nil
}

// RankAndPoints ranks a registered user as 1 + the number of other registered
// users with strictly more points, so ties share a rank.
func (r *Repository) RankAndPoints(ctx context.Context, chatID int64) (*model.Standing, error) {
	r.Lock()
	defer r.Unlock()

	query, args, err := r.sb.
		Select(
			"u1.chat_id",
			"u1.total_points",
			"(SELECT COUNT(*) + 1 FROM users u2"+
				" WHERE u2.registered = TRUE"+
				" AND u2.total_points > u1.total_points"+
				" AND u2.chat_id <> u1.chat_id) AS user_rank",
		).
		From("users u1").
		Where(squirrel.Eq{"u1.chat_id": chatID, "u1.registered": true}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var s standing
	err = r.db.GetContext(ctx, &s, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rank: %w", err)
	}

	return &model.Standing{
		ChatID:      s.ChatID,
		TotalPoints: s.TotalPoints,
		Rank:        s.Rank,
	}, nil
}

func toModels(users []User) []*model.User {
	out := make([]*model.User, len(users))
	for i := range users {
		out[i] = users[i].toModel()
	}
	return out
}
