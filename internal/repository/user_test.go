package repository

import (
	"context"
	"testing"

	"fantamatto_bot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_UpsertUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertUser(ctx, &model.User{ChatID: 42, Username: "mario", FirstName: "Mario"}))
	require.NoError(t, repo.SetRegistered(ctx, 42, true))

	// A second contact with different names changes nothing.
	require.NoError(t, repo.UpsertUser(ctx, &model.User{ChatID: 42, Username: "other"}))

	user, err := repo.GetUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "mario", user.Username)
	assert.Equal(t, "Mario", user.FirstName)
	assert.True(t, user.Registered)
	assert.Equal(t, 0, user.TotalPoints)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRepository_GetUser_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetUser(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_SetRegistered(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.SetRegistered(ctx, 7, true), ErrNotFound)

	seedUser(t, repo, 7, "", false)
	require.NoError(t, repo.SetRegistered(ctx, 7, true))
	require.NoError(t, repo.SetRegistered(ctx, 7, true))

	user, err := repo.GetUser(ctx, 7)
	require.NoError(t, err)
	assert.True(t, user.Registered)

	require.NoError(t, repo.SetRegistered(ctx, 7, false))
	user, err = repo.GetUser(ctx, 7)
	require.NoError(t, err)
	assert.False(t, user.Registered)
}

func TestRepository_ListRegistered(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedUser(t, repo, 3, "zeta", true)
	seedUser(t, repo, 1, "Alpha", true)
	seedUser(t, repo, 2, "beta", false)
	require.NoError(t, repo.UpsertUser(ctx, &model.User{ChatID: 4, FirstName: "carla"}))
	require.NoError(t, repo.SetRegistered(ctx, 4, true))

	users, err := repo.ListRegisteredUsers(ctx)
	require.NoError(t, err)

	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.DisplayName()
	}
	assert.Equal(t, []string{"@Alpha", "carla", "@zeta"}, names)

	ids, err := repo.ListRegisteredIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 4}, ids)
}

func TestRepository_ListRegisteredIDs_Empty(t *testing.T) {
	repo := newTestRepo(t)

	ids, err := repo.ListRegisteredIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRepository_LeaderboardAndRank(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	matti := seedCatalog(t, repo,
		model.CatalogEntry{Name: "big", Points: 50},
		model.CatalogEntry{Name: "small", Points: 30},
	)
	big := mattoByName(t, matti, "big")
	small := mattoByName(t, matti, "small")

	seedUser(t, repo, 20, "b", true)
	seedUser(t, repo, 10, "a", true)
	seedUser(t, repo, 30, "c", true)
	seedUser(t, repo, 40, "d", false)

	report := func(chatID int64, m *model.Matto) {
		_, err := repo.RecordSighting(ctx, &model.Sighting{
			UserChatID:    chatID,
			MattoID:       m.ID,
			MattoName:     m.Name,
			PointsAwarded: m.Points,
			FileID:        "file",
		})
		require.NoError(t, err)
	}
	report(20, big)
	report(10, big)
	report(30, small)
	report(40, big)
	report(40, big)

	board, err := repo.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, int64(10), board[0].ChatID)
	assert.Equal(t, int64(20), board[1].ChatID)
	assert.Equal(t, int64(30), board[2].ChatID)

	top, err := repo.Leaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(10), top[0].ChatID)

	tests := []struct {
		chatID int64
		rank   int
		points int
	}{
		{10, 1, 50},
		{20, 1, 50},
		{30, 3, 30},
	}
	for _, tt := range tests {
		s, err := repo.RankAndPoints(ctx, tt.chatID)
		require.NoError(t, err)
		assert.Equal(t, tt.rank, s.Rank, "chat %d", tt.chatID)
		assert.Equal(t, tt.points, s.TotalPoints, "chat %d", tt.chatID)
	}

	_, err = repo.RankAndPoints(ctx, 40)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.RankAndPoints(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
