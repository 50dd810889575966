package repository

import (
	"context"
	"testing"
	"time"

	"fantamatto_bot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_ReloadCatalog(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	old := seedCatalog(t, repo, model.CatalogEntry{Name: "Vecchio", Points: 40})
	seedUser(t, repo, 1, "mario", true)
	seedUser(t, repo, 2, "luigi", true)
	record(t, repo, 1, old[0], "f1", time.Now().UTC())
	record(t, repo, 2, old[0], "f2", time.Now().UTC())

	n, err := repo.ReloadCatalog(ctx, []model.CatalogEntry{
		{Name: "A", Points: 10},
		{Name: "B", Points: 3},
		{Name: "A", Points: 99},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	matti, err := repo.ListCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, matti, 2)
	assert.Equal(t, "A", matti[0].Name)
	assert.Equal(t, 10, matti[0].Points)
	assert.Equal(t, "B", matti[1].Name)
	assert.Equal(t, 3, matti[1].Points)

	for _, id := range []int64{1, 2} {
		user, err := repo.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 0, user.TotalPoints)
		assert.True(t, user.Registered)

		gallery, err := repo.GalleryForUser(ctx, id)
		require.NoError(t, err)
		assert.True(t, gallery.Empty())
	}

	_, err = repo.GetMatto(ctx, old[0].ID)
	assert.ErrorIs(t, err, ErrMattoNotFound)
}

func TestRepository_ReloadCatalog_Empty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedCatalog(t, repo, model.CatalogEntry{Name: "A", Points: 1})

	n, err := repo.ReloadCatalog(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	matti, err := repo.ListCatalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, matti)
}

func TestRepository_ListCatalog_Order(t *testing.T) {
	repo := newTestRepo(t)

	matti := seedCatalog(t, repo,
		model.CatalogEntry{Name: "zorro", Points: 5},
		model.CatalogEntry{Name: "alfa", Points: 5},
		model.CatalogEntry{Name: "top", Points: 50},
	)

	names := make([]string, len(matti))
	for i, m := range matti {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"top", "alfa", "zorro"}, names)
}

func TestRepository_GetMatto(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	matti := seedCatalog(t, repo, model.CatalogEntry{Name: "Gino", Points: 20})

	m, err := repo.GetMatto(ctx, matti[0].ID)
	require.NoError(t, err)
	assert.Equal(t, &model.Matto{ID: matti[0].ID, Name: "Gino", Points: 20}, m)

	_, err = repo.GetMatto(ctx, matti[0].ID+1)
	assert.ErrorIs(t, err, ErrMattoNotFound)
}
