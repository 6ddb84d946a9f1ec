package repository

import (
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/testutil"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLikeRepositoryLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	movies := seedCatalog(t, db, 2)
	u := testutil.SeedUser(t, db, "u@x.io", model.RoleUser)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	_, err := repo.Find(ctx, movies[0].ID, u.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Create(ctx, &model.MovieUserLike{MovieID: movies[0].ID, UserID: u.ID, IsLike: false}))
	like, err := repo.FindForUpdate(ctx, movies[0].ID, u.ID)
	require.NoError(t, err)
	assert.False(t, like.IsLike)

	require.NoError(t, repo.SetIsLike(ctx, movies[0].ID, u.ID, true))
	like, err = repo.Find(ctx, movies[0].ID, u.ID)
	require.NoError(t, err)
	assert.True(t, like.IsLike)

	require.NoError(t, repo.Create(ctx, &model.MovieUserLike{MovieID: movies[1].ID, UserID: u.ID, IsLike: false}))
	all, err := repo.FindByUserAndMovies(ctx, u.ID, []uint64{movies[0].ID, movies[1].ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.Delete(ctx, movies[0].ID, u.ID))
	_, err = repo.Find(ctx, movies[0].ID, u.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
