package repository

import (
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/testutil"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T, db *gorm.DB, n int) []*model.Movie {
	t.Helper()
	d := testutil.SeedDirector(t, db, "Bong")
	g := testutil.SeedGenre(t, db, "drama")
	movies := make([]*model.Movie, 0, n)
	for i := 1; i <= n; i++ {
		movies = append(movies, testutil.SeedMovie(t, db, fmt.Sprintf("movie %d", i), d.ID, *g))
	}
	return movies
}

func titles(movies []model.Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Title)
	}
	return out
}

func TestFindPageWalksCursorDescending(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedCatalog(t, db, 5)
	repo := NewMovieRepository(db, nil)
	ctx := context.Background()

	q := MovieQuery{Orders: []OrderBy{{Column: "id", Desc: true}}, Take: 2}
	page, count, err := repo.FindPage(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.Equal(t, []string{"movie 5", "movie 4"}, titles(page))
	require.Len(t, page[0].Genres, 1)
	assert.Equal(t, "Bong", page[0].Director.Name)

	q.After = map[string]any{"id": page[1].ID}
	page, _, err = repo.FindPage(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"movie 3", "movie 2"}, titles(page))

	q.After = map[string]any{"id": page[1].ID}
	page, _, err = repo.FindPage(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"movie 1"}, titles(page))
}

func TestFindPageCompositeCursor(t *testing.T) {
	db := testutil.NewTestDB(t)
	movies := seedCatalog(t, db, 4)
	require.NoError(t, db.Model(&model.Movie{}).Where("id = ?", movies[0].ID).Update("like_count", 3).Error)
	require.NoError(t, db.Model(&model.Movie{}).Where("id = ?", movies[2].ID).Update("like_count", 3).Error)
	repo := NewMovieRepository(db, nil)

	q := MovieQuery{
		Orders: []OrderBy{{Column: "like_count", Desc: true}, {Column: "id", Desc: true}},
		Take:   2,
	}
	page, _, err := repo.FindPage(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"movie 3", "movie 1"}, titles(page))

	q.After = map[string]any{"like_count": page[1].LikeCount, "id": page[1].ID}
	page, _, err = repo.FindPage(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"movie 4", "movie 2"}, titles(page))
}

func TestFindPageMixedDirections(t *testing.T) {
	db := testutil.NewTestDB(t)
	movies := seedCatalog(t, db, 4)
	for i, likes := range []int{5, 5, 3, 5} {
		require.NoError(t, db.Model(&model.Movie{}).Where("id = ?", movies[i].ID).Update("like_count", likes).Error)
	}
	repo := NewMovieRepository(db, nil)

	q := MovieQuery{
		Orders: []OrderBy{{Column: "like_count", Desc: true}, {Column: "id"}},
		Take:   1,
	}
	var walked []string
	for i := 0; i < 10; i++ {
		page, _, err := repo.FindPage(context.Background(), q)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		walked = append(walked, titles(page)...)
		last := page[len(page)-1]
		q.After = map[string]any{"like_count": last.LikeCount, "id": last.ID}
	}
	assert.Equal(t, []string{"movie 1", "movie 2", "movie 4", "movie 3"}, walked)
}

func TestKeysetCondition(t *testing.T) {
	cond, args := keysetCondition(
		[]OrderBy{{Column: "like_count", Desc: true}, {Column: "id"}},
		map[string]any{"like_count": int64(5), "id": int64(2)},
	)
	assert.Equal(t, "((movies.like_count < ?) OR (movies.like_count = ? AND movies.id > ?))", cond)
	assert.Equal(t, []any{int64(5), int64(5), int64(2)}, args)

	cond, args = keysetCondition([]OrderBy{{Column: "id"}}, nil)
	assert.Empty(t, cond)
	assert.Nil(t, args)
}

func TestFindPageFiltersByTitle(t *testing.T) {
	db := testutil.NewTestDB(t)
	d := testutil.SeedDirector(t, db, "Park")
	g := testutil.SeedGenre(t, db, "thriller")
	testutil.SeedMovie(t, db, "Oldboy", d.ID, *g)
	testutil.SeedMovie(t, db, "The Handmaiden", d.ID, *g)
	testutil.SeedMovie(t, db, "Old Garden", d.ID, *g)
	repo := NewMovieRepository(db, nil)

	page, count, err := repo.FindPage(context.Background(), MovieQuery{
		Title:  "Old",
		Orders: []OrderBy{{Column: "id"}},
		Take:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, []string{"Oldboy", "Old Garden"}, titles(page))
}

func TestReplaceGenresAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	d := testutil.SeedDirector(t, db, "Bong")
	g1 := testutil.SeedGenre(t, db, "drama")
	g2 := testutil.SeedGenre(t, db, "comedy")
	g3 := testutil.SeedGenre(t, db, "satire")
	m := testutil.SeedMovie(t, db, "Parasite", d.ID, *g1)
	repo := NewMovieRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceGenres(ctx, m.ID, []uint64{g2.ID, g3.ID}))
	got, err := repo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, got.Genres, 2)
	assert.Equal(t, "comedy", got.Genres[0].Name)
	assert.Equal(t, "satire", got.Genres[1].Name)
	assert.Equal(t, "Parasite detail", got.Detail.Detail)

	require.NoError(t, repo.Delete(ctx, m.ID))
	require.NoError(t, repo.DeleteDetail(ctx, m.DetailID))
	_, err = repo.FindByID(ctx, m.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var links int64
	require.NoError(t, db.Table("movie_genres").Where("movie_id = ?", m.ID).Count(&links).Error)
	assert.Zero(t, links)
}

func TestRecountLikes(t *testing.T) {
	db := testutil.NewTestDB(t)
	movies := seedCatalog(t, db, 2)
	u1 := testutil.SeedUser(t, db, "a@x.io", model.RoleUser)
	u2 := testutil.SeedUser(t, db, "b@x.io", model.RoleUser)
	u3 := testutil.SeedUser(t, db, "c@x.io", model.RoleUser)
	likes := NewLikeRepository(db)
	ctx := context.Background()
	require.NoError(t, likes.Create(ctx, &model.MovieUserLike{MovieID: movies[0].ID, UserID: u1.ID, IsLike: true}))
	require.NoError(t, likes.Create(ctx, &model.MovieUserLike{MovieID: movies[0].ID, UserID: u2.ID, IsLike: true}))
	require.NoError(t, likes.Create(ctx, &model.MovieUserLike{MovieID: movies[0].ID, UserID: u3.ID, IsLike: false}))

	repo := NewMovieRepository(db, nil)
	require.NoError(t, repo.RecountLikes(ctx, movies[0].ID))

	got, err := repo.FindByID(ctx, movies[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.LikeCount)
	assert.Equal(t, int64(1), got.DislikeCount)

	// 计数已经正确，再统计一次也不是错误
	require.NoError(t, repo.RecountLikes(ctx, movies[0].ID))
	assert.ErrorIs(t, repo.RecountLikes(ctx, 9999), gorm.ErrRecordNotFound)

	n, err := repo.RecountAllLikes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMovieCacheRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	mr, rdb := testutil.NewTestRedis(t)
	movies := seedCatalog(t, db, 1)
	repo := NewMovieRepository(db, rdb)
	ctx := context.Background()

	cached, err := repo.GetMovieCache(ctx, movies[0].ID)
	require.NoError(t, err)
	assert.Nil(t, cached)

	full, err := repo.FindByID(ctx, movies[0].ID)
	require.NoError(t, err)
	require.NoError(t, repo.SetMovieCache(ctx, full))
	assert.True(t, mr.Exists(fmt.Sprintf("movie:info:%d", full.ID)))
	ttl := mr.TTL(fmt.Sprintf("movie:info:%d", full.ID))
	assert.GreaterOrEqual(t, ttl, 5*time.Minute)

	cached, err = repo.GetMovieCache(ctx, full.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, full.Title, cached.Title)
	assert.Equal(t, full.Director.Name, cached.Director.Name)

	require.NoError(t, repo.DeleteMovieCache(ctx, full.ID))
	assert.False(t, mr.Exists(fmt.Sprintf("movie:info:%d", full.ID)))
}

func TestCacheIsNoopWithoutRedis(t *testing.T) {
	repo := NewMovieRepository(nil, nil)
	ctx := context.Background()

	m, err := repo.GetMovieCache(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, m)
	assert.NoError(t, repo.SetRecentCache(ctx, nil, time.Second))
	assert.NoError(t, repo.DeleteMovieCache(ctx, 1))
}

// mysql默认只报告真正改动的行数，这里让UPDATE一律报0行来模拟
func TestRecountLikesWithChangedRowsSemantics(t *testing.T) {
	db := testutil.NewTestDB(t)
	movies := seedCatalog(t, db, 1)
	require.NoError(t, db.Callback().Raw().After("gorm:raw").Register("test:changed_rows", func(tx *gorm.DB) {
		if strings.HasPrefix(tx.Statement.SQL.String(), "UPDATE movies") {
			tx.RowsAffected = 0
		}
	}))
	repo := NewMovieRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.RecountLikes(ctx, movies[0].ID))
	assert.ErrorIs(t, repo.RecountLikes(ctx, 9999), gorm.ErrRecordNotFound)
}
