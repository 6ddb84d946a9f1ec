package service

import (
	"Movie_Catalog/internal/dto"
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/repository"
	"Movie_Catalog/internal/testutil"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestUserServiceCRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db), bcrypt.MinCost)
	ctx := context.Background()

	user, err := svc.Create(ctx, dto.CreateUserRequest{Email: "a@movie.io", Password: "pass"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)

	admin, err := svc.Create(ctx, dto.CreateUserRequest{Email: "root@movie.io", Password: "pass", Role: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	_, err = svc.Create(ctx, dto.CreateUserRequest{Email: "a@movie.io", Password: "pass"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	_, err = svc.Create(ctx, dto.CreateUserRequest{Email: "b@movie.io", Password: "pass", Role: intPtr(9)})
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = svc.Create(ctx, dto.CreateUserRequest{Email: "c@movie.io", Password: strings.Repeat("x", 73)})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	_, err = svc.Update(ctx, user.ID, dto.UpdateUserRequest{Password: strPtr(strings.Repeat("x", 73))})
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	updated, err := svc.Update(ctx, user.ID, dto.UpdateUserRequest{Password: strPtr("changed"), Role: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, model.RolePaidUser, updated.Role)
	assert.Equal(t, 2, updated.Version)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("changed")))

	// 改成自己原来的邮箱不算冲突
	_, err = svc.Update(ctx, user.ID, dto.UpdateUserRequest{Email: strPtr("a@movie.io")})
	require.NoError(t, err)
	_, err = svc.Update(ctx, user.ID, dto.UpdateUserRequest{Email: strPtr("root@movie.io")})
	assert.ErrorIs(t, err, ErrEmailTaken)

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	id, err := svc.Remove(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	_, err = svc.FindOne(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.Remove(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGenreServiceRejectsDuplicateName(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewGenreService(repository.NewGenreRepository(db), nil)
	ctx := context.Background()

	drama, err := svc.Create(ctx, dto.CreateGenreRequest{Name: "drama"})
	require.NoError(t, err)
	comedy, err := svc.Create(ctx, dto.CreateGenreRequest{Name: "comedy"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, dto.CreateGenreRequest{Name: "drama"})
	assert.ErrorIs(t, err, ErrGenreExists)
	_, err = svc.Update(ctx, comedy.ID, dto.UpdateGenreRequest{Name: strPtr("drama")})
	assert.ErrorIs(t, err, ErrGenreExists)

	renamed, err := svc.Update(ctx, drama.ID, dto.UpdateGenreRequest{Name: strPtr("thriller")})
	require.NoError(t, err)
	assert.Equal(t, "thriller", renamed.Name)

	_, err = svc.FindOne(ctx, 999)
	assert.ErrorIs(t, err, ErrGenreNotFound)
}

func TestGenreRemoveRejectsSoleGenre(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewGenreService(repository.NewGenreRepository(db), nil)
	ctx := context.Background()

	d := testutil.SeedDirector(t, db, "Park")
	g := testutil.SeedGenre(t, db, "noir")
	m := testutil.SeedMovie(t, db, "Oldboy", d.ID, *g)

	_, err := svc.Remove(ctx, g.ID)
	assert.ErrorIs(t, err, ErrGenreInUse)

	movie, err := repository.NewMovieRepository(db, nil).FindByID(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, movie.Genres, 1)
	assert.Equal(t, "noir", movie.Genres[0].Name)
}

func TestGenreRemoveDetachesAndInvalidatesMovies(t *testing.T) {
	db := testutil.NewTestDB(t)
	mr, rdb := testutil.NewTestRedis(t)
	movieRepo := repository.NewMovieRepository(db, rdb)
	svc := NewGenreService(repository.NewGenreRepository(db), movieRepo)
	ctx := context.Background()

	d := testutil.SeedDirector(t, db, "Park")
	noir := testutil.SeedGenre(t, db, "noir")
	thriller := testutil.SeedGenre(t, db, "thriller")
	m := testutil.SeedMovie(t, db, "Oldboy", d.ID, *noir, *thriller)

	cached, err := movieRepo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	require.NoError(t, movieRepo.SetMovieCache(ctx, cached))
	require.True(t, mr.Exists(fmt.Sprintf("movie:info:%d", m.ID)))

	_, err = svc.Remove(ctx, noir.ID)
	require.NoError(t, err)
	assert.False(t, mr.Exists(fmt.Sprintf("movie:info:%d", m.ID)))

	movie, err := movieRepo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, movie.Genres, 1)
	assert.Equal(t, "thriller", movie.Genres[0].Name)
}

func TestGenreRenameInvalidatesMovies(t *testing.T) {
	db := testutil.NewTestDB(t)
	mr, rdb := testutil.NewTestRedis(t)
	movieRepo := repository.NewMovieRepository(db, rdb)
	svc := NewGenreService(repository.NewGenreRepository(db), movieRepo)
	ctx := context.Background()

	d := testutil.SeedDirector(t, db, "Park")
	g := testutil.SeedGenre(t, db, "noir")
	m := testutil.SeedMovie(t, db, "Oldboy", d.ID, *g)
	cached, err := movieRepo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	require.NoError(t, movieRepo.SetMovieCache(ctx, cached))
	require.NoError(t, rdb.Set(ctx, "movie:recent", "[]", 0).Err())

	_, err = svc.Update(ctx, g.ID, dto.UpdateGenreRequest{Name: strPtr("neo-noir")})
	require.NoError(t, err)
	assert.False(t, mr.Exists(fmt.Sprintf("movie:info:%d", m.ID)))
	assert.False(t, mr.Exists("movie:recent"))
}

func TestDirectorServiceCRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewDirectorService(repository.NewDirectorRepository(db), nil)
	ctx := context.Background()

	d, err := svc.Create(ctx, dto.CreateDirectorRequest{Name: "Bong", Dob: "1969-09-14", Nationality: "KR"})
	require.NoError(t, err)
	assert.Equal(t, 1969, d.Dob.Year())

	updated, err := svc.Update(ctx, d.ID, dto.UpdateDirectorRequest{Nationality: strPtr("Korea"), Dob: strPtr("1969-09-15")})
	require.NoError(t, err)
	assert.Equal(t, "Korea", updated.Nationality)
	assert.Equal(t, 15, updated.Dob.Day())

	_, err = svc.Update(ctx, 404, dto.UpdateDirectorRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrDirectorNotFound)

	g := testutil.SeedGenre(t, db, "drama")
	testutil.SeedMovie(t, db, "Parasite", d.ID, *g)
	_, err = svc.Remove(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDirectorInUse)

	free, err := svc.Create(ctx, dto.CreateDirectorRequest{Name: "Lee", Dob: "1954-07-01", Nationality: "KR"})
	require.NoError(t, err)
	id, err := svc.Remove(ctx, free.ID)
	require.NoError(t, err)
	assert.Equal(t, free.ID, id)
}

func TestDirectorUpdateInvalidatesMovies(t *testing.T) {
	db := testutil.NewTestDB(t)
	mr, rdb := testutil.NewTestRedis(t)
	movieRepo := repository.NewMovieRepository(db, rdb)
	svc := NewDirectorService(repository.NewDirectorRepository(db), movieRepo)
	ctx := context.Background()

	d := testutil.SeedDirector(t, db, "Bong")
	g := testutil.SeedGenre(t, db, "drama")
	m := testutil.SeedMovie(t, db, "Mother", d.ID, *g)
	cached, err := movieRepo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	require.NoError(t, movieRepo.SetMovieCache(ctx, cached))

	_, err = svc.Update(ctx, d.ID, dto.UpdateDirectorRequest{Name: strPtr("Bong Joon-ho")})
	require.NoError(t, err)
	assert.False(t, mr.Exists(fmt.Sprintf("movie:info:%d", m.ID)))

	movie, err := movieRepo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bong Joon-ho", movie.Director.Name)
}
