package repository

import (
	"Movie_Catalog/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBlocklistExpires(t *testing.T) {
	mr, rdb := testutil.NewTestRedis(t)
	repo := NewTokenRepository(rdb)
	ctx := context.Background()

	blocked, err := repo.IsBlocked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, repo.Block(ctx, "abc", time.Minute))
	blocked, err = repo.IsBlocked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, blocked)

	mr.FastForward(2 * time.Minute)
	blocked, err = repo.IsBlocked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestTokenBlocklistSkipsExpiredTokens(t *testing.T) {
	mr, rdb := testutil.NewTestRedis(t)
	repo := NewTokenRepository(rdb)

	require.NoError(t, repo.Block(context.Background(), "old", -time.Second))
	assert.Empty(t, mr.Keys())
}
