package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/phoenix/internal/bot"
	"github.com/cory-johannsen/phoenix/internal/storage/postgres"
	"github.com/cory-johannsen/phoenix/internal/testutil"
)

func TestCooldownRepository(t *testing.T) {
	repo := postgres.NewCooldownRepository(testutil.NewPool(t))
	ctx := context.Background()
	user := uniqueUser("c")

	_, ok, err := repo.Get(ctx, user, bot.CooldownRest)
	require.NoError(t, err)
	assert.False(t, ok)

	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Set(ctx, user, bot.CooldownRest, first))
	got, ok, err := repo.Get(ctx, user, bot.CooldownRest)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, first.Equal(got))

	later := first.Add(20 * time.Minute)
	require.NoError(t, repo.Set(ctx, user, bot.CooldownRest, later))
	got, _, err = repo.Get(ctx, user, bot.CooldownRest)
	require.NoError(t, err)
	assert.True(t, later.Equal(got), "set replaces the previous expiry")

	require.NoError(t, repo.DeleteAll(ctx))
	_, ok, err = repo.Get(ctx, user, bot.CooldownRest)
	require.NoError(t, err)
	assert.False(t, ok)
}
