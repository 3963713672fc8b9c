package emergency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthmate-be/internal/domain"
	"healthmate-be/pkg/logger"
	"healthmate-be/pkg/redis"
)

func setup(t *testing.T) (*HandoffStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://"+mr.Addr(), "development", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewHandoffStore(client, &logger.Logger{Logger: zap.NewNop()}), mr
}

func testLocation() domain.Location {
	return domain.Location{
		Latitude:  12.9716,
		Longitude: 77.5946,
		Address:   "Bangalore, India",
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

func TestClaimPrefersTransientHandoff(t *testing.T) {
	store, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, store.Stash(ctx, testLocation()))

	location, source, err := store.Claim(ctx)
	require.NoError(t, err)
	require.NotNil(t, location)
	assert.Equal(t, SourceNavigation, source)
	assert.Equal(t, "Bangalore, India", location.Address)
	assert.Equal(t, 12.9716, location.Latitude)
}

func TestClaimConsumesTransientExactlyOnce(t *testing.T) {
	store, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, store.Stash(ctx, testLocation()))

	_, source, err := store.Claim(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceNavigation, source)

	// A second claim (page refresh) falls back to the durable record
	location, source, err := store.Claim(ctx)
	require.NoError(t, err)
	require.NotNil(t, location)
	assert.Equal(t, SourceFallback, source)
}

func TestClaimWithNothingStored(t *testing.T) {
	store, _ := setup(t)

	location, source, err := store.Claim(context.Background())
	require.NoError(t, err)
	assert.Nil(t, location)
	assert.Empty(t, source)
}

func TestDurableReadIsSideEffectFree(t *testing.T) {
	store, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, store.Stash(ctx, testLocation()))

	for i := 0; i < 3; i++ {
		location, err := store.Durable(ctx)
		require.NoError(t, err)
		require.NotNil(t, location)
		assert.Equal(t, "Bangalore, India", location.Address)
	}
}

func TestStashOverwritesDurableFallback(t *testing.T) {
	store, _ := setup(t)
	ctx := context.Background()

	first := testLocation()
	require.NoError(t, store.Stash(ctx, first))

	second := testLocation()
	second.Latitude = 13.0827
	second.Longitude = 80.2707
	second.Address = "Chennai, India"
	require.NoError(t, store.Stash(ctx, second))

	location, err := store.Durable(ctx)
	require.NoError(t, err)
	require.NotNil(t, location)
	assert.Equal(t, "Chennai, India", location.Address)
}

func TestTransientHandoffExpires(t *testing.T) {
	store, mr := setup(t)
	ctx := context.Background()

	require.NoError(t, store.Stash(ctx, testLocation()))
	mr.FastForward(redis.TTLHandoff + time.Second)

	location, source, err := store.Claim(ctx)
	require.NoError(t, err)
	require.NotNil(t, location, "the durable fallback has no expiry")
	assert.Equal(t, SourceFallback, source)
}
