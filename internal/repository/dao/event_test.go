package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB spins up a throwaway postgres container for the test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	require.NoError(t, pool.Client.Ping())

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_USER=test",
		"POSTGRES_PASSWORD=test",
		"POSTGRES_DB=eventra_test",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=test dbname=eventra_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	err = pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, pingErr := db.DB()
		if pingErr != nil {
			return pingErr
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, InitTables(db))

	return db
}

func TestEventDAO(t *testing.T) {
	db := openTestDB(t)
	d := NewEventDAO(db)
	ctx := context.Background()

	created, err := d.Create(ctx, Event{Name: "Demo Day"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "store assigns the id")
	assert.Equal(t, "draft", created.Status)

	t.Run("name uniqueness", func(t *testing.T) {
		_, err := d.Create(ctx, Event{Name: "Demo Day"})
		assert.ErrorIs(t, err, ErrEventNameExists)

		taken, err := d.IsNameTaken(ctx, "Demo Day", "")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = d.IsNameTaken(ctx, "Demo Day", created.ID)
		require.NoError(t, err)
		assert.False(t, taken, "the event's own name does not count as taken")
	})

	t.Run("banner tri-state", func(t *testing.T) {
		url := "https://cdn.example.com/banner.png"
		updated, err := d.UpdateFields(ctx, created, &url)
		require.NoError(t, err)
		assert.Equal(t, url, updated.BannerURL)

		// nil leaves the banner alone
		updated, err = d.UpdateFields(ctx, created, nil)
		require.NoError(t, err)
		assert.Equal(t, url, updated.BannerURL)

		// empty string clears it
		empty := ""
		updated, err = d.UpdateFields(ctx, created, &empty)
		require.NoError(t, err)
		assert.Empty(t, updated.BannerURL)
	})

	t.Run("rewards", func(t *testing.T) {
		reward, err := d.CreateReward(ctx, SpecialReward{
			ID:      "local-1", // local placeholder must not survive
			EventID: created.ID,
			Name:    "Best demo",
		})
		require.NoError(t, err)
		assert.NotEqual(t, "local-1", reward.ID)

		reward.Name = "Best demo, renamed"
		img := "https://cdn.example.com/reward.png"
		updated, err := d.UpdateReward(ctx, reward, &img)
		require.NoError(t, err)
		assert.Equal(t, "Best demo, renamed", updated.Name)
		assert.Equal(t, img, updated.ImageURL)

		require.NoError(t, d.DeleteReward(ctx, reward.ID))
		assert.ErrorIs(t, d.DeleteReward(ctx, reward.ID), ErrRewardNotFound)
	})

	t.Run("publish and load", func(t *testing.T) {
		require.NoError(t, d.Publish(ctx, created.ID))

		got, err := d.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "published", got.Status)
	})

	t.Run("cascade delete", func(t *testing.T) {
		start := time.Now()
		event, err := d.Create(ctx, Event{Name: "Throwaway", StartView: &start})
		require.NoError(t, err)

		_, err = d.CreateFileRequirement(ctx, FileRequirement{
			EventID: event.ID,
			Name:    "Slides",
		})
		require.NoError(t, err)

		require.NoError(t, d.Delete(ctx, event.ID))
		_, err = d.GetByID(ctx, event.ID)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("missing event", func(t *testing.T) {
		_, err := d.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, ErrEventNotFound)

		_, err = d.UpdateFields(ctx, Event{ID: "nope", Name: "Ghost"}, nil)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}
