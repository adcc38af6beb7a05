package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupInviteTestDB creates a test database connection for invite tests
func setupInviteTestDB(t *testing.T) *gorm.DB {
	// Skip if no test database is configured
	dsn := "host=localhost user=meetspot password=meetspot dbname=meetspot_test port=15432 sslmode=disable"
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Skip("Test database not available, skipping integration tests")
		return nil
	}

	db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto")

	err = db.AutoMigrate(
		&model.Spot{},
		&model.Invite{},
	)
	require.NoError(t, err)

	return db
}

func cleanupInviteTestDB(t *testing.T, db *gorm.DB, spotID uuid.UUID) {
	db.Exec("DELETE FROM invites WHERE spot_id = ?", spotID)
	db.Exec("DELETE FROM spots WHERE id = ?", spotID)
}

func newTestInvite(spotID, senderID, receiverID uuid.UUID) *model.Invite {
	key := model.InviteDedupeKey(spotID, senderID, receiverID)
	return &model.Invite{
		SpotID:     spotID,
		SpotTitle:  "Test Spot",
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     model.InviteStatusPending,
		DedupeKey:  &key,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}
}

func TestInviteRepo_CreateIdempotent(t *testing.T) {
	db := setupInviteTestDB(t)
	if db == nil {
		return // Test was skipped
	}

	repo := NewInviteRepo(db)
	ctx := context.Background()

	spot := &model.Spot{Title: "Test Spot", Latitude: 37.7749, Longitude: -122.4194, IsActive: true}
	require.NoError(t, db.Create(spot).Error)
	defer cleanupInviteTestDB(t, db, spot.ID)

	senderID := uuid.New()
	receiverID := uuid.New()

	t.Run("first send creates the row", func(t *testing.T) {
		inv, created, err := repo.CreateIdempotent(ctx, newTestInvite(spot.ID, senderID, receiverID))
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, uuid.Nil, inv.ID)
	})

	t.Run("duplicate send collapses onto the existing row", func(t *testing.T) {
		first, _, err := repo.CreateIdempotent(ctx, newTestInvite(spot.ID, senderID, receiverID))
		require.NoError(t, err)

		second, created, err := repo.CreateIdempotent(ctx, newTestInvite(spot.ID, senderID, receiverID))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("terminal invite frees the slot for a new one", func(t *testing.T) {
		r2 := uuid.New()
		first, created, err := repo.CreateIdempotent(ctx, newTestInvite(spot.ID, senderID, r2))
		require.NoError(t, err)
		require.True(t, created)

		ok, err := repo.Decline(ctx, first.ID)
		require.NoError(t, err)
		require.True(t, ok)

		second, created, err := repo.CreateIdempotent(ctx, newTestInvite(spot.ID, senderID, r2))
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestInviteRepo_MarkExpired(t *testing.T) {
	db := setupInviteTestDB(t)
	if db == nil {
		return // Test was skipped
	}

	repo := NewInviteRepo(db)
	ctx := context.Background()

	spot := &model.Spot{Title: "Test Spot", Latitude: 37.7749, Longitude: -122.4194, IsActive: true}
	require.NoError(t, db.Create(spot).Error)
	defer cleanupInviteTestDB(t, db, spot.ID)

	senderID := uuid.New()

	t.Run("expires a stale accepted invite and frees the slot", func(t *testing.T) {
		receiverID := uuid.New()
		stale := newTestInvite(spot.ID, senderID, receiverID)
		stale.ExpiresAt = time.Now().Add(-time.Hour)

		inv, _, err := repo.CreateIdempotent(ctx, stale)
		require.NoError(t, err)
		ok, err := repo.Accept(ctx, inv.ID, "room-1")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = repo.MarkExpired(ctx, inv.ID, time.Now())
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.GetByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, model.InviteStatusExpired, got.Status)
		assert.Nil(t, got.DedupeKey)

		// The freed slot accepts a new invite for the same triple.
		_, created, err := repo.CreateIdempotent(ctx, newTestInvite(spot.ID, senderID, receiverID))
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("does not touch an invite before its deadline", func(t *testing.T) {
		receiverID := uuid.New()
		inv, _, err := repo.CreateIdempotent(ctx, newTestInvite(spot.ID, senderID, receiverID))
		require.NoError(t, err)

		ok, err := repo.MarkExpired(ctx, inv.ID, time.Now())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestInviteRepo_Promote(t *testing.T) {
	db := setupInviteTestDB(t)
	if db == nil {
		return // Test was skipped
	}

	repo := NewInviteRepo(db)
	ctx := context.Background()

	spot := &model.Spot{Title: "Test Spot", Latitude: 37.7749, Longitude: -122.4194, IsActive: true}
	require.NoError(t, db.Create(spot).Error)
	defer cleanupInviteTestDB(t, db, spot.ID)

	senderID := uuid.New()
	receiverID := uuid.New()

	inv, _, err := repo.CreateIdempotent(ctx, newTestInvite(spot.ID, senderID, receiverID))
	require.NoError(t, err)

	ok, err := repo.Accept(ctx, inv.ID, "room-1")
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("does not promote before both flags are set", func(t *testing.T) {
		require.NoError(t, repo.SetConfirmed(ctx, inv.ID, true))

		won, err := repo.Promote(ctx, inv.ID, time.Now())
		require.NoError(t, err)
		assert.False(t, won)
	})

	t.Run("exactly one promotion succeeds", func(t *testing.T) {
		require.NoError(t, repo.SetConfirmed(ctx, inv.ID, false))

		won, err := repo.Promote(ctx, inv.ID, time.Now())
		require.NoError(t, err)
		assert.True(t, won)

		// Second attempt observes the already-promoted row.
		wonAgain, err := repo.Promote(ctx, inv.ID, time.Now())
		require.NoError(t, err)
		assert.False(t, wonAgain)

		got, err := repo.GetByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, model.InviteStatusConfirmedGoing, got.Status)
		assert.NotNil(t, got.ConfirmedAt)
	})
}
