package integration

import (
	"context"
	"log"
	"math/rand"
	"os"
	"testing"
	"time"

	"pdf-toolbox-bot/internal/entity"
	"pdf-toolbox-bot/internal/model"
	"pdf-toolbox-bot/internal/repository/implementation"
	"pdf-toolbox-bot/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false, database.DefaultPool())
	require.NoError(t, err, "Failed to connect to DB")
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// Random ids keep reruns against a shared database independent.
func testUserID() int64 {
	return 9_000_000_000 + rand.Int63n(1_000_000_000)
}

func TestSubscriberRepositoryGorm(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	repo := implementation.NewSubscriberRepository(db)
	userID := testUserID()
	t.Cleanup(func() { db.Where("user_id = ?", userID).Delete(&model.Subscriber{}) })

	added, err := repo.Add(ctx, &entity.Subscriber{UserID: userID, Username: "tester"})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(ctx, &entity.Subscriber{UserID: userID})
	require.NoError(t, err)
	assert.False(t, added)

	ok, err := repo.Exists(ctx, userID)
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := repo.Remove(ctx, userID)
	require.NoError(t, err)
	assert.True(t, removed)

	ok, _ = repo.Exists(ctx, userID)
	assert.False(t, ok)
}

func TestUserPreferenceRepositoryGorm(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	repo := implementation.NewUserPreferenceRepository(db)
	userID := testUserID()
	t.Cleanup(func() { db.Where("user_id = ?", userID).Delete(&model.UserPreference{}) })

	pref, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, pref)

	created, err := repo.Touch(ctx, userID, "en")
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, repo.Upsert(ctx, &entity.UserPreference{UserID: userID, Language: "fa"}))
	pref, err = repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, "fa", pref.Language)
}

func TestOperationLogRepositoryGorm(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	repo := implementation.NewOperationLogRepository(db)
	userID := testUserID()
	t.Cleanup(func() { db.Where("user_id = ?", userID).Delete(&model.OperationLog{}) })

	before, err := repo.Counts(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	jobID := uuid.NewString()
	op := &entity.OperationLog{
		JobID:      jobID,
		UserID:     userID,
		Feature:    "merge",
		Status:     entity.OperationStatusFailed,
		Inputs:     2,
		Options:    []string{"angle=90"},
		Error:      "boom",
		DurationMs: 12,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, repo.Create(ctx, op))
	// Redelivered events carry the same job id.
	dup := *op
	dup.Id = uuid.Nil
	require.NoError(t, repo.Create(ctx, &dup))

	after, err := repo.Counts(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, before.Total+1, after.Total)
	assert.Equal(t, before.Failed+1, after.Failed)

	recent, err := repo.FindRecent(ctx, 50, 0)
	require.NoError(t, err)
	var found bool
	for _, r := range recent {
		if r.JobID == jobID {
			found = true
			assert.Equal(t, []string{"angle=90"}, r.Options)
		}
	}
	assert.True(t, found)
}
