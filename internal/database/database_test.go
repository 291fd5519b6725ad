package database_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/fitplate/backend/internal/database"
	"github.com/pageza/fitplate/backend/internal/models"
	"github.com/pageza/fitplate/backend/internal/testhelpers"
)

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"002_plans.sql",
		"001_initial_schema.sql",
		"001_initial_schema" + database.RollbackSuffix,
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.sql"), 0o755))

	files, err := database.MigrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_initial_schema.sql", "002_plans.sql"}, files)
}

func TestMigrationFiles_MissingDir(t *testing.T) {
	_, err := database.MigrationFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRunMigrations_SQLite(t *testing.T) {
	db := testhelpers.SetupSQLite(t)

	user := models.User{ID: uuid.New(), Email: "lifter@example.com"}
	require.NoError(t, db.Create(&user).Error)

	session := models.WorkoutSession{UserID: user.ID, Name: "Push"}
	require.NoError(t, db.Create(&session).Error)
	assert.NotEqual(t, uuid.Nil, session.ID)
	assert.False(t, session.StartedAt.IsZero())

	assert.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestRunMigrations_Postgres(t *testing.T) {
	db := testhelpers.SetupPostgres(t)

	// The container schema comes from AutoMigrate; the SQL files must apply
	// cleanly on top of it and be recorded exactly once.
	require.NoError(t, db.Exec("DROP TABLE IF EXISTS cached_exercises, plans, workout_sets, workout_sessions, user_profiles, users CASCADE").Error)
	require.NoError(t, database.RunMigrations(db, "../../migrations"))
	require.NoError(t, database.RunMigrations(db, "../../migrations"))

	var applied int64
	require.NoError(t, db.Table("migrations").Count(&applied).Error)
	files, err := database.MigrationFiles("../../migrations")
	require.NoError(t, err)
	assert.Equal(t, int64(len(files)), applied)

	row := models.CachedExercise{ID: "EIeI8Vf", Name: "barbell bench press"}
	row.Embedding = testEmbedding()
	require.NoError(t, db.Create(&row).Error)
}
