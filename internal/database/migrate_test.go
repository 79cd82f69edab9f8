package database

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/quiz-grading-api/internal/models"
)

func TestMigrateCreatesLedgerIndexes(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrate?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	migrator := db.Migrator()
	require.True(t, migrator.HasIndex(&models.Submission{}, "idx_submissions_user_quiz"))
	require.True(t, migrator.HasIndex(&models.SubmissionAnswer{}, "idx_submission_answers_submission_question"))
	require.True(t, migrator.HasTable(&models.ActivityLog{}))
}

func TestConnectorsRejectEmptyURLs(t *testing.T) {
	_, err := ConnectPostgres("")
	require.Error(t, err)

	_, err = ConnectRedis(context.Background(), "")
	require.Error(t, err)

	_, err = ConnectNATS("", "quiz", zerolog.Nop())
	require.Error(t, err)
}

func TestConnectRedis(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client, err := ConnectRedis(context.Background(), "redis://"+server.Addr())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
}
