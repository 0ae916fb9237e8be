package store_test

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"sitetrainer/internal/store"
	"sitetrainer/pkg/models"
)

// migrationsDir returns the absolute path to the migrations directory.
func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// setupTestDB spins up a Postgres container, runs migrations, and returns a pool + cleanup.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("sitetrainer_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Run migrations
	err = store.RunMigrations(connStr, migrationsDir())
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return pool
}

func newJob() *models.TrainingJob {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.TrainingJob{
		JobID:     uuid.NewString(),
		Status:    models.JobStatusProcessing,
		URL:       "https://example.com",
		Domain:    "example.com",
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestJob_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob()
	userID := "user-42"
	job.UserID = &userID
	require.NoError(t, s.CreateJob(ctx, job))

	got, err := s.GetJob(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, job.JobID, got.JobID)
	assert.Equal(t, models.JobStatusProcessing, got.Status)
	assert.Equal(t, "https://example.com", got.URL)
	assert.Equal(t, "example.com", got.Domain)
	assert.Equal(t, 0, got.Progress)
	assert.Nil(t, got.Summary)
	assert.Nil(t, got.FAQs)
	require.NotNil(t, got.UserID)
	assert.Equal(t, "user-42", *got.UserID)
}

func TestJob_GetNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	_, err := s.GetJob(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestJob_CreateUpsertsExistingID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob()
	require.NoError(t, s.CreateJob(ctx, job))
	require.NoError(t, s.UpdateJobStatus(ctx, job.JobID, models.JobStatusCompleted,
		store.WithProgress(100),
		store.WithResult("old summary", []models.FAQ{{ID: "faq-1", Question: "q", Answer: "a", Category: "General"}})))

	// A retrain with the same jobid resets the record to a fresh run.
	retrain := newJob()
	retrain.JobID = job.JobID
	retrain.URL = "https://example.com/v2"
	require.NoError(t, s.CreateJob(ctx, retrain))

	got, err := s.GetJob(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusProcessing, got.Status)
	assert.Equal(t, "https://example.com/v2", got.URL)
	assert.Equal(t, 0, got.Progress)
	assert.Nil(t, got.Summary)
	assert.Nil(t, got.FAQs)
}

func TestJob_UpdateProgress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob()
	require.NoError(t, s.CreateJob(ctx, job))

	err := s.UpdateJobStatus(ctx, job.JobID, models.JobStatusProcessing,
		store.WithProgress(40),
		store.WithDomain("example.org"),
		store.WithPageCount(7))
	require.NoError(t, err)

	got, err := s.GetJob(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.Progress)
	assert.Equal(t, "example.org", got.Domain)
	assert.Equal(t, 7, got.PageCount)
	assert.Equal(t, models.JobStatusProcessing, got.Status)
}

func TestJob_CompleteWithResult(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob()
	require.NoError(t, s.CreateJob(ctx, job))

	faqs := []models.FAQ{
		{ID: "faq-1", Question: "What does the site sell?", Answer: "Widgets.", Category: "Products"},
		{ID: "faq-2", Question: "How do I contact support?", Answer: "Email us.", Category: "Support"},
	}
	err := s.UpdateJobStatus(ctx, job.JobID, models.JobStatusCompleted,
		store.WithProgress(100),
		store.WithResult("A widget shop.", faqs))
	require.NoError(t, err)

	got, err := s.GetJob(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	require.NotNil(t, got.Summary)
	assert.Equal(t, "A widget shop.", *got.Summary)
	require.Len(t, got.FAQs, 2)
	assert.Equal(t, "faq-1", got.FAQs[0].ID)
	assert.Equal(t, "Products", got.FAQs[0].Category)
	assert.Equal(t, "How do I contact support?", got.FAQs[1].Question)
}

func TestJob_FailWithError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob()
	require.NoError(t, s.CreateJob(ctx, job))

	err := s.UpdateJobStatus(ctx, job.JobID, models.JobStatusFailed,
		store.WithErrorMessage("Failed to crawl website"))
	require.NoError(t, err)

	got, err := s.GetJob(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Equal(t, "Failed to crawl website", *got.Error)
}

func TestJob_UpdateAfterCompletionReturnsErrFinalized(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob()
	require.NoError(t, s.CreateJob(ctx, job))
	require.NoError(t, s.UpdateJobStatus(ctx, job.JobID, models.JobStatusCompleted,
		store.WithProgress(100),
		store.WithResult("done", nil)))

	// First terminal write wins; a late failure must not clobber the result.
	err := s.UpdateJobStatus(ctx, job.JobID, models.JobStatusFailed,
		store.WithErrorMessage("too late"))
	assert.ErrorIs(t, err, store.ErrFinalized)

	got, err := s.GetJob(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
	assert.Nil(t, got.Error)
}

func TestJob_UpdateStatusNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	err := s.UpdateJobStatus(context.Background(), uuid.NewString(), models.JobStatusProcessing,
		store.WithProgress(5))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	err := s.Ping(context.Background())
	assert.NoError(t, err)
}
