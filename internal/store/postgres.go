package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitetrainer/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Training jobs ---

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.TrainingJob) error {
	faqs, err := marshalFAQs(job.FAQs)
	if err != nil {
		return err
	}

	// A retrain may reuse a jobid; the new run supersedes the old record.
	_, err = s.pool.Exec(ctx,
		`INSERT INTO training_jobs (jobid, status, url, domain, progress, pagecount, summary, faqs, error, user_id, createdat, updatedat)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (jobid) DO UPDATE SET
		   status = EXCLUDED.status,
		   url = EXCLUDED.url,
		   domain = EXCLUDED.domain,
		   progress = EXCLUDED.progress,
		   pagecount = EXCLUDED.pagecount,
		   summary = EXCLUDED.summary,
		   faqs = EXCLUDED.faqs,
		   error = EXCLUDED.error,
		   user_id = EXCLUDED.user_id,
		   updatedat = EXCLUDED.updatedat`,
		job.JobID, job.Status, job.URL, job.Domain, job.Progress, job.PageCount,
		job.Summary, faqs, job.Error, job.UserID, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, jobID string) (*models.TrainingJob, error) {
	var (
		j    models.TrainingJob
		faqs []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT jobid, status, url, domain, progress, pagecount, summary, faqs, error, user_id, createdat, updatedat
		 FROM training_jobs WHERE jobid = $1`, jobID,
	).Scan(&j.JobID, &j.Status, &j.URL, &j.Domain, &j.Progress, &j.PageCount,
		&j.Summary, &faqs, &j.Error, &j.UserID, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	if len(faqs) > 0 {
		if err := json.Unmarshal(faqs, &j.FAQs); err != nil {
			return nil, fmt.Errorf("decode job faqs: %w", err)
		}
	}
	return &j, nil
}

// UpdateJobStatus applies a status and any optional field updates. Updates
// only apply while the job is still processing; the first transition to
// completed or failed wins and later writes return ErrFinalized.
func (s *PostgresStore) UpdateJobStatus(ctx context.Context, jobID string, status string, opts ...JobUpdateOption) error {
	params := ApplyOptions(opts)

	query := `UPDATE training_jobs SET status = $2, updatedat = $3`
	args := []any{jobID, status, time.Now().UTC()}
	argIdx := 4

	if params.Progress != nil {
		query += fmt.Sprintf(", progress = $%d", argIdx)
		args = append(args, *params.Progress)
		argIdx++
	}
	if params.Domain != nil {
		query += fmt.Sprintf(", domain = $%d", argIdx)
		args = append(args, *params.Domain)
		argIdx++
	}
	if params.PageCount != nil {
		query += fmt.Sprintf(", pagecount = $%d", argIdx)
		args = append(args, *params.PageCount)
		argIdx++
	}
	if params.Summary != nil {
		faqs, err := marshalFAQs(params.FAQs)
		if err != nil {
			return err
		}
		query += fmt.Sprintf(", summary = $%d, faqs = $%d", argIdx, argIdx+1)
		args = append(args, *params.Summary, faqs)
		argIdx += 2
	}
	if params.ErrorMessage != nil {
		query += fmt.Sprintf(", error = $%d", argIdx)
		args = append(args, *params.ErrorMessage)
		argIdx++
	}

	query += " WHERE jobid = $1 AND status = 'processing'"

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing job from one that already finished.
		var current string
		err := s.pool.QueryRow(ctx, `SELECT status FROM training_jobs WHERE jobid = $1`, jobID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get job status: %w", err)
		}
		return ErrFinalized
	}
	return nil
}

func marshalFAQs(faqs []models.FAQ) ([]byte, error) {
	if faqs == nil {
		return nil, nil
	}
	b, err := json.Marshal(faqs)
	if err != nil {
		return nil, fmt.Errorf("encode job faqs: %w", err)
	}
	return b, nil
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
