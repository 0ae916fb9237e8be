package trainer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"sitetrainer/internal/cache"
	"sitetrainer/internal/crawler"
	"sitetrainer/internal/ingest"
	"sitetrainer/internal/metrics"
	"sitetrainer/internal/store"
	"sitetrainer/pkg/models"
)

const jobCacheTTL = 30 * time.Minute

// Progress checkpoints reported while a job moves through the pipeline.
const (
	progressCreated    = 0
	progressCrawling   = 5
	progressCrawled    = 40
	progressIngested   = 60
	progressGenerating = 70
	progressDone       = 100
)

// SiteCrawler collects page text from a website.
type SiteCrawler interface {
	Crawl(ctx context.Context, rawURL string, maxPages, maxDepth int) models.CrawlResult
}

// ContentGenerator turns collected content into a summary and FAQ set.
type ContentGenerator interface {
	Generate(ctx context.Context, content, domain string) (*models.TrainingResult, error)
}

// TrainingRequest holds validated parameters for a training run. At least one
// of URL or Documents must be present. JobID is optional; when a caller
// reuses one, the new run supersedes the old job under the same id.
type TrainingRequest struct {
	JobID     string
	URL       string
	Documents []models.Document
	MaxPages  int
	MaxDepth  int
	UserID    *string
}

// Service orchestrates the crawl → extract → generate → persist pipeline.
type Service struct {
	store     store.Store
	cache     cache.Cache
	crawler   SiteCrawler
	generator ContentGenerator
	logger    *slog.Logger
}

func NewService(st store.Store, ca cache.Cache, cr SiteCrawler, gen ContentGenerator, logger *slog.Logger) *Service {
	return &Service{
		store:     st,
		cache:     ca,
		crawler:   cr,
		generator: gen,
		logger:    logger,
	}
}

// StartTraining creates a processing job and dispatches the pipeline in a
// background goroutine. Returns the job immediately without waiting.
func (s *Service) StartTraining(ctx context.Context, req TrainingRequest) (*models.TrainingJob, error) {
	job, err := s.createJob(ctx, req)
	if err != nil {
		return nil, err
	}

	go s.runTraining(job.JobID, req)

	return job, nil
}

// RunSync executes the whole pipeline inline and returns the finished job.
// The job row is created and finalized exactly as in the background path, so
// sync runs stay pollable afterwards.
func (s *Service) RunSync(ctx context.Context, req TrainingRequest) (*models.TrainingJob, error) {
	job, err := s.createJob(ctx, req)
	if err != nil {
		return nil, err
	}

	s.execute(ctx, job.JobID, req)

	final, err := s.store.GetJob(context.WithoutCancel(ctx), job.JobID)
	if err != nil {
		return nil, fmt.Errorf("reloading job: %w", err)
	}
	return final, nil
}

func (s *Service) createJob(ctx context.Context, req TrainingRequest) (*models.TrainingJob, error) {
	if req.URL == "" && len(req.Documents) == 0 {
		return nil, fmt.Errorf("either a url or documents are required")
	}

	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.New().String()
	}

	now := time.Now().UTC()
	job := &models.TrainingJob{
		JobID:     jobID,
		Status:    models.JobStatusProcessing,
		URL:       req.URL,
		Progress:  progressCreated,
		UserID:    req.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.URL != "" {
		if host, err := crawler.HostOf(crawler.NormalizeURL(req.URL)); err == nil {
			job.Domain = host
		}
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	_ = s.cache.SetJob(ctx, job, jobCacheTTL)
	metrics.IncJobStarted()

	return job, nil
}

// runTraining executes the pipeline in a goroutine. It recovers from panics
// and always leaves the job in a terminal status.
func (s *Service) runTraining(jobID string, req TrainingRequest) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in training pipeline", "error", r, "job_id", jobID)
			s.fail(ctx, jobID, fmt.Sprintf("panic: %v", r))
		}
	}()

	s.execute(ctx, jobID, req)
}

// execute runs the pipeline stages against an existing processing job.
func (s *Service) execute(ctx context.Context, jobID string, req TrainingRequest) {
	var (
		content   strings.Builder
		pageCount int
		domain    string
	)

	if req.URL != "" {
		s.progress(ctx, jobID, progressCrawling)

		result := s.crawler.Crawl(ctx, req.URL, req.MaxPages, req.MaxDepth)
		if !result.Success {
			s.fail(ctx, jobID, result.Err)
			return
		}
		content.WriteString(result.TextContent)
		pageCount = result.PageCount
		domain = result.Domain

		s.update(ctx, jobID,
			store.WithProgress(progressCrawled),
			store.WithDomain(domain),
			store.WithPageCount(pageCount))
	}

	if docs := ingest.Concatenate(req.Documents); docs != "" {
		if content.Len() > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(docs)
		s.progress(ctx, jobID, progressIngested)
	}

	if strings.TrimSpace(content.String()) == "" {
		s.fail(ctx, jobID, "No content to analyze")
		return
	}

	s.progress(ctx, jobID, progressGenerating)

	result, err := s.generator.Generate(ctx, content.String(), domain)
	if err != nil {
		s.fail(ctx, jobID, fmt.Sprintf("generating training data: %v", err))
		return
	}

	// The caller's context may already be canceled by the time the pipeline
	// finishes (a sync client that hung up); the terminal write still lands.
	finishCtx := context.WithoutCancel(ctx)
	err = s.store.UpdateJobStatus(finishCtx, jobID, models.JobStatusCompleted,
		store.WithProgress(progressDone),
		store.WithResult(result.Summary, result.FAQs))
	if err != nil {
		s.logger.Error("failed to finalize job", "error", err, "job_id", jobID)
		return
	}
	s.syncCache(finishCtx, jobID)
	metrics.IncJobFinished(models.JobStatusCompleted)

	s.logger.Info("training completed",
		"job_id", jobID, "pages", pageCount, "faqs", len(result.FAQs))
}

// progress advances the progress counter while the job is still processing.
func (s *Service) progress(ctx context.Context, jobID string, value int) {
	s.update(ctx, jobID, store.WithProgress(value))
}

func (s *Service) update(ctx context.Context, jobID string, opts ...store.JobUpdateOption) {
	if err := s.store.UpdateJobStatus(ctx, jobID, models.JobStatusProcessing, opts...); err != nil {
		s.logger.Warn("failed to update job", "error", err, "job_id", jobID)
		return
	}
	s.syncCache(ctx, jobID)
}

// fail marks the job failed. Finalization is first-write-wins, so losing the
// race to another writer is not an error. Runs detached from the caller's
// context so a canceled request cannot leave the job stuck in processing.
func (s *Service) fail(ctx context.Context, jobID, message string) {
	ctx = context.WithoutCancel(ctx)
	err := s.store.UpdateJobStatus(ctx, jobID, models.JobStatusFailed,
		store.WithErrorMessage(message))
	if err != nil {
		s.logger.Warn("failed to mark job failed", "error", err, "job_id", jobID)
		return
	}
	s.syncCache(ctx, jobID)
	metrics.IncJobFinished(models.JobStatusFailed)

	s.logger.Info("training failed", "job_id", jobID, "reason", message)
}

// syncCache refreshes the cached job snapshot from the store. Cache failures
// only cost poll latency, so they are logged and swallowed.
func (s *Service) syncCache(ctx context.Context, jobID string) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		s.logger.Warn("failed to reload job for cache", "error", err, "job_id", jobID)
		return
	}
	if err := s.cache.SetJob(ctx, job, jobCacheTTL); err != nil {
		s.logger.Warn("failed to cache job", "error", err, "job_id", jobID)
	}
}

// GetJob returns the current job state, preferring the cache snapshot.
func (s *Service) GetJob(ctx context.Context, jobID string) (*models.TrainingJob, error) {
	if job, ok, err := s.cache.GetJob(ctx, jobID); err == nil && ok {
		return job, nil
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJob(ctx, job, jobCacheTTL)
	return job, nil
}
