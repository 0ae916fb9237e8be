package store

import (
	"context"
	"errors"

	"sitetrainer/pkg/models"
)

var ErrNotFound = errors.New("resource not found")

// ErrFinalized is returned when an update targets a job that has already
// reached a terminal status. Finalization is first-write-wins.
var ErrFinalized = errors.New("job already finalized")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	CreateJob(ctx context.Context, job *models.TrainingJob) error
	GetJob(ctx context.Context, jobID string) (*models.TrainingJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status string, opts ...JobUpdateOption) error
}

// JobUpdate collects the optional fields an UpdateJobStatus call may set.
// Exported so Store implementations outside this package (including test
// fakes) can apply the options.
type JobUpdate struct {
	Progress     *int
	Domain       *string
	PageCount    *int
	Summary      *string
	FAQs         []models.FAQ
	ErrorMessage *string
}

type JobUpdateOption func(*JobUpdate)

// ApplyOptions folds a set of options into a JobUpdate.
func ApplyOptions(opts []JobUpdateOption) JobUpdate {
	var u JobUpdate
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

func WithProgress(progress int) JobUpdateOption {
	return func(p *JobUpdate) {
		p.Progress = &progress
	}
}

func WithDomain(domain string) JobUpdateOption {
	return func(p *JobUpdate) {
		p.Domain = &domain
	}
}

func WithPageCount(count int) JobUpdateOption {
	return func(p *JobUpdate) {
		p.PageCount = &count
	}
}

func WithResult(summary string, faqs []models.FAQ) JobUpdateOption {
	return func(p *JobUpdate) {
		p.Summary = &summary
		p.FAQs = faqs
	}
}

func WithErrorMessage(msg string) JobUpdateOption {
	return func(p *JobUpdate) {
		p.ErrorMessage = &msg
	}
}
