// Package models contains shared data models used across the sitetrainer codebase.
package models

import "time"

const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// TrainingJob is the persisted state of one website-training run. The API
// returns a jobid on POST /api/v1/train; the client polls
// GET /api/v1/train/{jobid} until status is completed or failed.
//
// A job only ever holds one of two terminal shapes: Summary+FAQs when
// completed, Error when failed. The "idle" status some clients show before
// submitting is purely a UI concept and is never persisted.
type TrainingJob struct {
	JobID     string    `db:"jobid"     json:"jobid"`
	Status    string    `db:"status"    json:"status"`
	URL       string    `db:"url"       json:"url,omitempty"`
	Domain    string    `db:"domain"    json:"domain"`
	Progress  int       `db:"progress"  json:"progress"`
	PageCount int       `db:"pagecount" json:"pagecount"`
	Summary   *string   `db:"summary"   json:"summary,omitempty"`
	FAQs      []FAQ     `db:"faqs"      json:"faqs,omitempty"`
	Error     *string   `db:"error"     json:"error,omitempty"`
	UserID    *string   `db:"user_id"   json:"user_id,omitempty"`
	CreatedAt time.Time `db:"createdat" json:"createdat"`
	UpdatedAt time.Time `db:"updatedat" json:"updatedat"`
}

// Finished reports whether the job has reached a terminal status.
func (j *TrainingJob) Finished() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
