package dtos

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the dashboard-side status of a generation job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether polling should stop for the status.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// MapJobState translates the queue engine vocabulary into a JobStatus.
// Unknown states (waiting, delayed, paused, ...) are treated as pending.
func MapJobState(state string) JobStatus {
	switch state {
	case "completed":
		return JobStatusCompleted
	case "failed":
		return JobStatusFailed
	case "active":
		return JobStatusProcessing
	default:
		return JobStatusPending
	}
}

// BatchJob is the in-memory shadow of a generation job while the dashboard
// is tracking it. The persisted batch record stays authoritative.
type BatchJob struct {
	ID             uuid.UUID `json:"id"`
	JobID          string    `json:"jobId"`
	BatchName      string    `json:"batchName"`
	Status         JobStatus `json:"status"`
	Progress       int       `json:"progress"` // 0-100 percentage
	TotalCodes     int       `json:"totalCodes"`
	ProcessedCodes int       `json:"processedCodes"`
	CreatedAt      time.Time `json:"createdAt"`
	DownloadURL    string    `json:"downloadUrl,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// NewBatchJob returns a pending job with no progress.
func NewBatchJob(jobID, batchName string, totalCodes int) *BatchJob {
	return &BatchJob{
		ID:         uuid.New(),
		JobID:      jobID,
		BatchName:  batchName,
		Status:     JobStatusPending,
		TotalCodes: totalCodes,
		CreatedAt:  time.Now(),
	}
}

// IsTerminal reports whether the job reached completed or failed.
func (j *BatchJob) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// Apply overwrites the job's progress fields from a status response.
// Progress is taken as reported; it is not forced to be monotonic.
func (j *BatchJob) Apply(s *JobState) {
	j.Status = MapJobState(s.State)
	j.Progress = 0
	j.ProcessedCodes = 0
	if s.Progress != nil {
		j.Progress = clampPercent(s.Progress.Percent)
		j.ProcessedCodes = int(s.Progress.Processed)
		if s.Progress.Total > 0 {
			j.TotalCodes = int(s.Progress.Total)
		}
	}
	j.Error = s.FailedReason
}

func clampPercent(p float64) int {
	v := int(math.Round(p))
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// JobProgress is the progress block of a job status response.
type JobProgress struct {
	Percent   float64 `json:"percent"`
	Processed float64 `json:"processed"`
	Total     float64 `json:"total"`
}

// JobState is the body of GET /api/batch-generate/jobs/:jobId.
type JobState struct {
	State        string       `json:"state"`
	Progress     *JobProgress `json:"progress,omitempty"`
	FailedReason string       `json:"failedReason,omitempty"`
}

// FlexInt decodes a JSON number or a numeric string. The batches endpoint
// reports total_codes as a string.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// unparsable totals are shown as zero, like the dashboard does
			*f = 0
			return nil
		}
		*f = FlexInt(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// BatchProgress is the progress summary stored with a persisted batch.
type BatchProgress struct {
	Percent float64 `json:"percent"`
	Status  string  `json:"status"`
}

// PersistedBatch is a batch record owned by the backend.
type PersistedBatch struct {
	ID          int           `json:"id"`
	BatchName   string        `json:"batch_name"`
	Description string        `json:"description"`
	JobID       string        `json:"job_id"`
	TotalCodes  FlexInt       `json:"total_codes"`
	Status      string        `json:"status"`
	Progress    BatchProgress `json:"progress"`
	CreatedAt   string        `json:"created_at"`
	DownloadURL string        `json:"download_url,omitempty"`
}

// CanRetry reports whether the batch is in a state the retry endpoint accepts.
func (b *PersistedBatch) CanRetry() bool {
	return b.Status == string(JobStatusFailed)
}

// BatchPage is one page of GET /api/v1/admin/batches.
type BatchPage struct {
	Batches    []PersistedBatch `json:"batches"`
	TotalPages int              `json:"totalPages"`
	TotalItems int              `json:"totalItems"`
}

// Normalize applies the defaults the dashboard assumes for missing fields.
func (p *BatchPage) Normalize() {
	if p.Batches == nil {
		p.Batches = []PersistedBatch{}
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
}

// FindByJobID returns the batch carrying the given queue job id.
func (p *BatchPage) FindByJobID(jobID string) (*PersistedBatch, bool) {
	for i := range p.Batches {
		if p.Batches[i].JobID == jobID {
			return &p.Batches[i], true
		}
	}
	return nil, false
}

// FindByID returns the batch with the given id if it is on this page.
func (p *BatchPage) FindByID(id int) (*PersistedBatch, bool) {
	for i := range p.Batches {
		if p.Batches[i].ID == id {
			return &p.Batches[i], true
		}
	}
	return nil, false
}

// SubmitResult is the response to POST /api/batch-generate.
type SubmitResult struct {
	JobID      string `json:"jobId"`
	TotalCodes int    `json:"totalCodes"`
}

// RetryResult is the response to POST /api/v1/admin/batches/:id/retry.
// JobID may be empty, in which case the batch's original job id is reused.
type RetryResult struct {
	JobID string `json:"jobId"`
}
