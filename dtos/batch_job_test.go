package dtos

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMapJobState(t *testing.T) {
	cases := map[string]JobStatus{
		"completed": JobStatusCompleted,
		"failed":    JobStatusFailed,
		"active":    JobStatusProcessing,
		"waiting":   JobStatusPending,
		"delayed":   JobStatusPending,
		"paused":    JobStatusPending,
		"":          JobStatusPending,
	}
	for state, want := range cases {
		if got := MapJobState(state); got != want {
			t.Errorf("MapJobState(%q) = %q, want %q", state, got, want)
		}
	}
}

func TestJobStatusIsTerminal(t *testing.T) {
	if JobStatusPending.IsTerminal() || JobStatusProcessing.IsTerminal() {
		t.Error("pending and processing must not be terminal")
	}
	if !JobStatusCompleted.IsTerminal() || !JobStatusFailed.IsTerminal() {
		t.Error("completed and failed must be terminal")
	}
}

func TestNewBatchJob(t *testing.T) {
	job := NewBatchJob("abc123", "Spring run", 500)

	if job.Status != JobStatusPending {
		t.Errorf("expected status pending, got %q", job.Status)
	}
	if job.Progress != 0 {
		t.Errorf("expected progress 0, got %d", job.Progress)
	}
	if job.TotalCodes != 500 {
		t.Errorf("expected total 500, got %d", job.TotalCodes)
	}
	if job.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestBatchJobApplyOverwritesProgress(t *testing.T) {
	job := NewBatchJob("abc123", "Spring run", 500)

	job.Apply(&JobState{State: "active", Progress: &JobProgress{Percent: 40, Processed: 200, Total: 500}})
	if job.Status != JobStatusProcessing || job.Progress != 40 || job.ProcessedCodes != 200 {
		t.Fatalf("unexpected job after active: %+v", job)
	}

	// progress is not forced to be monotonic
	job.Apply(&JobState{State: "active", Progress: &JobProgress{Percent: 30, Processed: 150, Total: 500}})
	if job.Progress != 30 {
		t.Errorf("expected progress 30, got %d", job.Progress)
	}

	job.Apply(&JobState{State: "completed"})
	if job.Status != JobStatusCompleted {
		t.Errorf("expected completed, got %q", job.Status)
	}
	if job.Progress != 0 || job.ProcessedCodes != 0 {
		t.Errorf("expected progress fields reset without a progress block, got %+v", job)
	}
	if job.TotalCodes != 500 {
		t.Errorf("expected total to keep last known value, got %d", job.TotalCodes)
	}
}

func TestBatchJobApplyFailedReason(t *testing.T) {
	job := NewBatchJob("j1", "b", 10)
	job.Apply(&JobState{State: "failed", FailedReason: "encoder crashed"})

	if !job.IsTerminal() {
		t.Fatal("expected terminal job")
	}
	if job.Error != "encoder crashed" {
		t.Errorf("expected error to be copied, got %q", job.Error)
	}
}

func TestBatchJobApplyClampsPercent(t *testing.T) {
	job := NewBatchJob("j1", "b", 10)
	job.Apply(&JobState{State: "active", Progress: &JobProgress{Percent: 140}})
	if job.Progress != 100 {
		t.Errorf("expected 100, got %d", job.Progress)
	}
}

func TestFlexIntDecoding(t *testing.T) {
	var b PersistedBatch
	if err := json.Unmarshal([]byte(`{"id":1,"total_codes":"500"}`), &b); err != nil {
		t.Fatal(err)
	}
	if b.TotalCodes != 500 {
		t.Errorf("expected 500 from string, got %d", b.TotalCodes)
	}

	if err := json.Unmarshal([]byte(`{"id":1,"total_codes":42}`), &b); err != nil {
		t.Fatal(err)
	}
	if b.TotalCodes != 42 {
		t.Errorf("expected 42 from number, got %d", b.TotalCodes)
	}

	if err := json.Unmarshal([]byte(`{"id":1,"total_codes":"n/a"}`), &b); err != nil {
		t.Fatal(err)
	}
	if b.TotalCodes != 0 {
		t.Errorf("expected 0 for unparsable total, got %d", b.TotalCodes)
	}
}

func TestBatchPageNormalize(t *testing.T) {
	var p BatchPage
	p.Normalize()
	if p.TotalPages != 1 {
		t.Errorf("expected total pages defaulted to 1, got %d", p.TotalPages)
	}
	if p.Batches == nil {
		t.Error("expected empty, non-nil batches")
	}
}

func TestBatchPageFind(t *testing.T) {
	p := BatchPage{Batches: []PersistedBatch{{ID: 1, JobID: "a"}, {ID: 2, JobID: "b"}}}

	if b, ok := p.FindByJobID("b"); !ok || b.ID != 2 {
		t.Errorf("expected batch 2 for job b, got %v %v", b, ok)
	}
	if _, ok := p.FindByID(3); ok {
		t.Error("expected batch 3 to be missing")
	}
}

func TestBatchRequestValidate(t *testing.T) {
	valid := BatchRequest{BatchName: "Run", Details: []BatchDetail{{ProductID: 1, Quantity: 5}}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	cases := []struct {
		name string
		req  BatchRequest
		key  string
	}{
		{"blank name", BatchRequest{BatchName: "   ", Details: valid.Details}, MsgBatchNameRequired},
		{"no items", BatchRequest{BatchName: "Run"}, MsgBatchItemsRequired},
		{"no product", BatchRequest{BatchName: "Run", Details: []BatchDetail{{ProductID: 0, Quantity: 1}}}, MsgBatchProductRequired},
		{"zero quantity", BatchRequest{BatchName: "Run", Details: []BatchDetail{{ProductID: 1, Quantity: 0}}}, MsgBatchQuantityPositive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Key != tc.key {
				t.Errorf("expected key %q, got %q", tc.key, verr.Key)
			}
		})
	}
}

func TestBatchRequestTotalCodes(t *testing.T) {
	req := BatchRequest{Details: []BatchDetail{{ProductID: 1, Quantity: 200}, {ProductID: 2, Quantity: 300}}}
	if req.TotalCodes() != 500 {
		t.Errorf("expected 500, got %d", req.TotalCodes())
	}
}
