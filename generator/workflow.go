package generator

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"qrhub-admin/dtos"
	"qrhub-admin/qrhub"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrConfirmationRequired = errors.New("generator: deletion must be confirmed")
	ErrDownloadUnavailable  = errors.New("generator: batch has no download url")
	ErrClosed               = errors.New("generator: workflow closed")
	ErrNoActiveJob          = errors.New("generator: no active job")
	ErrJobRunning           = errors.New("generator: active job is still running")
)

// Backend is the part of the QRHub API the workflow depends on.
type Backend interface {
	SubmitBatch(ctx context.Context, token string, req dtos.BatchRequest) (*dtos.SubmitResult, error)
	JobStatus(ctx context.Context, token, jobID string) (*dtos.JobState, error)
	ListBatches(ctx context.Context, token string, page, limit int) (*dtos.BatchPage, error)
	GetBatch(ctx context.Context, token string, id int) (*dtos.PersistedBatch, error)
	DeleteBatch(ctx context.Context, token string, id int) error
	RetryBatch(ctx context.Context, token string, id int) (*dtos.RetryResult, error)
	Download(ctx context.Context, token, downloadURL string) (*qrhub.Download, error)
	ListProducts(ctx context.Context, token string, page, limit int) (*dtos.ProductPage, error)
	ListBrands(ctx context.Context, token string) ([]dtos.Brand, error)
}

// Ticker is the clock driving the poller.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type realTicker struct{ *time.Ticker }

func (t realTicker) Chan() <-chan time.Time { return t.C }

func newRealTicker(d time.Duration) Ticker { return realTicker{time.NewTicker(d)} }

// Owner identifies the admin session a workflow acts for.
type Owner struct {
	SessionID uuid.UUID
	UserID    int
	Token     string
}

type Options struct {
	PollInterval time.Duration
	PageSize     int
	Logger       *logrus.Entry
	// OnTerminal is called once per job that reaches completed or failed
	// while tracked, after the history refetch.
	OnTerminal func(owner Owner, job dtos.BatchJob)
	NewTicker  func(time.Duration) Ticker
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = 2 * time.Second
	}
	if o.PageSize <= 0 {
		o.PageSize = dtos.DefaultPageSize
	}
	if o.Logger == nil {
		o.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if o.NewTicker == nil {
		o.NewTicker = newRealTicker
	}
	return o
}

// History is a loaded page of persisted batches.
type History struct {
	Batches []dtos.PersistedBatch `json:"batches"`
	Page    dtos.PageInfo         `json:"pagination"`
}

// Workflow is one admin's batch generator: the wizard draft, the active
// job with its poller, and the loaded history page. At most one job is
// active and at most one poller runs.
type Workflow struct {
	backend Backend
	owner   Owner
	opts    Options
	log     *logrus.Entry

	// trackMu serializes poller replacement.
	trackMu sync.Mutex

	mu       sync.Mutex
	active   *dtos.BatchJob
	gen      uint64
	cancel   context.CancelFunc
	done     chan struct{}
	page     int
	history  *dtos.BatchPage
	draft    *Draft
	products map[int]dtos.Product
	lastUsed time.Time
	closed   bool
}

func NewWorkflow(backend Backend, owner Owner, opts Options) *Workflow {
	opts = opts.withDefaults()
	return &Workflow{
		backend:  backend,
		owner:    owner,
		opts:     opts,
		log:      opts.Logger.WithFields(logrus.Fields{"component": "generator", "session_id": owner.SessionID}),
		page:     1,
		draft:    NewDraft(),
		lastUsed: time.Now(),
	}
}

func (w *Workflow) touch() {
	w.mu.Lock()
	w.lastUsed = time.Now()
	w.mu.Unlock()
}

// IdleSince returns the last time the workflow was used.
func (w *Workflow) IdleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

// Submit validates req, queues it and starts tracking the new job. An
// invalid request never reaches the backend. On failure the draft is kept.
func (w *Workflow) Submit(ctx context.Context, req dtos.BatchRequest) (*dtos.BatchJob, error) {
	w.touch()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if w.isClosed() {
		return nil, ErrClosed
	}

	res, err := w.backend.SubmitBatch(ctx, w.owner.Token, req)
	if err != nil {
		return nil, err
	}

	job := dtos.NewBatchJob(res.JobID, req.BatchName, res.TotalCodes)
	if err := w.track(job); err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.draft.Reset()
	w.mu.Unlock()

	w.log.WithFields(logrus.Fields{"job_id": job.JobID, "total_codes": job.TotalCodes}).Info("Batch queued")
	cp := *job
	return &cp, nil
}

// SubmitDraft submits the wizard draft.
func (w *Workflow) SubmitDraft(ctx context.Context) (*dtos.BatchJob, error) {
	w.mu.Lock()
	req := w.draft.Request()
	w.mu.Unlock()
	return w.Submit(ctx, req)
}

// track makes job the active one. The previous poller is cancelled and
// awaited before the new one starts.
func (w *Workflow) track(job *dtos.BatchJob) error {
	w.trackMu.Lock()
	defer w.trackMu.Unlock()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	prevCancel, prevDone := w.cancel, w.done
	w.gen++
	gen := w.gen
	w.active = job
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	w.cancel, w.done = cancel, done
	jobID := job.JobID
	w.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
		<-prevDone
	}

	go w.poll(ctx, gen, jobID, done)
	return nil
}

func (w *Workflow) poll(ctx context.Context, gen uint64, jobID string, done chan struct{}) {
	defer close(done)

	t := w.opts.NewTicker(w.opts.PollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			if w.tick(ctx, gen, jobID) {
				return
			}
		}
	}
}

// tick polls the job once and reports whether polling should stop.
func (w *Workflow) tick(ctx context.Context, gen uint64, jobID string) bool {
	state, err := w.backend.JobStatus(ctx, w.owner.Token, jobID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		// the job keeps its last known state; the next tick retries
		w.log.WithError(err).WithField("job_id", jobID).Warn("Job status poll failed")
		return false
	}

	w.mu.Lock()
	if gen != w.gen || w.active == nil {
		w.mu.Unlock()
		return true
	}
	w.active.Apply(state)
	snapshot := *w.active
	w.mu.Unlock()

	if !snapshot.IsTerminal() {
		return false
	}

	w.log.WithFields(logrus.Fields{"job_id": jobID, "status": snapshot.Status}).Info("Batch job finished")
	w.finish(ctx, gen, snapshot)
	return true
}

// finish refetches the current history page once and reconciles the
// finished job with its persisted record.
func (w *Workflow) finish(ctx context.Context, gen uint64, job dtos.BatchJob) {
	page, err := w.refresh(ctx)
	if err != nil {
		w.log.WithError(err).WithField("job_id", job.JobID).Warn("History refetch after job completion failed")
	} else if b, ok := page.FindByJobID(job.JobID); ok && b.DownloadURL != "" {
		job.DownloadURL = b.DownloadURL
		w.mu.Lock()
		if gen == w.gen && w.active != nil {
			w.active.DownloadURL = b.DownloadURL
		}
		w.mu.Unlock()
	}

	if w.opts.OnTerminal != nil {
		w.opts.OnTerminal(w.owner, job)
	}
}

// Active returns a copy of the tracked job.
func (w *Workflow) Active() (dtos.BatchJob, bool) {
	w.touch()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active == nil {
		return dtos.BatchJob{}, false
	}
	return *w.active, true
}

// DismissActive discards a finished job. A running job cannot be dismissed.
func (w *Workflow) DismissActive() error {
	w.touch()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active == nil {
		return ErrNoActiveJob
	}
	if !w.active.IsTerminal() {
		return ErrJobRunning
	}
	w.active = nil
	return nil
}

// History loads a page of persisted batches. The server's answer is
// trusted as is; no page beyond totalPages is requested on its own.
func (w *Workflow) History(ctx context.Context, page int) (*History, error) {
	w.touch()
	if page < 1 {
		page = 1
	}
	res, err := w.backend.ListBatches(ctx, w.owner.Token, page, w.opts.PageSize)
	if err != nil {
		return nil, err
	}
	res.Normalize()

	w.mu.Lock()
	w.page = page
	w.history = res
	w.mu.Unlock()

	return &History{
		Batches: res.Batches,
		Page:    dtos.NewPager(page, w.opts.PageSize, res.TotalPages, res.TotalItems).Info(),
	}, nil
}

// Refresh reloads the current history page.
func (w *Workflow) Refresh(ctx context.Context) (*History, error) {
	return w.History(ctx, w.currentPage())
}

func (w *Workflow) refresh(ctx context.Context) (*dtos.BatchPage, error) {
	page := w.currentPage()
	res, err := w.backend.ListBatches(ctx, w.owner.Token, page, w.opts.PageSize)
	if err != nil {
		return nil, err
	}
	res.Normalize()
	w.mu.Lock()
	w.history = res
	w.mu.Unlock()
	return res, nil
}

func (w *Workflow) currentPage() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.page
}

// lookup finds a batch on the loaded page, or asks the backend.
func (w *Workflow) lookup(ctx context.Context, id int) (*dtos.PersistedBatch, error) {
	w.mu.Lock()
	if w.history != nil {
		if b, ok := w.history.FindByID(id); ok {
			cp := *b
			w.mu.Unlock()
			return &cp, nil
		}
	}
	w.mu.Unlock()
	return w.backend.GetBatch(ctx, w.owner.Token, id)
}

// Details fetches one persisted batch.
func (w *Workflow) Details(ctx context.Context, id int) (*dtos.PersistedBatch, error) {
	w.touch()
	return w.backend.GetBatch(ctx, w.owner.Token, id)
}

// Retry re-queues a batch and tracks the resulting job. The job id comes
// from the retry response, or the batch's own job id when absent.
func (w *Workflow) Retry(ctx context.Context, id int) (*dtos.BatchJob, error) {
	w.touch()
	if w.isClosed() {
		return nil, ErrClosed
	}
	batch, err := w.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := w.backend.RetryBatch(ctx, w.owner.Token, id)
	if err != nil {
		return nil, err
	}

	jobID := res.JobID
	if jobID == "" {
		jobID = batch.JobID
	}
	if jobID == "" {
		// Nothing to poll; the history shows the re-queued batch.
		if _, err := w.Refresh(ctx); err != nil {
			w.log.WithError(err).Warn("History refetch after retry failed")
		}
		return nil, nil
	}
	job := dtos.NewBatchJob(jobID, batch.BatchName, int(batch.TotalCodes))
	if err := w.track(job); err != nil {
		return nil, err
	}

	if _, err := w.Refresh(ctx); err != nil {
		w.log.WithError(err).Warn("History refetch after retry failed")
	}

	w.log.WithFields(logrus.Fields{"batch_id": id, "job_id": jobID}).Info("Batch retried")
	cp := *job
	return &cp, nil
}

// Delete removes a batch and reloads the current page. Without confirmed
// no request is made.
func (w *Workflow) Delete(ctx context.Context, id int, confirmed bool) (*History, error) {
	w.touch()
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	if err := w.backend.DeleteBatch(ctx, w.owner.Token, id); err != nil {
		return nil, err
	}
	w.log.WithField("batch_id", id).Info("Batch deleted")

	h, err := w.Refresh(ctx)
	if err != nil {
		w.log.WithError(err).Warn("History refetch after delete failed")
		return nil, nil
	}
	return h, nil
}

// Attachment is a batch archive ready to be streamed to the admin.
type Attachment struct {
	Filename      string
	ContentType   string
	ContentLength int64
	Body          io.ReadCloser
}

// Download opens the archive of a batch. The caller must close Body.
func (w *Workflow) Download(ctx context.Context, id int) (*Attachment, error) {
	w.touch()
	batch, err := w.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch.DownloadURL == "" {
		return nil, ErrDownloadUnavailable
	}

	dl, err := w.backend.Download(ctx, w.owner.Token, batch.DownloadURL)
	if err != nil {
		return nil, err
	}
	return &Attachment{
		Filename:      AttachmentFilename(dl.ContentDisposition, batch.BatchName+".zip"),
		ContentType:   dl.ContentType,
		ContentLength: dl.ContentLength,
		Body:          dl.Body,
	}, nil
}

func (w *Workflow) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Close stops the poller and waits for it. No cancel request is sent to
// the backend; the job keeps running there.
func (w *Workflow) Close() {
	w.trackMu.Lock()
	defer w.trackMu.Unlock()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.gen++
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
