package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"qrhub-admin/dtos"
	"qrhub-admin/qrhub"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type pageCall struct{ page, limit int }

// fakeBackend scripts the QRHub API and records every call.
type fakeBackend struct {
	mu sync.Mutex

	submitResult *dtos.SubmitResult
	submitErr    error
	submits      []dtos.BatchRequest

	// statuses are returned in order; the last one repeats.
	statuses   []statusReply
	statusCall int
	statusJobs []string

	page      dtos.BatchPage
	listErr   error
	listCalls []pageCall

	batches    map[int]dtos.PersistedBatch
	getCalls   int
	deletes    []int
	retryJobID string
	retries    []int

	download *qrhub.Download
	products []dtos.Product
	brands   []dtos.Brand
}

type statusReply struct {
	state *dtos.JobState
	err   error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		submitResult: &dtos.SubmitResult{JobID: "abc123", TotalCodes: 500},
		batches:      map[int]dtos.PersistedBatch{},
		page:         dtos.BatchPage{Batches: []dtos.PersistedBatch{}, TotalPages: 1},
	}
}

func (f *fakeBackend) SubmitBatch(_ context.Context, _ string, req dtos.BatchRequest) (*dtos.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, req)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	res := *f.submitResult
	return &res, nil
}

func (f *fakeBackend) JobStatus(_ context.Context, _ string, jobID string) (*dtos.JobState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusJobs = append(f.statusJobs, jobID)
	if len(f.statuses) == 0 {
		return &dtos.JobState{State: "waiting"}, nil
	}
	i := f.statusCall
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	f.statusCall++
	r := f.statuses[i]
	if r.err != nil {
		return nil, r.err
	}
	st := *r.state
	return &st, nil
}

func (f *fakeBackend) ListBatches(_ context.Context, _ string, page, limit int) (*dtos.BatchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, pageCall{page, limit})
	if f.listErr != nil {
		return nil, f.listErr
	}
	p := f.page
	p.Batches = append([]dtos.PersistedBatch(nil), f.page.Batches...)
	return &p, nil
}

func (f *fakeBackend) GetBatch(_ context.Context, _ string, id int) (*dtos.PersistedBatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	b, ok := f.batches[id]
	if !ok {
		return nil, &qrhub.APIError{StatusCode: 404}
	}
	return &b, nil
}

func (f *fakeBackend) DeleteBatch(_ context.Context, _ string, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return nil
}

func (f *fakeBackend) RetryBatch(_ context.Context, _ string, id int) (*dtos.RetryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retries = append(f.retries, id)
	return &dtos.RetryResult{JobID: f.retryJobID}, nil
}

func (f *fakeBackend) Download(_ context.Context, _ string, downloadURL string) (*qrhub.Download, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.download == nil {
		return &qrhub.Download{Body: io.NopCloser(strings.NewReader("zip:" + downloadURL)), ContentType: "application/zip", ContentLength: -1}, nil
	}
	return f.download, nil
}

func (f *fakeBackend) ListProducts(_ context.Context, _ string, page, limit int) (*dtos.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit != catalogLimit {
		return nil, fmt.Errorf("unexpected catalog limit %d", limit)
	}
	return &dtos.ProductPage{Products: f.products, TotalPages: 1, TotalItems: len(f.products), CurrentPage: page}, nil
}

func (f *fakeBackend) ListBrands(context.Context, string) ([]dtos.Brand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.brands, nil
}

func (f *fakeBackend) statusCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.statusJobs)
}

func (f *fakeBackend) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func (f *fakeBackend) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submits)
}

// manualTicker delivers ticks only when the test sends them. The channel
// is unbuffered, so a successful send means the poller finished the
// previous tick and is waiting for the next.
type manualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func (m *manualTicker) Chan() <-chan time.Time { return m.ch }

func (m *manualTicker) Stop() { m.once.Do(func() { close(m.stopped) }) }

type tickerFactory struct {
	mu      sync.Mutex
	tickers []*manualTicker
	created chan *manualTicker
}

func newTickerFactory() *tickerFactory {
	return &tickerFactory{created: make(chan *manualTicker, 16)}
}

func (tf *tickerFactory) New(time.Duration) Ticker {
	t := &manualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
	tf.mu.Lock()
	tf.tickers = append(tf.tickers, t)
	tf.mu.Unlock()
	tf.created <- t
	return t
}

// next waits for the poller to create its ticker.
func (tf *tickerFactory) next(t *testing.T) *manualTicker {
	t.Helper()
	select {
	case tk := <-tf.created:
		return tk
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not start")
		return nil
	}
}

// tick delivers one tick, failing if the poller is not listening.
func (m *manualTicker) tick(t *testing.T) {
	t.Helper()
	select {
	case m.ch <- time.Now():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not accept tick")
	}
}

// expectStopped asserts the poller exited and accepts no more ticks.
func (m *manualTicker) expectStopped(t *testing.T) {
	t.Helper()
	select {
	case <-m.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
	select {
	case m.ch <- time.Now():
		t.Fatal("poller accepted a tick after stopping")
	case <-time.After(20 * time.Millisecond):
	}
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type terminalRecorder struct {
	mu   sync.Mutex
	jobs []dtos.BatchJob
}

func (r *terminalRecorder) record(_ Owner, job dtos.BatchJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
}

func (r *terminalRecorder) all() []dtos.BatchJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]dtos.BatchJob(nil), r.jobs...)
}

func newTestWorkflow(t *testing.T, backend Backend) (*Workflow, *tickerFactory, *terminalRecorder) {
	t.Helper()
	tf := newTickerFactory()
	rec := &terminalRecorder{}
	w := NewWorkflow(backend, Owner{SessionID: uuid.New(), UserID: 1, Token: "tok"}, Options{
		PollInterval: time.Millisecond,
		PageSize:     10,
		Logger:       quietLogger(),
		OnTerminal:   rec.record,
		NewTicker:    tf.New,
	})
	t.Cleanup(w.Close)
	return w, tf, rec
}

func validRequest() dtos.BatchRequest {
	return dtos.BatchRequest{
		BatchName: "Spring run",
		Details:   []dtos.BatchDetail{{ProductID: 1, Quantity: 200}, {ProductID: 2, Quantity: 300}},
	}
}

var errNetwork = errors.New("dial tcp: connection refused")
