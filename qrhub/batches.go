package qrhub

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"qrhub-admin/dtos"
)

const (
	batchesPath  = "/api/v1/admin/batches"
	generatePath = "/api/batch-generate"
)

// ErrNoDownloadURL is returned by Download when the batch has no archive yet.
var ErrNoDownloadURL = errors.New("qrhub: batch has no download url")

func (c *Client) ListBatches(ctx context.Context, token string, page, limit int) (*dtos.BatchPage, error) {
	var out dtos.BatchPage
	if err := c.doJSON(ctx, http.MethodGet, batchesPath, pageQuery(page, limit), token, nil, &out); err != nil {
		return nil, err
	}
	out.Normalize()
	return &out, nil
}

func (c *Client) GetBatch(ctx context.Context, token string, id int) (*dtos.PersistedBatch, error) {
	var out dtos.PersistedBatch
	if err := c.doJSON(ctx, http.MethodGet, itemPath(batchesPath, id), nil, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBatch(ctx context.Context, token string, id int) error {
	return c.doJSON(ctx, http.MethodDelete, itemPath(batchesPath, id), nil, token, nil, nil)
}

// RetryBatch re-queues a failed batch. The backend may or may not return a
// new job id.
func (c *Client) RetryBatch(ctx context.Context, token string, id int) (*dtos.RetryResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, itemPath(batchesPath, id)+"/retry", nil, nil, token)
	if err != nil {
		return nil, err
	}
	res, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var out dtos.RetryResult
	// an empty or non-JSON body still counts as success
	_ = decodeBody(res.Body, &out)
	return &out, nil
}

// SubmitBatch queues a generation job.
func (c *Client) SubmitBatch(ctx context.Context, token string, in dtos.BatchRequest) (*dtos.SubmitResult, error) {
	var out dtos.SubmitResult
	if err := c.doJSON(ctx, http.MethodPost, generatePath, nil, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JobStatus reads the queue state of a generation job.
func (c *Client) JobStatus(ctx context.Context, token, jobID string) (*dtos.JobState, error) {
	var out dtos.JobState
	path := generatePath + "/jobs/" + url.PathEscape(jobID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download is an archive stream. The caller must close Body.
type Download struct {
	Body               io.ReadCloser
	ContentType        string
	ContentDisposition string
	ContentLength      int64
}

// Download fetches a batch archive. A relative downloadURL is resolved
// against the backend origin.
func (c *Client) Download(ctx context.Context, token, downloadURL string) (*Download, error) {
	if downloadURL == "" {
		return nil, ErrNoDownloadURL
	}
	req, err := c.newRequest(ctx, http.MethodGet, downloadURL, nil, nil, token)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")

	res, err := c.do(req)
	if err != nil {
		return nil, err
	}

	ct := res.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/zip"
	}
	length := res.ContentLength
	if v := res.Header.Get("Content-Length"); length < 0 && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			length = n
		}
	}
	return &Download{
		Body:               res.Body,
		ContentType:        ct,
		ContentDisposition: res.Header.Get("Content-Disposition"),
		ContentLength:      length,
	}, nil
}

func decodeBody(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}
