package qrhub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the QRHub backend. It is safe for concurrent use; the
// bearer token is passed per call since every admin session has its own.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: scheme and host are required", baseURL)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// resolve turns an API path or an absolute URL into a request URL.
func (c *Client) resolve(ref string, query url.Values) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	u := c.baseURL.ResolveReference(r)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u, nil
}

func (c *Client) newRequest(ctx context.Context, method, ref string, query url.Values, body io.Reader, token string) (*http.Request, error) {
	u, err := c.resolve(ref, query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do sends req and turns non-2xx responses into *APIError. On success the
// caller owns the response body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		defer res.Body.Close()
		return nil, decodeError(res)
	}
	return res, nil
}

// doJSON encodes in (if any) as the request body and decodes the response
// into out (if any).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := c.newRequest(ctx, method, path, query, body, token)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(limit))
	return q
}
