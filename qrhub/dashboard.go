package qrhub

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"qrhub-admin/dtos"
)

const dashboardPath = "/api/v1/admin/dashboard"

// envelope is the {success, data} wrapper of the reporting endpoints.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func getEnvelope[T any](ctx context.Context, c *Client, token, path string, query url.Values) (T, error) {
	var env envelope[T]
	if err := c.doJSON(ctx, http.MethodGet, dashboardPath+path, query, token, nil, &env); err != nil {
		var zero T
		return zero, err
	}
	if !env.Success {
		var zero T
		msg := env.Message
		if msg == "" {
			msg = "unsuccessful response"
		}
		return zero, fmt.Errorf("dashboard%s: %s", path, msg)
	}
	return env.Data, nil
}

func periodQuery(period string) url.Values {
	q := url.Values{}
	q.Set("period", period)
	return q
}

func (c *Client) Overview(ctx context.Context, token string) (*dtos.Overview, error) {
	return getEnvelope[*dtos.Overview](ctx, c, token, "/overview", nil)
}

func (c *Client) Activity(ctx context.Context, token string, limit int) ([]dtos.ActivityItem, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	items, err := getEnvelope[[]dtos.ActivityItem](ctx, c, token, "/activity", q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []dtos.ActivityItem{}
	}
	return items, nil
}

func (c *Client) ScanStats(ctx context.Context, token, period string) (*dtos.ScanStats, error) {
	return getEnvelope[*dtos.ScanStats](ctx, c, token, "/scans/stats", periodQuery(period))
}

func (c *Client) BatchStats(ctx context.Context, token, period string) (*dtos.BatchStats, error) {
	return getEnvelope[*dtos.BatchStats](ctx, c, token, "/batches/stats", periodQuery(period))
}

func (c *Client) Health(ctx context.Context, token string) (*dtos.Health, error) {
	return getEnvelope[*dtos.Health](ctx, c, token, "/health", nil)
}
