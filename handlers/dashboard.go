package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"qrhub-admin/cache"
	"qrhub-admin/dtos"
	"qrhub-admin/i18n"
	"qrhub-admin/middleware"
	"qrhub-admin/qrhub"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultScanPeriod    = "7d"
	defaultBatchPeriod   = "30d"
	defaultActivityLimit = 10
)

// DashboardHandler serves the reporting sections. Responses are cached for
// TTL; cache failures fall through to the backend.
type DashboardHandler struct {
	API   *qrhub.Client
	Cache cache.Cache
	TTL   time.Duration
	Log   *logrus.Entry
}

func (h *DashboardHandler) logger() *logrus.Entry {
	if h.Log != nil {
		return h.Log
	}
	return logrus.NewEntry(logrus.StandardLogger()).WithField("component", "dashboard")
}

func (h *DashboardHandler) store() cache.Cache {
	if h.Cache != nil {
		return h.Cache
	}
	return cache.NopCache{}
}

func (h *DashboardHandler) overview(ctx context.Context, token string) (*dtos.Overview, error) {
	return cache.Remember(ctx, h.store(), h.logger(), "dashboard:overview", h.TTL,
		func(ctx context.Context) (*dtos.Overview, error) { return h.API.Overview(ctx, token) })
}

func (h *DashboardHandler) activity(ctx context.Context, token string, limit int) ([]dtos.ActivityItem, error) {
	return cache.Remember(ctx, h.store(), h.logger(), fmt.Sprintf("dashboard:activity:%d", limit), h.TTL,
		func(ctx context.Context) ([]dtos.ActivityItem, error) { return h.API.Activity(ctx, token, limit) })
}

func (h *DashboardHandler) scanStats(ctx context.Context, token, period string) (*dtos.ScanStats, error) {
	return cache.Remember(ctx, h.store(), h.logger(), "dashboard:scans:"+period, h.TTL,
		func(ctx context.Context) (*dtos.ScanStats, error) { return h.API.ScanStats(ctx, token, period) })
}

func (h *DashboardHandler) batchStats(ctx context.Context, token, period string) (*dtos.BatchStats, error) {
	return cache.Remember(ctx, h.store(), h.logger(), "dashboard:batches:"+period, h.TTL,
		func(ctx context.Context) (*dtos.BatchStats, error) { return h.API.BatchStats(ctx, token, period) })
}

func (h *DashboardHandler) health(ctx context.Context, token string) (*dtos.Health, error) {
	return cache.Remember(ctx, h.store(), h.logger(), "dashboard:health", h.TTL,
		func(ctx context.Context) (*dtos.Health, error) { return h.API.Health(ctx, token) })
}

// period reads a period query parameter, replying 400 when it is not one
// of 7d, 30d or 90d.
func period(c *gin.Context, name, fallback string) (string, bool) {
	p := c.DefaultQuery(name, fallback)
	if !dtos.Periods[p] {
		badRequest(c, i18n.MsgInvalidPeriod)
		return "", false
	}
	return p, true
}

func activityLimit(c *gin.Context) int {
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 && n <= 100 {
		return n
	}
	return defaultActivityLimit
}

// GetSummary loads every section concurrently. A failing section is left
// empty and its error listed; the others are still returned.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	scanPeriod, ok := period(c, "scanPeriod", defaultScanPeriod)
	if !ok {
		return
	}
	batchPeriod, ok := period(c, "batchPeriod", defaultBatchPeriod)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	token := middleware.BackendToken(c)
	locale := middleware.Locale(c)
	limit := activityLimit(c)

	var (
		summary dtos.DashboardSummary
		mu      sync.Mutex
		g       errgroup.Group
	)
	section := func(name string, load func() error) {
		g.Go(func() error {
			if err := load(); err != nil {
				h.logger().WithError(err).WithField("section", name).Warn("Dashboard section failed")
				mu.Lock()
				if summary.Errors == nil {
					summary.Errors = map[string]string{}
				}
				summary.Errors[name] = sectionMessage(locale, err)
				mu.Unlock()
			}
			return nil
		})
	}

	section("overview", func() (err error) {
		summary.Overview, err = h.overview(ctx, token)
		return err
	})
	section("activity", func() (err error) {
		summary.Activity, err = h.activity(ctx, token, limit)
		return err
	})
	section("scanStats", func() (err error) {
		summary.ScanStats, err = h.scanStats(ctx, token, scanPeriod)
		return err
	})
	section("batchStats", func() (err error) {
		summary.BatchStats, err = h.batchStats(ctx, token, batchPeriod)
		return err
	})
	section("health", func() (err error) {
		summary.Health, err = h.health(ctx, token)
		return err
	})
	_ = g.Wait()

	c.JSON(http.StatusOK, summary)
}

func sectionMessage(locale string, err error) string {
	switch {
	case errors.Is(err, qrhub.ErrUnauthorized):
		return i18n.T(locale, i18n.MsgUnauthorized)
	case errors.Is(err, qrhub.ErrNotFound):
		return i18n.T(locale, i18n.MsgNotFound)
	case errors.Is(err, qrhub.ErrServer):
		return i18n.T(locale, i18n.MsgServerError)
	case errors.Is(err, qrhub.ErrRequest):
		return i18n.T(locale, i18n.MsgRequestError)
	}
	return i18n.T(locale, i18n.MsgUnexpected)
}

func (h *DashboardHandler) GetOverview(c *gin.Context) {
	data, err := h.overview(c.Request.Context(), middleware.BackendToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *DashboardHandler) GetActivity(c *gin.Context) {
	data, err := h.activity(c.Request.Context(), middleware.BackendToken(c), activityLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if data == nil {
		data = []dtos.ActivityItem{}
	}
	c.JSON(http.StatusOK, data)
}

func (h *DashboardHandler) GetScanStats(c *gin.Context) {
	p, ok := period(c, "period", defaultScanPeriod)
	if !ok {
		return
	}
	data, err := h.scanStats(c.Request.Context(), middleware.BackendToken(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *DashboardHandler) GetBatchStats(c *gin.Context) {
	p, ok := period(c, "period", defaultBatchPeriod)
	if !ok {
		return
	}
	data, err := h.batchStats(c.Request.Context(), middleware.BackendToken(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *DashboardHandler) GetHealth(c *gin.Context) {
	data, err := h.health(c.Request.Context(), middleware.BackendToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
