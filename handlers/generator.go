package handlers

import (
	"mime"
	"net/http"
	"strconv"

	"qrhub-admin/dtos"
	"qrhub-admin/generator"
	"qrhub-admin/i18n"
	"qrhub-admin/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GeneratorHandler exposes the session's batch generation workflow.
type GeneratorHandler struct {
	Workflows *generator.Store
}

func (h *GeneratorHandler) workflow(c *gin.Context) (*generator.Workflow, bool) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(middleware.Locale(c), i18n.MsgUnauthorized)})
		return nil, false
	}
	return h.Workflows.Get(generator.Owner{
		SessionID: session.ID,
		UserID:    session.UserID,
		Token:     middleware.BackendToken(c),
	}), true
}

func (h *GeneratorHandler) queued(c *gin.Context, job *dtos.BatchJob) {
	middleware.Logger(c).WithFields(logrus.Fields{
		"job_id":      job.JobID,
		"total_codes": job.TotalCodes,
	}).Info("Batch submitted")
	c.JSON(http.StatusAccepted, gin.H{
		"job":     job,
		"message": success(c, i18n.MsgBatchQueued, job.JobID, job.TotalCodes),
	})
}

// SubmitBatch queues a batch described in the request body.
func (h *GeneratorHandler) SubmitBatch(c *gin.Context) {
	w, ok := h.workflow(c)
	if !ok {
		return
	}

	var req dtos.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, i18n.MsgInvalidRequest)
		return
	}

	job, err := w.Submit(c.Request.Context(), req)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	h.queued(c, job)
}

func (h *GeneratorHandler) GetDraft(c *gin.Context) {
	w, ok := h.workflow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, w.Draft())
}

func (h *GeneratorHandler) editDraft(c *gin.Context, fn func(d *generator.Draft) error) {
	w, ok := h.workflow(c)
	if !ok {
		return
	}
	view, err := w.EditDraft(fn)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *GeneratorHandler) UpdateDraftInfo(c *gin.Context) {
	var req struct {
		BatchName   string `json:"batch_name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, i18n.MsgInvalidRequest)
		return
	}
	h.editDraft(c, func(d *generator.Draft) error {
		d.SetInfo(req.BatchName, req.Description)
		return nil
	})
}

func (h *GeneratorHandler) AddDraftItem(c *gin.Context) {
	h.editDraft(c, func(d *generator.Draft) error {
		d.AddItem()
		return nil
	})
}

func (h *GeneratorHandler) UpdateDraftItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		badRequest(c, i18n.MsgInvalidID)
		return
	}

	var req struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, i18n.MsgInvalidRequest)
		return
	}

	w, ok := h.workflow(c)
	if !ok {
		return
	}
	view, err := w.SetItem(itemID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *GeneratorHandler) RemoveDraftItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		badRequest(c, i18n.MsgInvalidID)
		return
	}
	h.editDraft(c, func(d *generator.Draft) error {
		return d.RemoveItem(itemID)
	})
}

// MoveDraftStep navigates the wizard. The body is {"action":"next"},
// {"action":"prev"} or {"step":n}.
func (h *GeneratorHandler) MoveDraftStep(c *gin.Context) {
	var req struct {
		Action string `json:"action" binding:"omitempty,oneof=next prev"`
		Step   int    `json:"step"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || (req.Action == "" && req.Step == 0) {
		badRequest(c, i18n.MsgInvalidRequest)
		return
	}
	h.editDraft(c, func(d *generator.Draft) error {
		switch req.Action {
		case "next":
			return d.Next()
		case "prev":
			d.Prev()
			return nil
		}
		return d.GoTo(req.Step)
	})
}

func (h *GeneratorHandler) ResetDraft(c *gin.Context) {
	h.editDraft(c, func(d *generator.Draft) error {
		d.Reset()
		return nil
	})
}

// SubmitDraft queues the wizard draft and resets it on success.
func (h *GeneratorHandler) SubmitDraft(c *gin.Context) {
	w, ok := h.workflow(c)
	if !ok {
		return
	}
	job, err := w.SubmitDraft(c.Request.Context())
	if err != nil {
		respondBackendError(c, err)
		return
	}
	h.queued(c, job)
}

func (h *GeneratorHandler) GetCatalog(c *gin.Context) {
	w, ok := h.workflow(c)
	if !ok {
		return
	}
	options, err := w.Catalog(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": options})
}

// GetActiveJob returns the tracked job, or null.
func (h *GeneratorHandler) GetActiveJob(c *gin.Context) {
	w, ok := h.workflow(c)
	if !ok {
		return
	}
	job, found := w.Active()
	if !found {
		c.JSON(http.StatusOK, gin.H{"job": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *GeneratorHandler) DismissActiveJob(c *gin.Context) {
	w, ok := h.workflow(c)
	if !ok {
		return
	}
	if err := w.DismissActive(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": nil})
}

func (h *GeneratorHandler) GetHistory(c *gin.Context) {
	w, ok := h.workflow(c)
	if !ok {
		return
	}

	var (
		history *generator.History
		err     error
	)
	if c.Query("page") == "" {
		history, err = w.Refresh(c.Request.Context())
	} else {
		history, err = w.History(c.Request.Context(), queryPage(c))
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *GeneratorHandler) GetBatch(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	w, ok := h.workflow(c)
	if !ok {
		return
	}
	batch, err := w.Details(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

func (h *GeneratorHandler) RetryBatch(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	w, ok := h.workflow(c)
	if !ok {
		return
	}
	job, err := w.Retry(c.Request.Context(), id)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"job":     job,
		"message": success(c, i18n.MsgBatchRetried),
	})
}

// DeleteBatch requires ?confirm=true; without it nothing is sent to the
// backend and 428 is returned.
func (h *GeneratorHandler) DeleteBatch(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	w, ok := h.workflow(c)
	if !ok {
		return
	}

	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	history, err := w.Delete(c.Request.Context(), id, confirmed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"history": history,
		"message": success(c, i18n.MsgBatchDeleted),
	})
}

// DownloadBatch streams the batch archive as an attachment.
func (h *GeneratorHandler) DownloadBatch(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	w, ok := h.workflow(c)
	if !ok {
		return
	}

	att, err := w.Download(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer att.Body.Close()

	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/zip"
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": att.Filename})
	if disposition == "" {
		disposition = "attachment"
	}

	middleware.Logger(c).WithFields(logrus.Fields{"batch_id": id, "filename": att.Filename}).Info("Streaming batch archive")
	c.DataFromReader(http.StatusOK, att.ContentLength, contentType, att.Body, map[string]string{
		"Content-Disposition": disposition,
	})
}
