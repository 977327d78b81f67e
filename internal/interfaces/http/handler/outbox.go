package handler

import (
	appevent "github.com/erp/cashledger/internal/application/event"
	"github.com/erp/cashledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// OutboxHandler exposes the undelivered ledger events of a branch
type OutboxHandler struct {
	BaseHandler
	outbox *appevent.OutboxService
}

// NewOutboxHandler creates a new OutboxHandler
func NewOutboxHandler(outbox *appevent.OutboxService, defaultPageSize int) *OutboxHandler {
	return &OutboxHandler{
		BaseHandler: newBaseHandler(defaultPageSize),
		outbox:      outbox,
	}
}

// Stats godoc
// @ID           getOutboxStats
// @Summary      Count outbox entries per status
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[appevent.OutboxStatsDTO]
// @Security     BearerAuth
// @Router       /system/outbox/stats [get]
func (h *OutboxHandler) Stats(c *gin.Context) {
	stats, err := h.outbox.GetStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ListDead godoc
// @ID           listOutboxDeadLetters
// @Summary      List events that exhausted their retries
// @Tags         system
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]appevent.OutboxEntryDTO]
// @Security     BearerAuth
// @Router       /system/outbox/dead [get]
func (h *OutboxHandler) ListDead(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	var q dto.ListRequest
	if !h.bindQuery(c, &q, &q) {
		return
	}

	result, err := h.outbox.GetDeadLetterEntries(c.Request.Context(), branchID, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// RetryDead godoc
// @ID           retryOutboxDeadLetter
// @Summary      Requeue a dead event
// @Tags         system
// @Produce      json
// @Param        id path string true "Outbox entry ID"
// @Success      200 {object} APIResponse[appevent.OutboxEntryDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/outbox/dead/{id}/retry [post]
func (h *OutboxHandler) RetryDead(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	entry, err := h.outbox.RetryDeadEntry(c.Request.Context(), branchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// RetryAllDead godoc
// @ID           retryAllOutboxDeadLetters
// @Summary      Requeue every dead event of the branch
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Security     BearerAuth
// @Router       /system/outbox/dead/retry [post]
func (h *OutboxHandler) RetryAllDead(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}

	count, err := h.outbox.RetryAllDeadEntries(c.Request.Context(), branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: count})
}
