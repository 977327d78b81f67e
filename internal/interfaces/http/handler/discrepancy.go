package handler

import (
	appcashier "github.com/erp/cashledger/internal/application/cashier"
	"github.com/gin-gonic/gin"
)

// DiscrepancyHandler serves the discrepancy history and operator accuracy
type DiscrepancyHandler struct {
	BaseHandler
	reconciliation *appcashier.ReconciliationService
}

// NewDiscrepancyHandler creates a new DiscrepancyHandler
func NewDiscrepancyHandler(reconciliation *appcashier.ReconciliationService, defaultPageSize int) *DiscrepancyHandler {
	return &DiscrepancyHandler{
		BaseHandler:    newBaseHandler(defaultPageSize),
		reconciliation: reconciliation,
	}
}

// List godoc
// @ID           listDiscrepancies
// @Summary      List closed-shift discrepancies
// @Tags         discrepancies
// @Produce      json
// @Param        operator_id query string false "Closing operator"
// @Param        from        query string false "Shift date from (RFC 3339)"
// @Param        to          query string false "Shift date to (RFC 3339)"
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size"
// @Success      200 {object} APIResponse[[]appcashier.DiscrepancyDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /discrepancies [get]
func (h *DiscrepancyHandler) List(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	var q ListDiscrepanciesQuery
	if !h.bindQuery(c, &q, &q.ListRequest) {
		return
	}

	result, err := h.reconciliation.ListDiscrepancies(c.Request.Context(), appcashier.ListDiscrepanciesInput{
		BranchID:   branchID,
		OperatorID: optionalUUID(q.OperatorID),
		From:       q.From,
		To:         q.To,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// OperatorAccuracy godoc
// @ID           getOperatorAccuracy
// @Summary      Get the cash-count accuracy of an operator
// @Tags         discrepancies
// @Produce      json
// @Param        id   path  string true  "Operator ID"
// @Param        from query string false "Shift date from (RFC 3339)"
// @Param        to   query string false "Shift date to (RFC 3339)"
// @Success      200 {object} APIResponse[cashier.AccuracyStats]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /operators/{id}/accuracy [get]
func (h *DiscrepancyHandler) OperatorAccuracy(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	operatorID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var q DateRangeQuery
	if !h.bindQuery(c, &q, nil) {
		return
	}

	stats, err := h.reconciliation.GetOperatorAccuracy(c.Request.Context(), branchID, operatorID, q.From, q.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
