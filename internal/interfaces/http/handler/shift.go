package handler

import (
	appcashier "github.com/erp/cashledger/internal/application/cashier"
	appidentity "github.com/erp/cashledger/internal/application/identity"
	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ShiftHandler handles shifts and their movement ledger
type ShiftHandler struct {
	BaseHandler
	shifts         *appcashier.ShiftService
	ledger         *appcashier.LedgerService
	reconciliation *appcashier.ReconciliationService
	operators      *appidentity.OperatorService
}

// NewShiftHandler creates a new ShiftHandler
func NewShiftHandler(
	shifts *appcashier.ShiftService,
	ledger *appcashier.LedgerService,
	reconciliation *appcashier.ReconciliationService,
	operators *appidentity.OperatorService,
	defaultPageSize int,
) *ShiftHandler {
	return &ShiftHandler{
		BaseHandler:    newBaseHandler(defaultPageSize),
		shifts:         shifts,
		ledger:         ledger,
		reconciliation: reconciliation,
		operators:      operators,
	}
}

// List godoc
// @ID           listShifts
// @Summary      List shifts
// @Tags         shifts
// @Produce      json
// @Param        register_id query string false "Register ID"
// @Param        status      query string false "OPEN or CLOSED"
// @Param        from        query string false "Opened at or after (RFC 3339)"
// @Param        to          query string false "Opened before (RFC 3339)"
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size"
// @Success      200 {object} APIResponse[[]appcashier.ShiftDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shifts [get]
func (h *ShiftHandler) List(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	var q ListShiftsQuery
	if !h.bindQuery(c, &q, &q.ListRequest) {
		return
	}

	input := appcashier.ListShiftsInput{
		BranchID:   branchID,
		RegisterID: optionalUUID(q.RegisterID),
		From:       q.From,
		To:         q.To,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
	if q.Status != "" {
		status := cashier.ShiftStatus(q.Status)
		input.Status = &status
	}

	result, err := h.shifts.ListShifts(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @ID           getShift
// @Summary      Get a shift
// @Tags         shifts
// @Produce      json
// @Param        id path string true "Shift ID"
// @Success      200 {object} APIResponse[appcashier.ShiftDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shifts/{id} [get]
func (h *ShiftHandler) Get(c *gin.Context) {
	branchID, shiftID, ok := h.shiftParams(c)
	if !ok {
		return
	}

	shift, err := h.shifts.GetShift(c.Request.Context(), branchID, shiftID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shift)
}

// Summary godoc
// @ID           getShiftSummary
// @Summary      Get a shift with its movements and balance
// @Description  Each movement carries the expected cash after it
// @Tags         shifts
// @Produce      json
// @Param        id path string true "Shift ID"
// @Success      200 {object} APIResponse[appcashier.ShiftSummaryDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shifts/{id}/summary [get]
func (h *ShiftHandler) Summary(c *gin.Context) {
	branchID, shiftID, ok := h.shiftParams(c)
	if !ok {
		return
	}

	summary, err := h.shifts.GetShiftSummary(c.Request.Context(), branchID, shiftID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Balance godoc
// @ID           getShiftBalance
// @Summary      Get the running balance of a shift
// @Tags         shifts
// @Produce      json
// @Param        id path string true "Shift ID"
// @Success      200 {object} APIResponse[cashier.Balance]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shifts/{id}/balance [get]
func (h *ShiftHandler) Balance(c *gin.Context) {
	branchID, shiftID, ok := h.shiftParams(c)
	if !ok {
		return
	}

	balance, err := h.ledger.ComputeBalance(c.Request.Context(), branchID, shiftID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// Reconcile godoc
// @ID           reconcileShift
// @Summary      Preview the reconciliation of a shift
// @Description  Compares a counted amount with the expected cash without closing the shift
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        id      path string           true "Shift ID"
// @Param        request body ReconcileRequest true "Counted cash"
// @Success      200 {object} APIResponse[appcashier.CloseShiftResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shifts/{id}/reconcile [post]
func (h *ShiftHandler) Reconcile(c *gin.Context) {
	branchID, shiftID, ok := h.shiftParams(c)
	if !ok {
		return
	}
	var req ReconcileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.reconciliation.Reconcile(c.Request.Context(), branchID, shiftID, req.CountedAmount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Close godoc
// @ID           closeShift
// @Summary      Close a shift
// @Description  Freezes the ledger and records the discrepancy between counted and expected cash
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        id      path string            true "Shift ID"
// @Param        request body CloseShiftRequest true "Counted cash"
// @Success      200 {object} APIResponse[appcashier.CloseShiftResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shifts/{id}/close [post]
func (h *ShiftHandler) Close(c *gin.Context) {
	branchID, shiftID, ok := h.shiftParams(c)
	if !ok {
		return
	}
	var req CloseShiftRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.shifts.CloseShift(c.Request.Context(), appcashier.CloseShiftInput{
		BranchID:      branchID,
		ShiftID:       shiftID,
		OperatorID:    uuid.MustParse(req.OperatorID),
		CountedAmount: req.CountedAmount,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RecordMovement godoc
// @ID           recordMovement
// @Summary      Record a movement
// @Description  authorizer_pin is verified against the branch's operators before the movement is written
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        id      path string                true "Shift ID"
// @Param        request body RecordMovementRequest true "Movement"
// @Success      201 {object} APIResponse[appcashier.MovementDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shifts/{id}/movements [post]
func (h *ShiftHandler) RecordMovement(c *gin.Context) {
	branchID, shiftID, ok := h.shiftParams(c)
	if !ok {
		return
	}
	userID, ok := h.user(c)
	if !ok {
		return
	}
	var req RecordMovementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var authorizer *identity.OperatorIdentity
	if req.AuthorizerPin != "" {
		id, err := h.operators.VerifyOperator(c.Request.Context(), branchID, req.AuthorizerPin)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		authorizer = &id
	}

	movement, err := h.ledger.RecordMovement(c.Request.Context(), appcashier.RecordMovementInput{
		BranchID:              branchID,
		ShiftID:               shiftID,
		Type:                  cashier.MovementType(req.Type),
		Category:              cashier.MovementCategory(req.Category),
		Amount:                req.Amount,
		Concept:               req.Concept,
		PaymentMethod:         cashier.PaymentMethod(req.PaymentMethod),
		RecordedBy:            userID,
		OperatorID:            uuid.MustParse(req.OperatorID),
		Authorizer:            authorizer,
		RequiresAuthorization: req.RequiresAuthorization,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// ListMovements godoc
// @ID           listMovements
// @Summary      List the movements of a shift
// @Tags         movements
// @Produce      json
// @Param        id path string true "Shift ID"
// @Success      200 {object} APIResponse[[]appcashier.MovementDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shifts/{id}/movements [get]
func (h *ShiftHandler) ListMovements(c *gin.Context) {
	branchID, shiftID, ok := h.shiftParams(c)
	if !ok {
		return
	}

	movements, err := h.ledger.ListMovements(c.Request.Context(), branchID, shiftID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

func (h *ShiftHandler) shiftParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	branchID, ok := h.branch(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	shiftID, ok := h.pathID(c, "id")
	return branchID, shiftID, ok
}
