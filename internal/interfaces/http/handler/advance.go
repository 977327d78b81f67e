package handler

import (
	appcashier "github.com/erp/cashledger/internal/application/cashier"
	appidentity "github.com/erp/cashledger/internal/application/identity"
	"github.com/erp/cashledger/internal/domain/payroll"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdvanceHandler handles salary advances
type AdvanceHandler struct {
	BaseHandler
	advances  *appcashier.AdvanceService
	operators *appidentity.OperatorService
}

// NewAdvanceHandler creates a new AdvanceHandler
func NewAdvanceHandler(advances *appcashier.AdvanceService, operators *appidentity.OperatorService, defaultPageSize int) *AdvanceHandler {
	return &AdvanceHandler{
		BaseHandler: newBaseHandler(defaultPageSize),
		advances:    advances,
		operators:   operators,
	}
}

// Create godoc
// @ID           createAdvance
// @Summary      Grant a salary advance
// @Description  Cash advances are paid from an open shift and record the matching expense in the same transaction.
// @Description  Transfer advances wait for the bank transfer. The authorizer must be a supervisor or manager.
// @Tags         advances
// @Accept       json
// @Produce      json
// @Param        request body CreateAdvanceRequest true "Advance"
// @Success      201 {object} APIResponse[appcashier.AdvanceDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /advances [post]
func (h *AdvanceHandler) Create(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	userID, ok := h.user(c)
	if !ok {
		return
	}
	var req CreateAdvanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	authorizer, err := h.operators.VerifyOperator(c.Request.Context(), branchID, req.AuthorizerPin)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	input := appcashier.CreateAdvanceInput{
		BranchID:      branchID,
		EmployeeID:    uuid.MustParse(req.EmployeeID),
		Amount:        req.Amount,
		Reason:        req.Reason,
		PaymentMethod: payroll.AdvancePaymentMethod(req.PaymentMethod),
		Authorizer:    authorizer,
		ShiftID:       optionalUUID(req.ShiftID),
		CreatedBy:     userID,
	}
	if paidBy := optionalUUID(req.PaidBy); paidBy != nil {
		input.PaidBy = *paidBy
	}

	advance, err := h.advances.CreateAdvance(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, advance)
}

// List godoc
// @ID           listAdvances
// @Summary      List salary advances
// @Tags         advances
// @Produce      json
// @Param        employee_id query string false "Employee ID"
// @Param        status      query string false "Advance status"
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size"
// @Success      200 {object} APIResponse[[]appcashier.AdvanceDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /advances [get]
func (h *AdvanceHandler) List(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	var q ListAdvancesQuery
	if !h.bindQuery(c, &q, &q.ListRequest) {
		return
	}

	input := appcashier.ListAdvancesInput{
		BranchID:   branchID,
		EmployeeID: optionalUUID(q.EmployeeID),
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
	if q.Status != "" {
		status := payroll.AdvanceStatus(q.Status)
		input.Status = &status
	}

	result, err := h.advances.ListAdvances(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @ID           getAdvance
// @Summary      Get a salary advance
// @Tags         advances
// @Produce      json
// @Param        id path string true "Advance ID"
// @Success      200 {object} APIResponse[appcashier.AdvanceDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /advances/{id} [get]
func (h *AdvanceHandler) Get(c *gin.Context) {
	branchID, advanceID, ok := h.advanceParams(c)
	if !ok {
		return
	}

	advance, err := h.advances.GetAdvance(c.Request.Context(), branchID, advanceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

// Transfer godoc
// @ID           transferAdvance
// @Summary      Confirm the bank transfer of an advance
// @Tags         advances
// @Accept       json
// @Produce      json
// @Param        id      path string                 true "Advance ID"
// @Param        request body TransferAdvanceRequest true "Transfer"
// @Success      200 {object} APIResponse[appcashier.AdvanceDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /advances/{id}/transfer [post]
func (h *AdvanceHandler) Transfer(c *gin.Context) {
	branchID, advanceID, ok := h.advanceParams(c)
	if !ok {
		return
	}
	var req TransferAdvanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	advance, err := h.advances.MarkTransferred(c.Request.Context(), branchID, advanceID, uuid.MustParse(req.OperatorID), req.Reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

// Cancel godoc
// @ID           cancelAdvance
// @Summary      Cancel an advance
// @Description  Cancelling a paid cash advance removes its expense from the shift. Cancelling twice is a no-op.
// @Tags         advances
// @Accept       json
// @Produce      json
// @Param        id      path string               true "Advance ID"
// @Param        request body CancelAdvanceRequest true "Cancellation"
// @Success      200 {object} APIResponse[appcashier.AdvanceDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /advances/{id}/cancel [post]
func (h *AdvanceHandler) Cancel(c *gin.Context) {
	branchID, advanceID, ok := h.advanceParams(c)
	if !ok {
		return
	}
	var req CancelAdvanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	advance, err := h.advances.CancelAdvance(c.Request.Context(), branchID, advanceID, uuid.MustParse(req.OperatorID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

// Deduct godoc
// @ID           deductAdvance
// @Summary      Record the payroll deduction of an advance
// @Tags         advances
// @Accept       json
// @Produce      json
// @Param        id      path string               true "Advance ID"
// @Param        request body DeductAdvanceRequest true "Deduction"
// @Success      200 {object} APIResponse[appcashier.AdvanceDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /advances/{id}/deduct [post]
func (h *AdvanceHandler) Deduct(c *gin.Context) {
	branchID, advanceID, ok := h.advanceParams(c)
	if !ok {
		return
	}
	var req DeductAdvanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	advance, err := h.advances.MarkDeducted(c.Request.Context(), branchID, advanceID, req.PayrollReference)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

func (h *AdvanceHandler) advanceParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	branchID, ok := h.branch(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	advanceID, ok := h.pathID(c, "id")
	return branchID, advanceID, ok
}
