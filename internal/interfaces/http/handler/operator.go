package handler

import (
	appidentity "github.com/erp/cashledger/internal/application/identity"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/gin-gonic/gin"
)

// OperatorHandler handles the operators of a branch and PIN verification
type OperatorHandler struct {
	BaseHandler
	operators *appidentity.OperatorService
}

// NewOperatorHandler creates a new OperatorHandler
func NewOperatorHandler(operators *appidentity.OperatorService, defaultPageSize int) *OperatorHandler {
	return &OperatorHandler{
		BaseHandler: newBaseHandler(defaultPageSize),
		operators:   operators,
	}
}

// Verify godoc
// @ID           verifyOperator
// @Summary      Verify an operator PIN
// @Description  Resolves the active operator of the branch holding the PIN
// @Tags         operators
// @Accept       json
// @Produce      json
// @Param        request body VerifyOperatorRequest true "PIN"
// @Success      200 {object} APIResponse[appidentity.IdentityDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /operators/verify [post]
func (h *OperatorHandler) Verify(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	var req VerifyOperatorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	id, err := h.operators.VerifyOperator(c.Request.Context(), branchID, req.Pin)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appidentity.ToIdentityDTO(id))
}

// PinAvailability godoc
// @ID           getOperatorPinAvailability
// @Summary      Check whether a PIN is free
// @Description  A PIN is free when no other active operator of the branch holds it
// @Tags         operators
// @Produce      json
// @Param        pin        query string true  "Candidate PIN"
// @Param        exclude_id query string false "Operator to ignore, for PIN changes"
// @Success      200 {object} APIResponse[PinAvailabilityData]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /operators/pin-availability [get]
func (h *OperatorHandler) PinAvailability(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	var q PinAvailabilityQuery
	if !h.bindQuery(c, &q, nil) {
		return
	}

	available, err := h.operators.CheckPinAvailable(c.Request.Context(), branchID, q.Pin, optionalUUID(q.ExcludeID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, PinAvailabilityData{Available: available})
}

// Register godoc
// @ID           registerOperator
// @Summary      Register an operator
// @Tags         operators
// @Accept       json
// @Produce      json
// @Param        request body RegisterOperatorRequest true "Operator"
// @Success      201 {object} APIResponse[appidentity.OperatorDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /operators [post]
func (h *OperatorHandler) Register(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	var req RegisterOperatorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	op, err := h.operators.RegisterOperator(c.Request.Context(), appidentity.RegisterOperatorInput{
		BranchID: branchID,
		Name:     req.Name,
		Role:     identity.OperatorRole(req.Role),
		Pin:      req.Pin,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, op)
}

// List godoc
// @ID           listOperators
// @Summary      List operators
// @Tags         operators
// @Produce      json
// @Param        status    query string false "ACTIVE or INACTIVE"
// @Param        role      query string false "CASHIER, SUPERVISOR or MANAGER"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} APIResponse[[]appidentity.OperatorDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /operators [get]
func (h *OperatorHandler) List(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	var q ListOperatorsQuery
	if !h.bindQuery(c, &q, &q.ListRequest) {
		return
	}

	input := appidentity.ListOperatorsInput{
		BranchID: branchID,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.Status != "" {
		status := identity.OperatorStatus(q.Status)
		input.Status = &status
	}
	if q.Role != "" {
		role := identity.OperatorRole(q.Role)
		input.Role = &role
	}

	result, err := h.operators.ListOperators(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Operators, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @ID           getOperator
// @Summary      Get an operator
// @Tags         operators
// @Produce      json
// @Param        id path string true "Operator ID"
// @Success      200 {object} APIResponse[appidentity.OperatorDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /operators/{id} [get]
func (h *OperatorHandler) Get(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	op, err := h.operators.GetOperator(c.Request.Context(), branchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, op)
}

// AssignPin godoc
// @ID           assignOperatorPin
// @Summary      Assign a new PIN
// @Tags         operators
// @Accept       json
// @Produce      json
// @Param        id      path string           true "Operator ID"
// @Param        request body AssignPinRequest true "New PIN"
// @Success      200 {object} APIResponse[appidentity.OperatorDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /operators/{id}/pin [put]
func (h *OperatorHandler) AssignPin(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req AssignPinRequest
	if !h.bindJSON(c, &req) {
		return
	}

	op, err := h.operators.AssignPin(c.Request.Context(), branchID, id, req.Pin)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, op)
}

// Deactivate godoc
// @ID           deactivateOperator
// @Summary      Deactivate an operator
// @Description  A deactivated operator can no longer be verified by PIN
// @Tags         operators
// @Produce      json
// @Param        id path string true "Operator ID"
// @Success      200 {object} APIResponse[appidentity.OperatorDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /operators/{id}/deactivate [post]
func (h *OperatorHandler) Deactivate(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	op, err := h.operators.DeactivateOperator(c.Request.Context(), branchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, op)
}

// Activate godoc
// @ID           activateOperator
// @Summary      Reactivate an operator
// @Description  Fails with a conflict when another active operator took the PIN meanwhile
// @Tags         operators
// @Produce      json
// @Param        id path string true "Operator ID"
// @Success      200 {object} APIResponse[appidentity.OperatorDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /operators/{id}/activate [post]
func (h *OperatorHandler) Activate(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	op, err := h.operators.ActivateOperator(c.Request.Context(), branchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, op)
}
