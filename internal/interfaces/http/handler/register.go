package handler

import (
	"context"
	"net/http"

	appcashier "github.com/erp/cashledger/internal/application/cashier"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterHandler handles cash registers and the shifts opened on them
type RegisterHandler struct {
	BaseHandler
	registers *appcashier.RegisterService
	shifts    *appcashier.ShiftService
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(registers *appcashier.RegisterService, shifts *appcashier.ShiftService, defaultPageSize int) *RegisterHandler {
	return &RegisterHandler{
		BaseHandler: newBaseHandler(defaultPageSize),
		registers:   registers,
		shifts:      shifts,
	}
}

// Create godoc
// @ID           createRegister
// @Summary      Create a cash register
// @Tags         registers
// @Accept       json
// @Produce      json
// @Param        request body CreateRegisterRequest true "Register"
// @Success      201 {object} APIResponse[appcashier.RegisterDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /registers [post]
func (h *RegisterHandler) Create(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	var req CreateRegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	register, err := h.registers.CreateRegister(c.Request.Context(), appcashier.CreateRegisterInput{
		BranchID:     branchID,
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, register)
}

// List godoc
// @ID           listRegisters
// @Summary      List cash registers
// @Tags         registers
// @Produce      json
// @Param        active_only query bool false "Only active registers"
// @Param        page        query int  false "Page number"
// @Param        page_size   query int  false "Page size"
// @Success      200 {object} APIResponse[[]appcashier.RegisterDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /registers [get]
func (h *RegisterHandler) List(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	var q ListRegistersQuery
	if !h.bindQuery(c, &q, &q.ListRequest) {
		return
	}

	result, err := h.registers.ListRegisters(c.Request.Context(), branchID, q.ActiveOnly, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @ID           getRegister
// @Summary      Get a cash register
// @Tags         registers
// @Produce      json
// @Param        id path string true "Register ID"
// @Success      200 {object} APIResponse[appcashier.RegisterDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /registers/{id} [get]
func (h *RegisterHandler) Get(c *gin.Context) {
	h.withRegister(c, h.registers.GetRegister)
}

// Activate godoc
// @ID           activateRegister
// @Summary      Activate a cash register
// @Tags         registers
// @Produce      json
// @Param        id path string true "Register ID"
// @Success      200 {object} APIResponse[appcashier.RegisterDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /registers/{id}/activate [post]
func (h *RegisterHandler) Activate(c *gin.Context) {
	h.withRegister(c, h.registers.ActivateRegister)
}

// Deactivate godoc
// @ID           deactivateRegister
// @Summary      Deactivate a cash register
// @Description  A register with an open shift cannot be deactivated
// @Tags         registers
// @Produce      json
// @Param        id path string true "Register ID"
// @Success      200 {object} APIResponse[appcashier.RegisterDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /registers/{id}/deactivate [post]
func (h *RegisterHandler) Deactivate(c *gin.Context) {
	h.withRegister(c, h.registers.DeactivateRegister)
}

type registerAction func(ctx context.Context, branchID, registerID uuid.UUID) (*appcashier.RegisterDTO, error)

func (h *RegisterHandler) withRegister(c *gin.Context, action registerAction) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	register, err := action(c.Request.Context(), branchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}

// OpenShift godoc
// @ID           openShift
// @Summary      Open a shift on a register
// @Description  At most one shift per register is open at any time
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        id      path string           true "Register ID"
// @Param        request body OpenShiftRequest true "Opening"
// @Success      201 {object} APIResponse[appcashier.ShiftDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /registers/{id}/shifts [post]
func (h *RegisterHandler) OpenShift(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	registerID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req OpenShiftRequest
	if !h.bindJSON(c, &req) {
		return
	}

	shift, err := h.shifts.OpenShift(c.Request.Context(), appcashier.OpenShiftInput{
		BranchID:      branchID,
		RegisterID:    registerID,
		OperatorID:    uuid.MustParse(req.OperatorID),
		OpeningAmount: req.OpeningAmount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, shift)
}

// GetOpenShift godoc
// @ID           getOpenShift
// @Summary      Get the open shift of a register
// @Tags         shifts
// @Produce      json
// @Param        id path string true "Register ID"
// @Success      200 {object} APIResponse[appcashier.ShiftDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /registers/{id}/shifts/open [get]
func (h *RegisterHandler) GetOpenShift(c *gin.Context) {
	branchID, ok := h.branch(c)
	if !ok {
		return
	}
	registerID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	shift, err := h.shifts.GetOpenShift(c.Request.Context(), branchID, registerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if shift == nil {
		h.Error(c, http.StatusNotFound, "SHIFT_NOT_OPEN", "Register has no open shift")
		return
	}
	h.Success(c, shift)
}
