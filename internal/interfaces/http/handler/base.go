// Package handler implements the HTTP endpoints of the cash ledger API.
package handler

import (
	"net/http"

	"github.com/erp/cashledger/internal/interfaces/http/dto"
	"github.com/erp/cashledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BaseHandler provides common handler utilities
type BaseHandler struct {
	defaultPageSize int
}

func newBaseHandler(defaultPageSize int) BaseHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	return BaseHandler{defaultPageSize: defaultPageSize}
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.Set(middleware.ErrorCodeKey, code)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// ValidationError sends a 400 for a failed ShouldBind call
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	c.Set(middleware.ErrorCodeKey, dto.ErrCodeValidation)
	middleware.HandleValidationError(c, err)
}

// HandleError writes err as a response. Domain errors keep their code and
// message; anything else is logged upstream and hidden behind a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, code, message := dto.ErrorStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	h.Error(c, status, code, message)
}

// branch returns the branch of the bearer token, answering 401 when it is missing
func (h *BaseHandler) branch(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.BranchID(c)
	if !ok {
		h.Unauthorized(c, "Branch not found in token")
	}
	return id, ok
}

// user returns the back-office user of the bearer token, answering 401 when it is missing
func (h *BaseHandler) user(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		h.Unauthorized(c, "User not found in token")
	}
	return id, ok
}

// pathID parses a UUID path parameter, answering 400 when it is malformed
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// bindQuery binds query parameters and normalizes any embedded pagination
func (h *BaseHandler) bindQuery(c *gin.Context, req any, page *dto.ListRequest) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.ValidationError(c, err)
		return false
	}
	if page != nil {
		page.Normalize(h.defaultPageSize)
	}
	return true
}

// bindJSON binds the request body
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.ValidationError(c, err)
		return false
	}
	return true
}

// optionalUUID parses an optional UUID query value already checked by the uuid binding
func optionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
