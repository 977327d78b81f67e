package router

import (
	"github.com/erp/cashledger/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// LedgerHandlers are the handlers behind the versioned API
type LedgerHandlers struct {
	Auth          *handler.AuthHandler
	Operators     *handler.OperatorHandler
	Registers     *handler.RegisterHandler
	Shifts        *handler.ShiftHandler
	Advances      *handler.AdvanceHandler
	Discrepancies *handler.DiscrepancyHandler
	Outbox        *handler.OutboxHandler
}

// RegisterLedger adds the cash ledger route groups to r. pinGuard wraps every
// route that checks a PIN; pass nil to leave them unthrottled.
func RegisterLedger(r *Router, h LedgerHandlers, pinGuard gin.HandlerFunc) {
	guarded := func(next gin.HandlerFunc) []gin.HandlerFunc {
		if pinGuard == nil {
			return []gin.HandlerFunc{next}
		}
		return []gin.HandlerFunc{pinGuard, next}
	}

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.GET("/session", h.Auth.Session)
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.POST("/logout-all", h.Auth.LogoutAll)

	operatorRoutes := NewDomainGroup("operators", "/operators")
	operatorRoutes.POST("/verify", guarded(h.Operators.Verify)...)
	operatorRoutes.GET("/pin-availability", guarded(h.Operators.PinAvailability)...)
	operatorRoutes.POST("", h.Operators.Register)
	operatorRoutes.GET("", h.Operators.List)
	operatorRoutes.GET("/:id", h.Operators.Get)
	operatorRoutes.PUT("/:id/pin", h.Operators.AssignPin)
	operatorRoutes.POST("/:id/deactivate", h.Operators.Deactivate)
	operatorRoutes.POST("/:id/activate", h.Operators.Activate)
	operatorRoutes.GET("/:id/accuracy", h.Discrepancies.OperatorAccuracy)

	registerRoutes := NewDomainGroup("registers", "/registers")
	registerRoutes.POST("", h.Registers.Create)
	registerRoutes.GET("", h.Registers.List)
	registerRoutes.GET("/:id", h.Registers.Get)
	registerRoutes.POST("/:id/activate", h.Registers.Activate)
	registerRoutes.POST("/:id/deactivate", h.Registers.Deactivate)
	registerRoutes.POST("/:id/shifts", h.Registers.OpenShift)
	registerRoutes.GET("/:id/shifts/open", h.Registers.GetOpenShift)

	shiftRoutes := NewDomainGroup("shifts", "/shifts")
	shiftRoutes.GET("", h.Shifts.List)
	shiftRoutes.GET("/:id", h.Shifts.Get)
	shiftRoutes.GET("/:id/summary", h.Shifts.Summary)
	shiftRoutes.GET("/:id/balance", h.Shifts.Balance)
	shiftRoutes.POST("/:id/reconcile", h.Shifts.Reconcile)
	shiftRoutes.POST("/:id/close", h.Shifts.Close)
	shiftRoutes.POST("/:id/movements", guarded(h.Shifts.RecordMovement)...)
	shiftRoutes.GET("/:id/movements", h.Shifts.ListMovements)

	advanceRoutes := NewDomainGroup("advances", "/advances")
	advanceRoutes.POST("", guarded(h.Advances.Create)...)
	advanceRoutes.GET("", h.Advances.List)
	advanceRoutes.GET("/:id", h.Advances.Get)
	advanceRoutes.POST("/:id/transfer", h.Advances.Transfer)
	advanceRoutes.POST("/:id/cancel", h.Advances.Cancel)
	advanceRoutes.POST("/:id/deduct", h.Advances.Deduct)

	discrepancyRoutes := NewDomainGroup("discrepancies", "/discrepancies")
	discrepancyRoutes.GET("", h.Discrepancies.List)

	systemRoutes := NewDomainGroup("system", "/system")
	outboxRoutes := systemRoutes.Group("outbox", "/outbox")
	outboxRoutes.GET("/stats", h.Outbox.Stats)
	outboxRoutes.GET("/dead", h.Outbox.ListDead)
	outboxRoutes.POST("/dead/retry", h.Outbox.RetryAllDead)
	outboxRoutes.POST("/dead/:id/retry", h.Outbox.RetryDead)

	r.Register(authRoutes).
		Register(operatorRoutes).
		Register(registerRoutes).
		Register(shiftRoutes).
		Register(advanceRoutes).
		Register(discrepancyRoutes).
		Register(systemRoutes)
}
