package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appcashier "github.com/erp/cashledger/internal/application/cashier"
	appevent "github.com/erp/cashledger/internal/application/event"
	appidentity "github.com/erp/cashledger/internal/application/identity"
	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/infrastructure/auth"
	"github.com/erp/cashledger/internal/infrastructure/event"
	"github.com/erp/cashledger/internal/infrastructure/persistence"
	"github.com/erp/cashledger/internal/interfaces/http/dto"
	"github.com/erp/cashledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// anonymousHeader makes the test auth middleware leave the request without claims
const anonymousHeader = "X-Test-Anonymous"

// testEnv serves the ledger endpoints over real services on an in-memory SQLite store
type testEnv struct {
	db         *gorm.DB
	engine     *gin.Engine
	branchID   uuid.UUID
	userID     uuid.UUID
	tokenID    string
	register   *cashier.CashRegister
	cashier    *identity.Operator
	supervisor *identity.Operator
	blacklist  *auth.InMemoryTokenBlacklist
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	hasher, err := auth.NewPinHasher("handler-test-pepper-0123456789abc", bcrypt.MinCost)
	require.NoError(t, err)

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	scope := persistence.NewGormTransactionScope(db, serializer, 3)
	log := zap.NewNop()

	registerRepo := persistence.NewGormCashRegisterRepository(db)
	shiftRepo := persistence.NewGormShiftRepository(db)
	movementRepo := persistence.NewGormMovementRepository(db)
	operatorRepo := persistence.NewGormOperatorRepository(db)

	registers := appcashier.NewRegisterService(registerRepo, shiftRepo, scope, log)
	shifts := appcashier.NewShiftService(shiftRepo, movementRepo, scope, log)
	ledger := appcashier.NewLedgerService(shiftRepo, movementRepo, scope, log)
	advances := appcashier.NewAdvanceService(persistence.NewGormSalaryAdvanceRepository(db), scope, log)
	reconciliation := appcashier.NewReconciliationService(shiftRepo, movementRepo, persistence.NewGormDiscrepancyRepository(db))
	operators := appidentity.NewOperatorService(operatorRepo, scope.OperatorScope(), hasher, log)
	outbox := appevent.NewOutboxService(event.NewGormOutboxRepository(db), log)

	env := &testEnv{
		db:        db,
		branchID:  uuid.New(),
		userID:    uuid.New(),
		tokenID:   uuid.NewString(),
		blacklist: auth.NewInMemoryTokenBlacklist(),
	}

	ctx := context.Background()
	env.register, err = cashier.NewCashRegister(env.branchID, "Caja 1", 1)
	require.NoError(t, err)
	require.NoError(t, registerRepo.Create(ctx, env.register))
	env.cashier, err = identity.NewOperator(env.branchID, "Lucia", identity.RoleCashier, "1111", hasher)
	require.NoError(t, err)
	require.NoError(t, operatorRepo.Create(ctx, env.cashier))
	env.supervisor, err = identity.NewOperator(env.branchID, "Marta", identity.RoleSupervisor, "2222", hasher)
	require.NoError(t, err)
	require.NoError(t, operatorRepo.Create(ctx, env.supervisor))

	engine := gin.New()
	api := engine.Group("/api/v1", env.authenticate)

	authH := NewAuthHandler(env.blacklist, time.Hour)
	api.GET("/auth/session", authH.Session)
	api.POST("/auth/logout", authH.Logout)
	api.POST("/auth/logout-all", authH.LogoutAll)

	operatorH := NewOperatorHandler(operators, 20)
	discrepancyH := NewDiscrepancyHandler(reconciliation, 20)
	api.POST("/operators/verify", operatorH.Verify)
	api.GET("/operators/pin-availability", operatorH.PinAvailability)
	api.POST("/operators", operatorH.Register)
	api.GET("/operators", operatorH.List)
	api.GET("/operators/:id", operatorH.Get)
	api.PUT("/operators/:id/pin", operatorH.AssignPin)
	api.POST("/operators/:id/deactivate", operatorH.Deactivate)
	api.POST("/operators/:id/activate", operatorH.Activate)
	api.GET("/operators/:id/accuracy", discrepancyH.OperatorAccuracy)
	api.GET("/discrepancies", discrepancyH.List)

	registerH := NewRegisterHandler(registers, shifts, 20)
	api.POST("/registers", registerH.Create)
	api.GET("/registers", registerH.List)
	api.GET("/registers/:id", registerH.Get)
	api.POST("/registers/:id/deactivate", registerH.Deactivate)
	api.POST("/registers/:id/activate", registerH.Activate)
	api.POST("/registers/:id/shifts", registerH.OpenShift)
	api.GET("/registers/:id/shifts/open", registerH.GetOpenShift)

	shiftH := NewShiftHandler(shifts, ledger, reconciliation, operators, 20)
	api.GET("/shifts", shiftH.List)
	api.GET("/shifts/:id", shiftH.Get)
	api.GET("/shifts/:id/summary", shiftH.Summary)
	api.GET("/shifts/:id/balance", shiftH.Balance)
	api.POST("/shifts/:id/reconcile", shiftH.Reconcile)
	api.POST("/shifts/:id/close", shiftH.Close)
	api.POST("/shifts/:id/movements", shiftH.RecordMovement)
	api.GET("/shifts/:id/movements", shiftH.ListMovements)

	advanceH := NewAdvanceHandler(advances, operators, 20)
	api.POST("/advances", advanceH.Create)
	api.GET("/advances", advanceH.List)
	api.GET("/advances/:id", advanceH.Get)
	api.POST("/advances/:id/transfer", advanceH.Transfer)
	api.POST("/advances/:id/cancel", advanceH.Cancel)
	api.POST("/advances/:id/deduct", advanceH.Deduct)

	outboxH := NewOutboxHandler(outbox, 20)
	api.GET("/system/outbox/stats", outboxH.Stats)
	api.GET("/system/outbox/dead", outboxH.ListDead)
	api.POST("/system/outbox/dead/retry", outboxH.RetryAllDead)
	api.POST("/system/outbox/dead/:id/retry", outboxH.RetryDead)

	env.engine = engine
	return env
}

// authenticate stands in for the JWT middleware
func (e *testEnv) authenticate(c *gin.Context) {
	if c.GetHeader(anonymousHeader) != "" {
		c.Next()
		return
	}
	c.Set(middleware.JWTClaimsKey, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        e.tokenID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		BranchID: e.branchID.String(),
		UserID:   e.userID.String(),
		Username: "encargado",
	})
	c.Set(middleware.JWTBranchIDKey, e.branchID.String())
	c.Set(middleware.JWTUserIDKey, e.userID.String())
	c.Set(middleware.JWTUsernameKey, "encargado")
	c.Next()
}

func (e *testEnv) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// openShift opens a shift on the fixture register through the API
func (e *testEnv) openShift(t *testing.T, opening string) appcashier.ShiftDTO {
	t.Helper()
	w := e.do(http.MethodPost, "/api/v1/registers/"+e.register.ID.String()+"/shifts", gin.H{
		"operator_id":    e.cashier.ID.String(),
		"opening_amount": opening,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[appcashier.ShiftDTO](t, w)
}

// envelope is the decoded form of dto.Response with a typed payload
type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

func decodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var resp envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	resp := decodeEnvelope[T](t, w)
	require.True(t, resp.Success, w.Body.String())
	return resp.Data
}

// errorCode returns the error code of a failed response
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeEnvelope[json.RawMessage](t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}
