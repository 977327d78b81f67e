package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.groups)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("shifts", "/shifts")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/shifts/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/shifts/ping").Code)
}

func TestRouterUse_AppliesToVersionedRoutesOnly(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	r := NewRouter(engine).Use(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	})
	g := NewDomainGroup("registers", "/registers")
	g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "registers") })
	r.Register(g).Setup()

	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/registers").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("advances", "/advances")
		assert.Equal(t, "advances", g.Name())
		assert.Equal(t, "/advances", g.Prefix())
	})

	t.Run("registers each method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("operators", "/operators")
		g.GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, "get") }).
			POST("/:id/activate", func(c *gin.Context) { c.String(http.StatusOK, "post") }).
			PUT("/:id/pin", func(c *gin.Context) { c.String(http.StatusOK, "put") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		for method, path := range map[string]string{
			http.MethodGet:  "/api/v1/operators/123",
			http.MethodPost: "/api/v1/operators/123/activate",
			http.MethodPut:  "/api/v1/operators/123/pin",
		} {
			assert.Equal(t, http.StatusOK, serve(engine, method, path).Code, "%s %s", method, path)
		}
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("shifts", "/shifts")
		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/shifts")
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("system", "/system")
		g.Group("outbox", "/outbox").GET("/stats", func(c *gin.Context) {
			c.String(http.StatusOK, "stats")
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/system/outbox/stats")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "stats", w.Body.String())
	})
}

func TestRegisterLedger_Routes(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	RegisterLedger(r, LedgerHandlers{}, nil)
	r.Setup()

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, route := range []string{
		"POST /api/v1/operators/verify",
		"GET /api/v1/operators/pin-availability",
		"POST /api/v1/operators",
		"GET /api/v1/operators",
		"GET /api/v1/operators/:id",
		"PUT /api/v1/operators/:id/pin",
		"POST /api/v1/operators/:id/deactivate",
		"POST /api/v1/operators/:id/activate",
		"GET /api/v1/operators/:id/accuracy",
		"POST /api/v1/registers",
		"GET /api/v1/registers",
		"GET /api/v1/registers/:id",
		"POST /api/v1/registers/:id/activate",
		"POST /api/v1/registers/:id/deactivate",
		"POST /api/v1/registers/:id/shifts",
		"GET /api/v1/registers/:id/shifts/open",
		"GET /api/v1/shifts",
		"GET /api/v1/shifts/:id",
		"GET /api/v1/shifts/:id/summary",
		"GET /api/v1/shifts/:id/balance",
		"POST /api/v1/shifts/:id/reconcile",
		"POST /api/v1/shifts/:id/close",
		"POST /api/v1/shifts/:id/movements",
		"GET /api/v1/shifts/:id/movements",
		"POST /api/v1/advances",
		"GET /api/v1/advances",
		"GET /api/v1/advances/:id",
		"POST /api/v1/advances/:id/transfer",
		"POST /api/v1/advances/:id/cancel",
		"POST /api/v1/advances/:id/deduct",
		"GET /api/v1/discrepancies",
		"GET /api/v1/auth/session",
		"POST /api/v1/auth/logout",
		"POST /api/v1/auth/logout-all",
		"GET /api/v1/system/outbox/stats",
		"GET /api/v1/system/outbox/dead",
		"POST /api/v1/system/outbox/dead/retry",
		"POST /api/v1/system/outbox/dead/:id/retry",
	} {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestRegisterLedger_PinGuard(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	RegisterLedger(r, LedgerHandlers{}, func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTooManyRequests)
	})
	r.Setup()

	for _, path := range []string{
		"/api/v1/operators/verify",
		"/api/v1/advances",
		"/api/v1/shifts/0b6c8a55-4d2f-4a35-9a36-4f0d3a0d6f11/movements",
	} {
		w := serve(engine, http.MethodPost, path)
		require.Equal(t, http.StatusTooManyRequests, w.Code, path)
	}
}
