package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling_LabelsRequest(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTBranchIDKey, "branch-1")
		c.Next()
	}, Profiling(true))

	var labels map[string]string
	router.POST("/api/v1/shifts/:id/movements", func(c *gin.Context) {
		labels = map[string]string{}
		pprof.ForLabels(c.Request.Context(), func(key, value string) bool {
			labels[key] = value
			return true
		})
		c.Status(http.StatusCreated)
	})

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/v1/shifts/9/movements", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "POST /api/v1/shifts/:id/movements", labels["operation"])
	assert.Equal(t, "/api/v1/shifts/:id/movements", labels["route"])
	assert.Equal(t, "branch-1", labels["branch_id"])
}

func TestProfiling_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(Profiling(false))

	labelled := false
	router.GET("/test", func(c *gin.Context) {
		pprof.ForLabels(c.Request.Context(), func(string, string) bool {
			labelled = true
			return false
		})
		c.Status(http.StatusOK)
	})

	serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.False(t, labelled)
}
