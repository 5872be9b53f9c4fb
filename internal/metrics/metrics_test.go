package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewManager()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/projects/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest("GET", "/projects/123", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// The route template, not the raw path, is the label value.
	counter := m.httpRequests.WithLabelValues("GET", "/projects/:id", "200")
	assert.Equal(t, 1.0, testutil.ToFloat64(counter))
}

func TestDomainCounters(t *testing.T) {
	m := NewManager()

	m.RecordEvaluation(true)
	m.RecordEvaluation(true)
	m.RecordEvaluation(false)
	m.RecordUpload()
	m.RecordExport("csv")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.evaluationsSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.evaluationDrafts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.presentationUploads))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reportExports.WithLabelValues("csv")))
}

func TestHandlerServesRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewManager()
	m.RecordUpload()

	r := gin.New()
	r.GET("/metrics", m.Handler())

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "confjudge_files_presentation_uploads_total 1")
}
