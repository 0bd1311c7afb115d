package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/cavy-ledger/internal/handler"
	"github.com/noah-isme/cavy-ledger/internal/service"
)

type stubMaintenance struct {
	healthErr error
}

func (s stubMaintenance) DeleteAll(context.Context, string) error { return nil }
func (s stubMaintenance) Health(context.Context) error            { return s.healthErr }

func newTestRouter(t *testing.T, maintenance stubMaintenance, docs bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	form := handler.NewFormResponder(nil, nil)
	metrics := service.NewMetricsService()
	h := Handlers{
		Dashboard:     handler.NewDashboardHandler(nil),
		Stock:         handler.NewStockHandler(nil, form),
		Births:        handler.NewBirthHandler(nil, form),
		Records:       handler.NewRecordHandler(handler.RecordServices{}, form),
		Reports:       handler.NewReportHandler(nil, nil, nil),
		Maintenance:   handler.NewMaintenanceHandler(maintenance, nil, form),
		Notifications: handler.NewNotificationHandler(nil),
		Metrics:       handler.NewMetricsHandler(metrics),
	}
	return NewRouter(h, Options{Metrics: metrics, AllowedOrigins: []string{"*"}, EnableDocs: docs})
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealthRoute(t *testing.T) {
	w := do(newTestRouter(t, stubMaintenance{}, false), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Application and database: OK", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(newTestRouter(t, stubMaintenance{healthErr: errors.New("dial tcp: refused")}, false), http.MethodGet, "/health")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Database connection failed: dial tcp: refused", w.Body.String())
}

func TestMetricsRouteCountsRequests(t *testing.T) {
	r := newTestRouter(t, stubMaintenance{}, false)
	do(r, http.MethodGet, "/health")

	w := do(r, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `path="/health"`))
}

func TestDocsMountedOnlyWhenEnabled(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, do(newTestRouter(t, stubMaintenance{}, false), http.MethodGet, "/docs/index.html").Code)
	assert.Equal(t, http.StatusOK, do(newTestRouter(t, stubMaintenance{}, true), http.MethodGet, "/docs/index.html").Code)
}

func TestUnknownRoute(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, do(newTestRouter(t, stubMaintenance{}, false), http.MethodGet, "/nope").Code)
}
