package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"pushbridge/internal/config"
	"pushbridge/internal/logger"
	"pushbridge/services"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitLogger(&config.LogConfig{
		Level: "error",
		Path:  filepath.Join(os.TempDir(), "pushbridge-test.log"),
	}, false)
}

type failingResolver struct{ err error }

func (r failingResolver) EnsureBinary(ctx context.Context, plat string) (string, error) {
	return "", r.err
}

func newTestRouter(resolver services.BinaryResolver) *gin.Engine {
	sup := services.NewSupervisor(resolver, nil)
	router := gin.New()
	NewTunnelController(sup).RegisterRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

/**
 * Test HTTP status mapping of tunnel endpoints
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Malformed and invalid configurations are rejected with 400
 * - Restart without a retained configuration conflicts with 409
 * - Status and URL queries before any start return 404
 * - Stopping an idle tunnel succeeds with 200
 * - A missing binary surfaces as 404 with the error message in the body
 */
func TestTunnelEndpointStatusCodes(t *testing.T) {
	router := newTestRouter(failingResolver{err: services.ErrBinaryNotFound})

	w := doRequest(router, "POST", "/pushbridge/api/v1/tunnel", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: code = %d, want 400", w.Code)
	}

	w = doRequest(router, "POST", "/pushbridge/api/v1/tunnel", `{"localPort": 0}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid config: code = %d, want 400", w.Code)
	}

	w = doRequest(router, "POST", "/pushbridge/api/v1/tunnel/restart", "")
	if w.Code != http.StatusConflict {
		t.Errorf("restart without config: code = %d, want 409", w.Code)
	}

	w = doRequest(router, "GET", "/pushbridge/api/v1/tunnel/url", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("URL before start: code = %d, want 404", w.Code)
	}

	w = doRequest(router, "DELETE", "/pushbridge/api/v1/tunnel", "")
	if w.Code != http.StatusOK {
		t.Errorf("stop idle tunnel: code = %d, want 200", w.Code)
	}

	// a valid config that fails binary resolution maps to 404
	w = doRequest(router, "POST", "/pushbridge/api/v1/tunnel", `{"localPort": 8080}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing binary: code = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Errorf("error body = %s", w.Body.String())
	}

	// the failed start recorded a status, so the status query now answers
	w = doRequest(router, "GET", "/pushbridge/api/v1/tunnel", "")
	if w.Code != http.StatusOK {
		t.Errorf("status after failed start: code = %d, want 200", w.Code)
	}
}

/**
 * Test the status endpoint before any session exists
 * @param {*testing.T} t - Testing framework instance
 */
func TestGetStatusNeverStarted(t *testing.T) {
	router := newTestRouter(failingResolver{err: services.ErrBinaryNotFound})
	w := doRequest(router, "GET", "/pushbridge/api/v1/tunnel", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status before start: code = %d, want 404", w.Code)
	}
}
