package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/scry-srs/internal/api/shared"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/service/scheduler"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, svc *scheduler.MockService) http.Handler {
	t.Helper()
	log, _ := logger.GetTestLogger(t)
	return NewRouter(RouterConfig{Service: svc, Logger: log})
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	return decode[shared.ErrorResponse](t, rec)
}
