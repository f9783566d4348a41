package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordedRequest struct {
	method, route string
	status        int
}

type fakeRecorder struct {
	requests []recordedRequest
}

func (f *fakeRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method, route, status})
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	recorder := &fakeRecorder{}

	r := chi.NewRouter()
	r.Use(Logger(zap.New(core), recorder))
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/plain", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	for _, path := range []string{"/items/7", "/plain", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Equal(t, []recordedRequest{
		{http.MethodGet, "/items/{id}", http.StatusTeapot},
		{http.MethodGet, "/plain", http.StatusOK},
		{http.MethodGet, "unmatched", http.StatusNotFound},
	}, recorder.requests)

	require.Equal(t, 3, logs.Len())
	first := logs.All()[0].ContextMap()
	assert.Equal(t, "/items/7", first["path"])
	assert.Equal(t, int64(http.StatusTeapot), first["status"])
}

func TestLogger_NilRecorder(t *testing.T) {
	handler := Logger(zap.NewNop(), nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
