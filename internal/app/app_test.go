package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magzhanmnazhatdin/courtclub/internal/auth"
	"github.com/magzhanmnazhatdin/courtclub/internal/config"
)

func localConfig() config.Config {
	return config.Config{
		HTTPAddr:         "127.0.0.1:0",
		GinMode:          "test",
		LogLevel:         "error",
		ShutdownTimeout:  time.Second,
		StoreBackend:     config.StoreMemory,
		AuthMode:         config.AuthHS256,
		AuthHS256Secret:  "app-secret",
		PaymentProvider:  config.PaymentStatic,
		PaymentCurrency:  "usd",
		CORSAllowOrigins: []string{"*"},
	}
}

func TestNew_MemoryBackend(t *testing.T) {
	a, err := New(context.Background(), localConfig())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	tokens, err := auth.NewHS256("app-secret")
	require.NoError(t, err)
	tok, err := tokens.Issue("u1", "ann@x.com", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me/role", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"ann@x.com","role":"user"}`, w.Body.String())

	assert.NoError(t, a.shutdown())
}

func TestNew_BadLogLevel(t *testing.T) {
	cfg := localConfig()
	cfg.LogLevel = "chatty"
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNew_FailedInitStopsTracing(t *testing.T) {
	stopped := 0
	orig := setupTracing
	setupTracing = func(context.Context, string, string) (func(context.Context) error, error) {
		return func(context.Context) error { stopped++; return nil }, nil
	}
	t.Cleanup(func() { setupTracing = orig })

	cfg := localConfig()
	// firebase tokens cannot be verified without the firestore backend
	cfg.AuthMode = config.AuthFirebase

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Equal(t, 1, stopped)
}

func TestRun_ListenFailureStopsTracing(t *testing.T) {
	stopped := 0
	orig := setupTracing
	setupTracing = func(context.Context, string, string) (func(context.Context) error, error) {
		return func(context.Context) error { stopped++; return nil }, nil
	}
	t.Cleanup(func() { setupTracing = orig })

	cfg := localConfig()
	cfg.HTTPAddr = "256.0.0.1:bad"
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	assert.Error(t, a.Run())
	assert.Equal(t, 1, stopped)
}
