package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicehub/pkg/client"
	"servicehub/pkg/config"
	httputil "servicehub/pkg/http"
	"servicehub/pkg/logger"
	"servicehub/pkg/middleware"
	"servicehub/pkg/model"
)

type staticVerifier struct{}

func (staticVerifier) Verify(token string) (*model.Identity, error) {
	if token != "valid" {
		return nil, errors.New("bad token")
	}
	return &model.Identity{UserID: "u1"}, nil
}

type staticProfiles struct{}

func (staticProfiles) ResolveProfile(_ context.Context, userID string) (*model.Profile, error) {
	return &model.Profile{ID: "p-" + userID, Type: model.ProfileTypeProvider}, nil
}

type whoAmIHandler struct{}

func (whoAmIHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/whoami", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		actor, err := middleware.RequireIdentity(r.Context())
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteSuccess(w, actor)
	})
}

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	cfg := &config.Config{
		Port:              "0",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1 << 20,
		Log:               logger.Discard(),
		Client:            client.NewClient(),
	}

	a := NewApplication(cfg)
	a.SetApp(staticVerifier{}, staticProfiles{}, whoAmIHandler{})
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})
	return a
}

func serve(a *Application, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func TestApplication_Routes(t *testing.T) {
	a := newTestApplication(t)

	assert.Equal(t, http.StatusOK, serve(a, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(a, "/metrics", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(a, "/api/v1/nope", "").Code)
}

func TestApplication_Authentication(t *testing.T) {
	a := newTestApplication(t)

	assert.Equal(t, http.StatusUnauthorized, serve(a, "/api/v1/whoami", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(a, "/api/v1/whoami", "forged").Code)

	rec := serve(a, "/api/v1/whoami", "valid")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"profile_id":"p-u1"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
