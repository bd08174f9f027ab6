package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wishy-app/backend/config"
	"github.com/wishy-app/backend/pkg/errorx"
	"github.com/wishy-app/backend/pkg/logger"
	"github.com/wishy-app/backend/pkg/router"
	"github.com/wishy-app/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type echoRequest struct {
	Name string `json:"name"`
}

type echoResponse struct {
	Greeting string `json:"greeting"`
}

type createdResponse struct{}

func (createdResponse) StatusInfo() int {
	return http.StatusCreated
}

type redirectResponse struct{}

func (redirectResponse) RedirectInfo() (int, string) {
	return http.StatusFound, "https://example.com/elsewhere"
}

func newTestRouter(t *testing.T) *router.Router {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	return router.New(db, config.Configs{}, logger.NewLogger(logger.SILENCE))
}

func TestRouterSuccessEnvelope(t *testing.T) {
	r := newTestRouter(t)
	router.GET(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{Greeting: "hello " + req.Name}, nil
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/echo?name=alice", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data echoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "hello alice", body.Data.Greeting)
}

func TestRouterPostBinding(t *testing.T) {
	r := newTestRouter(t)
	router.POST(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{Greeting: "hello " + req.Name}, nil
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(
		"POST", "/echo", strings.NewReader(`{"name": "bob"}`)))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "hello bob")
}

func TestRouterErrorEnvelope(t *testing.T) {
	r := newTestRouter(t)
	router.GET(r, "/fail", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return nil, errorx.NewWithDetails(errorx.Validation,
			map[string]any{"field": "name"}, "Name is required")
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/fail", nil))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Error struct {
			Message string         `json:"message"`
			Type    string         `json:"type"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Name is required", body.Error.Message)
	require.Equal(t, "ValidationError", body.Error.Type)
	require.Equal(t, "name", body.Error.Details["field"])
}

func TestRouterUnauthenticatedHeader(t *testing.T) {
	r := newTestRouter(t)
	router.GET(r, "/private", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return nil, errorx.New(errorx.Unauthenticated, "Missing access token")
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/private", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestRouterUnknownErrorHidden(t *testing.T) {
	r := newTestRouter(t)
	router.GET(r, "/boom", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return nil, context.DeadlineExceeded
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "deadline")
}

func TestRouterStatusInfo(t *testing.T) {
	r := newTestRouter(t)
	router.POST(r, "/create", func(ctx context.Context, req *echoRequest) (*createdResponse, error) {
		return &createdResponse{}, nil
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("POST", "/create", nil))

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestRouterRedirectInfo(t *testing.T) {
	r := newTestRouter(t)
	router.GET(r, "/go", func(ctx context.Context, req *echoRequest) (*redirectResponse, error) {
		return &redirectResponse{}, nil
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/go", nil))

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://example.com/elsewhere", w.Header().Get("Location"))
}

func TestRouterFailingMiddlewareStillRunsClosers(t *testing.T) {
	r := newTestRouter(t)

	var closedCtx context.Context
	var closedErr error
	r.AddCloser(func(ctx context.Context, err error) {
		closedCtx = ctx
		closedErr = err
	})

	branch := r.Branch()
	branch.Before(func(ctx context.Context) (context.Context, error) {
		return nil, errorx.New(errorx.Unauthenticated, "Missing access token")
	})
	router.GET(branch, "/private", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		t.Fatal("handler must not run after a failing middleware")
		return nil, nil
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/private", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)

	// The closer observes the middleware error and a usable context, not the
	// nil one the failing middleware returned.
	var errx errorx.Error
	require.ErrorAs(t, closedErr, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)
	require.NotNil(t, closedCtx)
	require.NotNil(t, xcontext.HTTPRequest(closedCtx))
}

func TestRouterMethodNotAllowed(t *testing.T) {
	r := newTestRouter(t)
	router.POST(r, "/create", func(ctx context.Context, req *echoRequest) (*createdResponse, error) {
		return &createdResponse{}, nil
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/create", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
}
