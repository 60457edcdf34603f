package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/souzacred/crm-backend/internal/access"
	"github.com/souzacred/crm-backend/internal/middleware"
	"github.com/souzacred/crm-backend/internal/models"
)

// stubResponseHandler records which path the handler took instead of writing
// real responses.
type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any
	writeErrorCalled   bool
	handleErrorCalled  bool
	handledErr         error
}

func (s *stubResponseHandler) WriteSuccess(_ http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data
}

func (s *stubResponseHandler) WriteError(_ http.ResponseWriter, _ *http.Request, status int, code, message string) {
	s.writeErrorCalled = true
}

func (s *stubResponseHandler) HandleError(_ http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handledErr = err
}

// stubGate approves or denies everyone and records the operation checked.
type stubGate struct {
	user   *models.User
	err    error
	lastOp access.Operation
}

func (s *stubGate) Require(_ context.Context, uid string, op access.Operation) (*models.User, error) {
	s.lastOp = op
	return s.user, s.err
}

func (s *stubGate) Resolve(_ context.Context, uid string) (*models.User, error) {
	return s.user, s.err
}

func allowAll() *stubGate {
	return &stubGate{user: &models.User{UID: "uid1", Role: models.RoleAdmin, Active: true}}
}

// withUID injects a UID into the request context.
func withUID(r *http.Request, uid string) *http.Request {
	return r.WithContext(middleware.WithUID(r.Context(), uid))
}

// withChiParam injects a chi URL parameter into the request context.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}
