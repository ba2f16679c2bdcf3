package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/session"
	"github.com/max31337/salesoptimizer-sub001/internal/http/middlewares"
	svc "github.com/max31337/salesoptimizer-sub001/internal/http/services/session"
	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
)

type fakeService struct {
	listCalls    int
	groupedCalls int
	gotDim       repository.GroupDimension
	gotStatus    repository.SessionStatus
	gotPage      int
	gotPageSize  int
	revokeErr    error
	revokedID    string
}

func (f *fakeService) List(_ context.Context, _ string, status repository.SessionStatus, page, pageSize int) (*dto.ListResponse, error) {
	f.listCalls++
	f.gotStatus = status
	f.gotPage, f.gotPageSize = page, pageSize
	return &dto.ListResponse{Sessions: []dto.SessionResponse{}, Page: page, PageSize: pageSize}, nil
}

func (f *fakeService) ListGrouped(_ context.Context, _ string, dim repository.GroupDimension, page, pageSize int) (*dto.GroupedResponse, error) {
	f.groupedCalls++
	f.gotDim = dim
	f.gotPage, f.gotPageSize = page, pageSize
	return &dto.GroupedResponse{GroupBy: string(dim), Groups: []dto.Group{}}, nil
}

func (f *fakeService) Revoke(_ context.Context, _ *jwtx.Claims, sessionID string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revokedID = sessionID
	return nil
}

func doList(t *testing.T, f *fakeService, target string) *httptest.ResponseRecorder {
	t.Helper()
	ctrl := NewSessionsController(f)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	claims := &jwtx.Claims{UserID: "user-1", Role: "sales_rep"}
	req = req.WithContext(middlewares.WithClaims(req.Context(), claims))

	rec := httptest.NewRecorder()
	ctrl.List(rec, req)
	return rec
}

func TestList_DefaultsAndFlat(t *testing.T) {
	f := &fakeService{}
	rec := doList(t, f, "/v1/sessions")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, f.listCalls)
	require.Equal(t, 0, f.groupedCalls)
	require.Equal(t, repository.SessionStatusActive, f.gotStatus)
	require.Equal(t, 1, f.gotPage)
	require.Equal(t, defaultPageSize, f.gotPageSize)
}

func TestList_StatusRevoked(t *testing.T) {
	f := &fakeService{}
	doList(t, f, "/v1/sessions?status=Revoked")
	require.Equal(t, repository.SessionStatusRevoked, f.gotStatus)
}

func TestList_GroupByDeviceAndIP(t *testing.T) {
	f := &fakeService{}
	doList(t, f, "/v1/sessions?group_by=device")
	require.Equal(t, 1, f.groupedCalls)
	require.Equal(t, repository.GroupByDevice, f.gotDim)

	doList(t, f, "/v1/sessions?group_by=IP")
	require.Equal(t, 2, f.groupedCalls)
	require.Equal(t, repository.GroupByIP, f.gotDim)
}

func TestList_InvalidGroupByFallsBackToFlat(t *testing.T) {
	f := &fakeService{}
	rec := doList(t, f, "/v1/sessions?group_by=browser")

	// Dimensión desconocida: listado plano, nunca un error
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, f.listCalls)
	require.Equal(t, 0, f.groupedCalls)
}

func TestList_NoClaims(t *testing.T) {
	ctrl := NewSessionsController(&fakeService{})
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	rec := httptest.NewRecorder()
	ctrl.List(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRevoke(t *testing.T) {
	f := &fakeService{}
	ctrl := NewSessionsController(f)

	r := chi.NewRouter()
	r.Delete("/v1/sessions/{id}", func(w http.ResponseWriter, req *http.Request) {
		claims := &jwtx.Claims{UserID: "user-1", Role: "sales_rep"}
		ctrl.Revoke(w, req.WithContext(middlewares.WithClaims(req.Context(), claims)))
	})

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/sess-9", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "sess-9", f.revokedID)
}

func TestRevoke_NotFound(t *testing.T) {
	f := &fakeService{revokeErr: svc.ErrSessionNotFound}
	ctrl := NewSessionsController(f)

	r := chi.NewRouter()
	r.Delete("/v1/sessions/{id}", func(w http.ResponseWriter, req *http.Request) {
		claims := &jwtx.Claims{UserID: "user-1", Role: "sales_rep"}
		ctrl.Revoke(w, req.WithContext(middlewares.WithClaims(req.Context(), claims)))
	})

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/sess-ghost", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
