package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/budget"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/handler"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/service"
)

// ---- mock TripServicer -----------------------------------------------------

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	generate      func(ctx context.Context, ownerID uuid.UUID, req domain.TripRequest) (domain.TripPlan, error)
	create        func(ctx context.Context, ownerID uuid.UUID, req domain.TripRequest) (domain.TripPlan, error)
	save          func(ctx context.Context, ownerID uuid.UUID, plan domain.TripPlan) (domain.TripPlan, error)
	getByID       func(ctx context.Context, ownerID, id uuid.UUID) (domain.TripPlan, error)
	listPaged     func(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.TripPlan, int64, error)
	upcoming      func(ctx context.Context, ownerID uuid.UUID, today time.Time) ([]domain.TripPlan, error)
	delete        func(ctx context.Context, ownerID, id uuid.UUID) error
	budget        func(ctx context.Context, ownerID, tripID uuid.UUID) (budget.View, error)
	currentBudget func(ctx context.Context, ownerID uuid.UUID) (budget.View, error)
	places        func(ctx context.Context, ownerID, tripID uuid.UUID) ([]domain.Place, error)
}

func (m *mockTripServicer) Generate(ctx context.Context, ownerID uuid.UUID, req domain.TripRequest) (domain.TripPlan, error) {
	return m.generate(ctx, ownerID, req)
}
func (m *mockTripServicer) Create(ctx context.Context, ownerID uuid.UUID, req domain.TripRequest) (domain.TripPlan, error) {
	return m.create(ctx, ownerID, req)
}
func (m *mockTripServicer) Save(ctx context.Context, ownerID uuid.UUID, plan domain.TripPlan) (domain.TripPlan, error) {
	return m.save(ctx, ownerID, plan)
}
func (m *mockTripServicer) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.TripPlan, error) {
	return m.getByID(ctx, ownerID, id)
}
func (m *mockTripServicer) ListPaged(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.TripPlan, int64, error) {
	return m.listPaged(ctx, ownerID, p)
}
func (m *mockTripServicer) Upcoming(ctx context.Context, ownerID uuid.UUID, today time.Time) ([]domain.TripPlan, error) {
	return m.upcoming(ctx, ownerID, today)
}
func (m *mockTripServicer) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.delete(ctx, ownerID, id)
}
func (m *mockTripServicer) Budget(ctx context.Context, ownerID, tripID uuid.UUID) (budget.View, error) {
	return m.budget(ctx, ownerID, tripID)
}
func (m *mockTripServicer) CurrentBudget(ctx context.Context, ownerID uuid.UUID) (budget.View, error) {
	return m.currentBudget(ctx, ownerID)
}
func (m *mockTripServicer) Places(ctx context.Context, ownerID, tripID uuid.UUID) ([]domain.Place, error) {
	return m.places(ctx, ownerID, tripID)
}

// compile-time check: mockTripServicer must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTripServicer)(nil)

// ---- mock UserServicer -----------------------------------------------------

type mockUserServicer struct {
	signup   func(ctx context.Context, email, password, name string) (service.Session, error)
	login    func(ctx context.Context, email, password string) (service.Session, error)
	me       func(ctx context.Context, id uuid.UUID) (domain.User, error)
	upgrade  func(ctx context.Context, id uuid.UUID) (domain.User, error)
	features func() []string
}

func (m *mockUserServicer) Signup(ctx context.Context, email, password, name string) (service.Session, error) {
	return m.signup(ctx, email, password, name)
}
func (m *mockUserServicer) Login(ctx context.Context, email, password string) (service.Session, error) {
	return m.login(ctx, email, password)
}
func (m *mockUserServicer) Me(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.me(ctx, id)
}
func (m *mockUserServicer) UpgradeToPremium(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.upgrade(ctx, id)
}
func (m *mockUserServicer) PremiumFeatures() []string {
	return m.features()
}

var _ handler.UserServicer = (*mockUserServicer)(nil)

// ---- mock ExportServicer ---------------------------------------------------

type mockExportServicer struct {
	export func(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, ownerID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- token stub ------------------------------------------------------------

// stubTokens accepts "token-<uuid>" and rejects everything else.
type stubTokens struct{}

func (stubTokens) Parse(raw string) (uuid.UUID, error) {
	id, ok := strings.CutPrefix(raw, "token-")
	if !ok {
		return uuid.Nil, errors.New("bad token")
	}
	return uuid.Parse(id)
}

// ---- helpers ---------------------------------------------------------------

var (
	caller = uuid.MustParse("5b0c54a4-6a3e-4f4b-9d0c-2f1f3bd1c001")
	today  = time.Date(2025, 5, 20, 15, 4, 5, 0, time.UTC)
)

// newHTTPHandler wires a Server with the given mocks into its chi router.
// This mirrors how main.go mounts it in production.
func newHTTPHandler(trips handler.TripServicer, users handler.UserServicer, export handler.ExportServicer) http.Handler {
	log := slog.New(slog.DiscardHandler)
	srv := handler.NewServer(trips, users, export, stubTokens{}, log).
		WithClock(func() time.Time { return today })
	return srv.Handler()
}

// do sends a request as the caller and returns the recorded response.
func do(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer token-"+caller.String())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// doAnonymous sends a request without credentials.
func doAnonymous(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}
