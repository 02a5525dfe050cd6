package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetlog/duty-status/internal/api/middleware"
	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var testNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withParams(c echo.Context, kv ...string) {
	var names, values []string
	for i := 0; i+1 < len(kv); i += 2 {
		names = append(names, kv[i])
		values = append(values, kv[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
}

func asAdmin(c echo.Context) {
	c.Set(middleware.ContextKeyRole, domain.RoleAdmin)
}

func asTenant(c echo.Context, tenant string) {
	c.Set(middleware.ContextKeyRole, domain.RoleTenant)
	c.Set(middleware.ContextKeyTenantID, tenant)
}

func httpCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Stub
// ---------------------------------------------------------------------------

type stubOperatorService struct {
	createFn func(ctx context.Context, in ports.CreateOperatorInput) (*domain.Operator, error)
	getFn    func(ctx context.Context, tenantID, operatorID string) (*domain.Operator, error)
	listFn   func(ctx context.Context, tenantID string, limit int) ([]string, error)
}

func (s *stubOperatorService) Create(ctx context.Context, in ports.CreateOperatorInput) (*domain.Operator, error) {
	return s.createFn(ctx, in)
}

func (s *stubOperatorService) Get(ctx context.Context, tenantID, operatorID string) (*domain.Operator, error) {
	return s.getFn(ctx, tenantID, operatorID)
}

func (s *stubOperatorService) ListIDs(ctx context.Context, tenantID string, limit int) ([]string, error) {
	return s.listFn(ctx, tenantID, limit)
}

func newOperatorHandler(svc ports.OperatorService) *OperatorHandler {
	h := NewOperatorHandler(svc)
	h.now = func() time.Time { return testNow }
	return h
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestOperatorHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubOperatorService{
		createFn: func(_ context.Context, in ports.CreateOperatorInput) (*domain.Operator, error) {
			if in.TenantID != "acme" || in.OperatorID != "d1" || in.CardID != "C-1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.LicenseExpiry != domain.DayNumberFromDate(2030, time.June, 30) {
				t.Fatalf("unexpected expiry: %v", in.LicenseExpiry)
			}
			op := domain.NewOperator(in.TenantID, in.OperatorID)
			op.CardID = in.CardID
			op.LicenseExpiry = in.LicenseExpiry
			return op, nil
		},
	}

	c, rec := newContext(e, http.MethodPost, "/v1/tenants/acme/operators",
		`{"operator_id":"d1","card_id":"C-1","license_expiry":"2030-06-30"}`)
	withParams(c, "tenant_id", "acme")

	if err := newOperatorHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/v1/tenants/acme/operators/d1" {
		t.Errorf("unexpected Location %q", loc)
	}

	var resp operatorResponse
	decode(t, rec, &resp)
	if resp.OperatorID != "d1" || resp.LicenseExpiry != "2030-06-30" || resp.LicenseExpired {
		t.Errorf("unexpected payload: %+v", resp)
	}
	if resp.DutyStatus.Code != int(domain.DutyUnknown) {
		t.Errorf("expected unknown status, got %+v", resp.DutyStatus)
	}
}

func TestOperatorHandler_Create_Validation(t *testing.T) {
	stub := &stubOperatorService{
		createFn: func(context.Context, ports.CreateOperatorInput) (*domain.Operator, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed", "not-json", http.StatusBadRequest},
		{"missing id", `{"card_id":"C-1"}`, http.StatusUnprocessableEntity},
		{"bad email", `{"operator_id":"d1","contact_email":"nope"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"operator_id":"d1","license_expiry":"30/06/2030"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newContext(newTestEcho(), http.MethodPost, "/v1/tenants/acme/operators", tc.body)
			withParams(c, "tenant_id", "acme")

			err := newOperatorHandler(stub).Create(c)
			if got := httpCode(err); got != tc.want {
				t.Errorf("expected %d, got %d (%v)", tc.want, got, err)
			}
		})
	}
}

func TestOperatorHandler_Create_Duplicate(t *testing.T) {
	stub := &stubOperatorService{
		createFn: func(context.Context, ports.CreateOperatorInput) (*domain.Operator, error) {
			return nil, domain.ErrOperatorExists
		},
	}
	c, _ := newContext(newTestEcho(), http.MethodPost, "/v1/tenants/acme/operators", `{"operator_id":"d1"}`)
	withParams(c, "tenant_id", "acme")

	err := newOperatorHandler(stub).Create(c)
	if !errors.Is(err, domain.ErrOperatorExists) {
		t.Errorf("expected ErrOperatorExists, got %v", err)
	}
}

func TestOperatorHandler_Get(t *testing.T) {
	stub := &stubOperatorService{
		getFn: func(_ context.Context, tenantID, operatorID string) (*domain.Operator, error) {
			if tenantID != "acme" || operatorID != "d1" {
				return nil, domain.ErrOperatorNotFound
			}
			op := domain.NewOperator(tenantID, operatorID)
			op.DutyStatus = domain.DutyDriving
			op.DutyStatusTime = testNow.Unix()
			return op, nil
		},
	}
	h := newOperatorHandler(stub)

	c, rec := newContext(newTestEcho(), http.MethodGet, "/", "")
	withParams(c, "tenant_id", "acme", "operator_id", "d1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp operatorResponse
	decode(t, rec, &resp)
	if !resp.OnDuty || resp.DutyStatus.ShortCode != "D" || resp.DutyStatusTime != testNow.Unix() {
		t.Errorf("unexpected payload: %+v", resp)
	}

	c, _ = newContext(newTestEcho(), http.MethodGet, "/", "")
	withParams(c, "tenant_id", "acme", "operator_id", "nobody")
	if err := h.Get(c); !errors.Is(err, domain.ErrOperatorNotFound) {
		t.Errorf("expected ErrOperatorNotFound, got %v", err)
	}
}

func TestOperatorHandler_List(t *testing.T) {
	var gotLimit int
	stub := &stubOperatorService{
		listFn: func(_ context.Context, tenantID string, limit int) ([]string, error) {
			gotLimit = limit
			return []string{"a", "b"}, nil
		},
	}
	h := newOperatorHandler(stub)

	c, rec := newContext(newTestEcho(), http.MethodGet, "/v1/tenants/acme/operators?limit=2", "")
	withParams(c, "tenant_id", "acme")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp listOperatorsResponse
	decode(t, rec, &resp)
	if gotLimit != 2 || resp.Count != 2 || resp.TenantID != "acme" {
		t.Errorf("unexpected payload %+v (limit %d)", resp, gotLimit)
	}

	c, _ = newContext(newTestEcho(), http.MethodGet, "/v1/tenants/acme/operators?limit=abc", "")
	withParams(c, "tenant_id", "acme")
	if got := httpCode(h.List(c)); got != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", got)
	}
}

func TestOperatorHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubOperatorService{
		listFn: func(context.Context, string, int) ([]string, error) { return nil, nil },
	}
	c, rec := newContext(newTestEcho(), http.MethodGet, "/", "")
	withParams(c, "tenant_id", "acme")

	if err := newOperatorHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"operator_ids":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}
