package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/fleetlog/duty-status/internal/core/domain"
)

type stubResolver struct {
	byPhoneFn    func(ctx context.Context, tenantID, phone string) (*domain.Operator, error)
	idByPhoneFn  func(ctx context.Context, tenantID, phone string) (string, error)
	byCardFn     func(ctx context.Context, tenantID, cardID string) (*domain.Operator, error)
	idByCardFn   func(ctx context.Context, tenantID, cardID string) (string, error)
	byExternalFn func(ctx context.Context, serviceID string) (*domain.Operator, error)
}

func (s *stubResolver) ResolveByPhone(ctx context.Context, tenantID, phone string) (*domain.Operator, error) {
	return s.byPhoneFn(ctx, tenantID, phone)
}

func (s *stubResolver) ResolveOperatorIDByPhone(ctx context.Context, tenantID, phone string) (string, error) {
	return s.idByPhoneFn(ctx, tenantID, phone)
}

func (s *stubResolver) ResolveByCard(ctx context.Context, tenantID, cardID string) (*domain.Operator, error) {
	return s.byCardFn(ctx, tenantID, cardID)
}

func (s *stubResolver) ResolveOperatorIDByCard(ctx context.Context, tenantID, cardID string) (string, error) {
	return s.idByCardFn(ctx, tenantID, cardID)
}

func (s *stubResolver) ResolveByExternalServiceID(ctx context.Context, serviceID string) (*domain.Operator, error) {
	return s.byExternalFn(ctx, serviceID)
}

func newLookupHandler(r *stubResolver) *LookupHandler {
	h := NewLookupHandler(r)
	h.now = func() time.Time { return testNow }
	return h
}

func TestLookupHandler_ByPhone(t *testing.T) {
	var gotTenant, gotPhone string
	r := &stubResolver{
		byPhoneFn: func(_ context.Context, tenantID, phone string) (*domain.Operator, error) {
			gotTenant, gotPhone = tenantID, phone
			return domain.NewOperator("acme", "d1"), nil
		},
	}

	c, rec := newContext(newTestEcho(), http.MethodGet, "/v1/lookup/phone?value=%2B15551234567", "")
	asTenant(c, "acme")

	if err := newLookupHandler(r).ByPhone(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotTenant != "acme" || gotPhone != "+15551234567" {
		t.Errorf("unexpected args: %q %q", gotTenant, gotPhone)
	}
	var resp operatorResponse
	decode(t, rec, &resp)
	if resp.OperatorID != "d1" {
		t.Errorf("unexpected payload: %+v", resp)
	}
}

func TestLookupHandler_ByCard_AdminAllTenants(t *testing.T) {
	gotTenant := "unset"
	r := &stubResolver{
		byCardFn: func(_ context.Context, tenantID, _ string) (*domain.Operator, error) {
			gotTenant = tenantID
			return nil, nil
		},
	}

	c, _ := newContext(newTestEcho(), http.MethodGet, "/v1/lookup/card?value=C-1", "")
	asAdmin(c)

	err := newLookupHandler(r).ByCard(c)
	if !errors.Is(err, domain.ErrOperatorNotFound) {
		t.Errorf("expected ErrOperatorNotFound for a miss, got %v", err)
	}
	if gotTenant != "" {
		t.Errorf("expected cross-tenant lookup, got tenant %q", gotTenant)
	}
}

func TestLookupHandler_TenantCannotSearchOtherTenant(t *testing.T) {
	r := &stubResolver{
		byCardFn: func(context.Context, string, string) (*domain.Operator, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	c, _ := newContext(newTestEcho(), http.MethodGet, "/v1/lookup/card?value=C-1&tenant_id=beta", "")
	asTenant(c, "acme")

	if got := httpCode(newLookupHandler(r).ByCard(c)); got != http.StatusForbidden {
		t.Errorf("expected 403, got %d", got)
	}
}

func TestLookupHandler_BlankValue(t *testing.T) {
	c, _ := newContext(newTestEcho(), http.MethodGet, "/v1/lookup/external?value=+", "")
	asAdmin(c)

	if got := httpCode(newLookupHandler(&stubResolver{}).ByExternalServiceID(c)); got != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", got)
	}
}

func TestLookupHandler_ByExternalServiceID(t *testing.T) {
	r := &stubResolver{
		byExternalFn: func(_ context.Context, serviceID string) (*domain.Operator, error) {
			if serviceID != "svc-1" {
				t.Fatalf("unexpected id %q", serviceID)
			}
			return domain.NewOperator("beta", "x"), nil
		},
	}
	c, rec := newContext(newTestEcho(), http.MethodGet, "/v1/lookup/external?value=svc-1", "")
	asAdmin(c)

	if err := newLookupHandler(r).ByExternalServiceID(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp operatorResponse
	decode(t, rec, &resp)
	if resp.TenantID != "beta" || resp.OperatorID != "x" {
		t.Errorf("unexpected payload: %+v", resp)
	}
}

func TestLookupHandler_OperatorIDByCard(t *testing.T) {
	r := &stubResolver{
		idByCardFn: func(_ context.Context, tenantID, cardID string) (string, error) {
			if tenantID == "acme" && cardID == "C-1" {
				return "d1", nil
			}
			return "", nil
		},
	}
	h := newLookupHandler(r)

	c, rec := newContext(newTestEcho(), http.MethodGet, "/v1/tenants/acme/lookup/card?value=C-1", "")
	withParams(c, "tenant_id", "ACME")
	if err := h.OperatorIDByCard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp operatorIDResponse
	decode(t, rec, &resp)
	if resp.TenantID != "acme" || resp.OperatorID != "d1" {
		t.Errorf("unexpected payload: %+v", resp)
	}

	c, _ = newContext(newTestEcho(), http.MethodGet, "/v1/tenants/acme/lookup/card?value=C-2", "")
	withParams(c, "tenant_id", "acme")
	if err := h.OperatorIDByCard(c); !errors.Is(err, domain.ErrOperatorNotFound) {
		t.Errorf("expected ErrOperatorNotFound, got %v", err)
	}
}

func TestLookupHandler_OperatorIDByPhone_StorageError(t *testing.T) {
	r := &stubResolver{
		idByPhoneFn: func(context.Context, string, string) (string, error) {
			return "", domain.NewStorageError("query", errors.New("timeout"))
		},
	}
	c, _ := newContext(newTestEcho(), http.MethodGet, "/v1/tenants/acme/lookup/phone?value=5551234567", "")
	withParams(c, "tenant_id", "acme")

	if err := newLookupHandler(r).OperatorIDByPhone(c); !errors.Is(err, domain.ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}
