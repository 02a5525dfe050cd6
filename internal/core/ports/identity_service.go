package ports

import (
	"context"

	"github.com/fleetlog/duty-status/internal/core/domain"
)

// IdentityResolver finds operators by their non-unique alternate keys.
//
// Every method returns (nil or "", nil) when nothing matches or the lookup
// value is blank. When more than one operator matches, the first one in
// key order is returned and an ambiguity anomaly is reported.
type IdentityResolver interface {
	// ResolveByPhone searches one tenant, or all tenants when tenantID is
	// empty, trying the "+1" national-number variants as well.
	ResolveByPhone(ctx context.Context, tenantID, phone string) (*domain.Operator, error)
	// ResolveOperatorIDByPhone requires a tenant and returns only the ID.
	ResolveOperatorIDByPhone(ctx context.Context, tenantID, phone string) (string, error)
	ResolveByCard(ctx context.Context, tenantID, cardID string) (*domain.Operator, error)
	ResolveOperatorIDByCard(ctx context.Context, tenantID, cardID string) (string, error)
	// ResolveByExternalServiceID always searches every tenant.
	ResolveByExternalServiceID(ctx context.Context, serviceID string) (*domain.Operator, error)
}

// AnomalyReporter receives non-fatal diagnostics. Implementations must not
// block for long and must not fail the caller.
type AnomalyReporter interface {
	Report(ctx context.Context, a domain.Anomaly)
}
