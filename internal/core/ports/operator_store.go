package ports

import (
	"context"

	"github.com/fleetlog/duty-status/internal/core/domain"
)

// FieldQuery selects operators whose Field equals any of Values.
type FieldQuery struct {
	// TenantID scopes the query; empty searches every tenant.
	TenantID string
	Field    domain.Field
	Values   []string
	// OrderBy lists the sort keys, ascending. Only FieldTenantID and
	// FieldOperatorID are supported.
	OrderBy []domain.Field
	Limit   int
}

// OperatorStore is the persistence contract for operator records.
type OperatorStore interface {
	// Get returns domain.ErrOperatorNotFound when no record has key.
	Get(ctx context.Context, key domain.OperatorKey) (*domain.Operator, error)
	// Create inserts op and returns domain.ErrOperatorExists when the key is
	// taken.
	Create(ctx context.Context, op *domain.Operator) (domain.OperatorKey, error)
	// UpdatePartial writes only the given fields of an existing record.
	UpdatePartial(ctx context.Context, key domain.OperatorKey, fields domain.FieldSet) error
	// QueryByField returns matches in the requested order, at most q.Limit
	// rows when q.Limit > 0.
	QueryByField(ctx context.Context, q FieldQuery) ([]*domain.Operator, error)
	// ListOperatorIDs returns the operator IDs of a tenant ordered by ID.
	ListOperatorIDs(ctx context.Context, tenantID string, limit int) ([]string, error)
}

// HealthChecker is implemented by stores that can report connectivity.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
