package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

// resolveLimit is enough to tell a unique match from an ambiguous one.
const resolveLimit = 2

type identityService struct {
	store     ports.OperatorStore
	anomalies ports.AnomalyReporter
	log       zerolog.Logger
	now       func() time.Time
}

// NewIdentityService returns an IdentityResolver backed by store.
func NewIdentityService(
	store ports.OperatorStore,
	anomalies ports.AnomalyReporter,
	log zerolog.Logger,
	opts ...Option,
) ports.IdentityResolver {
	o := buildOptions(opts)
	return &identityService{
		store:     store,
		anomalies: anomalies,
		log:       log,
		now:       o.now,
	}
}

func (s *identityService) ResolveByPhone(ctx context.Context, tenantID, phone string) (*domain.Operator, error) {
	variants := domain.PhoneVariants(phone)
	if len(variants) == 0 {
		return nil, nil
	}
	return s.resolve(ctx, tenantID, domain.FieldContactPhone, variants)
}

func (s *identityService) ResolveOperatorIDByPhone(ctx context.Context, tenantID, phone string) (string, error) {
	if domain.NormalizeID(tenantID) == "" {
		return "", fmt.Errorf("resolve by phone: %w", domain.InvalidArgument("tenant_id"))
	}
	op, err := s.ResolveByPhone(ctx, tenantID, phone)
	return operatorID(op), err
}

func (s *identityService) ResolveByCard(ctx context.Context, tenantID, cardID string) (*domain.Operator, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return nil, nil
	}
	return s.resolve(ctx, tenantID, domain.FieldCardID, []string{cardID})
}

func (s *identityService) ResolveOperatorIDByCard(ctx context.Context, tenantID, cardID string) (string, error) {
	if domain.NormalizeID(tenantID) == "" {
		return "", fmt.Errorf("resolve by card: %w", domain.InvalidArgument("tenant_id"))
	}
	op, err := s.ResolveByCard(ctx, tenantID, cardID)
	return operatorID(op), err
}

// ResolveByExternalServiceID searches every tenant, ordered by operator ID
// only.
func (s *identityService) ResolveByExternalServiceID(ctx context.Context, serviceID string) (*domain.Operator, error) {
	serviceID = strings.TrimSpace(serviceID)
	if serviceID == "" {
		return nil, nil
	}
	return s.query(ctx, ports.FieldQuery{
		Field:   domain.FieldExternalServiceID,
		Values:  []string{serviceID},
		OrderBy: []domain.Field{domain.FieldOperatorID},
		Limit:   resolveLimit,
	})
}

func (s *identityService) resolve(ctx context.Context, tenantID string, field domain.Field, values []string) (*domain.Operator, error) {
	q := ports.FieldQuery{
		TenantID: domain.NormalizeID(tenantID),
		Field:    field,
		Values:   values,
		Limit:    resolveLimit,
	}
	if q.TenantID == "" {
		q.OrderBy = []domain.Field{domain.FieldTenantID, domain.FieldOperatorID}
	} else {
		q.OrderBy = []domain.Field{domain.FieldOperatorID}
	}
	return s.query(ctx, q)
}

func (s *identityService) query(ctx context.Context, q ports.FieldQuery) (*domain.Operator, error) {
	rows, err := s.store.QueryByField(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("resolve by %s: %w", q.Field, storageErr("query", err))
	}
	if len(rows) == 0 {
		s.log.Debug().Str("field", string(q.Field)).Strs("values", q.Values).Msg("no operator matched")
		return nil, nil
	}
	if len(rows) > 1 {
		s.reportAmbiguous(ctx, q, rows)
	}
	return rows[0], nil
}

func (s *identityService) reportAmbiguous(ctx context.Context, q ports.FieldQuery, rows []*domain.Operator) {
	matches := make([]domain.OperatorKey, 0, len(rows))
	for _, r := range rows {
		matches = append(matches, r.Key())
	}
	if s.anomalies == nil {
		s.log.Warn().Str("field", string(q.Field)).Str("value", q.Values[0]).Msg("ambiguous operator match")
		return
	}
	s.anomalies.Report(ctx, domain.Anomaly{
		Kind:       domain.AnomalyAmbiguousMatch,
		TenantID:   q.TenantID,
		OperatorID: rows[0].OperatorID,
		Message:    fmt.Sprintf("%s: more than one operator has %s %q", domain.ErrAmbiguousMatch, q.Field, q.Values[0]),
		Field:      q.Field,
		Value:      q.Values[0],
		Matches:    matches,
		DetectedAt: s.now().UTC(),
	})
}

func operatorID(op *domain.Operator) string {
	if op == nil {
		return ""
	}
	return op.OperatorID
}
