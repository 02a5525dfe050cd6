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

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

type operatorService struct {
	store ports.OperatorStore
	log   zerolog.Logger
	now   func() time.Time
}

// NewOperatorService returns an OperatorService implementation.
func NewOperatorService(store ports.OperatorStore, log zerolog.Logger, opts ...Option) ports.OperatorService {
	o := buildOptions(opts)
	return &operatorService{store: store, log: log, now: o.now}
}

// Create provisions a new operator. The status starts as UNKNOWN.
func (s *operatorService) Create(ctx context.Context, in ports.CreateOperatorInput) (*domain.Operator, error) {
	key := domain.NewOperatorKey(in.TenantID, in.OperatorID)
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("create operator: %w", err)
	}

	now := s.now().UTC()
	op := domain.NewOperator(key.TenantID, key.OperatorID)
	op.Description = in.Description
	op.ContactEmail = in.ContactEmail
	op.ContactPhone = in.ContactPhone
	op.CardID = in.CardID
	op.ExternalServiceID = in.ExternalServiceID
	op.BadgeID = in.BadgeID
	op.LicenseType = in.LicenseType
	op.LicenseNumber = in.LicenseNumber
	op.SetLicenseExpiry(in.LicenseExpiry)
	if strings.TrimSpace(op.Description) == "" {
		op.Description = in.OperatorID
	}
	if op.ContactEmail == "" && domain.LooksLikeEmail(strings.TrimSpace(in.OperatorID)) {
		op.ContactEmail = in.OperatorID
	}
	op.CreatedAt = now
	op.UpdatedAt = now
	op.Sanitize()

	if _, err := s.store.Create(ctx, op); err != nil {
		return nil, fmt.Errorf("create operator %s: %w", key, storageErr("create", err))
	}

	s.log.Info().Str("operator", key.String()).Msg("operator created")
	return op, nil
}

func (s *operatorService) Get(ctx context.Context, tenantID, operatorID string) (*domain.Operator, error) {
	key := domain.NewOperatorKey(tenantID, operatorID)
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("get operator: %w", err)
	}
	op, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get operator %s: %w", key, storageErr("get", err))
	}
	return op, nil
}

// ListIDs returns up to limit operator IDs of a tenant in ID order. A
// non-positive limit selects the default page size.
func (s *operatorService) ListIDs(ctx context.Context, tenantID string, limit int) ([]string, error) {
	tenant := domain.NormalizeID(tenantID)
	if tenant == "" {
		return nil, fmt.Errorf("list operators: %w", domain.InvalidArgument("tenant_id"))
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	ids, err := s.store.ListOperatorIDs(ctx, tenant, limit)
	if err != nil {
		return nil, fmt.Errorf("list operators %s: %w", tenant, storageErr("list", err))
	}
	return ids, nil
}
