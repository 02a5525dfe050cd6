package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, key domain.OperatorKey, status domain.DutyStatus, ts int64, deviceID string) (bool, error)
	Mark(ctx context.Context, key domain.OperatorKey, status domain.DutyStatus, ts int64, deviceID string) error
}

type reportProcessor struct {
	duty        ports.DutyStatusService
	identity    ports.IdentityResolver
	dedup       DedupChecker
	allowCreate bool
	log         zerolog.Logger
}

// NewReportProcessor returns a ReportProcessor. allowCreate lets reports that
// name an operator ID directly provision unknown operators.
func NewReportProcessor(
	duty ports.DutyStatusService,
	identity ports.IdentityResolver,
	dedup DedupChecker,
	allowCreate bool,
	log zerolog.Logger,
) ports.ReportProcessor {
	return &reportProcessor{
		duty:        duty,
		identity:    identity,
		dedup:       dedup,
		allowCreate: allowCreate,
		log:         log,
	}
}

// Process resolves the operator a report is about, skips exact repeats and
// hands the rest to the duty-status engine.
func (p *reportProcessor) Process(ctx context.Context, r ports.StatusReport) error {
	// 1. Work out who the report is about.
	key, direct, err := p.resolveKey(ctx, r)
	if err != nil {
		return fmt.Errorf("process report: %w", err)
	}
	status := domain.ParseDutyStatus(r.Status)
	r.DeviceID = strings.TrimSpace(r.DeviceID)

	// 2. Idempotency check. Reports without a time cannot be told apart.
	dedupable := p.dedup != nil && r.Timestamp > 0
	if dedupable {
		isDup, err := p.dedup.IsDuplicate(ctx, key, status, r.Timestamp, r.DeviceID)
		if err != nil {
			p.log.Warn().Err(err).Str("operator", key.String()).Msg("dedup check failed, processing anyway")
		} else if isDup {
			p.log.Debug().Str("operator", key.String()).Stringer("status", status).Msg("duplicate report skipped")
			return nil
		}
	}

	// 3. Apply.
	changed, err := p.duty.UpdateStatus(ctx, ports.StatusUpdateInput{
		TenantID:    key.TenantID,
		OperatorID:  key.OperatorID,
		Status:      status,
		Timestamp:   r.Timestamp,
		DeviceID:    r.DeviceID,
		AllowCreate: direct && p.allowCreate,
	})
	if err != nil {
		return fmt.Errorf("process report: %w", err)
	}

	// 4. Remember the report only once it has been applied.
	if dedupable {
		if markErr := p.dedup.Mark(ctx, key, status, r.Timestamp, r.DeviceID); markErr != nil {
			p.log.Warn().Err(markErr).Str("operator", key.String()).Msg("failed to set dedup key")
		}
	}

	p.log.Debug().
		Str("operator", key.String()).
		Stringer("status", status).
		Str("source", r.Source).
		Bool("changed", changed).
		Msg("report processed")
	return nil
}

// resolveKey returns the operator key of r and whether it was named directly.
func (p *reportProcessor) resolveKey(ctx context.Context, r ports.StatusReport) (domain.OperatorKey, bool, error) {
	if domain.NormalizeID(r.OperatorID) != "" {
		key := domain.NewOperatorKey(r.TenantID, r.OperatorID)
		return key, true, key.Validate()
	}

	var (
		op  *domain.Operator
		err error
		by  string
	)
	switch {
	case r.ContactPhone != "":
		by = "phone"
		op, err = p.identity.ResolveByPhone(ctx, r.TenantID, r.ContactPhone)
	case r.CardID != "":
		by = "card"
		op, err = p.identity.ResolveByCard(ctx, r.TenantID, r.CardID)
	case r.ExternalServiceID != "":
		by = "external service id"
		op, err = p.identity.ResolveByExternalServiceID(ctx, r.ExternalServiceID)
	default:
		return domain.OperatorKey{}, false, domain.InvalidArgument("operator_id")
	}
	if err != nil {
		return domain.OperatorKey{}, false, err
	}
	// External IDs are global; a report naming a tenant must still land in it.
	if tenant := domain.NormalizeID(r.TenantID); op != nil && tenant != "" && op.TenantID != tenant {
		op = nil
	}
	if op == nil {
		return domain.OperatorKey{}, false, fmt.Errorf("no operator for %s: %w", by, domain.ErrOperatorNotFound)
	}
	return op.Key(), false, nil
}
