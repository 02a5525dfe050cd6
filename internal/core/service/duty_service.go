package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

type dutyService struct {
	store     ports.OperatorStore
	anomalies ports.AnomalyReporter
	log       zerolog.Logger
	now       func() time.Time
}

// NewDutyService returns the DutyStatusService backed by store.
func NewDutyService(
	store ports.OperatorStore,
	anomalies ports.AnomalyReporter,
	log zerolog.Logger,
	opts ...Option,
) ports.DutyStatusService {
	o := buildOptions(opts)
	return &dutyService{
		store:     store,
		anomalies: anomalies,
		log:       log,
		now:       o.now,
	}
}

// UpdateStatus applies one status report to the operator identified by the
// input key. Only fields whose value actually changes are persisted.
func (s *dutyService) UpdateStatus(ctx context.Context, in ports.StatusUpdateInput) (bool, error) {
	key := domain.NewOperatorKey(in.TenantID, in.OperatorID)
	if err := key.Validate(); err != nil {
		s.log.Warn().Err(err).Str("tenant", in.TenantID).Str("operator", in.OperatorID).Msg("status update rejected")
		return false, fmt.Errorf("update status: %w", err)
	}

	nowTime := s.now().UTC()
	op, err := s.store.Get(ctx, key)
	switch {
	case errors.Is(err, domain.ErrOperatorNotFound):
		if !in.AllowCreate {
			s.log.Warn().Str("operator", key.String()).Msg("status update for unknown operator")
			return false, fmt.Errorf("update status %s: %w", key, domain.ErrOperatorNotFound)
		}
		op, err = s.provision(ctx, key, in.OperatorID, nowTime)
		if err != nil {
			return false, err
		}
	case err != nil:
		return false, fmt.Errorf("update status %s: %w", key, storageErr("get", err))
	}

	now := nowTime.Unix()
	ts, adj := domain.ReconcileTimestamp(in.Timestamp, op.DutyStatusTime, now)
	if kind, ok := domain.TimestampAnomalyKind(adj); ok {
		s.reportTimestamp(ctx, key, kind, adj, in.Timestamp, min(op.DutyStatusTime, now), nowTime)
	}

	ed := domain.EditOperator(op)
	ed.SetDutyStatus(in.Status, ts)
	ed.SetAssociatedDevice(strings.TrimSpace(in.DeviceID))
	if !ed.Dirty() {
		s.log.Debug().Str("operator", key.String()).Stringer("status", op.DutyStatus).Msg("status unchanged")
		return false, nil
	}

	changes := ed.Changes()
	if err := s.store.UpdatePartial(ctx, key, changes); err != nil {
		return false, fmt.Errorf("update status %s: %w", key, storageErr("update", err))
	}

	s.log.Info().
		Str("operator", key.String()).
		Stringer("status", op.DutyStatus).
		Int64("status_time", op.DutyStatusTime).
		Str("device", op.AssociatedDeviceID).
		Int("fields", len(changes)).
		Msg("duty status updated")
	return true, nil
}

// provision inserts the minimal record for key. A concurrent insert of the
// same key is not an error; the winner's record is read back instead.
func (s *dutyService) provision(ctx context.Context, key domain.OperatorKey, rawID string, now time.Time) (*domain.Operator, error) {
	op := domain.NewOperator(key.TenantID, key.OperatorID)
	op.Description = strings.TrimSpace(rawID)
	if domain.LooksLikeEmail(op.Description) {
		op.ContactEmail = op.Description
	}
	op.CreatedAt = now
	op.UpdatedAt = now

	if _, err := s.store.Create(ctx, op); err != nil {
		if !errors.Is(err, domain.ErrOperatorExists) {
			return nil, fmt.Errorf("update status %s: %w", key, storageErr("create", err))
		}
		existing, getErr := s.store.Get(ctx, key)
		if getErr != nil {
			return nil, fmt.Errorf("update status %s: %w", key, storageErr("get", getErr))
		}
		return existing, nil
	}

	s.log.Info().Str("operator", key.String()).Msg("operator auto-created")
	return op, nil
}

func (s *dutyService) reportTimestamp(
	ctx context.Context,
	key domain.OperatorKey,
	kind domain.AnomalyKind,
	adj domain.TimestampAdjustment,
	reported, reference int64,
	now time.Time,
) {
	if s.anomalies == nil {
		s.log.Warn().
			Str("operator", key.String()).
			Str("kind", string(kind)).
			Int64("reported_time", reported).
			Int64("reference_time", reference).
			Msg("status timestamp " + adj.String())
		return
	}
	s.anomalies.Report(ctx, domain.Anomaly{
		Kind:          kind,
		TenantID:      key.TenantID,
		OperatorID:    key.OperatorID,
		Message:       "status timestamp " + adj.String(),
		ReportedTime:  reported,
		ReferenceTime: reference,
		DetectedAt:    now,
	})
}
