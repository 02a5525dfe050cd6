package anomaly

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetlog/duty-status/internal/api/metrics"
	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

const outboxSize = 1024

// Publisher forwards anomalies to an external sink (RabbitMQ).
type Publisher interface {
	Publish(ctx context.Context, a domain.Anomaly) error
}

// Reporter logs and counts every anomaly and, when a Publisher is set,
// forwards it in the background. Report never blocks: when the outbox is
// full the anomaly is only logged.
type Reporter struct {
	log       zerolog.Logger
	publisher Publisher
	outbox    chan domain.Anomaly
	now       func() time.Time
}

var _ ports.AnomalyReporter = (*Reporter)(nil)

// NewReporter returns a Reporter. publisher may be nil.
func NewReporter(log zerolog.Logger, publisher Publisher) *Reporter {
	r := &Reporter{log: log, publisher: publisher, now: time.Now}
	if publisher != nil {
		r.outbox = make(chan domain.Anomaly, outboxSize)
	}
	return r
}

func (r *Reporter) Report(_ context.Context, a domain.Anomaly) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.DetectedAt.IsZero() {
		a.DetectedAt = r.now().UTC()
	}
	metrics.AnomaliesTotal.WithLabelValues(string(a.Kind)).Inc()

	ev := r.log.WithLevel(logLevel(a.Kind)).
		Str("anomaly_id", a.ID).
		Str("kind", string(a.Kind)).
		Str("tenant", a.TenantID).
		Str("operator", a.OperatorID)
	if len(a.Matches) > 0 {
		keys := make([]string, 0, len(a.Matches))
		for _, k := range a.Matches {
			keys = append(keys, k.String())
		}
		ev = ev.Str("field", string(a.Field)).Str("value", a.Value).Strs("matches", keys)
	}
	if a.ReportedTime != 0 || a.ReferenceTime != 0 {
		ev = ev.Int64("reported_time", a.ReportedTime).Int64("reference_time", a.ReferenceTime)
	}
	ev.Msg(a.Message)

	if r.outbox == nil {
		return
	}
	select {
	case r.outbox <- a:
	default:
		r.log.Warn().Str("anomaly_id", a.ID).Msg("anomaly outbox full, not published")
	}
}

// logLevel is Warn for anomalies that point at conflicting source data and
// Info for timestamps that were only filled in or clamped.
func logLevel(kind domain.AnomalyKind) zerolog.Level {
	switch kind {
	case domain.AnomalyAmbiguousMatch, domain.AnomalyTimestampOrder:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// Run publishes queued anomalies until ctx is cancelled. It returns
// immediately when no publisher is configured.
func (r *Reporter) Run(ctx context.Context) error {
	if r.outbox == nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case a := <-r.outbox:
			if err := r.publisher.Publish(ctx, a); err != nil {
				r.log.Error().Err(err).Str("anomaly_id", a.ID).Msg("anomaly publish failed")
			}
		}
	}
}
