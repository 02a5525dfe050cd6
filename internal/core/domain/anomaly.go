package domain

import "time"

// AnomalyKind classifies a diagnostic raised while accepting data.
type AnomalyKind string

const (
	AnomalyAmbiguousMatch     AnomalyKind = "ambiguous_match"
	AnomalyTimestampDefaulted AnomalyKind = "timestamp_defaulted"
	AnomalyTimestampClamped   AnomalyKind = "timestamp_future_clamped"
	AnomalyTimestampOrder     AnomalyKind = "timestamp_out_of_order"
)

// Anomaly is a non-fatal condition worth surfacing to operators of the
// system. The triggering operation still succeeds.
type Anomaly struct {
	ID         string      `json:"id"`
	Kind       AnomalyKind `json:"kind"`
	TenantID   string      `json:"tenant_id,omitempty"`
	OperatorID string      `json:"operator_id,omitempty"`
	Message    string      `json:"message"`

	// Set for AnomalyAmbiguousMatch.
	Field   Field         `json:"field,omitempty"`
	Value   string        `json:"value,omitempty"`
	Matches []OperatorKey `json:"matches,omitempty"`

	// Set for the timestamp kinds.
	ReportedTime  int64 `json:"reported_time,omitempty"`
	ReferenceTime int64 `json:"reference_time,omitempty"`

	DetectedAt time.Time `json:"detected_at"`
}

// TimestampAnomalyKind maps a reconciliation outcome to its anomaly kind.
// The second result is false when the timestamp was accepted unchanged.
func TimestampAnomalyKind(a TimestampAdjustment) (AnomalyKind, bool) {
	switch a {
	case TimestampDefaulted:
		return AnomalyTimestampDefaulted, true
	case TimestampClamped:
		return AnomalyTimestampClamped, true
	case TimestampOutOfOrder:
		return AnomalyTimestampOrder, true
	default:
		return "", false
	}
}
