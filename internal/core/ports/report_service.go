package ports

import (
	"context"
	"strings"
)

// StatusReport is an inbound duty-status report from telemetry or the API.
// The operator is named either directly by OperatorID or through one of the
// alternate keys, tried in the order phone, card, external service ID.
type StatusReport struct {
	TenantID          string
	OperatorID        string
	ContactPhone      string
	CardID            string
	ExternalServiceID string

	Status    string // numeric code, description or short code
	Timestamp int64  // Unix seconds
	DeviceID  string
	Source    string
}

// ShardKey identifies the operator a report is about, for routing reports
// of one operator to the same worker.
func (r StatusReport) ShardKey() string {
	tenant := strings.ToLower(strings.TrimSpace(r.TenantID))
	switch {
	case strings.TrimSpace(r.OperatorID) != "":
		return tenant + "/" + strings.ToLower(strings.TrimSpace(r.OperatorID))
	case r.ContactPhone != "":
		return tenant + "/phone:" + r.ContactPhone
	case r.CardID != "":
		return tenant + "/card:" + r.CardID
	default:
		return "external:" + r.ExternalServiceID
	}
}

// ReportProcessor resolves, deduplicates and applies status reports.
type ReportProcessor interface {
	Process(ctx context.Context, report StatusReport) error
}
