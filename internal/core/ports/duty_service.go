package ports

import (
	"context"

	"github.com/fleetlog/duty-status/internal/core/domain"
)

// StatusUpdateInput carries a single duty-status report for a known
// operator key.
type StatusUpdateInput struct {
	TenantID   string
	OperatorID string
	Status     domain.DutyStatus
	// Timestamp is the reported change time in Unix seconds. Zero or
	// negative means "now".
	Timestamp   int64
	DeviceID    string
	AllowCreate bool
}

// DutyStatusService owns the duty-status state machine.
type DutyStatusService interface {
	// UpdateStatus reports whether any field was written.
	UpdateStatus(ctx context.Context, in StatusUpdateInput) (bool, error)
}

// CreateOperatorInput carries the attributes of an explicitly provisioned
// operator.
type CreateOperatorInput struct {
	TenantID          string
	OperatorID        string
	Description       string
	ContactEmail      string
	ContactPhone      string
	CardID            string
	ExternalServiceID string
	BadgeID           string
	LicenseType       string
	LicenseNumber     string
	LicenseExpiry     domain.DayNumber
}

// OperatorService provisions and reads operator records.
type OperatorService interface {
	Create(ctx context.Context, in CreateOperatorInput) (*domain.Operator, error)
	Get(ctx context.Context, tenantID, operatorID string) (*domain.Operator, error)
	ListIDs(ctx context.Context, tenantID string, limit int) ([]string, error)
}
