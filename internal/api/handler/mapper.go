package handler

import (
	"time"

	"github.com/fleetlog/duty-status/internal/core/domain"
)

func toOperatorResponse(o *domain.Operator, now time.Time) operatorResponse {
	return operatorResponse{
		TenantID:          o.TenantID,
		OperatorID:        o.OperatorID,
		Description:       o.Description,
		ContactEmail:      o.ContactEmail,
		ContactPhone:      o.ContactPhone,
		CardID:            o.CardID,
		ExternalServiceID: o.ExternalServiceID,
		BadgeID:           o.BadgeID,
		LicenseType:       o.LicenseType,
		LicenseNumber:     o.LicenseNumber,
		LicenseExpiry:     formatDay(o.LicenseExpiry),
		LicenseExpired:    o.IsLicenseExpired(0, now),
		DutyStatus: dutyStatusResponse{
			Code:      int(o.DutyStatus),
			Name:      o.DutyStatus.String(),
			ShortCode: o.DutyStatus.ShortCode(),
		},
		DutyStatusTime:     o.DutyStatusTime,
		OnDuty:             o.IsOnDuty(false),
		Assigned:           o.IsAssigned(false),
		AssociatedDeviceID: o.AssociatedDeviceID,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

// dateLayout is the calendar date format used on the wire.
const dateLayout = "2006-01-02"

// parseDay turns YYYY-MM-DD into a day number; blank is unset.
func parseDay(v string) (domain.DayNumber, error) {
	if v == "" {
		return 0, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return 0, err
	}
	return domain.DayNumberFromTime(t), nil
}

func formatDay(d domain.DayNumber) string {
	if !d.IsSet() {
		return ""
	}
	return d.Time().Format(dateLayout)
}
