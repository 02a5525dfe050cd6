package domain

import (
	"strings"
	"time"
)

// unidentifiedOperatorSuffix marks placeholder identities some ELD vendors
// emit when nobody has logged in to the unit.
const unidentifiedOperatorSuffix = "unidentifieddriver.com"

// OperatorKey is the composite primary key of an Operator. Both parts are
// trimmed and lower-cased.
type OperatorKey struct {
	TenantID   string `json:"tenant_id"`
	OperatorID string `json:"operator_id"`
}

// NewOperatorKey normalises tenantID and operatorID into a key.
func NewOperatorKey(tenantID, operatorID string) OperatorKey {
	return OperatorKey{
		TenantID:   NormalizeID(tenantID),
		OperatorID: NormalizeID(operatorID),
	}
}

// Validate returns ErrInvalidArgument when either part is blank.
func (k OperatorKey) Validate() error {
	if k.TenantID == "" {
		return InvalidArgument("tenant_id")
	}
	if k.OperatorID == "" {
		return InvalidArgument("operator_id")
	}
	return nil
}

func (k OperatorKey) String() string {
	return k.TenantID + "/" + k.OperatorID
}

// NormalizeID trims and lower-cases an identifier.
func NormalizeID(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Operator is a vehicle operator (driver) record.
type Operator struct {
	TenantID   string `json:"tenant_id"`
	OperatorID string `json:"operator_id"`

	Description  string `json:"description,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`

	// Alternate keys. None is unique; blanks are common.
	ContactPhone      string `json:"contact_phone,omitempty"`
	CardID            string `json:"card_id,omitempty"`
	ExternalServiceID string `json:"external_service_id,omitempty"`

	BadgeID       string    `json:"badge_id,omitempty"`
	LicenseType   string    `json:"license_type,omitempty"`
	LicenseNumber string    `json:"license_number,omitempty"`
	LicenseExpiry DayNumber `json:"license_expiry,omitempty"`

	DutyStatus         DutyStatus `json:"duty_status"`
	DutyStatusTime     int64      `json:"duty_status_time"`
	AssociatedDeviceID string     `json:"associated_device_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOperator returns an Operator with a normalised key and UNKNOWN status.
func NewOperator(tenantID, operatorID string) *Operator {
	key := NewOperatorKey(tenantID, operatorID)
	return &Operator{
		TenantID:   key.TenantID,
		OperatorID: key.OperatorID,
		DutyStatus: DutyUnknown,
	}
}

func (o *Operator) Key() OperatorKey {
	return OperatorKey{TenantID: o.TenantID, OperatorID: o.OperatorID}
}

// SetDutyStatus stores s, coercing anything illegal to DutyUnknown.
func (o *Operator) SetDutyStatus(s DutyStatus) {
	o.DutyStatus = s.Coerce()
}

// SetDutyStatusTime stores ts; negative values become 0.
func (o *Operator) SetDutyStatusTime(ts int64) {
	if ts < 0 {
		ts = 0
	}
	o.DutyStatusTime = ts
}

func (o *Operator) SetLicenseExpiry(d DayNumber) {
	if d < 0 {
		d = 0
	}
	o.LicenseExpiry = d
}

// Sanitize trims every free-text attribute and re-applies the value
// invariants. Stores call it on records they decode.
func (o *Operator) Sanitize() {
	o.TenantID = NormalizeID(o.TenantID)
	o.OperatorID = NormalizeID(o.OperatorID)
	o.Description = strings.TrimSpace(o.Description)
	o.ContactEmail = strings.TrimSpace(o.ContactEmail)
	o.ContactPhone = strings.TrimSpace(o.ContactPhone)
	o.CardID = strings.TrimSpace(o.CardID)
	o.ExternalServiceID = strings.TrimSpace(o.ExternalServiceID)
	o.BadgeID = strings.TrimSpace(o.BadgeID)
	o.LicenseType = strings.TrimSpace(o.LicenseType)
	o.LicenseNumber = strings.TrimSpace(o.LicenseNumber)
	o.AssociatedDeviceID = strings.TrimSpace(o.AssociatedDeviceID)
	o.SetDutyStatus(o.DutyStatus)
	o.SetDutyStatusTime(o.DutyStatusTime)
	o.SetLicenseExpiry(o.LicenseExpiry)
}

// IsLicenseExpired reports whether the licence expired before asOf. An unset
// expiry never expires. When asOf is not positive the day of now is used.
func (o *Operator) IsLicenseExpired(asOf DayNumber, now time.Time) bool {
	if o.LicenseExpiry <= 0 {
		return false
	}
	if asOf <= 0 {
		asOf = DayNumberFromTime(now)
	}
	return o.LicenseExpiry < asOf
}

func (o *Operator) IsOnDuty(allowUnknown bool) bool {
	return IsOnDutyOperator(o.OperatorID, o.DutyStatus, allowUnknown)
}

func (o *Operator) IsAssigned(allowUnknown bool) bool {
	return IsAssignedOperator(o.OperatorID, o.DutyStatus, allowUnknown)
}

// IsValidOperatorID rejects blank IDs and the "unidentified driver"
// placeholder identities.
func IsValidOperatorID(operatorID string) bool {
	id := NormalizeID(operatorID)
	if id == "" {
		return false
	}
	return !strings.HasSuffix(id, unidentifiedOperatorSuffix)
}

// IsOnDutyOperator combines the ID check with DutyStatus.IsOnDuty. When
// allowUnknown is set an UNKNOWN status counts as on duty.
func IsOnDutyOperator(operatorID string, s DutyStatus, allowUnknown bool) bool {
	if !IsValidOperatorID(operatorID) {
		return false
	}
	if allowUnknown && s.IsUnknown() {
		return true
	}
	return s.IsOnDuty()
}

// IsAssignedOperator is IsOnDutyOperator for DutyStatus.IsAssigned.
func IsAssignedOperator(operatorID string, s DutyStatus, allowUnknown bool) bool {
	if !IsValidOperatorID(operatorID) {
		return false
	}
	if allowUnknown && s.IsUnknown() {
		return true
	}
	return s.IsAssigned()
}

// LooksLikeEmail is the heuristic used when seeding a contact email from an
// operator ID: an "@" and a "." both past the first character.
func LooksLikeEmail(v string) bool {
	return strings.Index(v, "@") > 0 && strings.Index(v, ".") > 0
}
