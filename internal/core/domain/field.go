package domain

import "sort"

// Field names an Operator attribute in storage-neutral terms. Store adapters
// map each Field to their own column or document key.
type Field string

const (
	FieldTenantID           Field = "tenant_id"
	FieldOperatorID         Field = "operator_id"
	FieldDescription        Field = "description"
	FieldContactEmail       Field = "contact_email"
	FieldContactPhone       Field = "contact_phone"
	FieldCardID             Field = "card_id"
	FieldExternalServiceID  Field = "external_service_id"
	FieldBadgeID            Field = "badge_id"
	FieldLicenseType        Field = "license_type"
	FieldLicenseNumber      Field = "license_number"
	FieldLicenseExpiry      Field = "license_expiry"
	FieldDutyStatus         Field = "duty_status"
	FieldDutyStatusTime     Field = "duty_status_time"
	FieldAssociatedDeviceID Field = "associated_device_id"
)

// IsAlternateKey reports whether f is one of the non-unique lookup keys.
func (f Field) IsAlternateKey() bool {
	return f == FieldContactPhone || f == FieldCardID || f == FieldExternalServiceID
}

// FieldSet is the set of changed fields with their new values, produced by
// OperatorEditor and consumed by a partial update.
type FieldSet map[Field]any

// Fields returns the field names in a stable order.
func (fs FieldSet) Fields() []Field {
	out := make([]Field, 0, len(fs))
	for f := range fs {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (fs FieldSet) Has(f Field) bool {
	_, ok := fs[f]
	return ok
}

// Apply copies the values in fs onto o. Unknown fields and mistyped values
// are ignored.
func (fs FieldSet) Apply(o *Operator) {
	for f, v := range fs {
		switch f {
		case FieldDutyStatus:
			if s, ok := v.(DutyStatus); ok {
				o.SetDutyStatus(s)
			}
		case FieldDutyStatusTime:
			if ts, ok := v.(int64); ok {
				o.SetDutyStatusTime(ts)
			}
		case FieldLicenseExpiry:
			if d, ok := v.(DayNumber); ok {
				o.SetLicenseExpiry(d)
			}
		default:
			s, ok := v.(string)
			if !ok {
				continue
			}
			if p := o.stringField(f); p != nil {
				*p = s
			}
		}
	}
}

func (o *Operator) stringField(f Field) *string {
	switch f {
	case FieldDescription:
		return &o.Description
	case FieldContactEmail:
		return &o.ContactEmail
	case FieldContactPhone:
		return &o.ContactPhone
	case FieldCardID:
		return &o.CardID
	case FieldExternalServiceID:
		return &o.ExternalServiceID
	case FieldBadgeID:
		return &o.BadgeID
	case FieldLicenseType:
		return &o.LicenseType
	case FieldLicenseNumber:
		return &o.LicenseNumber
	case FieldAssociatedDeviceID:
		return &o.AssociatedDeviceID
	default:
		return nil
	}
}

// OperatorEditor mutates an Operator in memory and records which fields
// actually changed. Setting a field to its current value is not a change.
type OperatorEditor struct {
	op    *Operator
	dirty FieldSet
}

func EditOperator(op *Operator) *OperatorEditor {
	return &OperatorEditor{op: op, dirty: FieldSet{}}
}

// SetDutyStatus coerces s and, when it differs from the stored status,
// updates both the status and its timestamp. It reports whether anything
// changed.
func (e *OperatorEditor) SetDutyStatus(s DutyStatus, ts int64) bool {
	s = s.Coerce()
	if s == e.op.DutyStatus {
		return false
	}
	e.op.SetDutyStatus(s)
	e.op.SetDutyStatusTime(ts)
	e.dirty[FieldDutyStatus] = e.op.DutyStatus
	e.dirty[FieldDutyStatusTime] = e.op.DutyStatusTime
	return true
}

// SetAssociatedDevice records deviceID when it is non-blank and differs
// from the stored association.
func (e *OperatorEditor) SetAssociatedDevice(deviceID string) bool {
	if deviceID == "" || deviceID == e.op.AssociatedDeviceID {
		return false
	}
	e.op.AssociatedDeviceID = deviceID
	e.dirty[FieldAssociatedDeviceID] = deviceID
	return true
}

func (e *OperatorEditor) Dirty() bool { return len(e.dirty) > 0 }

// Changes returns a copy of the dirty field set.
func (e *OperatorEditor) Changes() FieldSet {
	out := make(FieldSet, len(e.dirty))
	for f, v := range e.dirty {
		out[f] = v
	}
	return out
}
