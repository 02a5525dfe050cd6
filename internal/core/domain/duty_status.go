package domain

import (
	"strconv"
	"strings"
)

// DutyStatus is the regulatory duty status of an operator.
//
// The set is closed and flat: there is no transition graph, every status is
// reachable from every other one because the source of truth is an external
// regulatory report. Numeric values match the codes stored by existing
// telematics deployments.
type DutyStatus int

const (
	DutyInvalid  DutyStatus = -1 // sentinel, never stored
	DutyUnknown  DutyStatus = 0  // default
	DutyOffDuty  DutyStatus = 1  // "OFF"
	DutySleeper  DutyStatus = 2  // "SB"
	DutyDriving  DutyStatus = 3  // "D"
	DutyOnDuty   DutyStatus = 4  // "ON", on duty not driving
	DutyPersonal DutyStatus = 11 // "PC", off duty personal conveyance
)

// AllDutyStatuses lists the six storable codes in display order.
var AllDutyStatuses = []DutyStatus{
	DutyUnknown,
	DutyOffDuty,
	DutySleeper,
	DutyDriving,
	DutyOnDuty,
	DutyPersonal,
}

// IsInvalid reports whether s is outside the six legal codes.
func (s DutyStatus) IsInvalid() bool {
	switch s {
	case DutyUnknown, DutyOffDuty, DutySleeper, DutyDriving, DutyOnDuty, DutyPersonal:
		return false
	default:
		return true
	}
}

func (s DutyStatus) IsUnknown() bool {
	return s == DutyUnknown
}

// IsOnDuty is true for DRIVING and ON_DUTY. UNKNOWN is not on duty.
func (s DutyStatus) IsOnDuty() bool {
	return s == DutyDriving || s == DutyOnDuty
}

func (s DutyStatus) IsOffDuty() bool {
	return s == DutyOffDuty || s == DutySleeper || s == DutyPersonal
}

// IsAssigned reports whether the operator currently owns the duty slot
// (on duty, or off duty using the vehicle for personal conveyance).
func (s DutyStatus) IsAssigned() bool {
	return s == DutyDriving || s == DutyOnDuty || s == DutyPersonal
}

// Coerce returns s when it is a legal code and DutyUnknown otherwise.
func (s DutyStatus) Coerce() DutyStatus {
	if s.IsInvalid() {
		return DutyUnknown
	}
	return s
}

// String returns the human readable description ("OffDuty", "Driving", ...).
func (s DutyStatus) String() string {
	switch s {
	case DutyUnknown:
		return "Unknown"
	case DutyOffDuty:
		return "OffDuty"
	case DutySleeper:
		return "Sleeper"
	case DutyDriving:
		return "Driving"
	case DutyOnDuty:
		return "OnDuty"
	case DutyPersonal:
		return "Personal"
	default:
		return "Invalid"
	}
}

// ShortCode returns the log-book abbreviation. Unknown and invalid codes
// have none.
func (s DutyStatus) ShortCode() string {
	switch s {
	case DutyOffDuty:
		return "OFF"
	case DutySleeper:
		return "SB"
	case DutyDriving:
		return "D"
	case DutyOnDuty:
		return "ON"
	case DutyPersonal:
		return "PC"
	default:
		return ""
	}
}

// ParseDutyStatus accepts a numeric code, a description ("OnDuty",
// "on_duty") or a short code ("SB"). Anything unrecognised yields
// DutyInvalid; callers coerce before storing.
func ParseDutyStatus(v string) DutyStatus {
	v = strings.TrimSpace(v)
	if v == "" {
		return DutyInvalid
	}
	if n, err := strconv.Atoi(v); err == nil {
		return DutyStatus(n)
	}

	key := strings.ToUpper(strings.NewReplacer("_", "", "-", "", " ", "").Replace(v))
	switch key {
	case "UNKNOWN":
		return DutyUnknown
	case "OFF", "OFFDUTY":
		return DutyOffDuty
	case "SB", "SLEEPER", "SLEEPERBERTH":
		return DutySleeper
	case "D", "DRIVING":
		return DutyDriving
	case "ON", "ONDUTY":
		return DutyOnDuty
	case "PC", "PERSONAL", "PERSONALUSE":
		return DutyPersonal
	default:
		return DutyInvalid
	}
}
