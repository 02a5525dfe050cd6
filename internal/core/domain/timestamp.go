package domain

// AllowedFutureSeconds is how far ahead of the server clock a reported
// status time may be before it is clamped.
const AllowedFutureSeconds int64 = 10

// TimestampAdjustment describes what ReconcileTimestamp did to a reported
// time.
type TimestampAdjustment int

const (
	TimestampAccepted TimestampAdjustment = iota
	TimestampDefaulted
	TimestampClamped
	TimestampOutOfOrder // accepted, but older than the last status change
)

func (a TimestampAdjustment) String() string {
	switch a {
	case TimestampDefaulted:
		return "defaulted"
	case TimestampClamped:
		return "future_clamped"
	case TimestampOutOfOrder:
		return "out_of_order"
	default:
		return "accepted"
	}
}

// ReconcileTimestamp applies the write-time clock rules to a reported status
// time. lastStatusTime is the stored status time; it is clamped to now first.
// An out-of-order report is still accepted as-is.
func ReconcileTimestamp(reported, lastStatusTime, now int64) (int64, TimestampAdjustment) {
	if lastStatusTime > now {
		lastStatusTime = now
	}
	switch {
	case reported <= 0:
		return now, TimestampDefaulted
	case reported > now+AllowedFutureSeconds:
		return now + AllowedFutureSeconds, TimestampClamped
	case lastStatusTime > 0 && reported < lastStatusTime:
		return reported, TimestampOutOfOrder
	default:
		return reported, TimestampAccepted
	}
}
