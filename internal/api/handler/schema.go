package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createOperatorRequest struct {
	OperatorID        string `json:"operator_id"         validate:"required,max=64"`
	Description       string `json:"description"         validate:"max=128"`
	ContactEmail      string `json:"contact_email"       validate:"omitempty,email"`
	ContactPhone      string `json:"contact_phone"       validate:"max=32"`
	CardID            string `json:"card_id"             validate:"max=64"`
	ExternalServiceID string `json:"external_service_id" validate:"max=64"`
	BadgeID           string `json:"badge_id"            validate:"max=32"`
	LicenseType       string `json:"license_type"        validate:"max=24"`
	LicenseNumber     string `json:"license_number"      validate:"max=32"`
	// LicenseExpiry is a calendar date, YYYY-MM-DD.
	LicenseExpiry string `json:"license_expiry" validate:"omitempty,datetime=2006-01-02"`
}

type updateStatusRequest struct {
	// Status accepts a numeric code, a description or a short code.
	Status    string `json:"status"    validate:"required"`
	Timestamp int64  `json:"timestamp"`
	DeviceID  string `json:"device_id" validate:"max=64"`
}

type statusReportRequest struct {
	TenantID          string `json:"tenant_id"`
	OperatorID        string `json:"operator_id"         validate:"required_without_all=ContactPhone CardID ExternalServiceID"`
	ContactPhone      string `json:"contact_phone"`
	CardID            string `json:"card_id"`
	ExternalServiceID string `json:"external_service_id"`
	Status            string `json:"status"              validate:"required"`
	Timestamp         int64  `json:"timestamp"`
	DeviceID          string `json:"device_id"           validate:"max=64"`
	Source            string `json:"source"              validate:"omitempty,max=32,alphanum"`
}

// --- Response types ---

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

type dutyStatusResponse struct {
	Code      int    `json:"code"`
	Name      string `json:"name"`
	ShortCode string `json:"short_code,omitempty"`
}

type operatorResponse struct {
	TenantID           string             `json:"tenant_id"`
	OperatorID         string             `json:"operator_id"`
	Description        string             `json:"description,omitempty"`
	ContactEmail       string             `json:"contact_email,omitempty"`
	ContactPhone       string             `json:"contact_phone,omitempty"`
	CardID             string             `json:"card_id,omitempty"`
	ExternalServiceID  string             `json:"external_service_id,omitempty"`
	BadgeID            string             `json:"badge_id,omitempty"`
	LicenseType        string             `json:"license_type,omitempty"`
	LicenseNumber      string             `json:"license_number,omitempty"`
	LicenseExpiry      string             `json:"license_expiry,omitempty"`
	LicenseExpired     bool               `json:"license_expired"`
	DutyStatus         dutyStatusResponse `json:"duty_status"`
	DutyStatusTime     int64              `json:"duty_status_time"`
	OnDuty             bool               `json:"on_duty"`
	Assigned           bool               `json:"assigned"`
	AssociatedDeviceID string             `json:"associated_device_id,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type listOperatorsResponse struct {
	TenantID    string   `json:"tenant_id"`
	OperatorIDs []string `json:"operator_ids"`
	Count       int      `json:"count"`
}

type updateStatusResponse struct {
	Changed  bool             `json:"changed"`
	Operator operatorResponse `json:"operator"`
}

type operatorIDResponse struct {
	TenantID   string `json:"tenant_id"`
	OperatorID string `json:"operator_id"`
}
