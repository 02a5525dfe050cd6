package handler

import (
	"errors"
	"strings"
	"testing"
)

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	err := NewValidator().Validate(&createOperatorRequest{
		ContactEmail:  "nope",
		LicenseExpiry: "2030/01/01",
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	msg := ve.Error()
	for _, want := range []string{"operator_id is required", "contact_email must be a valid email", "license_expiry must be a date"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestValidator_ReportNeedsSomeIdentifier(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&statusReportRequest{Status: "ON"}); err == nil {
		t.Error("expected an error without any identifier")
	}
	if err := v.Validate(&statusReportRequest{Status: "ON", CardID: "C-1"}); err != nil {
		t.Errorf("card alone should be enough, got %v", err)
	}
	if err := v.Validate(&statusReportRequest{Status: "ON", OperatorID: "d1"}); err != nil {
		t.Errorf("operator id alone should be enough, got %v", err)
	}
}
