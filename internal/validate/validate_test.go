package validate

import (
	"errors"
	"testing"
)

func TestIsTime12h(t *testing.T) {
	valid := []string{"09:30 AM", "11:59 PM", "1:05 am", "12:00 pm", "23:45 PM"}
	for _, s := range valid {
		if !IsTime12h(s) {
			t.Errorf("expected %q to be accepted", s)
		}
	}
	invalid := []string{"25:00 AM", "9:65 PM", "10:00", "10:00AM", "", "noon"}
	for _, s := range invalid {
		if IsTime12h(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestIsDate(t *testing.T) {
	for _, s := range []string{"2026-03-14", "2026-03-14T09:30:00Z"} {
		if !IsDate(s) {
			t.Errorf("expected %q to be accepted", s)
		}
	}
	for _, s := range []string{"14/03/2026", "2026-13-01", "tomorrow", ""} {
		if IsDate(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

type schedulePayload struct {
	Date string `json:"scheduledDate" validate:"required,date"`
	Time string `json:"scheduledTime" validate:"required,time12h"`
}

func TestValidate_Violations(t *testing.T) {
	v := New()

	if err := v.Validate(schedulePayload{Date: "2026-03-14", Time: "09:30 AM"}); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	err := v.Validate(schedulePayload{Date: "soon", Time: "9:65 PM"})
	if err == nil {
		t.Fatal("expected violations")
	}
	var violations Violations
	if !errors.As(err, &violations) {
		t.Fatalf("expected Violations, got %T", err)
	}
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(violations), violations)
	}
	if violations[0].Field != "scheduledDate" {
		t.Errorf("expected json tag name in violation, got %q", violations[0].Field)
	}
	if violations[1].Rule != "time12h" {
		t.Errorf("expected time12h rule, got %q", violations[1].Rule)
	}
}

func TestValidate_RequiredUsesJSONName(t *testing.T) {
	v := New()
	err := v.Validate(schedulePayload{})
	var violations Violations
	if !errors.As(err, &violations) {
		t.Fatalf("expected Violations, got %T", err)
	}
	if violations[0].Message != "scheduledDate is required" {
		t.Errorf("unexpected message %q", violations[0].Message)
	}
}
