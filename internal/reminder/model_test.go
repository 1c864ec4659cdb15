package reminder

import (
	"errors"
	"testing"
)

func TestNewJobValid(t *testing.T) {
	j, err := NewJob("+923001112233", "Panadol", "08:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.Hour != 8 || j.Minute != 30 {
		t.Errorf("expected 08:30 parsed as 8/30, got %d/%d", j.Hour, j.Minute)
	}
	if j.ID() != "whatsapp-+923001112233-Panadol-08:30" {
		t.Errorf("unexpected job id %q", j.ID())
	}
	if j.CronExpr() != "30 8 * * *" {
		t.Errorf("unexpected cron expression %q", j.CronExpr())
	}
}

func TestNewJobRejectsInvalidTime(t *testing.T) {
	for _, bad := range []string{"24:00", "23:60", "7:30", "0730", "ab:cd", "08:5", ""} {
		_, err := NewJob("+923001112233", "Panadol", bad)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("expected validation error for time %q, got %v", bad, err)
			continue
		}
		if vErr.Field != "reminder_time" {
			t.Errorf("expected reminder_time field for %q, got %s", bad, vErr.Field)
		}
	}
}

func TestNewJobAcceptsBoundaryTimes(t *testing.T) {
	for _, good := range []string{"00:00", "23:59"} {
		if _, err := NewJob("+923001112233", "Panadol", good); err != nil {
			t.Errorf("expected %q to be valid, got %v", good, err)
		}
	}
}

func TestNewJobRejectsInvalidPhone(t *testing.T) {
	for _, bad := range []string{"03001112233", "+1234", "+1234567890123456", "not-a-phone", ""} {
		_, err := NewJob(bad, "Panadol", "08:00")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("expected validation error for phone %q, got %v", bad, err)
			continue
		}
		if vErr.Field != "phone" {
			t.Errorf("expected phone field for %q, got %s", bad, vErr.Field)
		}
	}
}

func TestNewJobRejectsEmptyMedicine(t *testing.T) {
	_, err := NewJob("+923001112233", "  ", "08:00")
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "medicine_name" {
		t.Errorf("expected medicine_name validation error, got %v", err)
	}
}
