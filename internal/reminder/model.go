package reminder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// This deployment requires international phone numbers: "+" followed by
// 8-15 digits. Bare-digit numbers are rejected rather than silently accepted.
var phonePattern = regexp.MustCompile(`^\+[0-9]{8,15}$`)

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ValidationError describes a malformed scheduling request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Job is a daily recurring reminder. Its identity is (Phone, Medicine,
// FireTime); at most one active job exists per identity.
type Job struct {
	Phone     string
	Medicine  string
	FireTime  string // "HH:MM", 24-hour local time
	Hour      int
	Minute    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewJob validates the scheduling request fields and builds a Job.
func NewJob(phone, medicine, fireTime string) (Job, error) {
	phone = strings.TrimSpace(phone)
	medicine = strings.TrimSpace(medicine)
	fireTime = strings.TrimSpace(fireTime)

	if !phonePattern.MatchString(phone) {
		return Job{}, &ValidationError{
			Field:  "phone",
			Reason: "must be in international format, e.g. +923001112233",
		}
	}
	if medicine == "" {
		return Job{}, &ValidationError{Field: "medicine_name", Reason: "must not be empty"}
	}
	hour, minute, err := parseFireTime(fireTime)
	if err != nil {
		return Job{}, err
	}

	return Job{
		Phone:    phone,
		Medicine: medicine,
		FireTime: fireTime,
		Hour:     hour,
		Minute:   minute,
	}, nil
}

func parseFireTime(s string) (hour, minute int, err error) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, &ValidationError{
			Field:  "reminder_time",
			Reason: "must be HH:MM in 24-hour format",
		}
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, nil
}

// ID returns the job's registry key, unique per identity.
func (j Job) ID() string {
	return fmt.Sprintf("whatsapp-%s-%s-%s", j.Phone, j.Medicine, j.FireTime)
}

// CronExpr renders the daily schedule as a standard cron expression.
func (j Job) CronExpr() string {
	return fmt.Sprintf("%d %d * * *", j.Minute, j.Hour)
}
