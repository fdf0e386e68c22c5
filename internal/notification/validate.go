package notification

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yagapon/oshirase/internal/timefmt"
)

// ValidationError reports a malformed or incomplete payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid payload: " + e.Reason
	}
	return fmt.Sprintf("invalid payload: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// offsetPattern requires a date, a time and an explicit offset or Z.
var offsetPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})$`)

// Validate checks the payload shape before it is dispatched.
func (p Payload) Validate() error {
	if !p.Type.Valid() {
		if p.Type == "" {
			return invalid("type", "is required")
		}
		return invalid("type", fmt.Sprintf("must be one of daily, monthly, schedule (got %q)", p.Type))
	}
	switch p.Type {
	case TypeDaily:
		if p.Daily == nil {
			return invalid("data", "is required")
		}
		return validateSchedule("data", *p.Daily)
	case TypeMonthly:
		if p.Monthly == nil {
			return invalid("data", "is required")
		}
		return validateMonthly(*p.Monthly)
	default:
		if p.Schedule == nil {
			return invalid("data", "is required")
		}
		return validateChange(*p.Schedule)
	}
}

func validateSchedule(field string, s Schedule) error {
	if strings.TrimSpace(s.Title) == "" {
		return invalid(field+".title", "is required")
	}
	return nil
}

func validateMonthly(m MonthlyData) error {
	if strings.TrimSpace(m.Department) == "" {
		return invalid("data.department", "is required")
	}
	if strings.TrimSpace(m.Month) == "" {
		return invalid("data.month", "is required")
	}
	if m.Schedules == nil {
		return invalid("data.schedules", "must be an array")
	}
	for i, s := range m.Schedules {
		if err := validateSchedule(fmt.Sprintf("data.schedules[%d]", i), s); err != nil {
			return err
		}
	}
	return nil
}

func validateChange(c ScheduleChange) error {
	switch c.Action {
	case ActionAdd, ActionUpdate, ActionDelete:
	case "":
		return invalid("data.action", "is required")
	default:
		return invalid("data.action", fmt.Sprintf("must be one of add, update, delete (got %q)", c.Action))
	}
	if strings.TrimSpace(c.Title) == "" {
		return invalid("data.title", "is required")
	}
	if err := validateInstant("data.startAt", c.StartAt); err != nil {
		return err
	}
	if err := validateInstant("data.endAt", c.EndAt); err != nil {
		return err
	}
	if c.Action == ActionAdd {
		return nil
	}

	if c.After == nil {
		return invalid("data.after", "is required for "+string(c.Action))
	}
	if err := validateInstant("data.after.startAt", c.After.StartAt); err != nil {
		return err
	}
	if err := validateInstant("data.after.endAt", c.After.EndAt); err != nil {
		return err
	}
	if len(c.ChangedDetails) == 0 {
		return invalid("data.changedDetails", "must be a non-empty array")
	}
	for i, d := range c.ChangedDetails {
		field := fmt.Sprintf("data.changedDetails[%d]", i)
		if strings.TrimSpace(d.Field) == "" {
			return invalid(field+".field", "is required")
		}
		if !d.hasBefore {
			return invalid(field+".before", "must be a string")
		}
		if !d.hasAfter {
			return invalid(field+".after", "must be a string")
		}
	}
	return nil
}

func validateInstant(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return invalid(field, "is required")
	}
	if !offsetPattern.MatchString(value) {
		return invalid(field, "must be ISO-8601 with a UTC offset")
	}
	if _, ok := timefmt.Parse(value); !ok {
		return invalid(field, "is not a valid time")
	}
	return nil
}
