// Package notification defines the payloads accepted on the notify endpoint
// and validates them before they reach the dispatcher.
package notification

import (
	"github.com/yagapon/oshirase/internal/timefmt"
)

type Type string

const (
	TypeDaily    Type = "daily"
	TypeMonthly  Type = "monthly"
	TypeSchedule Type = "schedule"
)

// Valid reports whether t is one of the known payload types.
func (t Type) Valid() bool {
	switch t {
	case TypeDaily, TypeMonthly, TypeSchedule:
		return true
	default:
		return false
	}
}

// Schedule is one event, as used by daily reminders and monthly digests.
type Schedule struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	StartTime   timefmt.Timestamp `json:"startTime,omitzero"`
	EndTime     timefmt.Timestamp `json:"endTime,omitzero"`
	Location    string            `json:"location,omitempty"`
	Department  string            `json:"department,omitempty"`
	Section     string            `json:"section,omitempty"`
}

type MonthlyData struct {
	Department string     `json:"department"`
	Month      string     `json:"month"`
	Schedules  []Schedule `json:"schedules"`
}

type Action string

const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Label is the verb used in actor lines (追加者, 変更者, 削除者).
func (a Action) Label() string {
	switch a {
	case ActionAdd:
		return "追加"
	case ActionUpdate:
		return "変更"
	default:
		return "削除"
	}
}

// Snapshot is a point-in-time view of a scheduled event. StartAt and EndAt
// are ISO-8601 strings with an explicit offset.
type Snapshot struct {
	Title       string `json:"title"`
	StartAt     string `json:"startAt"`
	EndAt       string `json:"endAt"`
	Detail      string `json:"detail,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Department  string `json:"department,omitempty"`
	Section     string `json:"section,omitempty"`
	URL         string `json:"url,omitempty"`
	UpdatedBy   string `json:"updatedBy,omitempty"`
}

// Merge returns s with every empty attribute filled from base.
func (s Snapshot) Merge(base Snapshot) Snapshot {
	pick := func(v, fallback string) string {
		if v != "" {
			return v
		}
		return fallback
	}
	return Snapshot{
		Title:       pick(s.Title, base.Title),
		StartAt:     pick(s.StartAt, base.StartAt),
		EndAt:       pick(s.EndAt, base.EndAt),
		Detail:      pick(s.Detail, base.Detail),
		Description: pick(s.Description, base.Description),
		Location:    pick(s.Location, base.Location),
		Department:  pick(s.Department, base.Department),
		Section:     pick(s.Section, base.Section),
		URL:         pick(s.URL, base.URL),
		UpdatedBy:   pick(s.UpdatedBy, base.UpdatedBy),
	}
}

// ScheduleChange is the data of a schedule notification: the base fields,
// optional before/after snapshots and the list of changed attributes.
type ScheduleChange struct {
	Action Action `json:"action"`
	Snapshot
	Before         *Snapshot      `json:"before,omitempty"`
	After          *Snapshot      `json:"after,omitempty"`
	ChangedDetails []ChangeDetail `json:"changedDetails,omitempty"`
}

// Effective is the after view with per-attribute fallback to the base fields.
func (c ScheduleChange) Effective() Snapshot {
	if c.After == nil {
		return c.Snapshot
	}
	return c.After.Merge(c.Snapshot)
}
