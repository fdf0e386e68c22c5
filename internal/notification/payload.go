package notification

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Payload is the tagged union accepted by the dispatcher. Exactly one of
// Daily, Monthly and Schedule is set, matching Type.
type Payload struct {
	Type      Type
	ChannelID string
	Daily     *Schedule
	Monthly   *MonthlyData
	Schedule  *ScheduleChange
}

type envelope struct {
	Type      Type            `json:"type"`
	ChannelID string          `json:"channelId,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// UnmarshalJSON decodes {"type": ..., "channelId": ..., "data": {...}}. An
// unknown type is kept so Validate can report it.
func (p *Payload) UnmarshalJSON(raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return decodeError("", err)
	}
	*p = Payload{Type: env.Type, ChannelID: env.ChannelID}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch env.Type {
	case TypeDaily:
		var s Schedule
		if err := json.Unmarshal(data, &s); err != nil {
			return decodeError("data", err)
		}
		p.Daily = &s
	case TypeMonthly:
		var m MonthlyData
		if err := json.Unmarshal(data, &m); err != nil {
			return decodeError("data", err)
		}
		p.Monthly = &m
	case TypeSchedule:
		var c ScheduleChange
		if err := json.Unmarshal(data, &c); err != nil {
			return decodeError("data", err)
		}
		p.Schedule = &c
	}
	return nil
}

// MarshalJSON writes the envelope form.
func (p Payload) MarshalJSON() ([]byte, error) {
	var data any
	switch {
	case p.Daily != nil:
		data = p.Daily
	case p.Monthly != nil:
		data = p.Monthly
	case p.Schedule != nil:
		data = p.Schedule
	}
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal payload data: %w", err)
	}
	return json.Marshal(envelope{Type: p.Type, ChannelID: p.ChannelID, Data: body})
}

// Department derives the department used for routing. Schedule payloads fall
// back to the after snapshot.
func (p Payload) Department() string {
	switch p.Type {
	case TypeDaily:
		if p.Daily != nil {
			return p.Daily.Department
		}
	case TypeMonthly:
		if p.Monthly != nil {
			return p.Monthly.Department
		}
	case TypeSchedule:
		if p.Schedule == nil {
			return ""
		}
		if p.Schedule.Department != "" {
			return p.Schedule.Department
		}
		if p.Schedule.After != nil {
			return p.Schedule.After.Department
		}
	}
	return ""
}

// Title is the headline event name, used in logs.
func (p Payload) Title() string {
	switch {
	case p.Daily != nil:
		return p.Daily.Title
	case p.Monthly != nil:
		return p.Monthly.Month
	case p.Schedule != nil:
		return p.Schedule.Effective().Title
	}
	return ""
}

func decodeError(prefix string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if prefix != "" && field != "" {
			field = prefix + "." + field
		} else if field == "" {
			field = prefix
		}
		return &ValidationError{Field: field, Reason: "must be a " + typeErr.Type.String()}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ValidationError{Field: prefix, Reason: "malformed JSON"}
	}
	return err
}
