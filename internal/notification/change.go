package notification

import "encoding/json"

// ChangeDetail describes one changed attribute of a schedule.
type ChangeDetail struct {
	Field  string `json:"field"`
	Item   string `json:"item,omitempty"`
	Before string `json:"before"`
	After  string `json:"after"`

	hasBefore bool
	hasAfter  bool
}

// NewChangeDetail builds a complete change entry.
func NewChangeDetail(field, before, after string) ChangeDetail {
	return ChangeDetail{Field: field, Before: before, After: after, hasBefore: true, hasAfter: true}
}

// UnmarshalJSON records whether before and after were present.
func (d *ChangeDetail) UnmarshalJSON(data []byte) error {
	var raw struct {
		Field  string  `json:"field"`
		Item   string  `json:"item"`
		Before *string `json:"before"`
		After  *string `json:"after"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = ChangeDetail{Field: raw.Field, Item: raw.Item}
	if raw.Before != nil {
		d.Before, d.hasBefore = *raw.Before, true
	}
	if raw.After != nil {
		d.After, d.hasAfter = *raw.After, true
	}
	return nil
}
