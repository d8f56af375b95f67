package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldKind is the input kind of a note template field.
type FieldKind string

const (
	FieldShortText    FieldKind = "short_text"
	FieldNumericText  FieldKind = "numeric_text"
	FieldLongText     FieldKind = "long_text"
	FieldSingleSelect FieldKind = "single_select"
	FieldBoolean      FieldKind = "boolean"
)

// NoteField describes one input on a note template.
type NoteField struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"kind"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
}

// NoteTemplate is a read-only form definition.
type NoteTemplate struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Icon   string      `json:"icon"`
	Fields []NoteField `json:"fields"`
}

// FieldValue holds what was entered for one field. Text covers short text,
// numbers-as-text, long text and a chosen option; Checked covers booleans.
type FieldValue struct {
	Text    string
	Checked *bool
}

// Text returns a text-valued field (short, numeric, long or option).
func Text(s string) FieldValue { return FieldValue{Text: s} }

// Bool returns a boolean-valued field.
func Bool(b bool) FieldValue { return FieldValue{Checked: &b} }

// IsBool reports whether the value came from a boolean field.
func (v FieldValue) IsBool() bool { return v.Checked != nil }

// String renders the value the way a form shows it.
func (v FieldValue) String() string {
	if v.Checked != nil {
		return strconv.FormatBool(*v.Checked)
	}
	return v.Text
}

// Present reports whether the value counts as filled in for a required field.
// A boolean is present whether checked or not.
func (v FieldValue) Present() bool {
	return strings.TrimSpace(v.String()) != ""
}

// MarshalJSON encodes booleans as JSON booleans and everything else as strings.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.Checked != nil {
		return json.Marshal(*v.Checked)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts a JSON string, boolean or number.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case bool:
		*v = Bool(x)
	case string:
		*v = Text(x)
	case float64:
		*v = Text(strconv.FormatFloat(x, 'f', -1, 64))
	case nil:
		*v = FieldValue{}
	default:
		return fmt.Errorf("models: unsupported field value %s", string(data))
	}
	return nil
}

// CompletedNote is a draft or submitted note filled against a template.
type CompletedNote struct {
	ID            uint64                `json:"id"`
	TemplateID    string                `json:"template_id"`
	TemplateTitle string                `json:"template_title"`
	Values        map[string]FieldValue `json:"values"`
	CreatedAt     time.Time             `json:"created_at"`
	Submitted     bool                  `json:"submitted"`
}
