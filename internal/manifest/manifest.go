// Package manifest models the parts of a W3C web app manifest the checks
// inspect.
package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"pwacheck/internal/artifact"
)

// Icon is one entry of the manifest "icons" list.
type Icon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// SizeTokens splits the space-separated "sizes" member ("48x48 96x96").
func (i Icon) SizeTokens() []string {
	return strings.Fields(strings.ToLower(i.Sizes))
}

// Manifest is a decoded manifest. Raw keeps every top-level member so that
// presence checks are not limited to the typed fields.
//
// Members whose value has the wrong JSON type are left at their zero value
// and recorded in Invalid, the way browsers ignore them.
type Manifest struct {
	Name            string
	ShortName       string
	StartURL        string
	Display         string
	ThemeColor      string
	BackgroundColor string
	Icons           []Icon

	Raw     map[string]json.RawMessage
	Invalid []*MemberError
}

// MemberError reports a manifest member whose value has the wrong JSON type.
type MemberError struct {
	Member string
	Want   string
	Got    string
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("member %s: want %s, got %s", e.Member, e.Want, e.Got)
}

// Load reads and decodes the manifest at name. A missing file yields an
// error wrapping artifact.ErrNotFound, and a file that is not a JSON object
// yields *artifact.MalformedError. Type errors in individual members do not
// fail the load; they are collected in Manifest.Invalid.
func Load(ctx context.Context, tree artifact.Tree, name string) (*Manifest, error) {
	var doc json.RawMessage
	if err := artifact.ReadJSON(ctx, tree, name, &doc); err != nil {
		return nil, err
	}
	if kind := kindOf(doc); kind != "object" {
		return nil, &artifact.MalformedError{Path: name, Want: "a JSON object", Err: fmt.Errorf("top-level value is %s", kind)}
	}
	m := &Manifest{}
	if err := json.Unmarshal(doc, &m.Raw); err != nil {
		return nil, &artifact.MalformedError{Path: name, Err: err}
	}

	m.decodeString("name", &m.Name)
	m.decodeString("short_name", &m.ShortName)
	m.decodeString("start_url", &m.StartURL)
	m.decodeString("display", &m.Display)
	m.decodeString("theme_color", &m.ThemeColor)
	m.decodeString("background_color", &m.BackgroundColor)
	m.decodeIcons()
	return m, nil
}

func (m *Manifest) member(name string) (json.RawMessage, bool) {
	v, ok := m.Raw[name]
	if !ok || kindOf(v) == "null" {
		return nil, false
	}
	return v, true
}

func (m *Manifest) decodeString(name string, dst *string) {
	v, ok := m.member(name)
	if !ok {
		return
	}
	if err := json.Unmarshal(v, dst); err != nil {
		m.Invalid = append(m.Invalid, &MemberError{Member: name, Want: "string", Got: kindOf(v)})
	}
}

func (m *Manifest) decodeIcons() {
	v, ok := m.member("icons")
	if !ok {
		return
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(v, &entries); err != nil {
		m.Invalid = append(m.Invalid, &MemberError{Member: "icons", Want: "array", Got: kindOf(v)})
		return
	}
	for i, e := range entries {
		var icon Icon
		if err := json.Unmarshal(e, &icon); err != nil {
			m.Invalid = append(m.Invalid, iconError(i, e, err))
			continue
		}
		m.Icons = append(m.Icons, icon)
	}
}

func iconError(i int, raw json.RawMessage, err error) *MemberError {
	member := fmt.Sprintf("icons[%d]", i)
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		got := te.Value
		if got == "bool" {
			got = "boolean"
		}
		return &MemberError{Member: member + "." + te.Field, Want: kindOfType(te.Type), Got: got}
	}
	return &MemberError{Member: member, Want: "object", Got: kindOf(raw)}
}

// InvalidMember returns the type error recorded for the top-level member
// name, or nil.
func (m *Manifest) InvalidMember(name string) *MemberError {
	for _, e := range m.Invalid {
		if e.Member == name {
			return e
		}
	}
	return nil
}

// InvalidFields returns the type errors for the members of fields, in order.
func (m *Manifest) InvalidFields(fields []string) []*MemberError {
	var out []*MemberError
	for _, f := range fields {
		if e := m.InvalidMember(f); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// kindOf names the JSON type of an encoded value.
func kindOf(v json.RawMessage) string {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 {
		return "nothing"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	}
	return "number"
}

func kindOfType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	}
	return t.String()
}

// HasField reports whether the manifest carries a non-empty member named
// field. Empty strings, empty lists and null do not count.
func (m *Manifest) HasField(field string) bool {
	v, ok := m.Raw[field]
	if !ok {
		return false
	}
	switch strings.TrimSpace(string(v)) {
	case "", "null", `""`, "[]", "{}":
		return false
	}
	return true
}

// MissingFields returns the members of fields the manifest lacks, in order.
func (m *Manifest) MissingFields(fields []string) []string {
	var missing []string
	for _, f := range fields {
		if !m.HasField(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// SizeTokens returns the distinct icon size tokens in declaration order.
func (m *Manifest) SizeTokens() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, icon := range m.Icons {
		for _, tok := range icon.SizeTokens() {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}
