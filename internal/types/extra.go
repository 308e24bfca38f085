//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"reflect"
	"strings"
)

// collectExtra gathers the top-level JSON keys of data that do not map to
// any exported field of v and merges them into existing. UnmarshalJSON
// implementations use it so unknown inbound fields survive a read/write
// round trip instead of being silently dropped.
func collectExtra(data []byte, v any, existing map[string]any) map[string]any {
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return existing
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		delete(all, name)
	}

	if len(all) == 0 {
		return existing
	}
	if existing == nil {
		existing = make(map[string]any, len(all))
	}
	for k, val := range all {
		existing[k] = val
	}
	return existing
}

// UnmarshalJSON preserves unknown inbound fields in Extra.
func (m *EmailMessage) UnmarshalJSON(data []byte) error {
	type plain EmailMessage
	if err := json.Unmarshal(data, (*plain)(m)); err != nil {
		return err
	}
	m.Extra = collectExtra(data, m, m.Extra)
	return nil
}

// UnmarshalJSON preserves unknown inbound fields in Extra.
func (o *Opportunity) UnmarshalJSON(data []byte) error {
	type plain Opportunity
	if err := json.Unmarshal(data, (*plain)(o)); err != nil {
		return err
	}
	o.Extra = collectExtra(data, o, o.Extra)
	return nil
}

// UnmarshalJSON preserves unknown inbound fields in Extra.
func (r *MatchResult) UnmarshalJSON(data []byte) error {
	type plain MatchResult
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	r.Extra = collectExtra(data, r, r.Extra)
	return nil
}

// UnmarshalJSON preserves unknown inbound fields in Extra.
func (d *EmailDraft) UnmarshalJSON(data []byte) error {
	type plain EmailDraft
	if err := json.Unmarshal(data, (*plain)(d)); err != nil {
		return err
	}
	d.Extra = collectExtra(data, d, d.Extra)
	return nil
}

// UnmarshalJSON preserves unknown inbound fields in Extra.
func (r *TailoringReport) UnmarshalJSON(data []byte) error {
	type plain TailoringReport
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	r.Extra = collectExtra(data, r, r.Extra)
	return nil
}
