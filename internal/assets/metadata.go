package assets

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Metadata is the typed descriptive payload captured at intake. Locale and
// BookingCategory are the partition keys and are mirrored into dedicated
// asset columns; unknown keys survive round-trips through Extra.
type Metadata struct {
	Locale           string  `json:"locale"`
	BookingCategory  string  `json:"bookingCategory"`
	SourceName       string  `json:"sourceName,omitempty"`
	AssetOwnerAge    *int    `json:"assetOwnerAge,omitempty"`
	AssetOwnerGender string  `json:"assetOwnerGender,omitempty"`
	BookingType      string  `json:"bookingType,omitempty"`
	Extra            map[string]any `json:"-"`
}

// knownMetadataKeys are the JSON keys bound to typed fields.
var knownMetadataKeys = map[string]struct{}{
	"locale":           {},
	"bookingCategory":  {},
	"sourceName":       {},
	"assetOwnerAge":    {},
	"assetOwnerGender": {},
	"bookingType":      {},
}

// Validate checks that the partition keys are present.
func (m Metadata) Validate() error {
	if strings.TrimSpace(m.Locale) == "" {
		return fmt.Errorf("%w: metadata locale required", ErrValidation)
	}
	if strings.TrimSpace(m.BookingCategory) == "" {
		return fmt.Errorf("%w: metadata bookingCategory required", ErrValidation)
	}
	return nil
}

// MarshalJSON flattens typed fields and Extra into a single object.
// Typed fields win on key collisions.
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+6)
	for k, v := range m.Extra {
		if _, known := knownMetadataKeys[k]; !known {
			out[k] = v
		}
	}

	out["locale"] = m.Locale
	out["bookingCategory"] = m.BookingCategory
	if m.SourceName != "" {
		out["sourceName"] = m.SourceName
	}
	if m.AssetOwnerAge != nil {
		out["assetOwnerAge"] = *m.AssetOwnerAge
	}
	if m.AssetOwnerGender != "" {
		out["assetOwnerGender"] = m.AssetOwnerGender
	}
	if m.BookingType != "" {
		out["bookingType"] = m.BookingType
	}

	return json.Marshal(out)
}

// UnmarshalJSON binds known keys to typed fields and collects the rest in Extra.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	type typed struct {
		Locale           string `json:"locale"`
		BookingCategory  string `json:"bookingCategory"`
		SourceName       string `json:"sourceName"`
		AssetOwnerAge    *int   `json:"assetOwnerAge"`
		AssetOwnerGender string `json:"assetOwnerGender"`
		BookingType      string `json:"bookingType"`
	}

	var t typed
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	extra := make(map[string]any)
	for k, v := range raw {
		if _, known := knownMetadataKeys[k]; !known {
			extra[k] = v
		}
	}
	if len(extra) == 0 {
		extra = nil
	}

	*m = Metadata{
		Locale:           t.Locale,
		BookingCategory:  t.BookingCategory,
		SourceName:       t.SourceName,
		AssetOwnerAge:    t.AssetOwnerAge,
		AssetOwnerGender: t.AssetOwnerGender,
		BookingType:      t.BookingType,
		Extra:            extra,
	}
	return nil
}

// Value implements driver.Valuer, storing metadata as JSONB.
func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB columns.
func (m *Metadata) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("unsupported metadata source type %T", src)
}
