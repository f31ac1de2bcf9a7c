package assets_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/opsfield/intake/internal/assets"
)

func intPtr(n int) *int { return &n }

func TestMetadataValidate(t *testing.T) {
	tests := []struct {
		name    string
		meta    assets.Metadata
		wantErr bool
	}{
		{"valid", assets.Metadata{Locale: "en-US", BookingCategory: "hotel"}, false},
		{"missing locale", assets.Metadata{BookingCategory: "hotel"}, true},
		{"blank locale", assets.Metadata{Locale: "   ", BookingCategory: "hotel"}, true},
		{"missing category", assets.Metadata{Locale: "en-US"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.meta.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, assets.ErrValidation) {
				t.Errorf("Validate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestMetadataJSONRoundTrip(t *testing.T) {
	original := assets.Metadata{
		Locale:           "de-DE",
		BookingCategory:  "flight",
		SourceName:       "booking-portal",
		AssetOwnerAge:    intPtr(34),
		AssetOwnerGender: "female",
		BookingType:      "round_trip",
		Extra: map[string]any{
			"campaign": "summer",
			"priority": float64(2),
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded assets.Metadata
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Locale != original.Locale || decoded.BookingCategory != original.BookingCategory {
		t.Errorf("partition keys = %s/%s, want %s/%s",
			decoded.Locale, decoded.BookingCategory, original.Locale, original.BookingCategory)
	}
	if decoded.SourceName != original.SourceName {
		t.Errorf("SourceName = %q, want %q", decoded.SourceName, original.SourceName)
	}
	if decoded.AssetOwnerAge == nil || *decoded.AssetOwnerAge != 34 {
		t.Errorf("AssetOwnerAge = %v, want 34", decoded.AssetOwnerAge)
	}
	if decoded.Extra["campaign"] != "summer" {
		t.Errorf("Extra campaign = %v, want summer", decoded.Extra["campaign"])
	}
	if decoded.Extra["priority"] != float64(2) {
		t.Errorf("Extra priority = %v, want 2", decoded.Extra["priority"])
	}
}

func TestMetadataUnmarshalCollectsUnknownKeys(t *testing.T) {
	raw := `{"locale":"fr-FR","bookingCategory":"hotel","region":"EMEA","nested":{"a":1}}`

	var meta assets.Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if meta.Locale != "fr-FR" {
		t.Errorf("Locale = %q, want fr-FR", meta.Locale)
	}
	if len(meta.Extra) != 2 {
		t.Fatalf("Extra = %v, want two unknown keys", meta.Extra)
	}
	if meta.Extra["region"] != "EMEA" {
		t.Errorf("Extra region = %v, want EMEA", meta.Extra["region"])
	}
}

func TestMetadataMarshalOmitsEmptyOptional(t *testing.T) {
	meta := assets.Metadata{Locale: "en-US", BookingCategory: "hotel"}

	data, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}

	for _, key := range []string{"sourceName", "assetOwnerAge", "assetOwnerGender", "bookingType"} {
		if _, present := raw[key]; present {
			t.Errorf("key %q present in %s, want omitted", key, data)
		}
	}
}

func TestMetadataTypedFieldsWinCollisions(t *testing.T) {
	meta := assets.Metadata{
		Locale:          "en-US",
		BookingCategory: "hotel",
		Extra:           map[string]any{"locale": "stale"},
	}

	data, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}

	if raw["locale"] != "en-US" {
		t.Errorf("locale = %v, want typed value en-US", raw["locale"])
	}
}

func TestMetadataScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
	}{
		{"bytes", []byte(`{"locale":"en-US","bookingCategory":"hotel"}`)},
		{"string", `{"locale":"en-US","bookingCategory":"hotel"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var meta assets.Metadata
			if err := meta.Scan(tt.src); err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if meta.Locale != "en-US" {
				t.Errorf("Locale = %q, want en-US", meta.Locale)
			}
		})
	}

	t.Run("nil resets", func(t *testing.T) {
		meta := assets.Metadata{Locale: "stale"}
		if err := meta.Scan(nil); err != nil {
			t.Fatalf("Scan(nil): %v", err)
		}
		if meta.Locale != "" {
			t.Errorf("Locale = %q, want empty after nil scan", meta.Locale)
		}
	})

	t.Run("unsupported type", func(t *testing.T) {
		var meta assets.Metadata
		if err := meta.Scan(42); err == nil {
			t.Error("Scan(42) = nil error, want failure")
		}
	})
}

func TestMetadataValueScanRoundTrip(t *testing.T) {
	original := assets.Metadata{
		Locale:          "ja-JP",
		BookingCategory: "rail",
		Extra:           map[string]any{"operator": "jr-east"},
	}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var decoded assets.Metadata
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if decoded.Locale != original.Locale || decoded.BookingCategory != original.BookingCategory {
		t.Errorf("round-trip keys = %s/%s, want %s/%s",
			decoded.Locale, decoded.BookingCategory, original.Locale, original.BookingCategory)
	}
	if decoded.Extra["operator"] != "jr-east" {
		t.Errorf("Extra operator = %v, want jr-east", decoded.Extra["operator"])
	}
}
