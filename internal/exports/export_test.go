package exports_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/opsfield/intake/internal/exports"
)

func TestFiltersFromQuery(t *testing.T) {
	values, err := url.ParseQuery(
		"locale=en-US&booking_category=hotel&qc_status=approved&from=2026-01-01&to=2026-06-30T23:59:59Z")
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}

	f := exports.FiltersFromQuery(values)

	if f.Locale == nil || *f.Locale != "en-US" {
		t.Errorf("Locale = %v, want en-US", f.Locale)
	}
	if f.BookingCategory == nil || *f.BookingCategory != "hotel" {
		t.Errorf("BookingCategory = %v, want hotel", f.BookingCategory)
	}
	if f.QCStatus == nil || *f.QCStatus != "approved" {
		t.Errorf("QCStatus = %v, want approved", f.QCStatus)
	}

	wantFrom := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if f.From == nil || !f.From.Equal(wantFrom) {
		t.Errorf("From = %v, want %v", f.From, wantFrom)
	}

	wantTo := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)
	if f.To == nil || !f.To.Equal(wantTo) {
		t.Errorf("To = %v, want %v", f.To, wantTo)
	}
}

func TestFiltersFromQueryEmpty(t *testing.T) {
	f := exports.FiltersFromQuery(url.Values{})

	if f.Locale != nil || f.BookingCategory != nil || f.QCStatus != nil || f.From != nil || f.To != nil {
		t.Errorf("filters = %+v, want all nil", f)
	}
}

func TestFiltersFromQueryBadDatesIgnored(t *testing.T) {
	values, err := url.ParseQuery("from=yesterday&to=01/02/2026")
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}

	f := exports.FiltersFromQuery(values)

	if f.From != nil {
		t.Errorf("From = %v, want nil for unparseable date", f.From)
	}
	if f.To != nil {
		t.Errorf("To = %v, want nil for unparseable date", f.To)
	}
}
