package query_test

import (
	"testing"

	"github.com/opsfield/intake/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "assets", "a").
		Project("id", "id").
		Project("locale", "Locale").
		Project("created_at", "CreatedAt")
}

func ptr(s string) *string { return &s }

func TestProjectionMapTable(t *testing.T) {
	p := testProjection()
	got := p.Table()
	want := "public.assets a"
	if got != want {
		t.Errorf("Table() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumns(t *testing.T) {
	p := testProjection()
	got := p.Columns()
	want := "a.id, a.locale, a.created_at"
	if got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumnLookup(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name     string
		viewName string
		want     string
	}{
		{"mapped field", "Locale", "a.locale"},
		{"mapped timestamp", "CreatedAt", "a.created_at"},
		{"unmapped passthrough", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Column(tt.viewName); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, got, tt.want)
			}
		})
	}
}

func TestProjectionMapJoin(t *testing.T) {
	p := query.NewProjectionMap("public", "assets", "a").
		Project("id", "id").
		Join("public", "users", "u", "LEFT JOIN", "u.id = a.assigned_to").
		Project("username", "AssignedUsername")

	wantFrom := "public.assets a LEFT JOIN public.users u ON u.id = a.assigned_to"
	if got := p.From(); got != wantFrom {
		t.Errorf("From() = %q, want %q", got, wantFrom)
	}

	if got := p.Column("AssignedUsername"); got != "u.username" {
		t.Errorf("Column(AssignedUsername) = %q, want %q", got, "u.username")
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty", "", nil},
		{"single ascending", "Locale", []query.SortField{{Field: "Locale"}}},
		{"single descending", "-CreatedAt", []query.SortField{{Field: "CreatedAt", Descending: true}}},
		{
			"mixed",
			"Locale,-CreatedAt",
			[]query.SortField{
				{Field: "Locale"},
				{Field: "CreatedAt", Descending: true},
			},
		},
		{"whitespace trimmed", " Locale , -CreatedAt ", []query.SortField{
			{Field: "Locale"},
			{Field: "CreatedAt", Descending: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %+v, want %+v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildCount(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("Locale", ptr("en-US")).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.assets a WHERE a.locale = $1"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0].(*string) == nil {
		t.Fatalf("BuildCount() args = %v, want one locale arg", args)
	}
}

func TestBuildPage(t *testing.T) {
	sql, args := query.NewBuilder(testProjection(), query.SortField{Field: "CreatedAt"}).
		WhereEquals("Locale", ptr("en-US")).
		WhereContains("id", ptr("abc")).
		BuildPage(2, 10)

	want := "SELECT a.id, a.locale, a.created_at FROM public.assets a" +
		" WHERE a.locale = $1 AND a.id ILIKE $2" +
		" ORDER BY a.created_at ASC LIMIT 10 OFFSET 10"
	if sql != want {
		t.Errorf("BuildPage() sql = %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Errorf("BuildPage() args = %d, want 2", len(args))
	}
}

func TestBuildPageSortOverride(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "CreatedAt"}).
		OrderByFields([]query.SortField{{Field: "Locale", Descending: true}}).
		BuildPage(1, 20)

	want := "SELECT a.id, a.locale, a.created_at FROM public.assets a" +
		" ORDER BY a.locale DESC LIMIT 20 OFFSET 0"
	if sql != want {
		t.Errorf("BuildPage() sql = %q, want %q", sql, want)
	}
}

func TestWhereNilSkipped(t *testing.T) {
	var locale *string
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("Locale", locale).
		WhereContains("id", nil).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.assets a"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %d, want 0", len(args))
	}
}

func TestWhereNullAndNotNull(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection()).
		WhereNull("Locale").
		WhereNotNull("CreatedAt").
		BuildCount()

	want := "SELECT COUNT(*) FROM public.assets a WHERE a.locale IS NULL AND a.created_at IS NOT NULL"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
}

func TestWhereRawRenumbering(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("Locale", ptr("en-US")).
		WhereRaw("(a.qc_status IS NULL OR a.qc_status = $%d)", "pending").
		BuildCount()

	want := "SELECT COUNT(*) FROM public.assets a" +
		" WHERE a.locale = $1 AND (a.qc_status IS NULL OR a.qc_status = $2)"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Errorf("BuildCount() args = %d, want 2", len(args))
	}
}

func TestWhereIn(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereIn("Locale", []any{"en-US", "de-DE"}).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.assets a WHERE a.locale IN ($1, $2)"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Errorf("BuildCount() args = %d, want 2", len(args))
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildSingle("id", 42)

	want := "SELECT a.id, a.locale, a.created_at FROM public.assets a WHERE a.id = $1"
	if sql != want {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != 42 {
		t.Errorf("BuildSingle() args = %v, want [42]", args)
	}
}
