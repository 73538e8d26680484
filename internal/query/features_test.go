package query

import (
	"net/url"
	"strings"
	"testing"
)

var testSpec = Spec{
	Table:    "example",
	IDColumn: "id",
	Columns: map[string]string{
		"id":         "id",
		"name":       "name",
		"cover":      "cover",
		"created_at": "created_at",
	},
	Searchable: []string{"name"},
}

func TestParseDefaults(t *testing.T) {
	opts, err := Parse(url.Values{}, testSpec)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opts.Page != 1 {
		t.Errorf("page = %d, want 1", opts.Page)
	}
	if opts.Limit != DefaultLimit {
		t.Errorf("limit = %d, want %d", opts.Limit, DefaultLimit)
	}
	if len(opts.Filters) != 0 || len(opts.Sort) != 0 || len(opts.Fields) != 0 {
		t.Errorf("expected empty options, got %+v", opts)
	}
}

func TestParseFilterOperators(t *testing.T) {
	values := url.Values{}
	values.Set("name", "alpha")
	values.Set("created_at[gte]", "2024-01-01")
	values.Set("cover[in]", "a.webp,b.webp")

	opts, err := Parse(values, testSpec)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(opts.Filters) != 3 {
		t.Fatalf("filters = %d, want 3", len(opts.Filters))
	}
	ops := map[string]Operator{}
	for _, f := range opts.Filters {
		ops[f.Field] = f.Op
	}
	if ops["name"] != OpEq {
		t.Errorf("name op = %q, want eq", ops["name"])
	}
	if ops["created_at"] != OpGte {
		t.Errorf("created_at op = %q, want gte", ops["created_at"])
	}
	if ops["cover"] != OpIn {
		t.Errorf("cover op = %q, want in", ops["cover"])
	}
}

func TestParseRejections(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown field", "secret", "x"},
		{"unknown operator", "name[matches]", "x"},
		{"malformed filter", "name[gte", "x"},
		{"unknown sort field", "sort", "secret"},
		{"unknown projection field", "fields", "secret"},
		{"zero page", "page", "0"},
		{"non-numeric page", "page", "two"},
		{"zero limit", "limit", "0"},
		{"negative limit", "limit", "-5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := url.Values{}
			values.Set(tc.key, tc.value)
			if _, err := Parse(values, testSpec); err == nil {
				t.Fatalf("Parse(%s=%s) succeeded, want error", tc.key, tc.value)
			}
		})
	}
}

func TestParseSortAndFields(t *testing.T) {
	values := url.Values{}
	values.Set("sort", "-created_at,name")
	values.Set("fields", "name,cover")

	opts, err := Parse(values, testSpec)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(opts.Sort) != 2 || !opts.Sort[0].Desc || opts.Sort[0].Field != "created_at" {
		t.Errorf("sort = %+v, want created_at desc then name", opts.Sort)
	}
	if opts.Sort[1].Desc || opts.Sort[1].Field != "name" {
		t.Errorf("second sort = %+v, want name asc", opts.Sort[1])
	}
	if len(opts.Fields) != 2 {
		t.Errorf("fields = %v, want [name cover]", opts.Fields)
	}
}

func TestSelectColumnsAlwaysIncludesID(t *testing.T) {
	opts := Options{Fields: []string{"name"}}
	cols := opts.SelectColumns(testSpec)
	if len(cols) != 2 || cols[0] != "id" || cols[1] != "name" {
		t.Fatalf("columns = %v, want [id name]", cols)
	}
}

func TestBuildSelectSQL(t *testing.T) {
	values := url.Values{}
	values.Set("name", "alpha")
	values.Set("search", "port")
	values.Set("sort", "-created_at")
	values.Set("page", "3")
	values.Set("limit", "10")

	opts, err := Parse(values, testSpec)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sqlStr, args, err := BuildSelect(testSpec, opts).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	for _, want := range []string{"FROM example", "name = $1", "name ILIKE $2", "ORDER BY created_at DESC", "LIMIT 10", "OFFSET 20"} {
		if !strings.Contains(sqlStr, want) {
			t.Errorf("sql %q missing %q", sqlStr, want)
		}
	}
	if len(args) != 2 || args[0] != "alpha" || args[1] != "%port%" {
		t.Errorf("args = %v", args)
	}
}

func TestBuildCountSharesPredicate(t *testing.T) {
	values := url.Values{}
	values.Set("name[ne]", "alpha")

	opts, err := Parse(values, testSpec)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sqlStr, args, err := BuildCount(testSpec, opts).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(sqlStr, "COUNT(*)") || !strings.Contains(sqlStr, "name <> $1") {
		t.Errorf("sql = %q", sqlStr)
	}
	if len(args) != 1 || args[0] != "alpha" {
		t.Errorf("args = %v", args)
	}
}

func TestPaginate(t *testing.T) {
	p := Paginate(95, 1, 50)
	if p.NumberOfPages != 2 {
		t.Errorf("pages = %d, want 2", p.NumberOfPages)
	}
	if p.Next == nil || *p.Next != 2 {
		t.Errorf("next = %v, want 2", p.Next)
	}
	if p.Prev != nil {
		t.Errorf("prev = %v, want nil", p.Prev)
	}

	p = Paginate(95, 2, 50)
	if p.Next != nil {
		t.Errorf("next = %v, want nil on last page", p.Next)
	}
	if p.Prev == nil || *p.Prev != 1 {
		t.Errorf("prev = %v, want 1", p.Prev)
	}

	p = Paginate(100, 2, 50)
	if p.NumberOfPages != 2 || p.Next != nil {
		t.Errorf("exact divisor: pages = %d next = %v", p.NumberOfPages, p.Next)
	}

	p = Paginate(0, 1, 50)
	if p.NumberOfPages != 0 || p.Next != nil || p.Prev != nil {
		t.Errorf("empty result: %+v", p)
	}
}

func TestPaginateOutOfRangePage(t *testing.T) {
	p := Paginate(40, 5, 50)
	if p.NumberOfPages != 1 {
		t.Fatalf("pages = %d, want 1", p.NumberOfPages)
	}
	if p.Next != nil {
		t.Errorf("next = %v, want nil", p.Next)
	}
	if p.Prev == nil || *p.Prev != 1 {
		t.Errorf("prev = %v, want the last existing page", p.Prev)
	}

	p = Paginate(0, 3, 50)
	if p.Prev != nil || p.Next != nil {
		t.Errorf("empty collection: %+v", p)
	}
}
