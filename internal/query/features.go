package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
)

// DefaultLimit is the page size applied when the client does not send one.
const DefaultLimit = 50

// reserved parameters never become filters.
var reserved = map[string]struct{}{
	"page":   {},
	"limit":  {},
	"sort":   {},
	"fields": {},
	"search": {},
}

// Spec is the per-resource contract of the query engine: which table is
// queried, which API fields are exposed (and under which columns), and which
// of them participate in free-text search. Fields outside Columns are
// rejected at parse time rather than passed through to SQL.
type Spec struct {
	Table      string
	IDColumn   string
	Columns    map[string]string
	Searchable []string
	// ArrayFields lists API fields stored as text[]; list results decode
	// them into string slices.
	ArrayFields []string
	// DefaultSort is the column used when no sort parameter is present.
	// Empty means created_at, i.e. insertion order.
	DefaultSort string
}

func (s Spec) column(field string) (string, bool) {
	col, ok := s.Columns[field]
	return col, ok
}

func (s Spec) idColumn() string {
	if s.IDColumn != "" {
		return s.IDColumn
	}
	return "id"
}

func (s Spec) defaultSort() string {
	if s.DefaultSort != "" {
		return s.DefaultSort
	}
	return "created_at"
}

// AllColumns returns every exposed column in a stable order.
func (s Spec) AllColumns() []string {
	fields := make([]string, 0, len(s.Columns))
	for field := range s.Columns {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	cols := make([]string, 0, len(fields))
	for _, field := range fields {
		cols = append(cols, s.Columns[field])
	}
	return cols
}

type Operator string

const (
	OpEq  Operator = "eq"
	OpNe  Operator = "ne"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

var operators = map[Operator]struct{}{
	OpEq: {}, OpNe: {}, OpGt: {}, OpGte: {}, OpLt: {}, OpLte: {}, OpIn: {},
}

type Filter struct {
	Field string
	Op    Operator
	Value string
}

type SortField struct {
	Field string
	Desc  bool
}

// Options is the per-request, ephemeral query description derived from the
// URL parameters.
type Options struct {
	Filters []Filter
	Sort    []SortField
	Fields  []string
	Search  string
	Page    int
	Limit   int
}

// Parse derives Options from raw query parameters. Every non-reserved
// parameter must name an exposed field, optionally with a bracketed operator
// (price[gte]=10); unknown fields and operators are rejected.
func Parse(values url.Values, spec Spec) (Options, error) {
	opts := Options{Page: 1, Limit: DefaultLimit}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := reserved[key]; ok {
			continue
		}
		field, op, err := splitFilterKey(key)
		if err != nil {
			return Options{}, err
		}
		if _, ok := spec.column(field); !ok {
			return Options{}, apperr.New(apperr.Validation, fmt.Sprintf("cannot filter by %q", field))
		}
		opts.Filters = append(opts.Filters, Filter{Field: field, Op: op, Value: values.Get(key)})
	}

	if raw := strings.TrimSpace(values.Get("sort")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			desc := strings.HasPrefix(part, "-")
			field := strings.TrimPrefix(part, "-")
			if _, ok := spec.column(field); !ok {
				return Options{}, apperr.New(apperr.Validation, fmt.Sprintf("cannot sort by %q", field))
			}
			opts.Sort = append(opts.Sort, SortField{Field: field, Desc: desc})
		}
	}

	if raw := strings.TrimSpace(values.Get("fields")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := spec.column(part); !ok {
				return Options{}, apperr.New(apperr.Validation, fmt.Sprintf("cannot select %q", part))
			}
			opts.Fields = append(opts.Fields, part)
		}
	}

	opts.Search = strings.TrimSpace(values.Get("search"))

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Options{}, apperr.New(apperr.Validation, "page must be a positive integer")
		}
		opts.Page = page
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return Options{}, apperr.New(apperr.Validation, "limit must be a positive integer")
		}
		opts.Limit = limit
	}

	return opts, nil
}

func splitFilterKey(key string) (string, Operator, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq, nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", apperr.New(apperr.Validation, fmt.Sprintf("malformed filter %q", key))
	}
	field := key[:open]
	op := Operator(key[open+1 : len(key)-1])
	if _, ok := operators[op]; !ok {
		return "", "", apperr.New(apperr.Validation, fmt.Sprintf("unknown operator %q", string(op)))
	}
	return field, op, nil
}

// Predicate builds the WHERE clause shared by the page query and the count
// query: filters ANDed together, then the free-text search ANDed on top as a
// case-insensitive substring match over the searchable fields.
func (o Options) Predicate(spec Spec) sq.And {
	var pred sq.And
	for _, f := range o.Filters {
		col, _ := spec.column(f.Field)
		switch f.Op {
		case OpNe:
			pred = append(pred, sq.NotEq{col: f.Value})
		case OpGt:
			pred = append(pred, sq.Gt{col: f.Value})
		case OpGte:
			pred = append(pred, sq.GtOrEq{col: f.Value})
		case OpLt:
			pred = append(pred, sq.Lt{col: f.Value})
		case OpLte:
			pred = append(pred, sq.LtOrEq{col: f.Value})
		case OpIn:
			values := strings.Split(f.Value, ",")
			for i := range values {
				values[i] = strings.TrimSpace(values[i])
			}
			pred = append(pred, sq.Eq{col: values})
		default:
			pred = append(pred, sq.Eq{col: f.Value})
		}
	}
	if o.Search != "" && len(spec.Searchable) > 0 {
		var search sq.Or
		for _, field := range spec.Searchable {
			if col, ok := spec.column(field); ok {
				search = append(search, sq.ILike{col: "%" + o.Search + "%"})
			}
		}
		if len(search) > 0 {
			pred = append(pred, search)
		}
	}
	return pred
}

// SelectColumns resolves the projection: the requested fields plus the
// identity column, or every exposed column when no projection was asked for.
func (o Options) SelectColumns(spec Spec) []string {
	if len(o.Fields) == 0 {
		return spec.AllColumns()
	}
	cols := []string{spec.idColumn()}
	for _, field := range o.Fields {
		col, _ := spec.column(field)
		if col != spec.idColumn() {
			cols = append(cols, col)
		}
	}
	return cols
}

func (o Options) orderBy(spec Spec) []string {
	if len(o.Sort) == 0 {
		return []string{spec.defaultSort() + " ASC"}
	}
	order := make([]string, 0, len(o.Sort))
	for _, s := range o.Sort {
		col, _ := spec.column(s.Field)
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		order = append(order, col+dir)
	}
	return order
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// BuildSelect assembles the paginated page query: filter, sort, projection,
// search and pagination applied in that fixed order.
func BuildSelect(spec Spec, opts Options) sq.SelectBuilder {
	b := BuildSelectAll(spec, opts)
	offset := uint64(opts.Page-1) * uint64(opts.Limit)
	return b.Limit(uint64(opts.Limit)).Offset(offset)
}

// BuildSelectAll is the unpaginated variant used for list-style consumption.
func BuildSelectAll(spec Spec, opts Options) sq.SelectBuilder {
	b := builder.Select(opts.SelectColumns(spec)...).From(spec.Table)
	if pred := opts.Predicate(spec); len(pred) > 0 {
		b = b.Where(pred)
	}
	return b.OrderBy(opts.orderBy(spec)...)
}

// BuildCount assembles the count query for pagination metadata. It shares
// the page query's predicate but runs separately; under concurrent writes
// the count and the page may diverge, which is accepted.
func BuildCount(spec Spec, opts Options) sq.SelectBuilder {
	b := builder.Select("COUNT(*)").From(spec.Table)
	if pred := opts.Predicate(spec); len(pred) > 0 {
		b = b.Where(pred)
	}
	return b
}
