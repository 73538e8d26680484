package postgres

import (
	"context"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/query"
)

// ResourceRepo is the storage half of the generic CRUD layer: one
// implementation parameterized over the model type, driven entirely by a
// query.Spec and a writable-column allow-list. List queries are built with
// squirrel and scanned into raw documents so projections shape the result;
// single-record statements are fixed SQL in the usual style.
type ResourceRepo[T any] struct {
	db       *sqlx.DB
	spec     query.Spec
	writable map[string]struct{}
}

func NewResourceRepo[T any](db *sqlx.DB, spec query.Spec, writable []string) *ResourceRepo[T] {
	allowed := make(map[string]struct{}, len(writable))
	for _, field := range writable {
		allowed[field] = struct{}{}
	}
	return &ResourceRepo[T]{db: db, spec: spec, writable: allowed}
}

func (r *ResourceRepo[T]) Spec() query.Spec { return r.spec }

func (r *ResourceRepo[T]) Select(ctx context.Context, opts query.Options) ([]map[string]any, error) {
	sqlStr, args, err := query.BuildSelect(r.spec, opts).ToSql()
	if err != nil {
		return nil, err
	}
	return r.selectDocuments(ctx, sqlStr, args)
}

func (r *ResourceRepo[T]) SelectAll(ctx context.Context, opts query.Options) ([]map[string]any, error) {
	sqlStr, args, err := query.BuildSelectAll(r.spec, opts).ToSql()
	if err != nil {
		return nil, err
	}
	return r.selectDocuments(ctx, sqlStr, args)
}

func (r *ResourceRepo[T]) selectDocuments(ctx context.Context, sqlStr string, args []any) ([]map[string]any, error) {
	rows, err := r.db.QueryxContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	documents := make([]map[string]any, 0)
	for rows.Next() {
		document := map[string]any{}
		if err := rows.MapScan(document); err != nil {
			return nil, err
		}
		r.normalize(document)
		documents = append(documents, document)
	}
	return documents, rows.Err()
}

// normalize converts driver values into JSON-friendly ones: byte slices
// become strings and text[] columns become string slices.
func (r *ResourceRepo[T]) normalize(document map[string]any) {
	arrays := make(map[string]struct{}, len(r.spec.ArrayFields))
	for _, field := range r.spec.ArrayFields {
		arrays[field] = struct{}{}
	}
	for key, value := range document {
		if _, ok := arrays[key]; ok {
			var decoded pq.StringArray
			if err := decoded.Scan(value); err == nil {
				document[key] = []string(decoded)
			}
			continue
		}
		if raw, ok := value.([]byte); ok {
			document[key] = string(raw)
		}
	}
}

func (r *ResourceRepo[T]) Count(ctx context.Context, opts query.Options) (int, error) {
	sqlStr, args, err := query.BuildCount(r.spec, opts).ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.db.GetContext(ctx, &count, sqlStr, args...); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ResourceRepo[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	sqlStr := `SELECT ` + r.returning() + ` FROM ` + r.spec.Table + ` WHERE id = $1`
	var record T
	if err := r.db.GetContext(ctx, &record, sqlStr, id); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ResourceRepo[T]) Insert(ctx context.Context, fields map[string]any) (*T, error) {
	columns, values, err := r.writableColumns(fields)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, apperr.New(apperr.Validation, "empty request body")
	}
	sqlStr, args, err := statementBuilder.
		Insert(r.spec.Table).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING " + r.returning()).
		ToSql()
	if err != nil {
		return nil, err
	}
	var record T
	if err := r.db.QueryRowxContext(ctx, sqlStr, args...).StructScan(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ResourceRepo[T]) UpdateByID(ctx context.Context, id uuid.UUID, fields map[string]any) (*T, error) {
	columns, values, err := r.writableColumns(fields)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, apperr.New(apperr.Validation, "empty request body")
	}
	update := statementBuilder.Update(r.spec.Table)
	for i, column := range columns {
		update = update.Set(column, values[i])
	}
	sqlStr, args, err := update.
		Set("updated_at", sq.Expr("NOW()")).
		Where("id = ?", id).
		Suffix("RETURNING " + r.returning()).
		ToSql()
	if err != nil {
		return nil, err
	}
	var record T
	if err := r.db.QueryRowxContext(ctx, sqlStr, args...).StructScan(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ResourceRepo[T]) DeleteByID(ctx context.Context, id uuid.UUID) (*T, error) {
	sqlStr := `DELETE FROM ` + r.spec.Table + ` WHERE id = $1 RETURNING ` + r.returning()
	var record T
	if err := r.db.QueryRowxContext(ctx, sqlStr, id).StructScan(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// AddImages unions new object names into the images array, mirroring a
// document store's add-to-set update.
func (r *ResourceRepo[T]) AddImages(ctx context.Context, id uuid.UUID, images []string) (*T, error) {
	sqlStr := `
        UPDATE ` + r.spec.Table + `
        SET images = (
                SELECT COALESCE(array_agg(DISTINCT img), '{}')
                FROM unnest(images || $2::text[]) AS img
            ),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + r.returning()
	var record T
	if err := r.db.QueryRowxContext(ctx, sqlStr, id, pq.Array(images)).StructScan(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ResourceRepo[T]) RemoveImage(ctx context.Context, id uuid.UUID, image string) (*T, error) {
	sqlStr := `
        UPDATE ` + r.spec.Table + `
        SET images = array_remove(images, $2),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + r.returning()
	var record T
	if err := r.db.QueryRowxContext(ctx, sqlStr, id, image).StructScan(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ResourceRepo[T]) returning() string {
	return strings.Join(r.spec.AllColumns(), ", ")
}

func (r *ResourceRepo[T]) writableColumns(fields map[string]any) ([]string, []any, error) {
	names := make([]string, 0, len(fields))
	for field := range fields {
		if _, ok := r.writable[field]; !ok {
			return nil, nil, apperr.New(apperr.Validation, "field "+field+" is not allowed")
		}
		names = append(names, field)
	}
	// Stable order keeps generated SQL deterministic for tests.
	sort.Strings(names)

	columns := make([]string, 0, len(names))
	values := make([]any, 0, len(names))
	for _, field := range names {
		column, ok := r.spec.Columns[field]
		if !ok {
			return nil, nil, apperr.New(apperr.Validation, "field "+field+" is not allowed")
		}
		value := fields[field]
		switch list := value.(type) {
		case []string:
			value = pq.Array(list)
		case []any:
			// JSON bodies decode arrays as []any.
			items := make([]string, 0, len(list))
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, nil, apperr.New(apperr.Validation, "field "+field+" must be an array of strings")
				}
				items = append(items, s)
			}
			value = pq.Array(items)
		}
		columns = append(columns, column)
		values = append(values, value)
	}
	return columns, values, nil
}

var statementBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
