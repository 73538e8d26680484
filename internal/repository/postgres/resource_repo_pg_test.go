package postgres

import (
	"context"
	"database/sql/driver"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/query"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

func TestSelectProjectsRequestedFields(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExampleResourceRepo(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT id, name FROM example ORDER BY created_at ASC LIMIT 50 OFFSET 0`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(id.String(), []byte("alpha")))

	values := url.Values{}
	values.Set("fields", "name")
	opts, err := query.Parse(values, repo.Spec())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	documents, err := repo.Select(context.Background(), opts)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(documents) != 1 {
		t.Fatalf("documents = %d, want 1", len(documents))
	}
	document := documents[0]
	if len(document) != 2 {
		t.Errorf("document has %d keys, want id and name only: %v", len(document), document)
	}
	if document["name"] != "alpha" {
		t.Errorf("name = %v", document["name"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSelectDecodesArrayColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExampleResourceRepo(db)

	mock.ExpectQuery(`SELECT .+ FROM example`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "images"}).
			AddRow(uuid.New().String(), []byte(`{a.webp,b.webp}`)))

	opts, err := query.Parse(url.Values{}, repo.Spec())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	documents, err := repo.Select(context.Background(), opts)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	images, ok := documents[0]["images"].([]string)
	if !ok || len(images) != 2 || images[0] != "a.webp" {
		t.Errorf("images = %#v, want decoded string slice", documents[0]["images"])
	}
}

func TestInsertRejectsUnknownField(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewExampleResourceRepo(db)

	_, err := repo.Insert(context.Background(), map[string]any{"owner": "x"})
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestUpdateByIDGeneratesDeterministicSQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExampleResourceRepo(db)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE example SET cover = \$1, name = \$2, updated_at = NOW\(\) WHERE id = \$3 RETURNING`).
		WithArgs("c.webp", "beta", id).
		WillReturnRows(exampleRows(id, "beta"))

	record, err := repo.UpdateByID(context.Background(), id, map[string]any{
		"name":  "beta",
		"cover": "c.webp",
	})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if record.Name != "beta" {
		t.Errorf("name = %q", record.Name)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeleteByIDReturnsRecord(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExampleResourceRepo(db)
	id := uuid.New()

	mock.ExpectQuery(`DELETE FROM example WHERE id = \$1 RETURNING`).
		WithArgs(id).
		WillReturnRows(exampleRows(id, "gone"))

	record, err := repo.DeleteByID(context.Background(), id)
	if err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if record.ID != id {
		t.Errorf("id = %s, want %s", record.ID, id)
	}
}

func TestCountUsesPredicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExampleResourceRepo(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM example WHERE \(name = \$1\)`).
		WithArgs("alpha").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	values := url.Values{}
	values.Set("name", "alpha")
	opts, err := query.Parse(values, repo.Spec())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	count, err := repo.Count(context.Background(), opts)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
}

func exampleRows(id uuid.UUID, name string) *sqlmock.Rows {
	cols := ExampleSpec.AllColumns()
	values := make([]driver.Value, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			values[i] = id.String()
		case "name":
			values[i] = name
		case "images":
			values[i] = []byte(`{}`)
		case "created_at", "updated_at":
			values[i] = time.Now()
		default:
			values[i] = nil
		}
	}
	return sqlmock.NewRows(cols).AddRow(values...)
}
