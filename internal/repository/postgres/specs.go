package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/query"
)

// UserSpec exposes the queryable surface of user accounts. Password and
// reset-code columns are deliberately absent: list responses can never leak
// them regardless of the requested projection.
var UserSpec = query.Spec{
	Table:    "user_account",
	IDColumn: "id",
	Columns: map[string]string{
		"id":         "id",
		"email":      "email",
		"name":       "name",
		"role":       "role",
		"active":     "active",
		"google_id":  "google_id",
		"image":      "image",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	Searchable: []string{"name", "email"},
}

var ExampleSpec = query.Spec{
	Table:    "example",
	IDColumn: "id",
	Columns: map[string]string{
		"id":         "id",
		"name":       "name",
		"cover":      "cover",
		"images":     "images",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	Searchable:  []string{"name"},
	ArrayFields: []string{"images"},
}

func NewUserResourceRepo(db *sqlx.DB) *ResourceRepo[domain.User] {
	return NewResourceRepo[domain.User](db, UserSpec, []string{"name", "image", "active"})
}

func NewExampleResourceRepo(db *sqlx.DB) *ResourceRepo[domain.Example] {
	return NewResourceRepo[domain.Example](db, ExampleSpec, []string{"name", "cover", "images"})
}
