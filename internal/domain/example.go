package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Example is a portfolio item: a named piece of work with a cover image and
// an optional gallery.
type Example struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Cover     *string        `db:"cover" json:"cover,omitempty"`
	Images    pq.StringArray `db:"images" json:"images"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// ImageObjects lists every storage object attached to the example, cover
// included. Used for best-effort cleanup when the record is deleted.
func (e *Example) ImageObjects() []string {
	objects := make([]string, 0, len(e.Images)+1)
	if e.Cover != nil && *e.Cover != "" {
		objects = append(objects, *e.Cover)
	}
	objects = append(objects, e.Images...)
	return objects
}
