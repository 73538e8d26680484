package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/query"
)

// ResourceRepository is the storage contract behind the generic CRUD
// service. List results are raw documents so a field projection shapes the
// response exactly; single-record operations return the typed model.
type ResourceRepository[T any] interface {
	Select(ctx context.Context, opts query.Options) ([]map[string]any, error)
	SelectAll(ctx context.Context, opts query.Options) ([]map[string]any, error)
	Count(ctx context.Context, opts query.Options) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	Insert(ctx context.Context, fields map[string]any) (*T, error)
	UpdateByID(ctx context.Context, id uuid.UUID, fields map[string]any) (*T, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (*T, error)
	AddImages(ctx context.Context, id uuid.UUID, images []string) (*T, error)
	RemoveImage(ctx context.Context, id uuid.UUID, image string) (*T, error)
}
