package service

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/query"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/repository/ports"
)

// ListResult is the payload of a paginated list: the page of documents, its
// length, and the metadata computed from a predicate-matched count query.
type ListResult struct {
	Data       []map[string]any
	Length     int
	Pagination query.Pagination
}

// CrudService implements the resource-agnostic operations shared by every
// content resource: query-driven lists, single-record CRUD, and gallery
// mutations. Storage cleanup on delete is best effort; a missing object
// never blocks removal of the record.
type CrudService[T any] struct {
	repo    ports.ResourceRepository[T]
	spec    query.Spec
	storage ports.ObjectStorage
	bucket  string
	// imagesOf lists the storage objects attached to a record, used for
	// cleanup when the record is deleted. Nil when the resource has none.
	imagesOf func(*T) []string
	log      zerolog.Logger
}

func NewCrudService[T any](repo ports.ResourceRepository[T], spec query.Spec, storage ports.ObjectStorage, bucket string, imagesOf func(*T) []string, log zerolog.Logger) *CrudService[T] {
	return &CrudService[T]{
		repo:     repo,
		spec:     spec,
		storage:  storage,
		bucket:   bucket,
		imagesOf: imagesOf,
		log:      log,
	}
}

func (s *CrudService[T]) List(ctx context.Context, params url.Values) (*ListResult, error) {
	opts, err := query.Parse(params, s.spec)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.Count(ctx, opts)
	if err != nil {
		return nil, err
	}
	documents, err := s.repo.Select(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Data:       documents,
		Length:     len(documents),
		Pagination: query.Paginate(count, opts.Page, opts.Limit),
	}, nil
}

// ListAll applies filtering, sorting and projection without pagination, for
// dropdown-style consumption.
func (s *CrudService[T]) ListAll(ctx context.Context, params url.Values) ([]map[string]any, error) {
	opts, err := query.Parse(params, s.spec)
	if err != nil {
		return nil, err
	}
	return s.repo.SelectAll(ctx, opts)
}

func (s *CrudService[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	record, err := s.repo.FindByID(ctx, id)
	return record, s.notFound(err)
}

func (s *CrudService[T]) Create(ctx context.Context, fields map[string]any) (*T, error) {
	return s.repo.Insert(ctx, fields)
}

func (s *CrudService[T]) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*T, error) {
	record, err := s.repo.UpdateByID(ctx, id, fields)
	return record, s.notFound(err)
}

// Delete removes the record and then its storage objects. Cleanup failures
// are logged and swallowed: the record is already gone and the client must
// see the deletion succeed.
func (s *CrudService[T]) Delete(ctx context.Context, id uuid.UUID) (*T, error) {
	record, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, s.notFound(err)
	}
	if s.imagesOf != nil {
		s.removeObjects(ctx, s.imagesOf(record))
	}
	return record, nil
}

func (s *CrudService[T]) AddImages(ctx context.Context, id uuid.UUID, images []string) (*T, error) {
	if len(images) == 0 {
		return nil, apperr.New(apperr.Validation, "images must not be empty")
	}
	record, err := s.repo.AddImages(ctx, id, images)
	return record, s.notFound(err)
}

func (s *CrudService[T]) RemoveImage(ctx context.Context, id uuid.UUID, image string) (*T, error) {
	record, err := s.repo.RemoveImage(ctx, id, image)
	if err != nil {
		return nil, s.notFound(err)
	}
	s.removeObjects(ctx, []string{image})
	return record, nil
}

func (s *CrudService[T]) removeObjects(ctx context.Context, objects []string) {
	if s.storage == nil {
		return
	}
	for _, object := range objects {
		if object == "" {
			continue
		}
		// Stored values are full URLs; object names are flat.
		name := path.Base(object)
		if err := s.storage.Remove(ctx, s.bucket, name); err != nil {
			s.log.Warn().Err(err).Str("object", name).Msg("remove storage object")
		}
	}
}

func (s *CrudService[T]) notFound(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.NotFound, "document not found")
	}
	return err
}
