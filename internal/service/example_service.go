package service

import (
	"context"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/media"
)

// ExampleService layers the image pipeline on top of the generic CRUD
// operations. Uploaded files are normalized before they reach object
// storage, and only the resulting URL is persisted.
type ExampleService struct {
	crud     *CrudService[domain.Example]
	uploader *ImageUploader
}

func NewExampleService(crud *CrudService[domain.Example], uploader *ImageUploader) *ExampleService {
	return &ExampleService{crud: crud, uploader: uploader}
}

func (s *ExampleService) Crud() *CrudService[domain.Example] { return s.crud }

func (s *ExampleService) UploadImage(ctx context.Context, upload media.Upload) (string, error) {
	return s.uploader.Upload(ctx, upload)
}

func (s *ExampleService) UploadImages(ctx context.Context, uploads []media.Upload) ([]string, error) {
	return s.uploader.UploadAll(ctx, uploads)
}
