package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/media"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/repository/ports"
)

// ImageUploader runs an upload through the media processor and stores the
// normalized bytes, returning the object URL to persist. Object names are
// flat, prefixed per resource so buckets stay browsable.
type ImageUploader struct {
	processor media.Processor
	storage   ports.ObjectStorage
	bucket    string
	prefix    string
	now       func() time.Time
}

func NewImageUploader(processor media.Processor, storage ports.ObjectStorage, bucket, prefix string) *ImageUploader {
	return &ImageUploader{
		processor: processor,
		storage:   storage,
		bucket:    bucket,
		prefix:    prefix,
		now:       time.Now,
	}
}

func (u *ImageUploader) Upload(ctx context.Context, upload media.Upload) (string, error) {
	result, err := u.processor.Process(ctx, upload)
	if err != nil {
		return "", apperr.Wrap(apperr.Validation, "unsupported or corrupt image", err)
	}
	name := fmt.Sprintf("%s-%d.webp", u.prefix, u.now().UnixNano())
	return u.storage.Upload(ctx, u.bucket, name, result.ContentType, bytes.NewReader(result.Bytes), int64(len(result.Bytes)))
}

// UploadAll stores a batch, failing on the first bad file so the client gets
// a single clear validation error.
func (u *ImageUploader) UploadAll(ctx context.Context, uploads []media.Upload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		url, err := u.Upload(ctx, upload)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
