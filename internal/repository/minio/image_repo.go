package minio

import (
	"bytes"
	"context"

	"github.com/find-this-fit/go-backend/internal/cfg"
	"github.com/find-this-fit/go-backend/internal/domain"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ImageRepo хранит фотографии объявлений в MinIO.
type ImageRepo struct {
	client *minio.Client
	cfg    *cfg.MinIOCfg
}

func NewImageRepo(client *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		client: client,
		cfg:    cfg,
	}
}

// Upload записывает фотографию и возвращает ключ объекта в бакете.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	info, err := i.client.PutObject(
		ctx,
		i.cfg.BucketName,
		image.ObjectKey,
		bytes.NewReader(image.Bytes),
		*image.Size,
		minio.PutObjectOptions{ContentType: *image.ContentType},
	)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет фотографию по ключу объекта.
func (i *ImageRepo) Delete(ctx context.Context, key string) error {
	if err := i.client.RemoveObject(ctx, i.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
