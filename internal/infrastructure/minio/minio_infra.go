package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/find-this-fit/go-backend/internal/cfg"
	"github.com/find-this-fit/go-backend/internal/domain"
	"github.com/find-this-fit/go-backend/internal/infrastructure"
	"github.com/find-this-fit/go-backend/internal/usecase"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/logger"

	"github.com/google/uuid"
)

const (
	cleanupTimeout  = 30 * time.Second
	cleanupAttempts = 3
)

// MinioInfrastructure загружает фотографии объявлений в MinIO и компенсирует
// неудачные загрузки фоновым удалением уже записанных объектов.
type MinioInfrastructure struct {
	images      usecase.ImageRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	cleanupWg   sync.WaitGroup
	parallelism int
}

func NewMinioInfrastructure(images usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		images:      images,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		parallelism: cfg.UploadImagesLimit,
	}
}

// UploadImages пишет все фотографии объявления параллельно, не более
// parallelism одновременных операций. Первая же ошибка отменяет остальные
// загрузки, а уже записанные объекты удаляются в фоне.
func (m *MinioInfrastructure) UploadImages(ctx context.Context, req *usecase.UploadImagesReq) (*usecase.UploadImagesRes, error) {
	const op = "MinioInfrastructure.UploadImages"

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keyCh := make(chan string, len(req.Images))
	errCh := make(chan error, len(req.Images))
	sem := make(chan struct{}, m.parallelism)

	var inflight sync.WaitGroup
	for _, img := range req.Images {
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			objectID := uuid.NewString()
			ext, err := infrastructure.ImageExtension(img.MimeType)
			if err != nil {
				errCh <- fmt.Errorf("photo %s has unsupported mime type %s: %w", img.Name, img.MimeType, err)
				return
			}

			objectKey := fmt.Sprintf("%s/%s-%s.%s", req.Name, img.Name, objectID, ext)
			stored := domain.NewImage(objectID, m.cfg.BucketName, objectKey, img.Data, &img.Size, &img.MimeType)

			key, err := m.images.Upload(ctx, stored)
			if err != nil {
				errCh <- fmt.Errorf("upload of %s failed: %w", img.Name, err)
				return
			}

			keyCh <- key
		}()
	}

	go func() {
		inflight.Wait()
		close(errCh)
		close(keyCh)
	}()

	uploaded := make([]string, 0, len(req.Images))
	completed := false
	defer func() {
		if !completed && len(uploaded) > 0 {
			m.cleanupWg.Add(1)
			go m.removeObjects(uploaded)
		}
	}()

	for done := 0; done < len(req.Images); {
		select {
		case key, open := <-keyCh:
			if open {
				uploaded = append(uploaded, key)
				done++
			}
		case err, open := <-errCh:
			if open {
				cancel()
				return nil, e.Wrap(op, err)
			}
		case <-ctx.Done():
			cancel()
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	completed = true
	return usecase.NewUploadImagesRes(uploaded), nil
}

// CleanupImages удаляет перечисленные объекты в фоне. Используется при
// откате транзакции объявления после успешной загрузки фотографий.
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.cleanupWg.Add(1)
	go m.removeObjects(keys)
}

// removeObjects удаляет объекты по ключам, повторяя каждую попытку
// с удвоением паузы и случайным jitter.
func (m *MinioInfrastructure) removeObjects(keys []string) {
	defer m.cleanupWg.Done()
	const op = "MinioInfrastructure.removeObjects"
	m.logger.Infof("%s: removing %d stale objects", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		pause := time.Second
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			if err := m.images.Delete(ctx, key); err == nil {
				break
			}

			select {
			case <-ctx.Done():
				m.logger.Warnf("object cleanup interrupted by shutdown, key=%v", key)
				return
			default:
			}

			if attempt < cleanupAttempts-1 {
				jitter := time.Duration(time.Now().UnixNano() % int64(time.Second))
				select {
				case <-time.After(pause + jitter):
				case <-ctx.Done():
					m.logger.Warnf("object cleanup interrupted during backoff, key=%v", key)
					return
				}
				pause *= 2
			}
		}
	}
}

// WaitForCleanup блокируется, пока не закончатся все фоновые удаления
// или не истечёт таймаут остановки приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.cleanupWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
