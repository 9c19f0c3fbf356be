package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/find-this-fit/go-backend/internal/cfg"
	"github.com/find-this-fit/go-backend/internal/deeplink"
	v1Http "github.com/find-this-fit/go-backend/internal/delivery/v1/http"
	"github.com/find-this-fit/go-backend/internal/infrastructure/embedding"
	"github.com/find-this-fit/go-backend/internal/infrastructure/kafka"
	minioInfra "github.com/find-this-fit/go-backend/internal/infrastructure/minio"
	s3Repo "github.com/find-this-fit/go-backend/internal/repository/minio"
	"github.com/find-this-fit/go-backend/internal/repository/pgdb"
	pgdbConv "github.com/find-this-fit/go-backend/internal/repository/pgdb/converter/generated"
	qdrantRepo "github.com/find-this-fit/go-backend/internal/repository/qdrant"
	"github.com/find-this-fit/go-backend/internal/repository/redis"
	redisConv "github.com/find-this-fit/go-backend/internal/repository/redis/converter/generated"
	"github.com/find-this-fit/go-backend/internal/usecase"
	"github.com/find-this-fit/go-backend/pkg/clients"
	"github.com/find-this-fit/go-backend/pkg/closer"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/logger"
	"github.com/find-this-fit/go-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

// App собирает все зависимости сервиса и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	db           *postgres.PgDatabase
	qdrantClient *clients.QdrantClient
	redisClient  *clients.RedisClient
	imagesInfra  *minioInfra.MinioInfrastructure
	producer     *kafka.Producer
	outboxWorker *kafka.OutboxWorker
	httpSrv      *v1Http.Server
	closer       *closer.Closer

	appCtx    context.Context
	appCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(2 * time.Second),
	}
	a.appCtx, a.appCancel = context.WithCancel(context.Background())

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.db = db
	a.closer.Add(func(context.Context) error {
		db.Close()
		return nil
	})

	itemConv := &pgdbConv.ItemConverterImpl{}
	outboxConv := &pgdbConv.OutboxEventConverterImpl{}
	infoConv := &redisConv.ItemInfoConverterImpl{}

	itemRepo := pgdb.NewItemRepo(db.Pool, itemConv)
	versionRepo := pgdb.NewItemEmbeddingVersionRepo(db.Pool)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	a.imagesInfra = minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, a.appCtx)

	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	qdrantCtx, qdrantCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureCollection(qdrantCtx, qdrantClient); err != nil {
		qdrantCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	qdrantCancel()
	a.qdrantClient = qdrantClient
	a.closer.Add(func(context.Context) error {
		return qdrantClient.Client.Close()
	})

	embRepo := qdrantRepo.NewEmbeddingRepo(qdrantClient.Client, cfg.Qdrant)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.redisClient = redisClient
	a.closer.Add(func(context.Context) error {
		return redisClient.Client.Close()
	})
	cacheRepo := redis.NewCacheRepo(redisClient, infoConv, cfg.Redis, log)

	provider, err := embedding.NewProvider(cfg.Embedding, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// Прогрев провайдера до первого запроса: загрузка модели не должна
	// превращаться в таймаут первого пользователя.
	warmupCtx, warmupCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer warmupCancel()
	if err := provider.Warmup(warmupCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	log.Infof("embedding provider ready: %s", provider.ModelVersion())

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(15 * time.Second); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.producer = producer
	a.closer.Add(func(context.Context) error {
		return producer.Close()
	})

	a.outboxWorker = kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)

	searchUC := usecase.NewSearchUC(
		provider,
		embRepo,
		itemRepo,
		cacheRepo,
		deeplink.NewResolver(cfg.Deeplink.Overrides),
		int(cfg.Qdrant.VectorSize),
		cfg.Search.DefaultLimit,
		cfg.Search.MaxLimit,
		log,
	)

	ingestUC := usecase.NewIngestUC(
		itemRepo,
		versionRepo,
		outboxRepo,
		db.Pool,
		provider,
		a.imagesInfra,
		embRepo,
		cacheRepo,
		int(cfg.Qdrant.VectorSize),
		log,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(searchUC, ingestUC)

	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	return a, nil
}

// Run запускает HTTP-сервер и outbox-worker и блокируется до сигнала
// завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	a.outboxWorker.Start(a.appCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed: %v", err)
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	a.stop()

	return appErr
}

// stop останавливает приём запросов, дожидается фоновых задач и закрывает
// ресурсы в порядке, обратном инициализации.
func (a *App) stop() {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	a.appCancel()
	a.outboxWorker.Stop()

	done := make(chan error, 1)
	go func() {
		done <- a.imagesInfra.WaitForCleanup(shutdownCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			a.logger.Warnf("MinIO cleanup error: %v", err)
		} else {
			a.logger.Infof("MinIO cleanup completed")
		}
	case <-time.After(5 * time.Second): // локальный таймаут ожидания cleanup
		a.logger.Warnf("MinIO cleanup did not finish before shutdown, some temporary objects may remain")
	}

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("resource shutdown: %v", err)
	}

	a.logger.Infof("Application shutdown complete")
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
