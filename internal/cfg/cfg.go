package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

type Config struct {
	Minio     *MinIOCfg
	Http      *HTTPConfig
	Db        *PGDBCfg
	Qdrant    *QdrantCfg
	Redis     *RedisCfg
	Kafka     *KafkaCfg
	Embedding *EmbeddingCfg
	Search    *SearchCfg
	Deeplink  *DeeplinkCfg
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Название конкретного бакета в Minio
	MinioRootUser     string // Имя пользователя для доступа к Minio
	MinioRootPassword string // Пароль для доступа к Minio
	MinioUseSSL       bool
	UploadImagesLimit int // Лимит на макс кол-во загружаемых в S3 фото
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type QdrantCfg struct {
	Port                 int
	Host                 string
	ApiKey               string
	QdrantCollectionName string // имя коллекции в Qdrant
	UseTLS               bool
	VectorSize           uint64 // целевая размерность D всех векторов в коллекции
}

type RedisCfg struct {
	Addr         string
	Password     string
	User         string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	Timeout      time.Duration
	ItemTTL       time.Duration // TTL кэша метаданных товаров
	EmbeddingTTL  time.Duration // TTL кэша эмбеддингов текстовых запросов
	FilterOptsTTL time.Duration // TTL кэша справочника значений фильтров
}

// EmbeddingCfg описывает выбор и параметры провайдера эмбеддингов.
// Провайдер выбирается один раз на старте процесса.
type EmbeddingCfg struct {
	Provider       string // "clip" или "openai"
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	ClipAddr       string // адрес inference-сервиса с резидентной CLIP-моделью
	RequestTimeout time.Duration
	MaxConcurrent  int
	MaxRetries     int
}

type SearchCfg struct {
	DefaultLimit uint64
	MaxLimit     uint64
}

// DeeplinkCfg содержит переопределения шаблонов deep-link ссылок,
// поверх встроенной таблицы маркетплейсов.
type DeeplinkCfg struct {
	Overrides map[string]string
}

const (
	ProviderClip   = "clip"
	ProviderOpenAI = "openai"
)

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	qdrant, err := loadQdrantCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	embedding, err := loadEmbeddingCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	search, err := loadSearchCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Minio:     minio,
		Http:      http,
		Db:        db,
		Qdrant:    qdrant,
		Redis:     redis,
		Kafka:     kafka,
		Embedding: embedding,
		Search:    search,
		Deeplink:  loadDeeplinkCfg(),
	}, nil
}

// loadEmbeddingCfg читает настройки провайдера эмбеддингов.
// Неизвестное значение EMBEDDING_PROVIDER — ошибка конфигурации: провайдер
// не должен молча деградировать до другой стратегии.
func loadEmbeddingCfg(log logger.Logger) (*EmbeddingCfg, error) {
	const (
		defaultProvider      = ProviderClip
		defaultOpenAIModel   = "image-embedding-3-large"
		defaultOpenAIBaseURL = "https://api.openai.com/v1"
		defaultClipAddr      = "http://clip-service:8000"
		defaultTimeout       = 20 * time.Second
		defaultMaxConcurrent = 8
		defaultMaxRetries    = 3
	)

	provider := strings.ToLower(getEnvOrDefault("EMBEDDING_PROVIDER", defaultProvider))
	if provider != ProviderClip && provider != ProviderOpenAI {
		err := fmt.Errorf("unknown EMBEDDING_PROVIDER %q: %w", provider, e.ErrConfiguration)
		log.Errorf(err, "invalid EMBEDDING_PROVIDER")
		return nil, err
	}

	timeout, err := parseDurationEnv("EMBEDDING_REQUEST_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid EMBEDDING_REQUEST_TIMEOUT")
		return nil, err
	}

	maxConcurrent, err := parseIntEnv("EMBEDDING_MAX_CONCURRENT", defaultMaxConcurrent)
	if err != nil {
		return nil, e.Wrap("EMBEDDING_MAX_CONCURRENT", err)
	}

	maxRetries, err := parseIntEnv("EMBEDDING_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, e.Wrap("EMBEDDING_MAX_RETRIES", err)
	}

	return &EmbeddingCfg{
		Provider:       provider,
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY"),
		OpenAIModel:    getEnvOrDefault("OPENAI_EMBEDDING_MODEL", defaultOpenAIModel),
		OpenAIBaseURL:  getEnvOrDefault("OPENAI_BASE_URL", defaultOpenAIBaseURL),
		ClipAddr:       getEnvOrDefault("CLIP_SERVICE_ADDR", defaultClipAddr),
		RequestTimeout: timeout,
		MaxConcurrent:  maxConcurrent,
		MaxRetries:     maxRetries,
	}, nil
}

func loadSearchCfg() (*SearchCfg, error) {
	const (
		defaultLimit = 20
		maxLimit     = 100
	)

	limit, err := parseIntEnv("SEARCH_DEFAULT_LIMIT", defaultLimit)
	if err != nil {
		return nil, e.Wrap("SEARCH_DEFAULT_LIMIT", err)
	}
	if limit < 1 || limit > maxLimit {
		return nil, e.Wrap("SEARCH_DEFAULT_LIMIT", e.ErrIncorrectEnvVariable)
	}

	return &SearchCfg{
		DefaultLimit: uint64(limit),
		MaxLimit:     maxLimit,
	}, nil
}

// loadDeeplinkCfg читает переопределения deep-link шаблонов в формате
// "source=template,source2=template2". Плейсхолдер {id} заменяется на external_id.
func loadDeeplinkCfg() *DeeplinkCfg {
	overrides := make(map[string]string)
	raw := getEnv("DEEPLINK_OVERRIDES")
	for _, pair := range strings.Split(raw, ",") {
		source, template, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		overrides[strings.ToLower(strings.TrimSpace(source))] = strings.TrimSpace(template)
	}

	return &DeeplinkCfg{Overrides: overrides}
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	brokers := strings.Split(brokerStr, ",")

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		return nil, fmt.Errorf("KAFKA_TOPIC environment variable is required")
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             topic,
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnv("BUCKET_NAME"),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		UploadImagesLimit: 10,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

func loadQdrantCfg(logger logger.Logger) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort = "6334"
		defaultUseTLS         = false
		defaultVectorSize     = "768"
	)

	strPort := getEnvOrDefault("QDRANT_GRPC_PORT", defaultQdrantGRPCPort)
	port, err := strconv.Atoi(strPort)
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_GRPC_PORT")
		return nil, err
	}

	useTLS, err := strconv.ParseBool(getEnvOrDefault("QDRANT_USE_TLS", strconv.FormatBool(defaultUseTLS)))
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, err
	}

	strVectorSize := getEnvOrDefault("VECTOR_SIZE", defaultVectorSize)
	vectorSize, err := strconv.ParseUint(strVectorSize, 10, 64)
	if err != nil {
		logger.Errorf(err, "invalid VECTOR_SIZE")
		return nil, err
	}

	return &QdrantCfg{
		Host:                 getEnv("QDRANT_HOST"),
		Port:                 port,
		ApiKey:               getEnv("QDRANT__SERVICE__API_KEY"),
		QdrantCollectionName: getEnv("COLLECTION_NAME"),
		UseTLS:               useTLS,
		VectorSize:           vectorSize,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultItemTTL       = 3 * time.Minute
		defaultEmbeddingTTL  = 30 * time.Minute
		defaultFilterOptsTTL = 5 * time.Minute
	)

	addr := getEnvOrDefault("REDIS_ADDR", defaultAddr)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	itemTTL, err := parseDurationEnv("ITEM_TTL", defaultItemTTL)
	if err != nil {
		log.Errorf(err, "invalid ITEM_TTL")
		return nil, err
	}

	embeddingTTL, err := parseDurationEnv("EMBEDDING_TTL", defaultEmbeddingTTL)
	if err != nil {
		log.Errorf(err, "invalid EMBEDDING_TTL")
		return nil, err
	}

	filterOptsTTL, err := parseDurationEnv("FILTER_OPTIONS_TTL", defaultFilterOptsTTL)
	if err != nil {
		log.Errorf(err, "invalid FILTER_OPTIONS_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:         addr,
		Password:     getEnv("REDIS_PASSWORD"),
		User:         getEnv("REDIS_USER"),
		DB:           db,
		MaxRetries:   maxRetries,
		DialTimeout:  dialTimeout,
		Timeout:      timeout,
		ItemTTL:       itemTTL,
		EmbeddingTTL:  embeddingTTL,
		FilterOptsTTL: filterOptsTTL,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
