package redis

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/find-this-fit/go-backend/internal/cfg"
	"github.com/find-this-fit/go-backend/internal/repository/redis/converter"
	"github.com/find-this-fit/go-backend/internal/usecase"
	"github.com/find-this-fit/go-backend/pkg/clients"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const filterOptionsKey = "filter_options"

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ItemInfoConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ItemInfoConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetItems возвращает закэшированные объявления по ID, игнорируя промахи и логируя их
func (c *CacheRepo) GetItems(ctx context.Context, ids []int64) (map[int64]usecase.ItemInfo, error) {
	keys := c.buildItemCacheKeys(ids)

	values, err := c.client.Client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warnf("Redis MGET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make(map[int64]usecase.ItemInfo, len(values))
	for i, val := range values {
		data, err := redisValueToBytes(val, keys[i])
		if err != nil {
			c.logger.Warnf("%v", e.Wrap(whereami.WhereAmI(), err))
		}

		if data == nil {
			continue // cache miss
		}

		model, err := c.unmarshalItemFromCache(data)
		if err != nil {
			c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		if model.ID != ids[i] {
			c.logger.Warnf("Cache ID mismatch: key_id: %d, model_id: %d", ids[i], model.ID)
			if err := c.client.Client.Del(context.Background(), keys[i]).Err(); err != nil {
				c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
			}
			continue // cache miss
		}
		result[ids[i]] = *c.conv.ToUseCase(model)
	}

	return result, nil
}

// SetItems атомарно кэширует несколько объявлений с заданным TTL.
// Игнорирует ошибки сериализации/записи, логируя их.
func (c *CacheRepo) SetItems(ctx context.Context, items []usecase.ItemInfo) error {
	models := c.conv.ToArrRedisModel(items)

	pipeline := c.client.Client.Pipeline()
	for _, model := range models {
		data, err := json.Marshal(model)
		if err != nil {
			c.logger.Warnf("Failed to marshal item for caching (Item ID: %d): %v", model.ID, e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		key := c.itemKey(model.ID)
		pipeline.Set(ctx, key, data, c.cfg.ItemTTL)
	}

	if _, err := pipeline.Exec(ctx); err != nil {
		c.logger.Warnf("Cache pipeline failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// DeleteItems удаляет объявления из кэша по ID
func (c *CacheRepo) DeleteItems(ctx context.Context, ids []int64) error {
	keys := c.buildItemCacheKeys(ids)

	if err := c.client.Client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// GetQueryEmbedding читает вектор текстового запроса из кэша.
// Промах — (nil, nil): текст детерминированно векторизуется заново.
func (c *CacheRepo) GetQueryEmbedding(ctx context.Context, text string) ([]float32, error) {
	data, err := c.client.Client.Get(ctx, c.queryEmbeddingKey(text)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil // cache miss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, nil
	}

	return vector, nil
}

// SetQueryEmbedding кэширует вектор текстового запроса с заданным TTL.
func (c *CacheRepo) SetQueryEmbedding(ctx context.Context, text string, vector []float32) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, c.queryEmbeddingKey(text), data, c.cfg.EmbeddingTTL).Err(); err != nil {
		c.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// GetFilterOptions читает справочник значений фильтров из кэша.
// Промах — (nil, nil): справочник пересчитывается из каталога.
func (c *CacheRepo) GetFilterOptions(ctx context.Context) (*usecase.FilterOptions, error) {
	data, err := c.client.Client.Get(ctx, filterOptionsKey).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil // cache miss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var options usecase.FilterOptions
	if err := json.Unmarshal(data, &options); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, nil
	}

	return &options, nil
}

// SetFilterOptions кэширует справочник значений фильтров с заданным TTL.
func (c *CacheRepo) SetFilterOptions(ctx context.Context, options *usecase.FilterOptions) error {
	data, err := json.Marshal(options)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, filterOptionsKey, data, c.cfg.FilterOptsTTL).Err(); err != nil {
		c.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// unmarshalItemFromCache десериализует JSON из кэша в модель объявления
func (c *CacheRepo) unmarshalItemFromCache(data []byte) (*converter.ItemInfoRedisModel, error) {
	var model converter.ItemInfoRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}

	return &model, nil
}

// buildItemCacheKeys формирует Redis-ключи из ID объявлений
func (c *CacheRepo) buildItemCacheKeys(ids []int64) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.itemKey(id)
	}

	return keys
}

// itemKey возвращает Redis-ключ для одного объявления
func (c *CacheRepo) itemKey(id int64) string {
	return fmt.Sprintf("item:%d", id)
}

// queryEmbeddingKey хэширует текст запроса: произвольные пользовательские
// строки не годятся в Redis-ключи как есть.
func (c *CacheRepo) queryEmbeddingKey(text string) string {
	return fmt.Sprintf("query_embedding:%x", sha256.Sum256([]byte(text)))
}

// redisValueToBytes конвертирует значение из Redis в []byte.
// Поддерживает string и []byte, возвращает ошибку для неизвестных типов.
func redisValueToBytes(val interface{}, key string) ([]byte, error) {
	switch v := val.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case nil:
		return nil, nil // cache miss
	default:
		return nil, fmt.Errorf("unexpected Redis value type for key %s: %T", key, val)
	}
}
