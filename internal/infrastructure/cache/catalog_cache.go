package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/indrhi/suministros-api/internal/application/ports"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/infrastructure/metrics"
	"github.com/indrhi/suministros-api/pkg/logger"
)

const (
	catalogKey = "suministros:articulos:activos"
	versionKey = "suministros:articulos:version"
)

var errStaleCatalog = errors.New("catálogo desactualizado")

var _ ports.CatalogCache = (*CatalogCache)(nil)

// CatalogCache guarda el listado completo en una sola clave con TTL.
// Cualquier error de Redis se registra y se trata como miss.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewCatalogCache construye la caché. ttl <= 0 usa 5 minutos.
func NewCatalogCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogCache{client: client, ttl: ttl, log: log.Component("cache")}
}

func (c *CatalogCache) Articles(ctx context.Context) ([]*entity.Article, bool) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		} else {
			metrics.CacheLookups.WithLabelValues("error").Inc()
			c.log.Warn().Err(err).Msg("lectura de caché fallida")
		}
		return nil, false
	}
	var list []*entity.Article
	if err := json.Unmarshal(data, &list); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Msg("entrada de caché corrupta")
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return list, true
}

// Version lee la generación actual del catálogo. Sin clave todavía, la versión es 0.
func (c *CatalogCache) Version(ctx context.Context) (int64, bool) {
	v, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Msg("lectura de versión de caché fallida")
		return 0, false
	}
	return v, true
}

// StoreArticles escribe el listado con WATCH sobre la versión: si hubo una
// invalidación desde que se leyó, el listado se descarta.
func (c *CatalogCache) StoreArticles(ctx context.Context, version int64, list []*entity.Article) {
	data, err := json.Marshal(list)
	if err != nil {
		c.log.Warn().Err(err).Msg("serializar catálogo")
		return
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleCatalog
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, catalogKey, data, c.ttl)
			return nil
		})
		return err
	}, versionKey)
	switch {
	case err == nil:
	case errors.Is(err, errStaleCatalog), errors.Is(err, redis.TxFailedErr):
		c.log.Debug().Int64("version", version).Msg("catálogo descartado por invalidación concurrente")
	default:
		c.log.Warn().Err(err).Msg("escritura de caché fallida")
	}
}

func (c *CatalogCache) Invalidate(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, versionKey)
		p.Del(ctx, catalogKey)
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("invalidar caché fallida")
	}
}
