package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Pescaderia-api/internal/application/inventory"
)

var (
	_ inventory.StockReader           = (*StockCache)(nil)
	_ inventory.StockCacheInvalidator = (*StockCache)(nil)
)

const keyPrefix = "stock:"

// StockCache caché read-through de snapshots de stock en Redis.
// Solo sirve lecturas de pantalla y disponibilidad; los pedidos leen siempre bajo bloqueo en Postgres.
// Los fallos de Redis degradan a lectura directa del origen.
//
// Cada producto lleva un contador de invalidaciones: una carga que empezó antes de un
// Invalidate no escribe su snapshot en Redis. El contador es local al proceso, así que una
// invalidación hecha por otra instancia no lo ve; en ese caso el snapshot viejo dura a lo
// sumo ttl.
type StockCache struct {
	rdb    *redis.Client
	source inventory.StockReader
	ttl    time.Duration
	group  singleflight.Group
	log    zerolog.Logger

	mu   sync.Mutex
	gens map[string]uint64
}

// NewStockCache construye la caché sobre el cliente Redis y el lector de origen.
func NewStockCache(rdb *redis.Client, source inventory.StockReader, ttl time.Duration, log zerolog.Logger) *StockCache {
	return &StockCache{rdb: rdb, source: source, ttl: ttl, log: log, gens: make(map[string]uint64)}
}

func stockKey(productID string) string { return keyPrefix + productID }

// GetSnapshot devuelve el snapshot cacheado o lo carga del origen.
// Misses concurrentes del mismo producto comparten una sola lectura.
func (c *StockCache) GetSnapshot(ctx context.Context, productID string) (*inventory.StockSnapshot, error) {
	if snap, ok := c.get(ctx, productID); ok {
		return snap, nil
	}

	v, err, _ := c.group.Do(productID, func() (interface{}, error) {
		gen := c.generation(productID)
		snap, err := c.source.GetSnapshot(ctx, productID)
		if err != nil {
			return nil, err
		}
		if c.generation(productID) == gen {
			c.set(ctx, snap)
		} else {
			c.log.Debug().Str("product_id", productID).Msg("snapshot invalidado durante la carga, no se guarda")
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*inventory.StockSnapshot), nil
}

// Invalidate borra los snapshots de los productos. Se llama después del Commit.
func (c *StockCache) Invalidate(ctx context.Context, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	c.mu.Lock()
	for _, id := range productIDs {
		c.gens[id]++
	}
	c.mu.Unlock()

	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, stockKey(id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate stock cache: %w", err)
	}
	return nil
}

func (c *StockCache) generation(productID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[productID]
}

func (c *StockCache) get(ctx context.Context, productID string) (*inventory.StockSnapshot, bool) {
	raw, err := c.rdb.Get(ctx, stockKey(productID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("product_id", productID).Msg("lectura de caché de stock fallida")
		}
		return nil, false
	}
	var snap inventory.StockSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.log.Warn().Err(err).Str("product_id", productID).Msg("snapshot de stock corrupto en caché")
		return nil, false
	}
	return &snap, true
}

func (c *StockCache) set(ctx context.Context, snap *inventory.StockSnapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, stockKey(snap.ProductID), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("product_id", snap.ProductID).Msg("escritura de caché de stock fallida")
	}
}
