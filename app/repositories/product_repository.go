package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hendryprasetyo/storefront/app/models"
	"github.com/hendryprasetyo/storefront/pkg/cache"
	"github.com/hendryprasetyo/storefront/pkg/metrics"
)

// MongoProductStore persists catalog entries in the "products" collection.
type MongoProductStore struct {
	col *mongo.Collection
}

func NewMongoProductStore(db *mongo.Database) *MongoProductStore {
	return &MongoProductStore{col: db.Collection("products")}
}

func (s *MongoProductStore) Create(ctx context.Context, product *models.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, product)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}
	return nil
}

func (s *MongoProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	return product, err
}

func (s *MongoProductStore) Search(ctx context.Context, keyword string, page, limit int) (models.ProductPage, error) {
	defer metrics.ObserveStoreOp("products", "find", time.Now())

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}

	filter := bson.M{}
	if keyword != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(keyword), "$options": "i"}
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return models.ProductPage{}, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return models.ProductPage{}, err
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return models.ProductPage{}, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return models.ProductPage{Products: products, Page: page, Pages: pages, Total: total}, nil
}

func (s *MongoProductStore) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()

	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Redis-backed caching decorator ──────────────────────────────────────────

const (
	productCacheTTL = 5 * time.Minute
	productVerKey   = "products:ver"
)

// Cache is the subset of cache operations the product decorator needs.
// Injectable so tests can run against an in-memory fake.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	GetInt(ctx context.Context, key string) int64
}

// redisCache adapts pkg/cache's package-level helpers to Cache.
type redisCache struct{}

func (redisCache) Get(ctx context.Context, key string, dest interface{}) bool {
	return cache.Get(ctx, key, dest)
}

func (redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return cache.Set(ctx, key, value, ttl)
}

func (redisCache) Del(ctx context.Context, keys ...string) error { return cache.Del(ctx, keys...) }

func (redisCache) Incr(ctx context.Context, key string) (int64, error) {
	return cache.Incr(ctx, key)
}

func (redisCache) GetInt(ctx context.Context, key string) int64 { return cache.GetInt(ctx, key) }

// CachedProductStore wraps a ProductStore with a read-through cache.
// Detail reads are cached by id; search pages are cached under a
// generation counter that admin writes bump, so stale pages simply stop
// being addressed rather than needing a key scan.
type CachedProductStore struct {
	inner ProductStore
	cache Cache
}

// NewCachedProductStore caches through Redis.
func NewCachedProductStore(inner ProductStore) *CachedProductStore {
	return NewCachedProductStoreWith(inner, redisCache{})
}

// NewCachedProductStoreWith caches through c.
func NewCachedProductStoreWith(inner ProductStore, c Cache) *CachedProductStore {
	return &CachedProductStore{inner: inner, cache: c}
}

func (s *CachedProductStore) Create(ctx context.Context, product *models.Product) error {
	if err := s.inner.Create(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx, product.ID)
	return nil
}

func (s *CachedProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	key := "products:id:" + id.Hex()

	var cached models.Product
	if s.cache.Get(ctx, key, &cached) {
		metrics.CacheHits.WithLabelValues("products").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("products").Inc()

	product, err := s.inner.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	_ = s.cache.Set(ctx, key, product, productCacheTTL)
	return product, nil
}

func (s *CachedProductStore) Search(ctx context.Context, keyword string, page, limit int) (models.ProductPage, error) {
	ver := s.cache.GetInt(ctx, productVerKey)
	key := fmt.Sprintf("products:list:%d:%s:%d:%d", ver, keyword, page, limit)

	var cached models.ProductPage
	if s.cache.Get(ctx, key, &cached) {
		metrics.CacheHits.WithLabelValues("products").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("products").Inc()

	result, err := s.inner.Search(ctx, keyword, page, limit)
	if err != nil {
		return models.ProductPage{}, err
	}
	_ = s.cache.Set(ctx, key, result, productCacheTTL)
	return result, nil
}

func (s *CachedProductStore) Update(ctx context.Context, product *models.Product) error {
	if err := s.inner.Update(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx, product.ID)
	return nil
}

func (s *CachedProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CachedProductStore) invalidate(ctx context.Context, id primitive.ObjectID) {
	_ = s.cache.Del(ctx, "products:id:"+id.Hex())
	_, _ = s.cache.Incr(ctx, productVerKey)
}
