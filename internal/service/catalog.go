package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/cache"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/shopify"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Revalidation windows per catalog projection. Search results and anything
// session-scoped are never cached.
const (
	productTTL    = 5 * time.Minute
	collectionTTL = 30 * time.Minute
	featuredTTL   = time.Hour

	featuredCount      = 8
	defaultSearchLimit = 10
)

// CommerceCatalog is the slice of the remote platform the catalog service needs.
type CommerceCatalog interface {
	GetProduct(ctx context.Context, handle string) (*domain.Product, error)
	GetProducts(ctx context.Context, q shopify.ProductQuery) ([]domain.Product, error)
	GetProductRecommendations(ctx context.Context, productID string) ([]domain.Product, error)
	GetCollections(ctx context.Context) ([]domain.Collection, error)
	GetCollection(ctx context.Context, handle string) (*domain.Collection, error)
	GetCollectionProducts(ctx context.Context, handle string, sortKey domain.ProductSortKey, reverse bool) ([]domain.Product, error)
}

// catalogCache is what CatalogService needs from the cache layer.
type catalogCache interface {
	Get(ctx context.Context, class, key string, out any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CatalogService serves read-only catalog projections, caching them in redis
// for bounded windows. Cache failures degrade to a direct remote fetch.
type CatalogService struct {
	remote CommerceCatalog
	cache  catalogCache
	logger *slog.Logger
}

// NewCatalogService creates a CatalogService. cache may be nil, which
// disables caching entirely.
func NewCatalogService(remote CommerceCatalog, cache catalogCache, logger *slog.Logger) *CatalogService {
	return &CatalogService{remote: remote, cache: cache, logger: logger}
}

// cached runs fetch through the cache: a hit fills out and skips the remote,
// anything else fetches and stores the result under key.
func cachedFetch[T any](ctx context.Context, s *CatalogService, class, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if s.cache != nil {
		var hit T
		err := s.cache.Get(ctx, class, key, &hit)
		if err == nil {
			return hit, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.WarnContext(ctx, "catalog cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, value, ttl); err != nil {
			s.logger.WarnContext(ctx, "catalog cache write failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
	return value, nil
}

// Product returns a single product by handle.
func (s *CatalogService) Product(ctx context.Context, handle string) (*domain.Product, error) {
	if handle == "" {
		return nil, apperrors.InvalidInput("product handle is required")
	}

	product, err := cachedFetch(ctx, s, "product", "product:"+handle, productTTL,
		func(ctx context.Context) (*domain.Product, error) {
			return s.remote.GetProduct(ctx, handle)
		})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("product", handle)
	}
	return product, nil
}

// Products lists products ordered by the given sort key.
func (s *CatalogService) Products(ctx context.Context, sortKey domain.ProductSortKey, reverse bool, first int) ([]domain.Product, error) {
	if first <= 0 {
		first = 24
	}
	key := fmt.Sprintf("products:%s:%t:%d", sortKey, reverse, first)
	return cachedFetch(ctx, s, "listing", key, collectionTTL,
		func(ctx context.Context) ([]domain.Product, error) {
			return s.remote.GetProducts(ctx, shopify.ProductQuery{SortKey: sortKey, Reverse: reverse, First: first})
		})
}

// Featured returns the homepage set: the best-selling products.
func (s *CatalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	return cachedFetch(ctx, s, "featured", "featured", featuredTTL,
		func(ctx context.Context) ([]domain.Product, error) {
			return s.remote.GetProducts(ctx, shopify.ProductQuery{
				SortKey: domain.SortBestSelling,
				First:   featuredCount,
			})
		})
}

// Recommendations returns the platform's related products for a product id.
// Always fetched fresh; the platform already computes these lazily.
func (s *CatalogService) Recommendations(ctx context.Context, productID string) ([]domain.Product, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	return s.remote.GetProductRecommendations(ctx, productID)
}

// Collections lists all collections.
func (s *CatalogService) Collections(ctx context.Context) ([]domain.Collection, error) {
	return cachedFetch(ctx, s, "collection", "collections", collectionTTL,
		func(ctx context.Context) ([]domain.Collection, error) {
			return s.remote.GetCollections(ctx)
		})
}

// Collection returns a collection and its products.
func (s *CatalogService) Collection(ctx context.Context, handle string, sortKey domain.ProductSortKey, reverse bool) (*domain.Collection, []domain.Product, error) {
	if handle == "" {
		return nil, nil, apperrors.InvalidInput("collection handle is required")
	}

	col, err := cachedFetch(ctx, s, "collection", "collection:"+handle, collectionTTL,
		func(ctx context.Context) (*domain.Collection, error) {
			return s.remote.GetCollection(ctx, handle)
		})
	if err != nil {
		return nil, nil, err
	}
	if col == nil {
		return nil, nil, apperrors.NotFound("collection", handle)
	}

	key := fmt.Sprintf("collection:%s:products:%s:%t", handle, sortKey, reverse)
	products, err := cachedFetch(ctx, s, "collection", key, collectionTTL,
		func(ctx context.Context) ([]domain.Product, error) {
			return s.remote.GetCollectionProducts(ctx, handle, sortKey, reverse)
		})
	if err != nil {
		return nil, nil, err
	}
	return col, products, nil
}

// Search queries the catalog by relevance. Results are never cached and an
// empty result set is not an error.
func (s *CatalogService) Search(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	if query == "" {
		return nil, apperrors.InvalidInput("search query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return s.remote.GetProducts(ctx, shopify.ProductQuery{
		Query:   query,
		SortKey: domain.SortRelevance,
		First:   limit,
	})
}
