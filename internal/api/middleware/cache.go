package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/medatlas/directory-api/internal/domain/providers"
	"github.com/medatlas/directory-api/internal/infrastructure/observability"
)

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// CacheMiddleware provides HTTP response caching
type CacheMiddleware struct {
	cache        providers.CacheProvider
	metrics      *observability.Metrics
	routeConfigs map[string]CacheConfig
}

// NewCacheMiddleware creates a cache middleware with the default route
// table. metrics may be nil, in which case hits and misses go uncounted.
func NewCacheMiddleware(cache providers.CacheProvider, metrics *observability.Metrics) *CacheMiddleware {
	return &CacheMiddleware{
		cache:   cache,
		metrics: metrics,
		routeConfigs: map[string]CacheConfig{
			"/api/search":      {TTLSeconds: 120, Enabled: true},  // 2 minutes
			"/api/hospitals":   {TTLSeconds: 300, Enabled: true},  // 5 minutes (prefix match)
			"/api/doctors":     {TTLSeconds: 300, Enabled: true},  // 5 minutes (prefix match)
			"/api/treatments":  {TTLSeconds: 600, Enabled: true},  // 10 minutes (prefix match)
			"/api/cities":      {TTLSeconds: 1800, Enabled: true}, // 30 minutes
			"/api/departments": {TTLSeconds: 1800, Enabled: true}, // 30 minutes
		},
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only cache GET requests
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		if m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		config := m.getRouteConfig(r.URL.Path)
		if !config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		cacheKey := m.generateCacheKey(r)
		logger := observability.LoggerFromContext(r.Context())

		if cached, err := m.cache.Get(r.Context(), cacheKey); err == nil {
			logger.Debug().Str("key", cacheKey).Msg("cache hit")
			if m.metrics != nil {
				observability.RecordCacheHit(r.Context(), m.metrics, r.URL.Path)
			}
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		logger.Debug().Str("key", cacheKey).Msg("cache miss")
		if m.metrics != nil {
			observability.RecordCacheMiss(r.Context(), m.metrics, r.URL.Path)
		}
		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}

		next.ServeHTTP(recorder, r)

		// Only cache successful responses
		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
				logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache response")
			}
		}
	})
}

// getRouteConfig gets the cache configuration for a route
func (m *CacheMiddleware) getRouteConfig(path string) CacheConfig {
	if config, exists := m.routeConfigs[path]; exists {
		return config
	}

	// Prefix match for dynamic routes (e.g. /api/hospitals/{slug})
	for pattern, config := range m.routeConfigs {
		if strings.HasPrefix(path, pattern) {
			return config
		}
	}

	return CacheConfig{Enabled: false}
}

// generateCacheKey generates a cache key from the request
func (m *CacheMiddleware) generateCacheKey(r *http.Request) string {
	key := fmt.Sprintf("%s:%s", r.Method, r.URL.Path)
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}

	hash := sha256.Sum256([]byte(key))
	return "http:cache:" + hex.EncodeToString(hash[:])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}

	r.body.Write(data)

	return r.ResponseWriter.Write(data)
}

// CacheMiddlewareWithConfig creates a cache middleware with a custom route table
func CacheMiddlewareWithConfig(cache providers.CacheProvider, configs map[string]CacheConfig) func(http.Handler) http.Handler {
	m := &CacheMiddleware{
		cache:        cache,
		routeConfigs: configs,
	}
	return m.Middleware
}
