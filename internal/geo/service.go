package geo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/order-fraud-guard/pkg/logger"
	"github.com/richxcame/order-fraud-guard/pkg/resilience"
	"go.uber.org/zap"
)

const (
	ipLocationPrefix = "geo:ip:"
	defaultCacheTTL  = 24 * time.Hour
)

// Service decorates a Locator with a Redis cache and a circuit breaker.
// Both are optional.
type Service struct {
	provider Locator
	cache    redis.Cmdable
	ttl      time.Duration
	breaker  *resilience.CircuitBreaker
}

var _ Locator = (*Service)(nil)

// NewService creates a geolocation service
func NewService(provider Locator, cache redis.Cmdable, ttl time.Duration, breaker *resilience.CircuitBreaker) *Service {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Service{provider: provider, cache: cache, ttl: ttl, breaker: breaker}
}

// Lookup resolves ip, serving from cache when possible. Cache failures
// are logged and otherwise ignored.
func (s *Service) Lookup(ctx context.Context, ip string) (*Location, error) {
	if ip == "" {
		return nil, ErrNoIP
	}

	if loc, ok := s.fromCache(ctx, ip); ok {
		return loc, nil
	}

	loc, err := s.lookupProvider(ctx, ip)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, ip, loc)
	return loc, nil
}

// Resolve is Lookup with every failure collapsed to nil, meaning unknown
func (s *Service) Resolve(ctx context.Context, ip string) *Location {
	loc, err := s.Lookup(ctx, ip)
	if err != nil {
		logger.WithContext(ctx).Warn("IP geolocation unavailable, treating as unknown",
			zap.String("ip", ip),
			zap.Error(err),
		)
		return nil
	}
	return loc
}

func (s *Service) lookupProvider(ctx context.Context, ip string) (*Location, error) {
	if s.breaker == nil {
		return s.provider.Lookup(ctx, ip)
	}

	result, err := s.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.provider.Lookup(ctx, ip)
	})
	if err != nil {
		return nil, err
	}
	loc, ok := result.(*Location)
	if !ok || loc == nil {
		return nil, errors.New("geolocation provider returned no location")
	}
	return loc, nil
}

func (s *Service) fromCache(ctx context.Context, ip string) (*Location, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, ipLocationPrefix+ip).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithContext(ctx).Warn("geolocation cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var loc Location
	if err := json.Unmarshal([]byte(data), &loc); err != nil {
		logger.WithContext(ctx).Warn("geolocation cache entry corrupt", zap.String("ip", ip), zap.Error(err))
		return nil, false
	}
	return &loc, true
}

func (s *Service) toCache(ctx context.Context, ip string, loc *Location) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(loc)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, ipLocationPrefix+ip, string(data), s.ttl).Err(); err != nil {
		logger.WithContext(ctx).Warn("geolocation cache write failed", zap.Error(err))
	}
}
