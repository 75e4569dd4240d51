package middleware

import (
	"net/http"
	"sync"

	applog "github.com/darkkaiser/price-hunter-server/pkg/log"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const componentRateLimit = "api.middleware.rate_limit"

const (
	// maxIPRateLimiters 메모리에 유지할 수 있는 최대 고유 IP 수입니다.
	// 임계값에 도달하면 기존 항목을 하나 축출하여 새로운 요청을 수용합니다.
	maxIPRateLimiters = 10000

	retryAfterHeader  = "Retry-After"
	retryAfterSeconds = "1"
)

// ipRateLimiter IP 주소별 Rate Limiter를 관리하는 구조체입니다.
// Token Bucket 알고리즘을 사용하여 IP별로 독립적인 요청 제한을 적용합니다.
type ipRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newIPRateLimiter(requestsPerSecond int, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// getLimiter 특정 IP의 Rate Limiter를 반환합니다. 없으면 새로 생성합니다.
func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limiters[ip]
	i.mu.RUnlock()

	if exists {
		return limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// 다른 고루틴이 이미 생성했을 수 있음
	limiter, exists = i.limiters[ip]
	if exists {
		return limiter
	}

	if len(i.limiters) >= maxIPRateLimiters {
		// Go Map 순회는 랜덤이므로 간이 LRU 효과
		for oldIP := range i.limiters {
			delete(i.limiters, oldIP)
			break
		}
	}

	limiter = rate.NewLimiter(i.rate, i.burst)
	i.limiters[ip] = limiter

	return limiter
}

// RateLimit IP 기반 Rate Limiting 미들웨어를 반환합니다.
// 제한 초과 시 HTTP 429 (Too Many Requests)를 반환하고 Retry-After 헤더를 포함합니다.
func RateLimit(requestsPerSecond int, burst int) echo.MiddlewareFunc {
	rateLimiter := newIPRateLimiter(requestsPerSecond, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			if rateLimiter.getLimiter(ip).Allow() == false {
				applog.WithComponentAndFields(componentRateLimit, log.Fields{
					"remote_ip": ip,
					"path":      c.Request().URL.Path,
				}).Warn("요청 속도 제한 초과")

				c.Response().Header().Set(retryAfterHeader, retryAfterSeconds)

				return echo.NewHTTPError(http.StatusTooManyRequests, "요청이 너무 많습니다. 잠시 후 다시 시도하세요.")
			}

			return next(c)
		}
	}
}
