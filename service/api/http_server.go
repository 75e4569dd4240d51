package api

import (
	"net/http"

	appmiddleware "github.com/darkkaiser/price-hunter-server/service/api/middleware"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
)

// HTTPServerConfig 서버 생성 시 필요한 설정을 정의합니다.
type HTTPServerConfig struct {
	Debug bool

	// AllowOrigins CORS에서 허용할 Origin 목록, 비어있으면 모든 Origin을 허용합니다.
	AllowOrigins []string

	// RateLimitRequestsPerSecond 0 이하이면 Rate Limiting을 적용하지 않습니다.
	RateLimitRequestsPerSecond int
	RateLimitBurst             int
}

// NewHTTPServer 미들웨어가 설정된 Echo 인스턴스를 생성합니다.
//
// 미들웨어는 다음 순서로 적용됩니다:
//  1. Recover - 핸들러에서 발생한 panic을 복구하여 서버 다운 방지
//  2. RequestID - 각 요청에 고유한 ID를 부여 (X-Request-ID 헤더)
//  3. LogrusLogger - HTTP 요청/응답 정보를 구조화된 로그로 기록
//  4. RateLimit - IP별 요청 속도 제한
//  5. CORS - 허용된 Origin에서의 크로스 도메인 요청 처리
//  6. Secure - 보안 헤더 설정
//
// 라우트 설정은 포함되지 않으며, 반환된 Echo 인스턴스에 별도로 설정해야 합니다.
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true

	// echo에서 출력되는 로그를 Logrus Logger로 출력되도록 한다.
	e.Logger = appmiddleware.Logger{Logger: log.StandardLogger()}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(appmiddleware.LogrusLogger())
	if cfg.RateLimitRequestsPerSecond > 0 {
		e.Use(appmiddleware.RateLimit(cfg.RateLimitRequestsPerSecond, cfg.RateLimitBurst))
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.Secure())

	return e
}
