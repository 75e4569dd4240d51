package api

import (
	"github.com/labstack/echo/v4"
)

// SetupRoutes API 라우트를 설정합니다.
//
// 포함되는 라우트:
//   - System 엔드포인트: /health, /version
//   - v1 API: /api/v1/compare, /api/v1/history/:asin, /api/v1/alerts, /api/v1/alerts/evaluate
func SetupRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", h.HealthCheckHandler)
	e.GET("/version", h.VersionHandler)

	v1 := e.Group("/api/v1")
	v1.POST("/compare", h.CompareHandler)
	v1.GET("/history/:asin", h.HistoryHandler)
	v1.POST("/alerts", h.RegisterAlertHandler)
	v1.POST("/alerts/evaluate", h.EvaluateAlertsHandler)
}
