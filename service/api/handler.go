package api

import (
	"context"
	"net/http"

	"github.com/darkkaiser/price-hunter-server/config"
	"github.com/darkkaiser/price-hunter-server/pkg/errors"
	applog "github.com/darkkaiser/price-hunter-server/pkg/log"
	"github.com/darkkaiser/price-hunter-server/service/alert"
	"github.com/darkkaiser/price-hunter-server/service/hunter"
	"github.com/darkkaiser/price-hunter-server/service/storage"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PriceComparer 가격 비교/이력/감시 요청 기능을 제공하는 인터페이스입니다.
// hunter.Service가 이 인터페이스를 구현합니다.
type PriceComparer interface {
	Compare(ctx context.Context, userInput string) (hunter.ComparisonResult, error)
	History(ctx context.Context, userInput string) ([]storage.PriceObservation, error)
	RegisterWatchRequest(ctx context.Context, userInput, market string, targetAmount decimal.Decimal, contact string) (storage.WatchRequest, error)
}

// AlertEvaluator 감시 요청 평가 기능을 제공하는 인터페이스입니다.
// alert.Service가 이 인터페이스를 구현합니다.
type AlertEvaluator interface {
	Evaluate(ctx context.Context) ([]alert.SentAlert, error)
}

// BuildInfo 빌드 시점에 주입되는 버전 정보입니다.
type BuildInfo struct {
	Version     string
	BuildDate   string
	BuildNumber string
}

// Handler API 요청을 처리하는 핸들러입니다.
type Handler struct {
	comparer  PriceComparer
	evaluator AlertEvaluator

	buildInfo BuildInfo

	validate *validator.Validate
}

// NewHandler Handler 객체를 생성한다.
func NewHandler(comparer PriceComparer, evaluator AlertEvaluator, buildInfo BuildInfo) *Handler {
	return &Handler{
		comparer:  comparer,
		evaluator: evaluator,

		buildInfo: buildInfo,

		validate: validator.New(),
	}
}

// bindAndValidate 요청 본문을 바인딩하고 유효성을 검증합니다.
func (h *Handler) bindAndValidate(c echo.Context, request interface{}) error {
	if err := c.Bind(request); err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "요청 본문을 해석할 수 없습니다.")
	}
	if err := h.validate.Struct(request); err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "요청 본문의 유효성 검증이 실패하였습니다.")
	}
	return nil
}

// CompareHandler 상품의 마켓별 가격 비교를 처리합니다.
//
// POST /api/v1/compare
func (h *Handler) CompareHandler(c echo.Context) error {
	var request compareRequest
	if err := h.bindAndValidate(c, &request); err != nil {
		return sendError(c, err)
	}

	result, err := h.comparer.Compare(c.Request().Context(), request.Input)
	if err != nil {
		return sendError(c, err)
	}

	response := compareResponse{
		ASIN:  string(result.ASIN),
		Items: make([]comparisonItemResponse, 0, len(result.Items)),
	}
	for _, item := range result.Items {
		response.Items = append(response.Items, comparisonItemResponse{
			Market:   item.Market,
			Amount:   item.Amount.InexactFloat64(),
			Currency: item.Currency,
			Link:     item.Link,
		})
	}

	return c.JSON(http.StatusOK, response)
}

// HistoryHandler 상품의 최근 가격 이력 조회를 처리합니다.
//
// GET /api/v1/history/:asin
func (h *Handler) HistoryHandler(c echo.Context) error {
	observations, err := h.comparer.History(c.Request().Context(), c.Param("asin"))
	if err != nil {
		return sendError(c, err)
	}

	response := historyResponse{
		ASIN:         c.Param("asin"),
		Observations: make([]observationResponse, 0, len(observations)),
	}
	for _, observation := range observations {
		response.Observations = append(response.Observations, observationResponse{
			Market:     observation.Market,
			Amount:     observation.Amount.InexactFloat64(),
			Currency:   observation.Currency,
			CapturedAt: observation.CapturedAt,
		})
	}

	return c.JSON(http.StatusOK, response)
}

// RegisterAlertHandler 가격 감시 요청 등록을 처리합니다.
//
// POST /api/v1/alerts
func (h *Handler) RegisterAlertHandler(c echo.Context) error {
	var request registerAlertRequest
	if err := h.bindAndValidate(c, &request); err != nil {
		return sendError(c, err)
	}

	watchRequest, err := h.comparer.RegisterWatchRequest(c.Request().Context(), request.Input, request.Market, decimal.NewFromFloat(request.TargetAmount), request.Contact)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(http.StatusCreated, registerAlertResponse{
		ID:           watchRequest.ID,
		ASIN:         watchRequest.ASIN,
		Market:       watchRequest.Market,
		TargetAmount: watchRequest.TargetAmount.InexactFloat64(),
		Contact:      watchRequest.Contact,
		CreatedAt:    watchRequest.CreatedAt,
	})
}

// EvaluateAlertsHandler 등록된 모든 감시 요청의 즉시 평가를 처리합니다.
//
// POST /api/v1/alerts/evaluate
func (h *Handler) EvaluateAlertsHandler(c echo.Context) error {
	sentAlerts, err := h.evaluator.Evaluate(c.Request().Context())
	if err != nil {
		return sendError(c, err)
	}

	response := evaluateAlertsResponse{
		SentAlerts: make([]sentAlertResponse, 0, len(sentAlerts)),
	}
	for _, sentAlert := range sentAlerts {
		response.SentAlerts = append(response.SentAlerts, sentAlertResponse{
			WatchRequestID: sentAlert.WatchRequestID,
			Contact:        sentAlert.Contact,
			ASIN:           sentAlert.ASIN,
			Market:         sentAlert.Market,
			Amount:         sentAlert.Amount.InexactFloat64(),
		})
	}

	return c.JSON(http.StatusOK, response)
}

// HealthCheckHandler 서비스 상태 확인을 처리합니다.
//
// GET /health
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status: "ok",
	})
}

// VersionHandler 버전 정보 조회를 처리합니다.
//
// GET /version
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, versionResponse{
		AppName:     config.AppName,
		Version:     h.buildInfo.Version,
		BuildDate:   h.buildInfo.BuildDate,
		BuildNumber: h.buildInfo.BuildNumber,
	})
}

// sendError AppError의 유형을 HTTP 상태코드로 변환하여 에러 응답을 반환합니다.
func sendError(c echo.Context, err error) error {
	var statusCode int

	switch errors.GetType(err) {
	case errors.ErrInvalidInput:
		statusCode = http.StatusBadRequest
	case errors.ErrPriceNotFound, errors.ErrNotFound:
		statusCode = http.StatusNotFound
	case errors.ErrUpstreamFailed:
		statusCode = http.StatusBadGateway
	default:
		statusCode = http.StatusInternalServerError
	}

	if statusCode == http.StatusInternalServerError {
		applog.WithComponent(component).Errorf("요청 처리중에 오류가 발생하였습니다.(error:%s)", err)
	}

	return c.JSON(statusCode, errorResponse{
		Code:    statusCode,
		Message: err.Error(),
	})
}
