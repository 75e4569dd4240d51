package api

import "time"

// compareRequest 가격 비교 요청 모델입니다.
// Input에는 상품 식별자 또는 상품 페이지 URL을 지정합니다.
type compareRequest struct {
	Input string `json:"input" validate:"required"`
}

type comparisonItemResponse struct {
	Market   string  `json:"market"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Link     string  `json:"link"`
}

type compareResponse struct {
	ASIN  string                   `json:"asin"`
	Items []comparisonItemResponse `json:"items"`
}

type observationResponse struct {
	Market     string    `json:"market"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	CapturedAt time.Time `json:"captured_at"`
}

type historyResponse struct {
	ASIN         string                `json:"asin"`
	Observations []observationResponse `json:"observations"`
}

// registerAlertRequest 가격 감시 요청 등록 모델입니다.
// Market에는 마켓 코드 또는 "any"를 지정합니다.
type registerAlertRequest struct {
	Input        string  `json:"input" validate:"required"`
	Market       string  `json:"market" validate:"required"`
	TargetAmount float64 `json:"target_amount" validate:"required,gt=0"`
	Contact      string  `json:"contact" validate:"required"`
}

type registerAlertResponse struct {
	ID           string    `json:"id"`
	ASIN         string    `json:"asin"`
	Market       string    `json:"market"`
	TargetAmount float64   `json:"target_amount"`
	Contact      string    `json:"contact"`
	CreatedAt    time.Time `json:"created_at"`
}

type sentAlertResponse struct {
	WatchRequestID string  `json:"watch_request_id"`
	Contact        string  `json:"contact"`
	ASIN           string  `json:"asin"`
	Market         string  `json:"market"`
	Amount         float64 `json:"amount"`
}

type evaluateAlertsResponse struct {
	SentAlerts []sentAlertResponse `json:"sent_alerts"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type versionResponse struct {
	AppName     string `json:"app_name"`
	Version     string `json:"version"`
	BuildDate   string `json:"build_date,omitempty"`
	BuildNumber string `json:"build_number,omitempty"`
}
