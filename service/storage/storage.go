package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MarketAny 특정 마켓이 아닌, 설정된 모든 마켓을 대상으로 하는 감시 요청을 나타내는 값입니다.
const MarketAny = "any"

// PriceObservation 특정 시점에 관측된 가격의 영속 레코드입니다.
// 추가 전용(append-only)으로 기록되며, 코어 로직은 수정/삭제하지 않습니다.
type PriceObservation struct {
	ASIN       string          `json:"asin"`
	Market     string          `json:"market"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	CapturedAt time.Time       `json:"captured_at"`
}

// WatchRequest 구독자의 가격 감시 요청입니다.
//
// 생성 이후 수정되지 않습니다. 목표 가격 변경은 갱신이 아닌 재등록으로 모델링되며,
// 조건 충족 시에도 비활성화되지 않고 다음 평가에서 다시 발화할 수 있습니다.
type WatchRequest struct {
	ID           string          `json:"id"`
	ASIN         string          `json:"asin"`
	Market       string          `json:"market"` // 마켓 코드 또는 MarketAny
	TargetAmount decimal.Decimal `json:"target_amount"`
	Contact      string          `json:"contact"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Store 가격 이력과 감시 요청을 보관하는 저장소 인터페이스입니다.
type Store interface {
	// AppendObservation 가격 관측 레코드를 추가합니다.
	AppendObservation(ctx context.Context, observation PriceObservation) error

	// ObservationsSince 지정된 식별자의 관측 레코드를 since 이후 범위로 조회합니다.
	// 결과는 관측 시간 내림차순으로 정렬됩니다.
	ObservationsSince(ctx context.Context, asin string, since time.Time) ([]PriceObservation, error)

	// AppendWatchRequest 감시 요청을 추가합니다.
	AppendWatchRequest(ctx context.Context, watchRequest WatchRequest) error

	// WatchRequests 등록된 모든 감시 요청을 등록 순서대로 반환합니다.
	WatchRequests(ctx context.Context) ([]WatchRequest, error)
}
