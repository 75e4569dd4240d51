package hunter

import (
	"fmt"
	"time"

	"github.com/darkkaiser/price-hunter-server/config"
	"github.com/darkkaiser/price-hunter-server/service/hunter/amazon"
	"github.com/shopspring/decimal"
)

// PriceQuote 하나의 (식별자, 마켓) 쌍에 대해 특정 시점에 조회된 가격입니다.
// Resolver가 생성하며, 생성 이후 변경되지 않습니다.
// 호출부가 명시적으로 저장하지 않는 한 영속화되지 않습니다.
type PriceQuote struct {
	ASIN       amazon.ASIN
	Market     string // 마켓 코드 (예: "FR")
	Amount     decimal.Decimal
	Currency   string
	CapturedAt time.Time
}

// ComparisonItem 가격 비교 결과의 마켓별 단일 항목입니다.
type ComparisonItem struct {
	Market   string
	Amount   decimal.Decimal
	Currency string
	Link     string // 마켓별 상품 페이지 링크 (제휴 태그 포함 가능)
}

// ComparisonResult 하나의 식별자에 대한 전체 마켓 가격 비교 결과입니다.
// 항목은 가격 오름차순으로 정렬되며, 가격 조회에 실패한 마켓은 포함되지 않습니다.
type ComparisonResult struct {
	ASIN  amazon.ASIN
	Items []ComparisonItem
}

// ProductPageURL 지정된 마켓 도메인의 상품 상세 페이지 URL을 반환합니다.
func ProductPageURL(asin amazon.ASIN, domain string) string {
	return fmt.Sprintf("https://%s/dp/%s", domain, asin)
}

// OutboundLink 비교 결과에 노출할 상품 페이지 링크를 생성합니다.
// 마켓에 제휴 태그가 설정되어 있으면 쿼리 파라미터로 덧붙입니다.
func OutboundLink(asin amazon.ASIN, market config.MarketConfig) string {
	link := ProductPageURL(asin, market.Domain)
	if market.AffiliateTag != "" {
		link += "?tag=" + market.AffiliateTag
	}
	return link
}
