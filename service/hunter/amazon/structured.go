package amazon

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// structuredPricePaths 구조화 응답에서 가격을 탐색할 필드 경로 목록입니다.
// 우선순위 순서: 바이박스 낙찰 오퍼 → 최상위 가격 → 대체 오퍼 컨테이너
var structuredPricePaths = []string{
	"buybox_winner.price",
	"price",
	"buybox.price",
}

// PriceFromStructured 업스트림의 구조화 모드(parse=true) 응답 본문에서 가격을 추출합니다.
//
// 알려진 필드 경로들을 우선순위 순서대로 확인하며, 값이 문자열인 경우 텍스트 정규화를 적용합니다.
// 가격 필드가 전혀 채워져 있지 않은 응답은 에러가 아닌 false로 보고되며,
// 호출부는 이를 HTML 폴백 전략으로 전환하는 신호로 사용합니다.
func PriceFromStructured(content []byte) (decimal.Decimal, bool) {
	if !gjson.ValidBytes(content) {
		return decimal.Decimal{}, false
	}

	for _, path := range structuredPricePaths {
		value := gjson.GetBytes(content, path)
		if !value.Exists() {
			continue
		}

		if price, ok := priceFromJSONValue(value); ok {
			return price, true
		}
	}

	return decimal.Decimal{}, false
}
