package amazon

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// priceTokenRegexp 정규화된 문자열에서 가격 숫자 토큰을 추출하기 위한 정규식입니다.
// 소수점 이하는 통화 최소 단위 정밀도(최대 2자리)까지만 인정합니다.
var priceTokenRegexp = regexp.MustCompile(`[0-9]+(?:\.[0-9]{1,2})?`)

// priceCleaner 가격 문자열에서 통화 기호/코드와 모든 종류의 공백 문자를 제거하는 Replacer입니다.
//
// 아마존 상품 페이지는 천 단위 구분에 좁은 줄바꿈 없는 공백(U+202F)이나
// 줄바꿈 없는 공백(U+00A0)을 섞어서 사용하는 경우가 있어, 일반 공백과 함께 모두 제거합니다.
var priceCleaner = strings.NewReplacer(
	" ", "", // NARROW NO-BREAK SPACE
	" ", "", // NO-BREAK SPACE
	"€", "",
	"EUR", "",
	" ", "",
)

// NormalizePrice 로케일 포맷이 적용된 가격 문자열을 표준 Decimal 값으로 정규화합니다.
//
// 유로권 로케일 표기만을 가정합니다:
//   - '.'는 천 단위 구분자로 간주하여 제거
//   - ','는 소수 구분자로 간주하여 '.'로 변환
//
// 예: "1.234,56 €" → 1234.56, "EUR 27,00" → 27.00
//
// 숫자 토큰을 찾지 못하거나 파싱에 실패하면 에러가 아닌 false를 반환합니다.
func NormalizePrice(s string) (decimal.Decimal, bool) {
	s = priceCleaner.Replace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	token := priceTokenRegexp.FindString(s)
	if token == "" {
		return decimal.Decimal{}, false
	}

	value, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}

// NormalizePriceValue 업스트림 응답에서 추출된 타입 미상의 가격 값을 Decimal로 변환합니다.
//
// 이미 숫자 타입인 값은 텍스트 정규화를 거치지 않고 그대로 신뢰합니다.
// (구조화된 소스의 잘 타이핑된 값 > 스크래핑된 텍스트)
func NormalizePriceValue(v interface{}) (decimal.Decimal, bool) {
	switch value := v.(type) {
	case nil:
		return decimal.Decimal{}, false
	case decimal.Decimal:
		return value, true
	case float64:
		return decimal.NewFromFloat(value), true
	case float32:
		return decimal.NewFromFloat32(value), true
	case int:
		return decimal.NewFromInt(int64(value)), true
	case int64:
		return decimal.NewFromInt(value), true
	case json.Number:
		parsed, err := decimal.NewFromString(value.String())
		if err != nil {
			return decimal.Decimal{}, false
		}
		return parsed, true
	case string:
		return NormalizePrice(value)
	default:
		return decimal.Decimal{}, false
	}
}
