package amazon

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// priceSelectors 상품 페이지에서 노출 가격을 탐색할 CSS 선택자 목록입니다.
// 우선순위 순서대로 정의되며, 첫 번째로 비어있지 않은 텍스트가 채택됩니다.
// (최신 가격 표시 → 데스크톱 전용 컨테이너 → 레거시 가격 블록 id 순)
var priceSelectors = []string{
	".a-price .a-offscreen",
	"#apex_desktop .a-offscreen",
	"#corePrice_feature_div .a-offscreen",
	"#priceblock_ourprice",
	"#priceblock_dealprice",
	"#priceblock_saleprice",
}

// rawPricePattern 마크업 전체에서 통화 기호/코드가 바로 뒤따르는 숫자 패턴을 탐색하는 정규식입니다.
// 모든 선택자 기반 전략이 실패했을 때의 최후 수단으로만 사용됩니다.
var rawPricePattern = regexp.MustCompile(`([0-9][0-9.,\s\x{00A0}\x{202F}]+)\s?(€|EUR)`)

// PriceFromJSONLD 페이지에 내장된 구조화 메타데이터(schema.org JSON-LD) 스크립트 블록에서
// 오퍼의 가격을 추출합니다.
//
// JSON-LD 문서가 단일 객체인 경우와 객체 목록인 경우를 모두 처리하며,
// offers.price 값은 숫자/문자열 어느 쪽이든 허용합니다.
func PriceFromJSONLD(doc *goquery.Document) (price decimal.Decimal, found bool) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" || !gjson.Valid(raw) {
			return true
		}

		parsed := gjson.Parse(raw)

		candidates := []gjson.Result{parsed}
		if parsed.IsArray() {
			candidates = parsed.Array()
		}

		for _, candidate := range candidates {
			offers := candidate.Get("offers")
			if !offers.IsObject() {
				continue
			}

			value := offers.Get("price")
			if !value.Exists() {
				continue
			}

			if p, ok := priceFromJSONValue(value); ok {
				price, found = p, true
				return false
			}
		}

		return true
	})

	return price, found
}

// PriceFromSelectors 알려진 가격 표시 선택자들을 순서대로 탐색하여,
// 첫 번째로 매칭되는 비어있지 않은 텍스트를 정규화한 가격을 반환합니다.
func PriceFromSelectors(doc *goquery.Document) (decimal.Decimal, bool) {
	for _, selector := range priceSelectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text == "" {
			continue
		}

		if price, ok := NormalizePrice(text); ok {
			return price, true
		}
	}

	// 알려진 컨테이너에서 찾지 못한 경우, 페이지의 임의의 a-offscreen 스팬을 마지막으로 확인한다.
	text := strings.TrimSpace(doc.Find("span.a-offscreen").First().Text())
	if text != "" {
		if price, ok := NormalizePrice(text); ok {
			return price, true
		}
	}

	return decimal.Decimal{}, false
}

// PriceFromRawPattern 마크업 전체를 대상으로 통화 인접 숫자 패턴을 검색하는 최후 수단 전략입니다.
func PriceFromRawPattern(markup string) (decimal.Decimal, bool) {
	m := rawPricePattern.FindStringSubmatch(markup)
	if m == nil {
		return decimal.Decimal{}, false
	}
	return NormalizePrice(m[1])
}

// priceFromJSONValue JSON 값(숫자 또는 문자열)을 Decimal 가격으로 변환합니다.
func priceFromJSONValue(value gjson.Result) (decimal.Decimal, bool) {
	switch value.Type {
	case gjson.Number:
		return NormalizePriceValue(value.Num)
	case gjson.String:
		return NormalizePriceValue(value.Str)
	default:
		return decimal.Decimal{}, false
	}
}
