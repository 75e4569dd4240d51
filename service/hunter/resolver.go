package hunter

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/darkkaiser/price-hunter-server/config"
	"github.com/darkkaiser/price-hunter-server/pkg/errors"
	applog "github.com/darkkaiser/price-hunter-server/pkg/log"
	"github.com/darkkaiser/price-hunter-server/service/hunter/amazon"
	"github.com/darkkaiser/price-hunter-server/service/scraper"
	"github.com/shopspring/decimal"
)

const (
	component = "hunter"

	// 모든 지원 마켓이 유로존이므로 통화는 고정입니다.
	defaultCurrency = "EUR"
)

// Resolver 하나의 (식별자, 마켓) 쌍에 대해 계층화된 전략으로 가격을 알아냅니다.
//
// 우선순위: 구조화 조회 → 원문 마크업 폴백(JSON-LD → CSS 셀렉터 → 정규식).
// 전송 레벨 실패는 즉시 에러로 중단하며 다음 계층으로 폴백하지 않습니다.
// 모든 계층이 가격을 찾지 못하면 ErrPriceNotFound 유형의 에러를 반환합니다.
type Resolver struct {
	source scraper.Source
}

// NewResolver Resolver 객체를 생성한다.
func NewResolver(source scraper.Source) *Resolver {
	return &Resolver{
		source: source,
	}
}

// Resolve 지정된 마켓에서 상품 가격을 조회합니다.
func (r *Resolver) Resolve(ctx context.Context, asin amazon.ASIN, market config.MarketConfig) (PriceQuote, error) {
	content, err := r.source.FetchStructuredProduct(ctx, scraper.StructuredProductRequest{
		Query:       string(asin),
		Domain:      market.Domain,
		GeoLocation: market.GeoLocation,
	})
	if err != nil {
		return PriceQuote{}, err
	}

	if content != nil {
		if amount, ok := amazon.PriceFromStructured(content); ok {
			return r.quote(asin, market, amount), nil
		}

		applog.WithComponentAndFields(component, map[string]interface{}{
			"asin":   asin,
			"market": market.Code,
		}).Debug("구조화 응답에서 가격을 찾지 못하여 원문 마크업 폴백을 시도합니다.")
	}

	markup, err := r.source.FetchRawPage(ctx, scraper.RawPageRequest{
		URL:         ProductPageURL(asin, market.Domain),
		GeoLocation: market.GeoLocation,
	})
	if err != nil {
		return PriceQuote{}, err
	}

	if amount, ok := priceFromMarkup(markup); ok {
		return r.quote(asin, market, amount), nil
	}

	return PriceQuote{}, errors.Newf(errors.ErrPriceNotFound, "상품의 가격을 찾을 수 없습니다. (asin:%s, market:%s)", asin, market.Code)
}

// priceFromMarkup 상품 페이지 마크업에서 가격 추출 전략을 순서대로 적용합니다.
func priceFromMarkup(markup string) (decimal.Decimal, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err == nil {
		if amount, ok := amazon.PriceFromJSONLD(doc); ok {
			return amount, true
		}
		if amount, ok := amazon.PriceFromSelectors(doc); ok {
			return amount, true
		}
	}

	return amazon.PriceFromRawPattern(markup)
}

func (r *Resolver) quote(asin amazon.ASIN, market config.MarketConfig, amount decimal.Decimal) PriceQuote {
	return PriceQuote{
		ASIN:       asin,
		Market:     market.Code,
		Amount:     amount,
		Currency:   defaultCurrency,
		CapturedAt: time.Now(),
	}
}
