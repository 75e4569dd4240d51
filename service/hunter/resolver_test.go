package hunter

import (
	"context"
	"testing"

	"github.com/darkkaiser/price-hunter-server/config"
	"github.com/darkkaiser/price-hunter-server/pkg/errors"
	"github.com/darkkaiser/price-hunter-server/service/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMarketFR = config.MarketConfig{
	Code:        "FR",
	Domain:      "amazon.fr",
	GeoLocation: "France",
}

// stubSource 테스트용 Source 구현체입니다.
type stubSource struct {
	structuredContent []byte
	structuredErr     error
	rawMarkup         string
	rawErr            error

	structuredCalls int
	rawCalls        int

	lastStructuredRequest scraper.StructuredProductRequest
	lastRawRequest        scraper.RawPageRequest
}

func (s *stubSource) FetchStructuredProduct(_ context.Context, req scraper.StructuredProductRequest) ([]byte, error) {
	s.structuredCalls++
	s.lastStructuredRequest = req
	return s.structuredContent, s.structuredErr
}

func (s *stubSource) FetchRawPage(_ context.Context, req scraper.RawPageRequest) (string, error) {
	s.rawCalls++
	s.lastRawRequest = req
	return s.rawMarkup, s.rawErr
}

func TestResolver_Resolve_StructuredPrice(t *testing.T) {
	t.Parallel()

	source := &stubSource{
		structuredContent: []byte(`{"buybox_winner":{"price":29.99}}`),
	}

	quote, err := NewResolver(source).Resolve(context.Background(), "B0CXXXXXXX", testMarketFR)
	require.NoError(t, err)

	assert.Equal(t, "29.99", quote.Amount.String())
	assert.Equal(t, "EUR", quote.Currency)
	assert.Equal(t, "FR", quote.Market)
	assert.False(t, quote.CapturedAt.IsZero())

	// 구조화 조회가 성공하면 원문 폴백은 호출되지 않아야 한다.
	assert.Equal(t, 1, source.structuredCalls)
	assert.Equal(t, 0, source.rawCalls)

	assert.Equal(t, "B0CXXXXXXX", source.lastStructuredRequest.Query)
	assert.Equal(t, "amazon.fr", source.lastStructuredRequest.Domain)
	assert.Equal(t, "France", source.lastStructuredRequest.GeoLocation)
}

func TestResolver_Resolve_FallbackToRawPage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		source         *stubSource
		expectedAmount string
	}{
		{
			name: "구조화 응답 없음, CSS 셀렉터로 가격 추출",
			source: &stubSource{
				structuredContent: nil,
				rawMarkup:         `<html><body><div class="a-price"><span class="a-offscreen">19,99&nbsp;€</span></div></body></html>`,
			},
			expectedAmount: "19.99",
		},
		{
			name: "구조화 응답에 가격 없음, 레거시 가격 블록으로 추출",
			source: &stubSource{
				structuredContent: []byte(`{"title":"상품명"}`),
				rawMarkup:         `<html><body><span id="priceblock_ourprice">1.234,56 €</span></body></html>`,
			},
			expectedAmount: "1234.56",
		},
		{
			name: "선택자 매칭 실패, 정규식 폴백으로 추출",
			source: &stubSource{
				structuredContent: nil,
				rawMarkup:         `...pour seulement 15,50 € chez...`,
			},
			expectedAmount: "15.5",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			quote, err := NewResolver(tc.source).Resolve(context.Background(), "B0CXXXXXXX", testMarketFR)
			require.NoError(t, err)

			assert.Equal(t, tc.expectedAmount, quote.Amount.String())
			assert.Equal(t, 1, tc.source.rawCalls)
			assert.Equal(t, "https://amazon.fr/dp/B0CXXXXXXX", tc.source.lastRawRequest.URL)
		})
	}
}

func TestResolver_Resolve_UpstreamFailure(t *testing.T) {
	t.Parallel()

	source := &stubSource{
		structuredErr: errors.New(errors.ErrUpstreamFailed, "업스트림 요청이 실패하였습니다."),
	}

	_, err := NewResolver(source).Resolve(context.Background(), "B0CXXXXXXX", testMarketFR)
	require.Error(t, err)
	assert.Equal(t, errors.ErrUpstreamFailed, errors.GetType(err))

	// 전송 레벨 실패는 원문 폴백으로 이어지지 않아야 한다.
	assert.Equal(t, 0, source.rawCalls)
}

func TestResolver_Resolve_PriceNotFound(t *testing.T) {
	t.Parallel()

	source := &stubSource{
		structuredContent: []byte(`{"buybox_winner":{"price":null}}`),
		rawMarkup:         `<html><body><p>현재 재고가 없습니다.</p></body></html>`,
	}

	_, err := NewResolver(source).Resolve(context.Background(), "B0CXXXXXXX", testMarketFR)
	require.Error(t, err)
	assert.Equal(t, errors.ErrPriceNotFound, errors.GetType(err))

	assert.Equal(t, 1, source.structuredCalls)
	assert.Equal(t, 1, source.rawCalls)
}
