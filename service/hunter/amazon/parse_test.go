package amazon

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseDocument 테스트용 HTML 마크업을 goquery 문서로 파싱합니다.
func parseDocument(t *testing.T, markup string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

// TestPriceFromJSONLD 구조화 메타데이터(JSON-LD) 기반 가격 추출 전략을 검증합니다.
func TestPriceFromJSONLD(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		markup    string
		wantPrice string
		wantFound bool
	}{
		{
			name: "Single JSON-LD object with numeric price",
			markup: `<html><head>
				<script type="application/ld+json">{"@type":"Product","offers":{"price":29.99,"priceCurrency":"EUR"}}</script>
			</head></html>`,
			wantPrice: "29.99",
			wantFound: true,
		},
		{
			name: "JSON-LD list of objects",
			markup: `<html><head>
				<script type="application/ld+json">[{"@type":"BreadcrumbList"},{"@type":"Product","offers":{"price":"27,00 €"}}]</script>
			</head></html>`,
			wantPrice: "27.00",
			wantFound: true,
		},
		{
			name: "String price goes through normalization",
			markup: `<html><head>
				<script type="application/ld+json">{"offers":{"price":"1.299,95"}}</script>
			</head></html>`,
			wantPrice: "1299.95",
			wantFound: true,
		},
		{
			name: "Invalid JSON block is skipped, next block wins",
			markup: `<html><head>
				<script type="application/ld+json">{not json</script>
				<script type="application/ld+json">{"offers":{"price":19.5}}</script>
			</head></html>`,
			wantPrice: "19.5",
			wantFound: true,
		},
		{
			name: "Offers without price field",
			markup: `<html><head>
				<script type="application/ld+json">{"offers":{"availability":"InStock"}}</script>
			</head></html>`,
			wantFound: false,
		},
		{
			name:      "No JSON-LD blocks at all",
			markup:    `<html><body><p>rien</p></body></html>`,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			price, found := PriceFromJSONLD(parseDocument(t, tt.markup))

			require.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.True(t, price.Equal(decimal.RequireFromString(tt.wantPrice)), "got %s, want %s", price, tt.wantPrice)
			}
		})
	}
}

// TestPriceFromSelectors 노출 가격 선택자 기반 추출 전략을 검증합니다.
func TestPriceFromSelectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		markup    string
		wantPrice string
		wantFound bool
	}{
		{
			name:      "Modern price display",
			markup:    `<html><body><span class="a-price"><span class="a-offscreen">29,99 €</span></span></body></html>`,
			wantPrice: "29.99",
			wantFound: true,
		},
		{
			name:      "Desktop-specific container",
			markup:    `<html><body><div id="apex_desktop"><span class="a-offscreen">45,00 €</span></div></body></html>`,
			wantPrice: "45.00",
			wantFound: true,
		},
		{
			name:      "Legacy price block id",
			markup:    `<html><body><span id="priceblock_ourprice">15,50 €</span></body></html>`,
			wantPrice: "15.50",
			wantFound: true,
		},
		{
			name:      "Legacy deal price block",
			markup:    `<html><body><span id="priceblock_dealprice">12,90 €</span></body></html>`,
			wantPrice: "12.90",
			wantFound: true,
		},
		{
			name: "Higher priority selector wins",
			markup: `<html><body>
				<span class="a-price"><span class="a-offscreen">29,99 €</span></span>
				<span id="priceblock_ourprice">99,99 €</span>
			</body></html>`,
			wantPrice: "29.99",
			wantFound: true,
		},
		{
			name:      "Orphan a-offscreen span as last selector resort",
			markup:    `<html><body><span class="a-offscreen">8,75 €</span></body></html>`,
			wantPrice: "8.75",
			wantFound: true,
		},
		{
			name:      "No price containers",
			markup:    `<html><body><div id="title">Produit</div></body></html>`,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			price, found := PriceFromSelectors(parseDocument(t, tt.markup))

			require.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.True(t, price.Equal(decimal.RequireFromString(tt.wantPrice)), "got %s, want %s", price, tt.wantPrice)
			}
		})
	}
}

// TestPriceFromRawPattern 마크업 전체 대상의 최후 수단 정규식 전략을 검증합니다.
func TestPriceFromRawPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		markup    string
		wantPrice string
		wantFound bool
	}{
		{
			name:      "Currency symbol adjacent number",
			markup:    `<div>Prix conseillé : 34,99 €</div>`,
			wantPrice: "34.99",
			wantFound: true,
		},
		{
			name:      "EUR code adjacent number",
			markup:    `<span>120,00 EUR</span>`,
			wantPrice: "120.00",
			wantFound: true,
		},
		{
			name:      "Number without adjacent currency",
			markup:    `<span>quantité: 3</span>`,
			wantFound: false,
		},
		{
			name:      "Empty markup",
			markup:    ``,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			price, found := PriceFromRawPattern(tt.markup)

			require.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.True(t, price.Equal(decimal.RequireFromString(tt.wantPrice)), "got %s, want %s", price, tt.wantPrice)
			}
		})
	}
}

// TestPriceFromStructured 구조화 모드 응답에서의 가격 필드 추출 우선순위를 검증합니다.
func TestPriceFromStructured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantPrice string
		wantFound bool
	}{
		{
			name:      "Buybox winner price has top priority",
			content:   `{"buybox_winner":{"price":29.99},"price":35.00}`,
			wantPrice: "29.99",
			wantFound: true,
		},
		{
			name:      "Top-level price as fallback",
			content:   `{"price":35.00}`,
			wantPrice: "35.00",
			wantFound: true,
		},
		{
			name:      "Nested buybox container as last path",
			content:   `{"buybox":{"price":"27,00 €"}}`,
			wantPrice: "27.00",
			wantFound: true,
		},
		{
			name:      "Textual price value is normalized",
			content:   `{"buybox_winner":{"price":"1.234,56 €"}}`,
			wantPrice: "1234.56",
			wantFound: true,
		},
		{
			name:      "No price fields populated",
			content:   `{"title":"Produit","asin":"B0CXXXXXXX"}`,
			wantFound: false,
		},
		{
			name:      "Null price fields are skipped",
			content:   `{"buybox_winner":{"price":null},"price":null}`,
			wantFound: false,
		},
		{
			name:      "Invalid JSON",
			content:   `{broken`,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			price, found := PriceFromStructured([]byte(tt.content))

			require.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.True(t, price.Equal(decimal.RequireFromString(tt.wantPrice)), "got %s, want %s", price, tt.wantPrice)
			}
		})
	}
}
