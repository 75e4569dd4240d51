package amazon

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNormalizePrice 로케일 포맷이 적용된 가격 문자열의 정규화 로직을 검증합니다.
func TestNormalizePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantPrice string
		wantFound bool
	}{
		{
			name:      "Euro symbol suffix with comma decimal",
			input:     "29,99 €",
			wantPrice: "29.99",
			wantFound: true,
		},
		{
			name:      "EUR code prefix",
			input:     "EUR 27,00",
			wantPrice: "27.00",
			wantFound: true,
		},
		{
			name:      "Thousands separator as dot",
			input:     "1.234,56 €",
			wantPrice: "1234.56",
			wantFound: true,
		},
		{
			name:      "Narrow no-break space as thousands separator",
			input:     "1 299,00 €",
			wantPrice: "1299.00",
			wantFound: true,
		},
		{
			name:      "Single fractional digit",
			input:     "15,5",
			wantPrice: "15.5",
			wantFound: true,
		},
		{
			name:      "Integer price without decimals",
			input:     "45 €",
			wantPrice: "45",
			wantFound: true,
		},
		{
			name:      "No numeric token",
			input:     "prix indisponible",
			wantFound: false,
		},
		{
			name:      "Empty string",
			input:     "",
			wantFound: false,
		},
		{
			name:      "Currency only",
			input:     "€",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			price, found := NormalizePrice(tt.input)

			require.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.True(t, price.Equal(decimal.RequireFromString(tt.wantPrice)), "got %s, want %s", price, tt.wantPrice)
			}
		})
	}
}

// TestNormalizePrice_RoundTrip 유로권 포맷으로 렌더링된 임의의 금액이 원래 값으로 복원되는지 검증합니다.
func TestNormalizePrice_RoundTrip(t *testing.T) {
	t.Parallel()

	amounts := []string{"0.01", "9.90", "19.99", "100.00", "2499.95"}

	for _, amount := range amounts {
		want := decimal.RequireFromString(amount)

		// "<int>,<frac> €" 형태
		formatted := want.StringFixed(2)
		formatted = formatted[:len(formatted)-3] + "," + formatted[len(formatted)-2:] + " €"

		got, found := NormalizePrice(formatted)
		require.True(t, found, "input: %s", formatted)
		assert.True(t, got.Equal(want), "input: %s, got: %s", formatted, got)
	}
}

// TestNormalizePriceValue 타입 미상의 가격 값 처리 로직을 검증합니다.
// 이미 숫자 타입인 입력은 텍스트 정규화 없이 그대로 사용되어야 합니다.
func TestNormalizePriceValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     interface{}
		wantPrice string
		wantFound bool
	}{
		{
			name:      "Float value passes through unchanged",
			input:     29.99,
			wantPrice: "29.99",
			wantFound: true,
		},
		{
			name:      "Integer value",
			input:     45,
			wantPrice: "45",
			wantFound: true,
		},
		{
			name:      "Decimal value is idempotent",
			input:     decimal.RequireFromString("19.5"),
			wantPrice: "19.5",
			wantFound: true,
		},
		{
			name:      "JSON number",
			input:     json.Number("27.00"),
			wantPrice: "27",
			wantFound: true,
		},
		{
			name:      "String value goes through normalization",
			input:     "1.234,56 €",
			wantPrice: "1234.56",
			wantFound: true,
		},
		{
			name:      "Nil value",
			input:     nil,
			wantFound: false,
		},
		{
			name:      "Unsupported type",
			input:     []string{"29,99"},
			wantFound: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			price, found := NormalizePriceValue(tt.input)

			require.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.True(t, price.Equal(decimal.RequireFromString(tt.wantPrice)), "got %s, want %s", price, tt.wantPrice)
			}
		})
	}
}
