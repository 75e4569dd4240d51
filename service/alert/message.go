package alert

import (
	"fmt"
	"strings"

	"github.com/darkkaiser/price-hunter-server/service/hunter"
	"github.com/darkkaiser/price-hunter-server/service/hunter/amazon"
	"github.com/darkkaiser/price-hunter-server/service/storage"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// euroPrinter 유로화 금액 표기용 Printer입니다. 지원 마켓이 모두 유로존이므로 프랑스 로케일로 고정합니다.
var euroPrinter = message.NewPrinter(language.French)

// formatEuro 금액을 유로화 표기 문자열로 변환합니다. (예: "19,50 €")
func formatEuro(amount decimal.Decimal) string {
	return euroPrinter.Sprintf("%v", currency.Symbol(currency.EUR.Amount(amount.InexactFloat64())))
}

// renderAlertMessage 가격 알림메시지를 HTML 포맷으로 렌더링합니다.
func (s *Service) renderAlertMessage(watchRequest storage.WatchRequest, quote hunter.PriceQuote) string {
	var sb strings.Builder

	sb.WriteString("<b>[ 가격 알림 ]</b>\n\n")
	sb.WriteString(fmt.Sprintf("감시중인 상품(%s)의 가격이 목표 가격 이하로 내려갔습니다.\n\n", watchRequest.ASIN))
	sb.WriteString(fmt.Sprintf("○ 마켓 : %s\n", quote.Market))
	sb.WriteString(fmt.Sprintf("○ 현재 가격 : %s\n", formatEuro(quote.Amount)))
	sb.WriteString(fmt.Sprintf("○ 목표 가격 : %s\n", formatEuro(watchRequest.TargetAmount)))

	if market, ok := s.config.FindMarket(quote.Market); ok {
		sb.WriteString(fmt.Sprintf("\n%s", hunter.OutboundLink(amazon.ASIN(watchRequest.ASIN), market)))
	}

	return sb.String()
}
