package hunter

import (
	"context"
	"sort"
	"time"

	"github.com/darkkaiser/price-hunter-server/config"
	"github.com/darkkaiser/price-hunter-server/pkg/errors"
	applog "github.com/darkkaiser/price-hunter-server/pkg/log"
	"github.com/darkkaiser/price-hunter-server/service/hunter/amazon"
	"github.com/darkkaiser/price-hunter-server/service/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// historyWindow 가격 이력 조회의 기본 조회 범위입니다.
const historyWindow = config.DefaultHistoryDays * 24 * time.Hour

// Service 여러 마켓에 걸친 가격 비교와 이력/감시 요청 처리를 담당합니다.
type Service struct {
	markets []config.MarketConfig

	resolver *Resolver

	// store가 nil이면 관측 기록과 이력/감시 기능 없이 비교만 수행합니다.
	store storage.Store
}

// NewService Service 객체를 생성한다.
func NewService(appConfig *config.AppConfig, resolver *Resolver, store storage.Store) *Service {
	return &Service{
		markets:  appConfig.Markets,
		resolver: resolver,
		store:    store,
	}
}

// Compare 사용자 입력에서 식별자를 추출하여 설정된 모든 마켓의 가격을 비교합니다.
//
// 개별 마켓의 실패는 전체 결과를 실패시키지 않으며 해당 마켓만 결과에서 제외됩니다.
// 모든 마켓에서 가격을 찾지 못한 경우에만 ErrPriceNotFound 유형의 에러를 반환합니다.
func (s *Service) Compare(ctx context.Context, userInput string) (ComparisonResult, error) {
	asin, ok := amazon.ExtractASIN(userInput)
	if !ok {
		return ComparisonResult{}, errors.Newf(errors.ErrInvalidInput, "입력값에서 상품 식별자를 추출할 수 없습니다. (input:%s)", userInput)
	}

	result := ComparisonResult{
		ASIN: asin,
	}

	// 마켓별 조회 결과를 모두 수집한 뒤, 실패한 마켓을 걸러내는 정책을 명시적인 단계로 적용합니다.
	for _, marketResult := range s.resolveAllMarkets(ctx, asin) {
		if marketResult.err != nil {
			// 다른 마켓의 비교 결과는 여전히 유효하므로 기록만 남기고 결과에서 제외합니다.
			applog.WithComponentAndFields(component, map[string]interface{}{
				"asin":   asin,
				"market": marketResult.market.Code,
			}).Warnf("마켓의 가격 조회가 실패하였습니다. (error:%s)", marketResult.err)

			continue
		}

		s.recordObservation(ctx, marketResult.quote)

		result.Items = append(result.Items, ComparisonItem{
			Market:   marketResult.quote.Market,
			Amount:   marketResult.quote.Amount,
			Currency: marketResult.quote.Currency,
			Link:     OutboundLink(asin, marketResult.market),
		})
	}

	if len(result.Items) == 0 {
		return ComparisonResult{}, errors.Newf(errors.ErrPriceNotFound, "모든 마켓에서 상품의 가격을 찾을 수 없습니다. (asin:%s)", asin)
	}

	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].Amount.LessThan(result.Items[j].Amount)
	})

	return result, nil
}

// marketResult 하나의 마켓에 대한 가격 조회 결과(성공 또는 실패)입니다.
type marketResult struct {
	market config.MarketConfig
	quote  PriceQuote
	err    error
}

// resolveAllMarkets 설정된 모든 마켓의 가격을 순차적으로 조회하여 마켓 순서대로 결과를 반환합니다.
func (s *Service) resolveAllMarkets(ctx context.Context, asin amazon.ASIN) []marketResult {
	results := make([]marketResult, 0, len(s.markets))
	for _, market := range s.markets {
		quote, err := s.resolver.Resolve(ctx, asin, market)
		results = append(results, marketResult{
			market: market,
			quote:  quote,
			err:    err,
		})
	}
	return results
}

// recordObservation 조회된 가격을 이력 저장소에 기록합니다. 기록 실패는 비교 결과에 영향을 주지 않습니다.
func (s *Service) recordObservation(ctx context.Context, quote PriceQuote) {
	if s.store == nil {
		return
	}

	err := s.store.AppendObservation(ctx, storage.PriceObservation{
		ASIN:       string(quote.ASIN),
		Market:     quote.Market,
		Amount:     quote.Amount,
		Currency:   quote.Currency,
		CapturedAt: quote.CapturedAt,
	})
	if err != nil {
		applog.WithComponent(component).Warnf("가격 관측 기록이 실패하였습니다. (error:%s)", err)
	}
}

// History 지정된 식별자의 최근 가격 이력을 반환합니다.
func (s *Service) History(ctx context.Context, userInput string) ([]storage.PriceObservation, error) {
	asin, ok := amazon.ExtractASIN(userInput)
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidInput, "입력값에서 상품 식별자를 추출할 수 없습니다. (input:%s)", userInput)
	}

	if s.store == nil {
		return nil, errors.New(errors.ErrStorageFailed, "가격 이력 저장소가 설정되지 않았습니다.")
	}

	return s.store.ObservationsSince(ctx, string(asin), time.Now().Add(-historyWindow))
}

// RegisterWatchRequest 가격 감시 요청을 등록하고 발급된 요청을 반환합니다.
func (s *Service) RegisterWatchRequest(ctx context.Context, userInput, market string, targetAmount decimal.Decimal, contact string) (storage.WatchRequest, error) {
	asin, ok := amazon.ExtractASIN(userInput)
	if !ok {
		return storage.WatchRequest{}, errors.Newf(errors.ErrInvalidInput, "입력값에서 상품 식별자를 추출할 수 없습니다. (input:%s)", userInput)
	}

	if market != storage.MarketAny {
		if _, ok := s.findMarket(market); !ok {
			return storage.WatchRequest{}, errors.Newf(errors.ErrInvalidInput, "지원되지 않는 마켓입니다. (market:%s)", market)
		}
	}

	if !targetAmount.IsPositive() {
		return storage.WatchRequest{}, errors.New(errors.ErrInvalidInput, "목표 가격은 0보다 커야 합니다.")
	}

	if s.store == nil {
		return storage.WatchRequest{}, errors.New(errors.ErrStorageFailed, "감시 요청 저장소가 설정되지 않았습니다.")
	}

	watchRequest := storage.WatchRequest{
		ID:           uuid.NewString(),
		ASIN:         string(asin),
		Market:       market,
		TargetAmount: targetAmount,
		Contact:      contact,
		CreatedAt:    time.Now(),
	}

	if err := s.store.AppendWatchRequest(ctx, watchRequest); err != nil {
		return storage.WatchRequest{}, err
	}

	return watchRequest, nil
}

// CurrentPrice 지정된 마켓의 현재 가격을 조회합니다.
//
// market이 storage.MarketAny이면 모든 마켓을 조회하여 가장 저렴한 가격을 반환하며,
// 이 경우 개별 마켓의 실패는 건너뜁니다.
func (s *Service) CurrentPrice(ctx context.Context, asin amazon.ASIN, market string) (PriceQuote, error) {
	if market != storage.MarketAny {
		marketConfig, ok := s.findMarket(market)
		if !ok {
			return PriceQuote{}, errors.Newf(errors.ErrInvalidInput, "지원되지 않는 마켓입니다. (market:%s)", market)
		}
		return s.resolver.Resolve(ctx, asin, marketConfig)
	}

	var cheapest PriceQuote
	var found bool
	for _, marketResult := range s.resolveAllMarkets(ctx, asin) {
		if marketResult.err != nil {
			continue
		}
		if !found || marketResult.quote.Amount.LessThan(cheapest.Amount) {
			cheapest = marketResult.quote
			found = true
		}
	}
	if !found {
		return PriceQuote{}, errors.Newf(errors.ErrPriceNotFound, "모든 마켓에서 상품의 가격을 찾을 수 없습니다. (asin:%s)", asin)
	}

	return cheapest, nil
}

// Markets 설정된 마켓 목록을 반환합니다.
func (s *Service) Markets() []config.MarketConfig {
	return s.markets
}

func (s *Service) findMarket(code string) (config.MarketConfig, bool) {
	for _, market := range s.markets {
		if market.Code == code {
			return market, true
		}
	}
	return config.MarketConfig{}, false
}
