package alert

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/darkkaiser/price-hunter-server/config"
	"github.com/darkkaiser/price-hunter-server/pkg/errors"
	"github.com/darkkaiser/price-hunter-server/service/hunter"
	"github.com/darkkaiser/price-hunter-server/service/hunter/amazon"
	"github.com/darkkaiser/price-hunter-server/service/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResolver (식별자, 마켓)별로 고정된 가격을 반환하는 테스트용 PriceResolver입니다.
type stubResolver struct {
	quotes map[string]hunter.PriceQuote
	errs   map[string]error
}

func (r *stubResolver) CurrentPrice(_ context.Context, asin amazon.ASIN, market string) (hunter.PriceQuote, error) {
	key := string(asin) + "/" + market
	if err, ok := r.errs[key]; ok {
		return hunter.PriceQuote{}, err
	}
	if quote, ok := r.quotes[key]; ok {
		return quote, nil
	}
	return hunter.PriceQuote{}, errors.New(errors.ErrPriceNotFound, "상품의 가격을 찾을 수 없습니다.")
}

// stubSender 발송 요청을 기록하는 테스트용 Sender입니다.
type stubSender struct {
	mu   sync.Mutex
	sent map[string][]string

	failFor map[string]bool
}

func newStubSender() *stubSender {
	return &stubSender{
		sent:    map[string][]string{},
		failFor: map[string]bool{},
	}
}

func (s *stubSender) Notify(notifierID string, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[notifierID] {
		return false
	}
	s.sent[notifierID] = append(s.sent[notifierID], message)
	return true
}

func (s *stubSender) NotifyDefault(message string) bool {
	return s.Notify("default", message)
}

func alertTestConfig() *config.AppConfig {
	return &config.AppConfig{
		Markets: []config.MarketConfig{
			{Code: "FR", Domain: "amazon.fr", GeoLocation: "France"},
			{Code: "DE", Domain: "amazon.de", GeoLocation: "Germany"},
		},
	}
}

func quoteOf(asin, market, amount string) hunter.PriceQuote {
	return hunter.PriceQuote{
		ASIN:       amazon.ASIN(asin),
		Market:     market,
		Amount:     decimal.RequireFromString(amount),
		Currency:   "EUR",
		CapturedAt: time.Now(),
	}
}

func registerWatchRequest(t *testing.T, store storage.Store, asin, market, targetAmount, contact string) storage.WatchRequest {
	t.Helper()

	watchRequest := storage.WatchRequest{
		ID:           asin + "-" + market,
		ASIN:         asin,
		Market:       market,
		TargetAmount: decimal.RequireFromString(targetAmount),
		Contact:      contact,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, store.AppendWatchRequest(context.Background(), watchRequest))

	return watchRequest
}

func TestService_Evaluate_Threshold(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	registerWatchRequest(t, store, "B0AAAAAAA1", "FR", "20.00", "tg")
	registerWatchRequest(t, store, "B0BBBBBBB2", "FR", "20.00", "tg")

	resolver := &stubResolver{
		quotes: map[string]hunter.PriceQuote{
			"B0AAAAAAA1/FR": quoteOf("B0AAAAAAA1", "FR", "19.50"),
			"B0BBBBBBB2/FR": quoteOf("B0BBBBBBB2", "FR", "20.01"),
		},
	}

	sender := newStubSender()
	service := NewService(alertTestConfig(), resolver, store, sender)

	sentAlerts, err := service.Evaluate(context.Background())
	require.NoError(t, err)

	// 목표 가격 이하인 요청만 발화해야 한다. (경계값 포함)
	require.Len(t, sentAlerts, 1)
	assert.Equal(t, "B0AAAAAAA1", sentAlerts[0].ASIN)
	assert.Equal(t, "19.5", sentAlerts[0].Amount.String())

	require.Len(t, sender.sent["tg"], 1)
	assert.Contains(t, sender.sent["tg"][0], "B0AAAAAAA1")
	assert.Contains(t, sender.sent["tg"][0], "목표 가격")
	assert.Contains(t, sender.sent["tg"][0], "https://amazon.fr/dp/B0AAAAAAA1")
}

func TestService_Evaluate_ExactTargetFires(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	registerWatchRequest(t, store, "B0AAAAAAA1", "DE", "20.00", "tg")

	resolver := &stubResolver{
		quotes: map[string]hunter.PriceQuote{
			"B0AAAAAAA1/DE": quoteOf("B0AAAAAAA1", "DE", "20.00"),
		},
	}

	sender := newStubSender()
	sentAlerts, err := NewService(alertTestConfig(), resolver, store, sender).Evaluate(context.Background())
	require.NoError(t, err)

	require.Len(t, sentAlerts, 1)
	assert.Equal(t, "DE", sentAlerts[0].Market)
}

func TestService_Evaluate_ResolutionFailureSkipsRequest(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	registerWatchRequest(t, store, "B0AAAAAAA1", "FR", "20.00", "tg")
	registerWatchRequest(t, store, "B0BBBBBBB2", "FR", "20.00", "tg")

	resolver := &stubResolver{
		quotes: map[string]hunter.PriceQuote{
			"B0BBBBBBB2/FR": quoteOf("B0BBBBBBB2", "FR", "10.00"),
		},
		errs: map[string]error{
			"B0AAAAAAA1/FR": errors.New(errors.ErrUpstreamFailed, "업스트림 요청이 실패하였습니다."),
		},
	}

	sender := newStubSender()
	sentAlerts, err := NewService(alertTestConfig(), resolver, store, sender).Evaluate(context.Background())
	require.NoError(t, err)

	// 조회에 실패한 요청은 건너뛰고 나머지 요청의 평가는 계속되어야 한다.
	require.Len(t, sentAlerts, 1)
	assert.Equal(t, "B0BBBBBBB2", sentAlerts[0].ASIN)
}

func TestService_Evaluate_NotifyFailureIsIsolated(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	registerWatchRequest(t, store, "B0AAAAAAA1", "FR", "20.00", "tg-broken")
	registerWatchRequest(t, store, "B0BBBBBBB2", "FR", "20.00", "tg")

	resolver := &stubResolver{
		quotes: map[string]hunter.PriceQuote{
			"B0AAAAAAA1/FR": quoteOf("B0AAAAAAA1", "FR", "10.00"),
			"B0BBBBBBB2/FR": quoteOf("B0BBBBBBB2", "FR", "10.00"),
		},
	}

	sender := newStubSender()
	sender.failFor["tg-broken"] = true

	sentAlerts, err := NewService(alertTestConfig(), resolver, store, sender).Evaluate(context.Background())
	require.NoError(t, err)

	require.Len(t, sentAlerts, 1)
	assert.Equal(t, "B0BBBBBBB2", sentAlerts[0].ASIN)
}

func TestService_RunAndStop(t *testing.T) {
	appConfig := alertTestConfig()
	appConfig.Alert.Scheduler.Runnable = true
	appConfig.Alert.Scheduler.TimeSpec = "0 0 9 * * *"

	service := NewService(appConfig, &stubResolver{}, storage.NewMemoryStore(), newStubSender())

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWaiter := &sync.WaitGroup{}

	serviceStopWaiter.Add(1)
	require.NoError(t, service.Run(serviceStopCtx, serviceStopWaiter))

	done := make(chan struct{})
	go func() {
		cancel()
		serviceStopWaiter.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Alert 서비스가 제한시간 내에 중지되지 않았습니다.")
	}
}

func TestService_Run_InvalidTimeSpec(t *testing.T) {
	appConfig := alertTestConfig()
	appConfig.Alert.Scheduler.Runnable = true
	appConfig.Alert.Scheduler.TimeSpec = "not-a-cron-spec"

	service := NewService(appConfig, &stubResolver{}, storage.NewMemoryStore(), newStubSender())

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serviceStopWaiter := &sync.WaitGroup{}
	serviceStopWaiter.Add(1)

	require.Error(t, service.Run(serviceStopCtx, serviceStopWaiter))
}
