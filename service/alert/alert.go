package alert

import (
	"context"
	"sync"

	"github.com/darkkaiser/price-hunter-server/config"
	applog "github.com/darkkaiser/price-hunter-server/pkg/log"
	"github.com/darkkaiser/price-hunter-server/service/hunter"
	"github.com/darkkaiser/price-hunter-server/service/hunter/amazon"
	"github.com/darkkaiser/price-hunter-server/service/notification"
	"github.com/darkkaiser/price-hunter-server/service/storage"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const component = "alert.service"

// PriceResolver 현재 가격 조회 기능을 제공하는 인터페이스입니다.
// hunter.Service가 이 인터페이스를 구현합니다.
type PriceResolver interface {
	CurrentPrice(ctx context.Context, asin amazon.ASIN, market string) (hunter.PriceQuote, error)
}

// SentAlert 발송된 가격 알림의 요약입니다.
type SentAlert struct {
	WatchRequestID string
	Contact        string
	ASIN           string
	Market         string
	Amount         decimal.Decimal
}

// Service 등록된 감시 요청을 주기적으로 평가하여 목표 가격 도달 시 알림을 발송하는 서비스입니다.
//
// 조건을 충족한 감시 요청은 발송 이후에도 비활성화되지 않으며, 다음 평가에서 다시 발화할 수 있습니다.
type Service struct {
	config *config.AppConfig

	resolver PriceResolver
	store    storage.Store
	sender   notification.Sender

	cron *cron.Cron

	running   bool
	runningMu sync.Mutex
}

// NewService Service 객체를 생성한다.
func NewService(appConfig *config.AppConfig, resolver PriceResolver, store storage.Store, sender notification.Sender) *Service {
	return &Service{
		config: appConfig,

		resolver: resolver,
		store:    store,
		sender:   sender,
	}
}

// Run 알림 평가 스케줄러를 시작합니다.
func (s *Service) Run(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Debug("Alert 서비스 시작중...")

	if s.running == true {
		defer serviceStopWaiter.Done()

		applog.WithComponent(component).Warn("Alert 서비스가 이미 시작됨!!!")

		return nil
	}

	if s.config.Alert.Scheduler.Runnable {
		// Cron 인스턴스 초기화: 초 단위 스케줄링 지원 및 로거, 미들웨어 설정
		s.cron = cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cron.VerbosePrintfLogger(log.StandardLogger())),
			cron.WithChain(
				cron.Recover(cron.VerbosePrintfLogger(log.StandardLogger())),            // Panic 복구
				cron.SkipIfStillRunning(cron.VerbosePrintfLogger(log.StandardLogger())), // 이전 평가가 끝나지 않았으면 스킵
			),
		)

		_, err := s.cron.AddFunc(s.config.Alert.Scheduler.TimeSpec, func() {
			if _, err := s.Evaluate(context.Background()); err != nil {
				applog.WithComponent(component).Errorf("감시 요청 평가가 실패하였습니다.(error:%s)", err)
			}
		})
		if err != nil {
			defer serviceStopWaiter.Done()

			return err
		}

		s.cron.Start()

		applog.WithComponentAndFields(component, log.Fields{
			"time_spec": s.config.Alert.Scheduler.TimeSpec,
		}).Info("알림 평가 스케쥴러 시작됨")
	}

	go s.run0(serviceStopCtx, serviceStopWaiter)

	s.running = true

	applog.WithComponent(component).Debug("Alert 서비스 시작됨")

	return nil
}

func (s *Service) run0(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) {
	defer serviceStopWaiter.Done()

	<-serviceStopCtx.Done()

	applog.WithComponent(component).Debug("Alert 서비스 중지중...")

	s.runningMu.Lock()
	if s.cron != nil {
		// 진행중인 평가가 끝날때까지 대기한다.
		<-s.cron.Stop().Done()
		s.cron = nil
	}
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(component).Debug("Alert 서비스 중지됨")
}

// Evaluate 등록된 모든 감시 요청을 평가하고 발송된 알림 목록을 반환합니다.
//
// 개별 감시 요청의 가격 조회 실패는 해당 요청만 건너뛰며, 알림 발송 실패도
// 다른 요청의 평가에 영향을 주지 않습니다.
func (s *Service) Evaluate(ctx context.Context) ([]SentAlert, error) {
	watchRequests, err := s.store.WatchRequests(ctx)
	if err != nil {
		return nil, err
	}

	var sentAlerts []SentAlert
	for _, watchRequest := range watchRequests {
		quote, err := s.resolver.CurrentPrice(ctx, amazon.ASIN(watchRequest.ASIN), watchRequest.Market)
		if err != nil {
			applog.WithComponentAndFields(component, log.Fields{
				"watch_request_id": watchRequest.ID,
				"asin":             watchRequest.ASIN,
				"market":           watchRequest.Market,
			}).Warnf("감시중인 상품의 가격 조회가 실패하였습니다.(error:%s)", err)

			continue
		}

		if quote.Amount.GreaterThan(watchRequest.TargetAmount) {
			continue
		}

		message := s.renderAlertMessage(watchRequest, quote)
		if s.sender.Notify(watchRequest.Contact, message) == false {
			applog.WithComponentAndFields(component, log.Fields{
				"watch_request_id": watchRequest.ID,
				"contact":          watchRequest.Contact,
			}).Error("가격 알림메시지 발송이 실패하였습니다.")

			continue
		}

		sentAlerts = append(sentAlerts, SentAlert{
			WatchRequestID: watchRequest.ID,
			Contact:        watchRequest.Contact,
			ASIN:           watchRequest.ASIN,
			Market:         quote.Market,
			Amount:         quote.Amount,
		})
	}

	return sentAlerts, nil
}
