package notification

import (
	"context"
	"sync"

	"github.com/darkkaiser/price-hunter-server/config"
	applog "github.com/darkkaiser/price-hunter-server/pkg/log"
	log "github.com/sirupsen/logrus"
)

const component = "notification.service"

// NotifierID 알림 채널의 고유 식별자입니다.
type NotifierID string

// Sender 알림 발송 기능을 제공하는 인터페이스입니다.
// 외부 컴포넌트(API, 알림 평가 스케줄러 등)는 이 인터페이스를 통해 알림 서비스를 사용합니다.
type Sender interface {
	// Notify 지정된 NotifierID로 알림 메시지를 발송합니다.
	// 존재하지 않는 NotifierID인 경우 기본 Notifier로 오류 메시지가 발송됩니다.
	//
	// 반환값은 발송 요청이 큐에 등록되었는지 여부이며, 실제 전송 결과와는 무관합니다.
	Notify(notifierID string, message string) bool

	// NotifyDefault 기본 알림 채널로 메시지를 발송합니다.
	NotifyDefault(message string) bool
}

// NotifierHandler 알림 채널(예: Telegram)의 공통 인터페이스입니다.
type NotifierHandler interface {
	ID() NotifierID

	// Notify 알림 발송 요청을 큐에 등록합니다. 실제 발송은 Run 루프에서 비동기로 처리됩니다.
	Notify(message string) (succeeded bool)

	// Run Notifier의 메인 루프를 실행합니다. 메시지 큐를 소비하여 실제 발송 작업을 수행합니다.
	Run(notificationStopCtx context.Context, notificationStopWaiter *sync.WaitGroup)

	SupportsHTML() bool
}

// notifyRequest 내부 채널을 통해 전달되는 알림 데이터입니다.
type notifyRequest struct {
	message string
}

// notifier NotifierHandler의 기본 구현체입니다.
// 공통적인 알림 채널 처리 로직을 제공하며, 구체적인 구현체에 임베딩되어 사용됩니다.
type notifier struct {
	id NotifierID

	supportsHTML bool

	requestC chan *notifyRequest
}

func (n *notifier) ID() NotifierID {
	return n.id
}

// Notify 메시지를 큐에 등록하여 비동기 발송을 요청합니다.
// 전송 중 패닉이 발생해도 recover하여 서비스 안정성을 유지합니다.
func (n *notifier) Notify(message string) (succeeded bool) {
	defer func() {
		if r := recover(); r != nil {
			succeeded = false

			applog.WithComponentAndFields(component, log.Fields{
				"notifier_id": n.ID(),
				"panic":       r,
			}).Error("알림메시지 발송중에 panic 발생")
		}
	}()

	if n.requestC == nil {
		return false
	}

	n.requestC <- &notifyRequest{
		message: message,
	}

	return true
}

func (n *notifier) SupportsHTML() bool {
	return n.supportsHTML
}

// NotificationService 설정된 알림 채널들을 관리하고 메시지 발송을 중계하는 서비스입니다.
type NotificationService struct {
	config *config.AppConfig

	running   bool
	runningMu sync.Mutex

	defaultNotifierHandler NotifierHandler
	notifierHandlers       []NotifierHandler

	// newNotifierHandler 알림 채널 생성 함수, 테스트에서 대체할 수 있습니다.
	newNotifierHandler func(telegramConfig config.TelegramConfig) (NotifierHandler, error)

	notificationStopWaiter *sync.WaitGroup
}

// NewService NotificationService 객체를 생성한다.
func NewService(appConfig *config.AppConfig) *NotificationService {
	return &NotificationService{
		config: appConfig,

		running:   false,
		runningMu: sync.Mutex{},

		defaultNotifierHandler: nil,

		newNotifierHandler: func(telegramConfig config.TelegramConfig) (NotifierHandler, error) {
			return newTelegramNotifier(NotifierID(telegramConfig.ID), telegramConfig.BotToken, telegramConfig.ChatID)
		},

		notificationStopWaiter: &sync.WaitGroup{},
	}
}

// Run Notification 서비스를 시작합니다.
func (s *NotificationService) Run(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Debug("Notification 서비스 시작중...")

	if s.running == true {
		defer serviceStopWaiter.Done()

		applog.WithComponent(component).Warn("Notification 서비스가 이미 시작됨!!!")

		return nil
	}

	// Telegram Notifier의 작업을 시작한다.
	for _, telegram := range s.config.Notifiers.Telegrams {
		h, err := s.newNotifierHandler(telegram)
		if err != nil {
			defer serviceStopWaiter.Done()

			return err
		}
		s.notifierHandlers = append(s.notifierHandlers, h)

		s.notificationStopWaiter.Add(1)
		go h.Run(serviceStopCtx, s.notificationStopWaiter)

		applog.WithComponent(component).Debugf("'%s' Telegram Notifier가 Notification 서비스에 등록되었습니다.", telegram.ID)
	}

	// 기본 Notifier를 구한다.
	for _, h := range s.notifierHandlers {
		if h.ID() == NotifierID(s.config.Notifiers.DefaultNotifierID) {
			s.defaultNotifierHandler = h
			break
		}
	}

	go s.run0(serviceStopCtx, serviceStopWaiter)

	s.running = true

	applog.WithComponent(component).Debug("Notification 서비스 시작됨")

	return nil
}

func (s *NotificationService) run0(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) {
	defer serviceStopWaiter.Done()

	<-serviceStopCtx.Done()

	applog.WithComponent(component).Debug("Notification 서비스 중지중...")

	// 등록된 모든 Notifier의 작업이 중지될때까지 대기한다.
	s.notificationStopWaiter.Wait()

	s.runningMu.Lock()
	s.running = false
	s.notifierHandlers = nil
	s.defaultNotifierHandler = nil
	s.runningMu.Unlock()

	applog.WithComponent(component).Debug("Notification 서비스 중지됨")
}

// Notify 지정된 NotifierID로 알림 메시지를 발송합니다.
func (s *NotificationService) Notify(notifierID string, message string) bool {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	for _, h := range s.notifierHandlers {
		if h.ID() == NotifierID(notifierID) {
			return h.Notify(message)
		}
	}

	applog.WithComponent(component).Errorf("존재하지 않는 NotifierID('%s')입니다. 알림메시지 발송이 실패하였습니다.", notifierID)

	if s.defaultNotifierHandler != nil {
		s.defaultNotifierHandler.Notify(message)
	}

	return false
}

// NotifyDefault 기본 알림 채널로 메시지를 발송합니다.
func (s *NotificationService) NotifyDefault(message string) bool {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if s.defaultNotifierHandler == nil {
		return false
	}

	return s.defaultNotifierHandler.Notify(message)
}
