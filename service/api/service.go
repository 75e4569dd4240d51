package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/darkkaiser/price-hunter-server/config"
	"github.com/darkkaiser/price-hunter-server/pkg/errors"
	applog "github.com/darkkaiser/price-hunter-server/pkg/log"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const component = "api.service"

// shutdownTimeout 서버 종료 시 대기 시간
const shutdownTimeout = 5 * time.Second

// APIService HTTP API 서버의 생명주기를 관리하는 서비스입니다.
//
// Echo 기반 HTTP 서버의 시작/종료와 Graceful Shutdown을 담당하며,
// 서비스는 고루틴으로 실행되고 context를 통해 종료 신호를 받습니다.
type APIService struct {
	appConfig *config.AppConfig

	running   bool
	runningMu sync.Mutex

	handler *Handler
}

// NewService APIService 객체를 생성한다.
func NewService(appConfig *config.AppConfig, handler *Handler) *APIService {
	return &APIService{
		appConfig: appConfig,

		running:   false,
		runningMu: sync.Mutex{},

		handler: handler,
	}
}

// Run API 서비스를 시작합니다.
func (s *APIService) Run(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Debug("API 서비스 시작중...")

	if s.handler == nil {
		defer serviceStopWaiter.Done()

		return errors.New(errors.ErrInternal, "Handler 객체가 초기화되지 않았습니다.")
	}

	if s.running == true {
		defer serviceStopWaiter.Done()

		applog.WithComponent(component).Warn("API 서비스가 이미 시작됨!!!")

		return nil
	}

	go s.run0(serviceStopCtx, serviceStopWaiter)

	s.running = true

	applog.WithComponent(component).Debug("API 서비스 시작됨")

	return nil
}

func (s *APIService) run0(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) {
	defer serviceStopWaiter.Done()

	e := NewHTTPServer(HTTPServerConfig{
		Debug:        s.appConfig.Debug,
		AllowOrigins: s.appConfig.API.AllowOrigins,

		RateLimitRequestsPerSecond: s.appConfig.API.RateLimit.RequestsPerSecond,
		RateLimitBurst:             s.appConfig.API.RateLimit.Burst,
	})

	SetupRoutes(e, s.handler)

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// startHTTPServer HTTP 서버를 시작합니다. 서버가 종료될 때까지 블로킹됩니다.
func (s *APIService) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.API.ListenPort
	applog.WithComponentAndFields(component, log.Fields{
		"port": port,
	}).Debug("API 서비스 > http 서버 시작")

	if err := e.Start(fmt.Sprintf(":%d", port)); err != nil && stderrors.Is(err, http.ErrServerClosed) == false {
		applog.WithComponent(component).Errorf("API 서비스 > http 서버 구동이 실패하였습니다.(error:%s)", err)
	}
}

// waitForShutdown 종료 신호를 대기하고 Graceful Shutdown을 수행합니다.
func (s *APIService) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(component).Debug("API 서비스 중지중...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			applog.WithComponent(component).Errorf("API 서비스 > http 서버의 종료가 실패하였습니다.(error:%s)", err)
		}

		<-httpServerDone

	case <-httpServerDone:
		// 서버가 종료 신호 이전에 끝난 경우 (구동 실패 등)
	}

	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(component).Debug("API 서비스 중지됨")
}
