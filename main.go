package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/darkkaiser/price-hunter-server/config"
	applog "github.com/darkkaiser/price-hunter-server/pkg/log"
	"github.com/darkkaiser/price-hunter-server/service"
	"github.com/darkkaiser/price-hunter-server/service/alert"
	"github.com/darkkaiser/price-hunter-server/service/api"
	"github.com/darkkaiser/price-hunter-server/service/hunter"
	"github.com/darkkaiser/price-hunter-server/service/notification"
	"github.com/darkkaiser/price-hunter-server/service/scraper"
	"github.com/darkkaiser/price-hunter-server/service/storage"
	log "github.com/sirupsen/logrus"
)

// 빌드 정보 변수 (Dockerfile의 ldflags로 주입됨)
var (
	Version     = "dev"     // Git 커밋 해시
	BuildDate   = "unknown" // 빌드 날짜
	BuildNumber = "0"       // 빌드 번호
)

const (
	// 로그 파일 보관 기간(일)
	logFileRetentionDays = 30

	banner = `
  ____        _              _   _                _
 |  _ \  _ __ (_)  ___  ___  | | | | _   _  _ __  | |_  ___  _ __
 | |_) || '__|| | / __|/ _ \ | |_| || | | || '_ \ | __|/ _ \| '__|
 |  __/ | |   | || (__|  __/ |  _  || |_| || | | || |_|  __/| |
 |_|    |_|   |_| \___|\___| |_| |_| \__,_||_| |_| \__|\___||_|
                                                                 v%s
                                                developed by DarkKaiser
-----------------------------------------------------------------------
`
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU()) // 모든 CPU 사용

	// 환경설정 정보를 읽어들인다.
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("환경설정 정보 읽기가 실패하였습니다.(error:%s)", err)
	}

	// 로그를 초기화한다.
	logCloser := applog.InitFile(config.AppName, logFileRetentionDays)
	defer logCloser.Close()
	applog.SetDebugMode(appConfig.Debug)
	applog.SetCallerPathPrefix("github.com/darkkaiser/price-hunter-server/")

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	fmt.Printf(banner, Version)

	// 빌드 정보 출력
	log.Infof("빌드 정보 - 버전: %s, 빌드 날짜: %s, 빌드 번호: %s", Version, BuildDate, BuildNumber)
	log.Infof("Go 버전: %s, OS/Arch: %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	// 가격 이력/감시 요청 저장소를 초기화한다.
	var store storage.Store
	if appConfig.Store.DSN != "" {
		postgresStore, err := storage.NewPostgresStore(context.Background(), appConfig.Store.DSN)
		if err != nil {
			log.Fatalf("저장소 초기화가 실패하였습니다.(error:%s)", err)
		}
		defer postgresStore.Close()

		store = postgresStore
	} else {
		log.Warn("저장소 DSN이 설정되지 않아 인메모리 저장소로 동작합니다. 프로세스 종료 시 데이터가 유실됩니다.")

		store = storage.NewMemoryStore()
	}

	// 서비스를 생성하고 초기화한다.
	source := scraper.NewOxylabsSource(appConfig.Oxylabs, scraper.NewHTTPFetcher())
	hunterService := hunter.NewService(appConfig, hunter.NewResolver(source), store)
	notificationService := notification.NewService(appConfig)
	alertService := alert.NewService(appConfig, hunterService, store, notificationService)

	apiHandler := api.NewHandler(hunterService, alertService, api.BuildInfo{
		Version:     Version,
		BuildDate:   BuildDate,
		BuildNumber: BuildNumber,
	})
	apiService := api.NewService(appConfig, apiHandler)

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWaiter := &sync.WaitGroup{}

	// 서비스를 시작한다.
	services := []service.Service{notificationService, alertService, apiService}
	for _, s := range services {
		serviceStopWaiter.Add(1)
		if err := s.Run(serviceStopCtx, serviceStopWaiter); err != nil {
			log.Errorf("서비스 시작 실패: %v", err)
			cancel() // 다른 서비스들도 종료
			serviceStopWaiter.Wait()
			log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	<-termC // Blocks here until interrupted

	// Handle shutdown
	log.Info("Shutdown signal received")
	cancel()                 // Signal cancellation to context.Context
	serviceStopWaiter.Wait() // Block here until are workers are done
}
