package service

import (
	"context"
	"sync"
)

// Service 애플리케이션을 구성하는 단위 서비스가 구현해야 하는 인터페이스입니다.
// 각 서비스는 Run 호출 시 고루틴으로 실행되며, serviceStopCtx가 취소되면 종료 절차를 수행한 뒤
// serviceStopWaiter를 통해 종료 완료를 알립니다.
type Service interface {
	Run(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) error
}
