package notification

import (
	"testing"

	"go.uber.org/goleak"
)

// Sender 인터페이스 구현 검증
var _ Sender = (*NotificationService)(nil)

func TestMain(m *testing.M) {
	// 서비스 종료 후 고루틴 누수가 없음을 검증한다.
	goleak.VerifyTestMain(m)
}
