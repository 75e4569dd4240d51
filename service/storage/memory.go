package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore 메모리 기반의 Store 구현체입니다.
// 외부 데이터베이스가 설정되지 않은 환경과 테스트에서 사용됩니다. (프로세스 종료 시 데이터 소실)
type MemoryStore struct {
	mu            sync.RWMutex
	observations  []PriceObservation
	watchRequests []WatchRequest
}

// NewMemoryStore 새로운 메모리 기반 저장소를 생성합니다.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AppendObservation 가격 관측 레코드를 추가합니다.
func (s *MemoryStore) AppendObservation(_ context.Context, observation PriceObservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observations = append(s.observations, observation)
	return nil
}

// ObservationsSince 지정된 식별자의 관측 레코드를 since 이후 범위로 조회합니다.
func (s *MemoryStore) ObservationsSince(_ context.Context, asin string, since time.Time) ([]PriceObservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []PriceObservation
	for _, observation := range s.observations {
		if observation.ASIN != asin || observation.CapturedAt.Before(since) {
			continue
		}
		result = append(result, observation)
	}

	// 관측 시간 내림차순 정렬 (최신 관측이 먼저)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CapturedAt.After(result[j].CapturedAt)
	})

	return result, nil
}

// AppendWatchRequest 감시 요청을 추가합니다.
func (s *MemoryStore) AppendWatchRequest(_ context.Context, watchRequest WatchRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.watchRequests = append(s.watchRequests, watchRequest)
	return nil
}

// WatchRequests 등록된 모든 감시 요청을 등록 순서대로 반환합니다.
func (s *MemoryStore) WatchRequests(_ context.Context) ([]WatchRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]WatchRequest, len(s.watchRequests))
	copy(result, s.watchRequests)
	return result, nil
}
