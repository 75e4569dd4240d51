package scraper

import (
	"net/http"
	"time"
)

const (
	// requestTimeout 업스트림 호출 1건에 적용되는 고정 데드라인입니다.
	// 업스트림이 실제 상품 페이지를 프록시 경유로 렌더링하기 때문에 일반 API보다 길게 설정합니다.
	// 재시도나 백오프는 수행하지 않습니다.
	requestTimeout = 60 * time.Second
)

// Fetcher HTTP 요청을 수행하는 인터페이스입니다.
// 테스트에서 네트워크 접근 없이 가짜 업스트림으로 대체할 수 있도록 분리되어 있습니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher 고정 타임아웃이 내장된 기본 HTTP 클라이언트 구현체입니다.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher 기본 타임아웃 설정이 포함된 새로운 HTTPFetcher 인스턴스를 생성합니다.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Do 커스텀 HTTP 요청을 실행합니다.
func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}
