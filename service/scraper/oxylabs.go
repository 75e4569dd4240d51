package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/darkkaiser/price-hunter-server/config"
	apperrors "github.com/darkkaiser/price-hunter-server/pkg/errors"
	applog "github.com/darkkaiser/price-hunter-server/pkg/log"
	log "github.com/sirupsen/logrus"
)

const (
	// maxResponseBodySize 업스트림 응답 본문의 최대 크기입니다.
	// 상품 페이지 마크업 전체가 JSON 문자열로 내려오므로 넉넉하게 잡되, 무제한 수신은 방지합니다.
	maxResponseBodySize = 10 * 1024 * 1024 // 10MB

	// errorBodySnippetSize 업스트림 에러 응답을 로그/에러 메시지에 남길 때의 최대 길이입니다.
	errorBodySnippetSize = 200
)

// StructuredProductRequest 구조화 모드(parse=true)로 상품 정보를 조회하는 요청입니다.
type StructuredProductRequest struct {
	Query       string // 카탈로그 식별자(ASIN)
	Domain      string // 마켓플레이스 도메인 (예: amazon.fr)
	GeoLocation string // 지리적 위치 레이블 (예: France)
}

// RawPageRequest 상품 페이지 마크업 원문을 조회하는 요청입니다.
type RawPageRequest struct {
	URL         string // 상품 상세 페이지의 전체 URL
	GeoLocation string // 지리적 위치 레이블
}

// Source 업스트림 스크래핑 소스에 대한 접근을 추상화하는 인터페이스입니다.
//
// 두 요청 모드의 실패 유형을 구분하는 것이 중요합니다:
//   - 전송 레벨 실패(4xx/5xx, 네트워크 에러)는 에러로 보고됩니다.
//   - 요청은 성공했지만 원하는 데이터가 없는 경우는 에러가 아니며, 호출부의 폴백 전략 대상입니다.
type Source interface {
	// FetchStructuredProduct 구조화 모드로 상품을 조회하고 파싱된 응답 본문(JSON)을 반환합니다.
	// 응답에 결과가 없으면 nil을 반환합니다. (에러 아님)
	FetchStructuredProduct(ctx context.Context, req StructuredProductRequest) ([]byte, error)

	// FetchRawPage 상품 페이지의 마크업 원문을 반환합니다.
	FetchRawPage(ctx context.Context, req RawPageRequest) (string, error)
}

// OxylabsSource Oxylabs Realtime API를 사용하는 Source 구현체입니다.
type OxylabsSource struct {
	endpoint string
	username string
	password string

	fetcher Fetcher
}

// NewOxylabsSource 새로운 OxylabsSource 인스턴스를 생성합니다.
func NewOxylabsSource(oxylabsConfig config.OxylabsConfig, fetcher Fetcher) *OxylabsSource {
	return &OxylabsSource{
		endpoint: oxylabsConfig.Endpoint,
		username: oxylabsConfig.Username,
		password: oxylabsConfig.Password,

		fetcher: fetcher,
	}
}

// structuredProductPayload 구조화 모드 요청의 전송 페이로드입니다.
type structuredProductPayload struct {
	Source      string `json:"source"`
	Query       string `json:"query"`
	Domain      string `json:"domain"`
	GeoLocation string `json:"geo_location"`
	Parse       bool   `json:"parse"`
}

// rawPagePayload HTML 모드 요청의 전송 페이로드입니다.
type rawPagePayload struct {
	Source      string `json:"source"`
	URL         string `json:"url"`
	GeoLocation string `json:"geo_location"`
}

// resultEnvelope 업스트림 응답의 공통 봉투 구조입니다.
// 첫 번째 결과의 content가 파싱된 객체(구조화 모드)이거나 마크업 문자열(HTML 모드)입니다.
type resultEnvelope struct {
	Results []struct {
		Content json.RawMessage `json:"content"`
	} `json:"results"`
}

// FetchStructuredProduct 구조화 모드로 상품을 조회합니다.
func (s *OxylabsSource) FetchStructuredProduct(ctx context.Context, req StructuredProductRequest) ([]byte, error) {
	payload := structuredProductPayload{
		Source:      "amazon_product",
		Query:       req.Query,
		Domain:      req.Domain,
		GeoLocation: req.GeoLocation,
		Parse:       true,
	}

	envelope, err := s.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	if len(envelope.Results) == 0 || len(envelope.Results[0].Content) == 0 {
		return nil, nil
	}
	return envelope.Results[0].Content, nil
}

// FetchRawPage 상품 페이지의 마크업 원문을 조회합니다.
// 응답 content가 비어있는 경우는 업스트림 실패로 취급합니다. (폴백할 다른 전략이 없음)
func (s *OxylabsSource) FetchRawPage(ctx context.Context, req RawPageRequest) (string, error) {
	payload := rawPagePayload{
		Source:      "amazon",
		URL:         req.URL,
		GeoLocation: req.GeoLocation,
	}

	envelope, err := s.post(ctx, payload)
	if err != nil {
		return "", err
	}

	if len(envelope.Results) == 0 || len(envelope.Results[0].Content) == 0 {
		return "", apperrors.New(apperrors.ErrUpstreamFailed, "업스트림이 비어있는 페이지 content를 반환했습니다")
	}

	var markup string
	if err := json.Unmarshal(envelope.Results[0].Content, &markup); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrUpstreamFailed, "업스트림 페이지 content의 디코딩에 실패했습니다")
	}
	if markup == "" {
		return "", apperrors.New(apperrors.ErrUpstreamFailed, "업스트림이 비어있는 페이지 content를 반환했습니다")
	}

	return markup, nil
}

// post 업스트림 엔드포인트로 JSON 페이로드를 전송하고 응답 봉투를 디코딩합니다.
// 호출 1건마다 고정 데드라인이 적용된 새로운 트랜잭션이며, 실패 시 재시도하지 않습니다.
func (s *OxylabsSource) post(ctx context.Context, payload interface{}) (*resultEnvelope, error) {
	start := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "업스트림 요청 페이로드 마샬링에 실패했습니다")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "업스트림 요청 생성에 실패했습니다")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.username, s.password)

	resp, err := s.fetcher.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstreamFailed, "업스트림 요청 전송 중 네트워크 에러가 발생했습니다")
	}
	defer resp.Body.Close() // 응답을 받은 즉시 defer 설정하여 리소스 누수 방지

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstreamFailed, "업스트림 응답 본문을 읽는데 실패했습니다")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		snippet := string(respBody)
		if len(snippet) > errorBodySnippetSize {
			snippet = snippet[:errorBodySnippetSize]
		}
		return nil, apperrors.Newf(apperrors.ErrUpstreamFailed, "업스트림 요청이 실패했습니다 (상태 코드: %d, 응답: %s)", resp.StatusCode, snippet)
	}

	var envelope resultEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstreamFailed, "업스트림 응답 봉투의 디코딩에 실패했습니다")
	}

	applog.WithComponentAndFields("scraper", log.Fields{
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("업스트림 요청 완료")

	return &envelope, nil
}
