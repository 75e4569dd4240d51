package amazon

import (
	"regexp"
	"strings"
)

// ASIN 아마존 카탈로그의 상품 고유 식별자(10자리 대문자 영숫자)입니다.
type ASIN string

func (a ASIN) String() string {
	return string(a)
}

// asinRegexp 사용자 입력에서 ASIN을 추출하기 위한 정규식입니다.
//
// 두 가지 형태를 인식합니다:
//   - 상품 페이지 URL의 경로 세그먼트: /dp/<ASIN>, /gp/product/<ASIN>
//   - 입력 전체가 ASIN 그 자체인 경우
//
// ASIN 문법은 대문자 영숫자이므로 URL 내의 소문자 표기는 매칭되지 않습니다.
var asinRegexp = regexp.MustCompile(`/(dp|gp/product)/([A-Z0-9]{10})|^([A-Z0-9]{10})$`)

// ExtractASIN 자유 형식의 사용자 입력(ASIN 또는 아마존 상품 URL)에서 ASIN을 추출합니다.
// 추출에 실패한 입력은 에러가 아닌 정상적인 '부재' 케이스로 취급하여 false를 반환합니다.
func ExtractASIN(userInput string) (ASIN, bool) {
	userInput = strings.TrimSpace(userInput)

	m := asinRegexp.FindStringSubmatch(userInput)
	if m == nil {
		return "", false
	}

	if m[2] != "" {
		return ASIN(m[2]), true
	}
	return ASIN(m[3]), true
}
