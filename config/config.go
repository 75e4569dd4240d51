package config

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/darkkaiser/price-hunter-server/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "price-hunter-server"

	// DefaultFilename 애플리케이션 초기화 시 참조하는 기본 설정 파일명입니다.
	// 실행 인자를 통해 명시적인 경로가 제공되지 않을 경우, 시스템은 이 파일을 탐색하여 구성을 로드합니다.
	DefaultFilename = AppName + ".json"

	// DefaultOxylabsEndpoint 스크래핑 업스트림(Oxylabs Realtime API)의 기본 엔드포인트입니다.
	DefaultOxylabsEndpoint = "https://realtime.oxylabs.io/v1/queries"

	// DefaultHistoryDays 가격 이력 조회 시 기본으로 적용되는 조회 기간(일)입니다.
	DefaultHistoryDays = 30
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug     bool           `json:"debug"`
	Oxylabs   OxylabsConfig  `json:"oxylabs"`
	Markets   []MarketConfig `json:"markets"`
	Store     StoreConfig    `json:"store"`
	Notifiers NotifierConfig `json:"notifiers"`
	Alert     AlertConfig    `json:"alert"`
	API       APIConfig      `json:"api"`
}

// OxylabsConfig 스크래핑 업스트림의 인증 및 엔드포인트 설정 구조체
type OxylabsConfig struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// MarketConfig 국가별 마켓플레이스 설정 구조체입니다.
// 하나의 마켓은 정확히 하나의 도메인과 하나의 지리적 위치 레이블을 가집니다.
type MarketConfig struct {
	Code         string `json:"code" validate:"required,len=2,uppercase"`
	Domain       string `json:"domain" validate:"required,fqdn"`
	GeoLocation  string `json:"geo_location" validate:"required"`
	AffiliateTag string `json:"affiliate_tag"`
}

// StoreConfig 가격 이력/알림 저장소 설정 구조체입니다.
// DSN이 비어있으면 저장소 없이(인메모리) 동작합니다.
type StoreConfig struct {
	DSN string `json:"dsn"`
}

// NotifierConfig 알림 설정 구조체
type NotifierConfig struct {
	DefaultNotifierID string           `json:"default_notifier_id"`
	Telegrams         []TelegramConfig `json:"telegrams"`
}

// TelegramConfig 텔레그램 알림 설정 구조체
type TelegramConfig struct {
	ID       string `json:"id" validate:"required"`
	BotToken string `json:"bot_token" validate:"required"`
	ChatID   int64  `json:"chat_id" validate:"required"`
}

// AlertConfig 알림 평가 스케줄 설정 구조체
type AlertConfig struct {
	Scheduler struct {
		Runnable bool   `json:"runnable"`
		TimeSpec string `json:"time_spec"`
	} `json:"scheduler"`
}

// APIConfig API 서버 설정 구조체
type APIConfig struct {
	ListenPort   int      `json:"listen_port" validate:"required,min=1,max=65535"`
	AllowOrigins []string `json:"allow_origins"`
	RateLimit    struct {
		RequestsPerSecond int `json:"requests_per_second"`
		Burst             int `json:"burst"`
	} `json:"rate_limit"`
}

var validate = validator.New()

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate() error {
	// 구조체 태그 기반 유효성 검사
	if err := validate.Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			fieldErr := validationErrors[0]
			return apperrors.Newf(apperrors.ErrInvalidInput, "설정값이 올바르지 않습니다 (필드: %s, 규칙: %s, 값: '%v')", fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Value())
		}
		return apperrors.Wrap(err, apperrors.ErrInvalidInput, "설정 검증 중 알 수 없는 오류가 발생했습니다")
	}

	// Oxylabs 인증정보 유효성 검사
	if err := c.Oxylabs.validate(); err != nil {
		return err
	}

	// Markets 유효성 검사
	if err := c.validateMarkets(); err != nil {
		return err
	}

	// Notifiers 유효성 검사
	notifierIDs, err := c.Notifiers.validate()
	if err != nil {
		return err
	}

	// Alert 스케줄 유효성 검사
	if err := c.Alert.validate(notifierIDs); err != nil {
		return err
	}

	return nil
}

func (c *OxylabsConfig) validate() error {
	c.Username = strings.TrimSpace(c.Username)
	c.Password = strings.TrimSpace(c.Password)

	// 매핑되지 않은 마켓과 마찬가지로, 인증정보 누락은 런타임 에러가 아닌 설정 오류로 취급합니다.
	if c.Username == "" || c.Password == "" {
		return apperrors.New(apperrors.ErrConfiguration, "스크래핑 업스트림 인증정보(username/password)가 입력되지 않았습니다")
	}
	return nil
}

func (c *AppConfig) validateMarkets() error {
	if len(c.Markets) == 0 {
		return apperrors.New(apperrors.ErrConfiguration, "하나 이상의 마켓이 설정되어야 합니다")
	}

	seen := make(map[string]struct{}, len(c.Markets))
	for _, m := range c.Markets {
		if _, exists := seen[m.Code]; exists {
			return apperrors.Newf(apperrors.ErrConfiguration, "마켓 코드('%s')가 중복 정의되었습니다", m.Code)
		}
		seen[m.Code] = struct{}{}
	}

	return nil
}

func (c *NotifierConfig) validate() ([]string, error) {
	var notifierIDs []string
	for _, telegram := range c.Telegrams {
		for _, id := range notifierIDs {
			if id == telegram.ID {
				return nil, apperrors.Newf(apperrors.ErrConfiguration, "NotifierID('%s')가 중복 정의되었습니다", telegram.ID)
			}
		}
		notifierIDs = append(notifierIDs, telegram.ID)
	}

	// 기본 NotifierID는 반드시 등록된 Notifier 중 하나를 가리켜야 합니다.
	if c.DefaultNotifierID != "" {
		if !contains(notifierIDs, c.DefaultNotifierID) {
			return nil, apperrors.Newf(apperrors.ErrConfiguration, "기본 NotifierID('%s')가 Notifier 목록에 존재하지 않습니다", c.DefaultNotifierID)
		}
	}

	return notifierIDs, nil
}

func (c *AlertConfig) validate(notifierIDs []string) error {
	if !c.Scheduler.Runnable {
		return nil
	}

	if strings.TrimSpace(c.Scheduler.TimeSpec) == "" {
		return apperrors.New(apperrors.ErrConfiguration, "알림 평가 스케줄러가 활성화되었지만 time_spec이 입력되지 않았습니다")
	}

	// Cron 스케줄 표현식의 유효성을 미리 검증하여, 런타임이 아닌 기동 시점에 실패하도록 합니다.
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.Scheduler.TimeSpec); err != nil {
		return apperrors.Wrap(err, apperrors.ErrConfiguration, fmt.Sprintf("알림 평가 스케줄의 time_spec('%s') 파싱에 실패했습니다", c.Scheduler.TimeSpec))
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// FindMarket 설정된 마켓 목록에서 코드가 일치하는 마켓을 찾아 반환합니다.
func (c *AppConfig) FindMarket(code string) (MarketConfig, bool) {
	for _, m := range c.Markets {
		if m.Code == code {
			return m, true
		}
	}
	return MarketConfig{}, false
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	err := k.Load(confmap.Provider(map[string]interface{}{
		"oxylabs.endpoint": DefaultOxylabsEndpoint,
		"api.listen_port":  8000,
	}, "."), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.ErrSystem, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: HUNTER_
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환 (계층 구조 표현)
	// 예: HUNTER_OXYLABS__USERNAME -> oxylabs.username
	if err := k.Load(env.Provider("HUNTER_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "HUNTER_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	var appConfig AppConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
			Result:           &appConfig,
		},
	}
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
