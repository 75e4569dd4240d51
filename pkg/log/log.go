package log

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// 호출자 경로에서 축약할 prefix
	callerFunctionPathPrefix = ""
)

const (
	// 로그 파일이 저장될 디렉토리 이름
	defaultLogDirectoryName = "logs"

	// 로그 파일의 확장자
	defaultLogFileExtension = "log"

	// 로그 파일 하나의 최대 크기(MB), 롤링 기준
	defaultLogFileMaxSizeMB = 100

	// 롤링된 로그 파일의 최대 보관 개수
	defaultLogFileMaxBackups = 10
)

func init() {
	log.SetLevel(log.TraceLevel)
	log.SetReportCaller(true)
	log.SetFormatter(&log.TextFormatter{
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			function = fmt.Sprintf("%s(line:%d)", frame.Function, frame.Line)
			if callerFunctionPathPrefix != "" && strings.HasPrefix(function, callerFunctionPathPrefix) {
				function = "..." + function[len(callerFunctionPathPrefix):]
			}

			return
		},
	})
}

// InitFile 로그 파일 출력을 초기화합니다.
// 이 함수는 환경설정 로드 전에 호출하여 모든 로그가 파일에 기록되도록 합니다.
// 로그 파일은 크기 및 보관 기간(retentionDays) 기준으로 자동 롤링되며, 만료된 파일은 삭제됩니다.
// Debug 모드 설정은 SetDebugMode()를 통해 별도로 수행합니다.
func InitFile(appName string, retentionDays int) io.Closer {
	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(defaultLogDirectoryName, fmt.Sprintf("%s.%s", appName, defaultLogFileExtension)),
		MaxSize:    defaultLogFileMaxSizeMB,
		MaxBackups: defaultLogFileMaxBackups,
		MaxAge:     retentionDays,
		LocalTime:  true,
	}

	log.SetOutput(logFile)

	return logFile
}

// SetCallerPathPrefix 호출자 정보에서 축약할 경로 prefix를 설정합니다.
// main() 함수 초기에 호출하여 호출자 경로 표시를 커스터마이징할 수 있습니다.
// 예제: SetCallerPathPrefix("github.com/darkkaiser")
func SetCallerPathPrefix(prefix string) {
	callerFunctionPathPrefix = prefix
}

// SetDebugMode Debug 모드에 따라 로그 레벨을 설정합니다.
// - Debug 모드: Trace 레벨 (모든 로그 출력)
// - 운영 모드: Info 레벨 (Info, Warn, Error, Fatal만 출력)
func SetDebugMode(debug bool) {
	if debug {
		log.SetLevel(log.TraceLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// WithComponent component 필드를 포함한 로그 Entry를 반환합니다.
// 로그 발생 위치(서비스, 패키지 등)를 식별하기 위해 사용합니다.
func WithComponent(component string) *log.Entry {
	return log.WithField("component", component)
}

// WithComponentAndFields component 필드와 추가 필드를 포함한 로그 Entry를 반환합니다.
func WithComponentAndFields(component string, fields log.Fields) *log.Entry {
	return log.WithField("component", component).WithFields(fields)
}
