package log

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

type Fields = logrus.Fields

// NewLogger builds the process-wide logger. Besides stderr it rotates
// a daily file under storage/logs unless APP_ENV is "test".
func NewLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetLevel(level())

		logger.SetFormatter(&formatter.Formatter{
			TimestampFormat: "02 Jan 06 - 15:04",
			CallerFirst:     true,
			CustomCallerFormatter: func(f *runtime.Frame) string {
				parts := strings.Split(f.Function, ".")
				return fmt.Sprintf(" \x1b[34m[%s:%d][%s()]", path.Base(f.File), f.Line, parts[len(parts)-1])
			},
		})

		writers := []io.Writer{os.Stderr}
		if os.Getenv("APP_ENV") != "test" {
			writers = append(writers, &lumberjack.Logger{
				Filename:   fmt.Sprintf("./storage/logs/eventra-%s.log", time.Now().Format("2006-01-02")),
				LocalTime:  true,
				Compress:   true,
				MaxSize:    100,
				MaxAge:     7,
				MaxBackups: 3,
			})
		}

		logger.SetOutput(io.MultiWriter(writers...))
		logger.SetReportCaller(true)
	})

	return logger
}

func level() logrus.Level {
	parsed, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return logrus.DebugLevel
	}
	return parsed
}

// ErrorWithTraceID logs at error level with a trace id the caller can
// hand back to the client. The request id doubles as the trace id when
// present so one grep finds both sides.
func ErrorWithTraceID(fields Fields, msg string) string {
	if fields == nil {
		fields = Fields{}
	}

	traceID, _ := fields["request_id"].(string)
	if traceID == "" || traceID == "unknown" {
		traceID = uuid.NewString()
	}

	fields["trace_id"] = traceID
	NewLogger().WithFields(fields).Error(msg)
	return traceID
}
