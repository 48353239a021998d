package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/sirupsen/logrus"
)

// CustomFormatter 自定义日志格式: [TIME] [LEVEL] [FILE:LINE] MSG k=v ...
type CustomFormatter struct{}

// Format 实现 logrus.Formatter 接口
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	// kratos 传入的 caller 优先，否则使用 logrus 自己采集的
	var fileLine string
	if c, ok := entry.Data["caller"]; ok {
		fileLine = fmt.Sprint(c)
	} else if entry.HasCaller() {
		fileLine = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	// 对齐级别长度，例如 INFO, WARN, ERRO
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	timeStr := entry.Time.Format("2006-01-02 15:04:05")

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] [%s] %s", timeStr, level, fileLine, entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == "caller" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')

	return []byte(b.String()), nil
}

// New 创建 logrus 实例，同时输出到控制台和文件。cleanup 关闭日志文件
func New(levelStr string, filePath string) (*logrus.Logger, func(), error) {
	l := logrus.New()
	l.SetFormatter(&CustomFormatter{})

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel // 默认级别
	}
	l.SetLevel(level)

	cleanup := func() {}
	writers := []io.Writer{os.Stdout}
	if filePath != "" {
		// 确保日志目录存在
		logDir := filepath.Dir(filePath)
		if logDir != "." {
			if err := os.MkdirAll(logDir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}

		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, file)
		cleanup = func() { _ = file.Close() }
	}
	l.SetOutput(io.MultiWriter(writers...))

	return l, cleanup, nil
}

// kratosLogger 把 kratos 的 key/value 日志转给 logrus
type kratosLogger struct {
	log *logrus.Logger
}

// NewKratosLogger 将 logrus 包装为 kratos log.Logger
func NewKratosLogger(l *logrus.Logger) log.Logger {
	return &kratosLogger{log: l}
}

// Log 实现 log.Logger
func (l *kratosLogger) Log(level log.Level, keyvals ...interface{}) error {
	if len(keyvals) == 0 {
		return nil
	}
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "KEYVALS UNPAIRED")
	}

	var msg string
	fields := make(logrus.Fields, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if key == log.DefaultMessageKey {
			msg = fmt.Sprint(keyvals[i+1])
			continue
		}
		fields[key] = keyvals[i+1]
	}

	// Log 在 Fatal 级别不会退出进程，退出由 kratos Helper 负责
	l.log.WithFields(fields).Log(toLogrusLevel(level), msg)
	return nil
}

func toLogrusLevel(level log.Level) logrus.Level {
	switch level {
	case log.LevelDebug:
		return logrus.DebugLevel
	case log.LevelWarn:
		return logrus.WarnLevel
	case log.LevelError:
		return logrus.ErrorLevel
	case log.LevelFatal:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
