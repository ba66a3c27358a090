// Package logger is a thin structured-logging layer over logrus. Loggers
// travel in context.Context so request and upload fields follow the call chain.
package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// rotating is the open log file, if NewFromEnv created one.
var (
	rotating   io.Closer
	rotatingMu sync.Mutex
)

// Logger is a logrus entry with typed helpers.
type Logger struct {
	*logrus.Entry
}

// Config configures New.
type Config struct {
	Level       string    // debug, info, warn, error
	Format      string    // json or text
	Output      io.Writer // nil means stderr
	ServiceName string
}

// New creates a Logger writing to cfg.Output. A nil cfg logs info and above
// as JSON to stderr.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = &Config{ServiceName: defaultServiceName}
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return build(out, cfg.Level, cfg.Format, cfg.ServiceName)
}

// NewFromEnv creates a Logger from an EnvConfig, or from the environment when
// envCfg is nil. Outside the local environment it also writes to a rotating file.
func NewFromEnv(envCfg *EnvConfig) *Logger {
	if envCfg == nil {
		envCfg = LoadFromEnv()
	}
	out := envCfg.Output
	if out == nil {
		out = envWriter(envCfg)
	}
	return build(out, envCfg.Level, envCfg.Format, envCfg.ServiceName)
}

func envWriter(c *EnvConfig) io.Writer {
	local := c.Environment == "local"
	if local || c.LogFile == "" {
		return os.Stderr
	}

	file := &lumberjack.Logger{
		Filename:   c.LogFile,
		MaxSize:    c.Rotation.MaxSizeMB,
		MaxBackups: c.Rotation.MaxBackups,
		MaxAge:     c.Rotation.MaxAgeDays,
		Compress:   c.Rotation.Compress,
	}
	rotatingMu.Lock()
	rotating = file
	rotatingMu.Unlock()

	if c.LogFileOnly {
		return file
	}
	return io.MultiWriter(os.Stderr, file)
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(&Config{Level: "panic", Output: io.Discard, ServiceName: "test"})
}

// Sync closes the rotating log file opened by NewFromEnv, if any.
func Sync() error {
	rotatingMu.Lock()
	defer rotatingMu.Unlock()
	if rotating == nil {
		return nil
	}
	err := rotating.Close()
	rotating = nil
	return err
}

func build(out io.Writer, levelName, format, service string) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetReportCaller(true)

	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(format, "text") {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			TimestampFormat:  timestampFormat,
			CallerPrettyfier: shortCaller,
		})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
			CallerPrettyfier: shortCaller,
		})
	}

	if service == "" {
		service = defaultServiceName
	}
	return &Logger{Entry: l.WithField("service", service)}
}

// shortCaller reports package.Func and file:line.
func shortCaller(f *runtime.Frame) (string, string) {
	fn := f.Function
	if i := strings.LastIndex(fn, "/"); i >= 0 {
		fn = fn[i+1:]
	}
	return fn, filepath.Base(f.File) + ":" + strconv.Itoa(f.Line)
}

// WithFields returns a Logger with fields added.
func (l *Logger) WithFields(fields Fields) *Logger {
	return &Logger{Entry: l.Entry.WithFields(logrus.Fields(fields))}
}

// WithField returns a Logger with one field added.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{Entry: l.Entry.WithField(key, value)}
}

// WithError returns a Logger carrying err.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Entry: l.Entry.WithError(err)}
}

// CtxInfo logs through the context's logger.
func CtxInfo(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Infof(format, args...)
}

func CtxWarn(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Warnf(format, args...)
}
