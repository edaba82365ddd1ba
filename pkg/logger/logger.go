package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base = zap.NewNop()

// Config describes where and how verbosely to log.
type Config struct {
	Level   string `yaml:"level" mapstructure:"level"`
	File    string `yaml:"file" mapstructure:"file"`
	Service string `yaml:"service" mapstructure:"service"`
}

// Init replaces the no-op loggers. Output goes to stdout, and additionally to a
// rotated file when cfg.File is set.
func Init(cfg Config) error {
	lvl := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
	}
	service := cfg.Service
	if service == "" {
		service = "default"
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stdout)}
	if cfg.File != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.NewMultiWriteSyncer(sinks...),
		lvl,
	)

	base = zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(2),
		zap.AddStacktrace(zapcore.FatalLevel),
	).With(zap.String("service", service))
	return nil
}

// L is the underlying logger, for libraries that want a *zap.Logger.
func L() *zap.Logger {
	return base.WithOptions(zap.AddCallerSkip(-2))
}

// Sync flushes buffered entries.
func Sync() {
	_ = base.Sync()
}

func logf(lvl zapcore.Level, format string, args []interface{}) {
	if ce := base.Check(lvl, fmt.Sprintf(format, args...)); ce != nil {
		ce.Write()
	}
}

func Debug(format string, args ...interface{}) { logf(zapcore.DebugLevel, format, args) }

func Info(format string, args ...interface{}) { logf(zapcore.InfoLevel, format, args) }

func Warn(format string, args ...interface{}) { logf(zapcore.WarnLevel, format, args) }

func Error(format string, args ...interface{}) { logf(zapcore.ErrorLevel, format, args) }

// Fatal logs and exits the process.
func Fatal(format string, args ...interface{}) { logf(zapcore.FatalLevel, format, args) }
