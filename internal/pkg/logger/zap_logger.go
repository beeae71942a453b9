package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ILogger is the module-tagged logger every layer receives.
type ILogger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
	Sync() error
}

type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger writes JSON lines to a rotated file and mirrors them to stdout.
// Outside production the stdout copy is colored console output at debug level.
func NewZapLogger(logFilePath string, isProd bool) *ZapLogger {
	fileEncoder := zapcore.NewJSONEncoder(fileEncoderConfig())
	rotated := rotatedFile(logFilePath)

	stdout := zapcore.NewCore(fileEncoder, zapcore.Lock(os.Stdout), zap.InfoLevel)
	if !isProd {
		dev := zap.NewDevelopmentEncoderConfig()
		dev.EncodeLevel = zapcore.CapitalColorLevelEncoder
		stdout = zapcore.NewCore(zapcore.NewConsoleEncoder(dev), zapcore.Lock(os.Stdout), zap.DebugLevel)
	}

	core := zapcore.NewTee(zapcore.NewCore(fileEncoder, rotated, zap.InfoLevel), stdout)
	return NewFromZap(zap.New(core, zap.AddCaller()))
}

// NewIsolatedLogger writes only to the rotated file, keeping bulky LLM
// request/response trails out of the console.
func NewIsolatedLogger(logFilePath string) *ZapLogger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig()), rotatedFile(logFilePath), zap.InfoLevel)
	return NewFromZap(zap.New(core, zap.AddCaller()))
}

func rotatedFile(path string) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	})
}

func fileEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

// NewFromZap wraps an existing zap logger, e.g. an observer core in tests.
// Callers are reported one frame above the wrapper.
func NewFromZap(l *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: l.WithOptions(zap.AddCallerSkip(2))}
}

func (l *ZapLogger) write(level zapcore.Level, module, message string, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	fields := []zap.Field{zap.String("module", module), zap.Any("details", details)}
	if level >= zapcore.ErrorLevel {
		if cause, ok := details["error"]; ok {
			fields = append(fields, zap.Any("error_ref", cause))
		}
	}
	l.logger.Log(level, message, fields...)
}

func (l *ZapLogger) Debug(module, message string, details map[string]interface{}) {
	l.write(zapcore.DebugLevel, module, message, details)
}

func (l *ZapLogger) Info(module, message string, details map[string]interface{}) {
	l.write(zapcore.InfoLevel, module, message, details)
}

func (l *ZapLogger) Warn(module, message string, details map[string]interface{}) {
	l.write(zapcore.WarnLevel, module, message, details)
}

func (l *ZapLogger) Error(module, message string, details map[string]interface{}) {
	l.write(zapcore.ErrorLevel, module, message, details)
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
