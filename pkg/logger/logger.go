// Package logger 提供基于 zap 的全局日志器，支持文件滚动和上下文字段透传
package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 日志配置
type Config struct {
	LogFile    string // 日志文件路径，为空则只输出到控制台
	Level      string // debug / info / warn / error
	MaxSize    int    // 单文件最大体积（MB）
	MaxBackups int    // 最多保留的旧文件数
	MaxAge     int    // 旧文件最长保留天数
	Compress   bool   // 是否压缩旧文件
	Console    bool   // 是否同时输出到控制台
}

type ctxKey struct{}

var global = newDefault()

func newDefault() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(os.Stdout),
		zapcore.DebugLevel,
	)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// InitLogger 按配置重建全局日志器，未调用前日志输出到控制台
func InitLogger(cfg Config) {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core
	if cfg.LogFile != "" {
		writer := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.AddSync(writer),
			level,
		))
	}
	if cfg.Console || cfg.LogFile == "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			level,
		))
	}

	global = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
}

// Sync 刷新缓冲日志
func Sync() error {
	return global.Sync()
}

// WithContext 把字段挂到上下文，后续携带该上下文的日志自动带上这些字段
func WithContext(ctx context.Context, fields ...zap.Field) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing := contextFields(ctx)
	merged := make([]zap.Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

func contextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).([]zap.Field)
	return fields
}

func withCtx(ctx context.Context, fields []zap.Field) []zap.Field {
	ctxFields := contextFields(ctx)
	if len(ctxFields) == 0 {
		return fields
	}
	merged := make([]zap.Field, 0, len(ctxFields)+len(fields))
	merged = append(merged, ctxFields...)
	merged = append(merged, fields...)
	return merged
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	global.Debug(msg, withCtx(ctx, fields)...)
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	global.Info(msg, withCtx(ctx, fields)...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	global.Warn(msg, withCtx(ctx, fields)...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	global.Error(msg, withCtx(ctx, fields)...)
}

func Debugf(ctx context.Context, format string, args ...any) {
	global.Sugar().With(fieldsToArgs(ctx)...).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	global.Sugar().With(fieldsToArgs(ctx)...).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	global.Sugar().With(fieldsToArgs(ctx)...).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	global.Sugar().With(fieldsToArgs(ctx)...).Errorf(format, args...)
}

func Fatalf(ctx context.Context, format string, args ...any) {
	global.Sugar().With(fieldsToArgs(ctx)...).Fatalf(format, args...)
}

func fieldsToArgs(ctx context.Context) []any {
	fields := contextFields(ctx)
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	return args
}
