// Package logger は診断用のzapロガーを構築します。
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"devserver/internal/config"
)

// New は設定に従ってzapロガーを作成する。
// 標準出力はバナーとアクセスログ用なので、診断ログは標準エラーに出す。
func New(cfg config.LogConfig) *zap.Logger {
	return NewWithSyncer(cfg, zapcore.Lock(os.Stderr))
}

// NewWithSyncer は出力先を指定してロガーを作成する
func NewWithSyncer(cfg config.LogConfig, out zapcore.WriteSyncer) *zap.Logger {
	// エンコーダーの設定
	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "json" {
		encoderConfig = zap.NewProductionEncoderConfig()
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, out, ParseLevel(cfg.Level))
	return zap.New(core)
}

// ParseLevel はログレベル文字列を変換する。不明な値は info 扱い。
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
