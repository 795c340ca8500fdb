package cmd

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnv 设置后启动阶段输出 Debug 日志
const DebugEnv = "NOTE_SHARE_DEBUG"

// bootstrapLogger logs before the configured logger exists, and for one-shot commands.
// bootstrapLogger 主日志器初始化之前以及一次性命令使用的控制台日志器
var bootstrapLogger = newBootstrapLogger(os.Getenv(DebugEnv) != "")

func newBootstrapLogger(debug bool) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level)
	return zap.New(core, zap.AddCaller())
}
