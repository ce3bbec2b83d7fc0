package logger

import (
	"embroidery_shop/internal/pkg/config"

	"go.uber.org/zap"
)

// Log 全局日志实例，InitLogger 之前是空实现
var Log = zap.NewNop()

// InitLogger 初始化日志
func InitLogger() {
	var err error
	if config.GlobalConfig.App.Debug {
		Log, err = zap.NewDevelopment()
	} else {
		Log, err = zap.NewProduction()
	}
	if err != nil {
		panic("failed to init zap logger: " + err.Error())
	}
}

// Sync 刷新缓冲的日志条目
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
