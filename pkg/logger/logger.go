package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 是一个全局的、配置好的 logrus 实例
var Log = logrus.New()

// InitLogger 初始化全局的Logger实例：JSON格式，同时输出到控制台和按大小切割的日志文件
func InitLogger(file, level string, dev bool) {
	Log = logrus.New()

	// 结构化日志，方便之后用ELK、Loki等工具分析
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	var out io.Writer = os.Stdout
	if file != "" {
		// lumberjack负责切割和压缩，不需要自己管理文件句柄
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // MB
			MaxBackups: 7,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
	}
	Log.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	// 开发环境一律打开Debug
	if dev {
		lvl = logrus.DebugLevel
	}
	Log.SetLevel(lvl)
}
