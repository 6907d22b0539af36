// Package logging 提供全局共享的 logfmt 日志器。
package logging

import (
	stdlog "log"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// 日志上下文中的 source 标签。
const (
	SourceApp    = "app"
	SourceRender = "render"
	SourceReport = "report"
	SourceStore  = "store"
)

var (
	initOnce   sync.Once
	baseLogger *log.Logger
)

// Init configures the base logger and redirects the stdlib logger through it.
func Init() {
	initOnce.Do(func() {
		baseLogger = log.NewWithOptions(os.Stderr, log.Options{
			TimeFunction:    log.NowUTC,
			TimeFormat:      time.RFC3339Nano,
			Level:           log.InfoLevel,
			ReportTimestamp: true,
			Formatter:       log.LogfmtFormatter,
		})

		stdLogger := baseLogger.With("source", SourceApp).StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel})
		stdlog.SetFlags(0)
		stdlog.SetOutput(stdLogger.Writer())
	})
}

// Logger returns a logfmt logger tagged with the provided source.
func Logger(source string) *log.Logger {
	Init()
	return baseLogger.With("source", source)
}

// SetLevel 调整基础日志级别，例如 CLI 的 --verbose。
func SetLevel(level log.Level) {
	Init()
	baseLogger.SetLevel(level)
}
