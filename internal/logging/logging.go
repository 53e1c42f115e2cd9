package logging

import (
	"fmt"
	"io"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"domain-portfolio/internal/config"
)

// Setup configures the standard logrus logger from cfg
func Setup(cfg config.LogConfig, caller bool) error {
	return Configure(logrus.StandardLogger(), cfg, caller)
}

// Configure applies format and level to logger
func Configure(logger *logrus.Logger, cfg config.LogConfig, caller bool) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	prettyfier := func(f *runtime.Frame) (string, string) {
		return "", fmt.Sprintf("%s:%d", path.Base(f.File), f.Line)
	}

	switch cfg.Format {
	case "text":
		formatter := &logrus.TextFormatter{FullTimestamp: true}
		if caller {
			formatter.CallerPrettyfier = prettyfier
		}
		logger.SetFormatter(formatter)
	case "json", "":
		formatter := &logrus.JSONFormatter{}
		if caller {
			formatter.CallerPrettyfier = prettyfier
		}
		logger.SetFormatter(formatter)
	default:
		return fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	logger.SetReportCaller(caller)
	logger.SetLevel(level)
	return nil
}

// Writer returns an io.Writer that logs each line at debug level, for
// libraries that only take a writer
func Writer(entry *logrus.Entry) io.Writer {
	return entry.WriterLevel(logrus.DebugLevel)
}

// Middleware logs every handled request with its status and duration.
// Failed requests are logged at error level, the rest at debug.
func Middleware(logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if strings.Contains(c.Request.URL.EscapedPath(), "healthz") {
			return
		}

		status := c.Writer.Status()
		requestLogger := logger.WithFields(logrus.Fields{
			"status":     status,
			"method":     c.Request.Method,
			"path":       c.Request.URL.EscapedPath(),
			"duration":   time.Since(start),
			"remoteAddr": c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			requestLogger = requestLogger.WithError(c.Errors.Last())
		}

		msg := fmt.Sprintf("handled: %d", status)
		if status >= 400 {
			requestLogger.Error(msg)
		} else {
			requestLogger.Debug(msg)
		}
	}
}

// Recovery turns handler panics into a 500 and logs the panic value
func Recovery(logger *logrus.Entry) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(Writer(logger), func(c *gin.Context, recovered any) {
		logger.WithField("panic", recovered).Error("recovered error")
		c.AbortWithStatusJSON(500, gin.H{"error": "internal server error"})
	})
}
