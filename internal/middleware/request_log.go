package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-Id"

	ctxRequestIDKey = "request_id"
	ctxLoggerKey    = "logger"
)

// リクエストIDを振り、終了時に1行ログを出す。
// handler からは Logger(c) でリクエストID付きのロガーを取れる。
func RequestLogger(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(HeaderRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, reqID)

			log := base.With(zap.String("request_id", reqID))
			c.Set(ctxRequestIDKey, reqID)
			c.Set(ctxLoggerKey, log)

			err := next(c)
			if err != nil {
				// echo の HTTPError などはここでレスポンス化する
				c.Error(err)
			}

			req := c.Request()
			log.Info("http_request",
				zap.String("method", req.Method),
				zap.String("path", c.Path()),
				zap.String("uri", req.RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Int64("bytes", c.Response().Size),
				zap.Duration("latency", time.Since(start)),
			)
			return nil
		}
	}
}

// Logger はリクエストに紐づくロガー。ミドルウェア外では Nop を返す
func Logger(c echo.Context) *zap.Logger {
	if l, ok := c.Get(ctxLoggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

func RequestID(c echo.Context) string {
	id, _ := c.Get(ctxRequestIDKey).(string)
	return id
}
