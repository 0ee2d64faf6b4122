package logger

import (
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// AttachResty 给 resty 客户端挂上访问日志
func AttachResty(client *resty.Client, name string) *resty.Client {
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		req := resp.Request
		fields := []any{
			log.String("client", name),
			log.String("method", req.Method),
			log.String("url", req.URL),
			log.Int("status", resp.StatusCode()),
			log.Duration("latency", resp.Time()),
		}
		switch {
		case resp.IsError():
			log.WarnContext(req.Context(), "HTTP_CALL_FAILED", fields...)
		case resp.Time() > 2*time.Second:
			log.WarnContext(req.Context(), "HTTP_CALL_SLOW", fields...)
		default:
			log.InfoContext(req.Context(), "HTTP_CALL", fields...)
		}
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		log.ErrorContext(req.Context(), "HTTP_CALL_ERROR",
			log.String("client", name),
			log.String("method", req.Method),
			log.String("url", req.URL),
			log.Any("err", err),
		)
	})
	return client
}
