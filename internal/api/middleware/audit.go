package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	auditBodyLimit = 16 << 10
	redacted       = "[REDACTED]"
)

// 请求或响应里带密码、Token、平台凭据的接口只记录元信息
var sensitivePaths = []string{"/api/auth/", "/api/social-accounts"}

// 健康检查不记审计日志
var auditSkipPaths = map[string]struct{}{"/api/ping": {}}

// auditWriter 响应体只缓存前 auditBodyLimit 字节
type auditWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *auditWriter) Write(b []byte) (int, error) {
	if room := auditBodyLimit - w.body.Len(); room > 0 {
		w.body.Write(b[:min(len(b), room)])
	}
	return w.ResponseWriter.Write(b)
}

func (w *auditWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, skip := auditSkipPaths[path]; skip {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		sensitive := isSensitive(path)

		reqBody := redacted
		if !sensitive {
			reqBody = peekBody(c.Request)
		}

		log.InfoContext(ctx, "Recv Request",
			log.String("method", c.Request.Method),
			log.String("path", path),
			log.String("query", decodeQuery(c.Request.URL.RawQuery)),
			log.String("req_body", reqBody),
		)

		w := &auditWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w
		start := time.Now()

		c.Next()

		resBody := w.body.String()
		if sensitive {
			resBody = redacted
		}
		log.InfoContext(ctx, "Send Response",
			log.Int("status", c.Writer.Status()),
			log.Uint64("user_id", c.GetUint64(UserIDKey)),
			log.Duration("latency", time.Since(start)),
			log.String("res_body", resBody),
		)
	}
}

// peekBody 读取前 auditBodyLimit 字节用于日志，并把完整请求体还给后续处理
func peekBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	head, _ := io.ReadAll(io.LimitReader(r.Body, auditBodyLimit))
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(head), r.Body), Closer: r.Body}
	return string(head)
}

type readCloser struct {
	io.Reader
	io.Closer
}

func decodeQuery(raw string) string {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func isSensitive(path string) bool {
	for _, prefix := range sensitivePaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
