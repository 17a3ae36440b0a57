package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// responseHeader は全レスポンスに付与するヘッダー
type responseHeader struct {
	key   string
	value string
}

// injectedHeaders は付与する順序どおりに並べる
var injectedHeaders = []responseHeader{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Methods", "GET, POST, OPTIONS"},
	{"Access-Control-Allow-Headers", "Content-Type"},
	{"Cache-Control", "no-cache, no-store, must-revalidate"},
	{"Pragma", "no-cache"},
	{"Expires", "0"},
}

// headerWriter はステータス行を書く直前にヘッダーを付与する。
// ファイル配信側がエラー時にCache-Controlを消しても、最後に上書きされる。
type headerWriter struct {
	gin.ResponseWriter
	injected bool
}

func (w *headerWriter) inject() {
	if w.injected {
		return
	}
	w.injected = true
	h := w.ResponseWriter.Header()
	for _, hdr := range injectedHeaders {
		h.Set(hdr.key, hdr.value)
	}
}

func (w *headerWriter) WriteHeader(code int) {
	w.inject()
	w.ResponseWriter.WriteHeader(code)
}

func (w *headerWriter) WriteHeaderNow() {
	w.inject()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *headerWriter) Write(data []byte) (int, error) {
	w.inject()
	return w.ResponseWriter.Write(data)
}

func (w *headerWriter) WriteString(s string) (int, error) {
	w.inject()
	return w.ResponseWriter.WriteString(s)
}

func (w *headerWriter) Flush() {
	w.inject()
	w.ResponseWriter.Flush()
}

// Headers はCORS/キャッシュ無効化ヘッダーを付与するミドルウェア
func Headers() gin.HandlerFunc {
	return func(c *gin.Context) {
		w := &headerWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		// 何も書かれずに終わった場合もginが最後にヘッダーを送る
		if !w.Written() {
			w.inject()
		}
	}
}

// accessLogFormatter はクライアントアドレスと標準的なリクエスト行を1行で出力する。
// 例: [127.0.0.1:52344] "GET /index.html HTTP/1.1" 200 -
func accessLogFormatter(param gin.LogFormatterParams) string {
	client := param.ClientIP
	if param.Request != nil && param.Request.RemoteAddr != "" {
		client = param.Request.RemoteAddr
	}

	proto := "HTTP/1.1"
	if param.Request != nil && param.Request.Proto != "" {
		proto = param.Request.Proto
	}

	return fmt.Sprintf("[%s] \"%s %s %s\" %d -\n",
		client, param.Method, param.Path, proto, param.StatusCode)
}

// AccessLog はリクエストごとに1行を out に書くミドルウェア
func AccessLog(out io.Writer) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: accessLogFormatter,
		Output:    out,
	})
}

// Recovery はハンドラのパニックを500に変換し、zapに記録する
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Error("リクエスト処理中にパニックが発生しました",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}
