package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"
)

// GzipMiddleware распаковывает сжатые тела запросов и сжимает ответы
// с типами text/* и application/json, если клиент принимает gzip.
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			zr, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			defer zr.Close()
			r.Body = zr
		}

		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		cw := &compressWriter{ResponseWriter: w}
		defer cw.Close()

		next.ServeHTTP(cw, r)
	})
}

// compressWriter сжимает тело ответа, если его тип подлежит сжатию.
// Решение принимается по Content-Type в момент записи заголовков.
type compressWriter struct {
	http.ResponseWriter
	zw            *gzip.Writer
	compressible  bool
	headerWritten bool
}

func (c *compressWriter) WriteHeader(statusCode int) {
	if !c.headerWritten {
		ct := c.Header().Get("Content-Type")
		if strings.HasPrefix(ct, "application/json") || strings.HasPrefix(ct, "text/") {
			c.Header().Set("Content-Encoding", "gzip")
			c.Header().Del("Content-Length")
			c.compressible = true
		}
		c.headerWritten = true
	}
	c.ResponseWriter.WriteHeader(statusCode)
}

func (c *compressWriter) Write(p []byte) (int, error) {
	if !c.headerWritten {
		c.WriteHeader(http.StatusOK)
	}
	if c.compressible {
		if c.zw == nil {
			c.zw = gzip.NewWriter(c.ResponseWriter)
		}
		return c.zw.Write(p)
	}
	return c.ResponseWriter.Write(p)
}

func (c *compressWriter) Close() error {
	if c.zw != nil {
		return c.zw.Close()
	}
	return nil
}
