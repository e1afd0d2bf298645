package internal

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipPool sync.Pool
	zstdPool sync.Pool
)

func getGzipWriter(w io.Writer) *gzip.Writer {
	if v := gzipPool.Get(); v != nil {
		gw := v.(*gzip.Writer)
		gw.Reset(w)
		return gw
	}
	gw, _ := gzip.NewWriterLevel(w, gzip.DefaultCompression)
	return gw
}

func getZstdWriter(w io.Writer) (*zstd.Encoder, error) {
	if v := zstdPool.Get(); v != nil {
		zw := v.(*zstd.Encoder)
		zw.Reset(w)
		return zw, nil
	}
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
}

// compressWriter routes the body through an encoder. Responses that must
// not carry a body (1xx, 204, 304) bypass it.
type compressWriter struct {
	gin.ResponseWriter
	enc      io.Writer
	disabled bool
}

func (w *compressWriter) WriteHeader(code int) {
	w.Header().Del("Content-Length")
	if (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified {
		w.disabled = true
		w.Header().Del("Content-Encoding")
		w.Header().Del("Vary")
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *compressWriter) Write(b []byte) (int, error) {
	if w.disabled {
		return w.ResponseWriter.Write(b)
	}
	w.Header().Del("Content-Length")
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", http.DetectContentType(b))
	}
	return w.enc.Write(b)
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *compressWriter) Flush() {
	if !w.disabled {
		if f, ok := w.enc.(interface{ Flush() error }); ok {
			_ = f.Flush()
		}
	}
	w.ResponseWriter.Flush()
}

// Compress encodes responses with zstd or gzip, whichever the client
// accepts first in that order.
func Compress() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodHead || c.Writer.Header().Get("Content-Encoding") != "" {
			c.Next()
			return
		}

		accept := c.GetHeader("Accept-Encoding")
		orig := c.Writer
		cw := &compressWriter{ResponseWriter: orig}

		var finish func()
		switch {
		case strings.Contains(accept, "zstd"):
			zw, err := getZstdWriter(orig)
			if err != nil {
				c.Next()
				return
			}
			cw.enc = zw
			orig.Header().Set("Content-Encoding", "zstd")
			finish = func() {
				if cw.disabled {
					zw.Reset(io.Discard)
				}
				_ = zw.Close()
				zstdPool.Put(zw)
			}
		case strings.Contains(accept, "gzip"):
			gw := getGzipWriter(orig)
			cw.enc = gw
			orig.Header().Set("Content-Encoding", "gzip")
			finish = func() {
				if cw.disabled {
					gw.Reset(io.Discard)
				}
				_ = gw.Close()
				gzipPool.Put(gw)
			}
		default:
			c.Next()
			return
		}

		orig.Header().Add("Vary", "Accept-Encoding")
		c.Writer = cw
		defer func() {
			finish()
			c.Writer = orig
		}()
		c.Next()
	}
}
