package server

import (
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/memo_dashboard/internal/conf"
	"github.com/iWorld-y/memo_dashboard/internal/data"
	"github.com/iWorld-y/memo_dashboard/internal/service"
)

func NewHTTPServer(c *conf.Server, d *conf.Dashboard, s *service.DashboardService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
		http.Filter(accessLog(logger)),
	}
	// kratos 默认 1s 超时会取消后端请求，未配置时不限制
	timeout := time.Duration(0)
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if dur, err := time.ParseDuration(c.Http.Timeout); err == nil {
				timeout = dur
			}
		}
	}
	opts = append(opts, http.Timeout(timeout))

	srv := http.NewServer(opts...)

	srv.HandleFunc("/", s.Index)
	srv.HandleFunc("/submit", s.Submit)
	srv.HandleFunc("/back", s.Back)
	srv.HandleFunc("/next", s.Next)
	srv.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// 图表文件
	imageDir := "static"
	if d != nil && d.ImageDir != "" {
		imageDir = d.ImageDir
	}
	srv.HandlePrefix(data.StaticPrefix, nethttp.StripPrefix(data.StaticPrefix, nethttp.FileServer(nethttp.Dir(imageDir))))

	return srv
}

// accessLog 记录页面请求，并把处理器中的 panic 转为 500
func accessLog(logger log.Logger) http.FilterFunc {
	helper := log.NewHelper(logger)
	return func(next nethttp.Handler) nethttp.Handler {
		return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w}

			defer func() {
				if rerr := recover(); rerr != nil {
					helper.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, rerr)
					if rw.status == 0 {
						nethttp.Error(rw, "internal server error", nethttp.StatusInternalServerError)
					}
				}
				helper.Infow(
					"method", r.Method,
					"path", r.URL.Path,
					"status", rw.status,
					"duration", time.Since(start),
					"remote_addr", r.RemoteAddr,
				)
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

// responseWriter 记录状态码
type responseWriter struct {
	nethttp.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = nethttp.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}
