package server

import (
	stdhttp "net/http"
	"strings"

	"github.com/bionicotaku/lingo-services-person/internal/metadata"
)

// requestIDFilter 保证每个请求都带有 X-Request-Id，在响应中回写，
// 并把请求元信息注入请求 Context，使中间件（含访问日志）可以读取。
func requestIDFilter(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		id := metadata.NormalizeRequestID(r.Header.Get(metadata.RequestIDHeader))
		r.Header.Set(metadata.RequestIDHeader, id)
		w.Header().Set(metadata.RequestIDHeader, id)
		ctx := metadata.Inject(r.Context(), metadata.HandlerMetadata{
			RequestID: id,
			UserAgent: strings.TrimSpace(r.UserAgent()),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// trailingSlashFilter 去掉路径末尾的 "/"，使 /persons/ 与 /persons 直接命中同一路由而不是 301。
func trailingSlashFilter(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
			r.URL.Path = strings.TrimRight(p, "/")
			if r.URL.Path == "" {
				r.URL.Path = "/"
			}
			r.URL.RawPath = ""
		}
		next.ServeHTTP(w, r)
	})
}
