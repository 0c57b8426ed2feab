// Package metadata 提供 HandlerMetadata 在 Context 中的存取工具，供控制器、服务层与日志共享。
package metadata

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// RequestIDHeader 是请求标识的 HTTP Header。
const RequestIDHeader = "X-Request-Id"

// HandlerMetadata 描述从请求头解析出的上下文信息。
type HandlerMetadata struct {
	RequestID string
	UserAgent string
}

// IsZero 判断 Metadata 是否为空。
func (m HandlerMetadata) IsZero() bool {
	return m.RequestID == "" && m.UserAgent == ""
}

// NewRequestID 生成新的请求标识。
func NewRequestID() string {
	return uuid.NewString()
}

// NormalizeRequestID 接受调用方提供的合法 UUID，否则返回新生成的标识。
func NormalizeRequestID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NewRequestID()
	}
	if _, err := uuid.Parse(raw); err != nil {
		return NewRequestID()
	}
	return raw
}

type ctxKey struct{}

// Inject 将 HandlerMetadata 注入 Context。
func Inject(ctx context.Context, meta HandlerMetadata) context.Context {
	if meta.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, meta)
}

// FromContext 读取上游注入的 HandlerMetadata。
func FromContext(ctx context.Context) (HandlerMetadata, bool) {
	if ctx == nil {
		return HandlerMetadata{}, false
	}
	meta, ok := ctx.Value(ctxKey{}).(HandlerMetadata)
	return meta, ok
}

// RequestID 返回日志字段 request_id 的取值器。
func RequestID() log.Valuer {
	return func(ctx context.Context) interface{} {
		meta, _ := FromContext(ctx)
		return meta.RequestID
	}
}
