package controllers

import (
	"context"
	"strings"
	"time"

	loader "github.com/bionicotaku/lingo-services-person/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-person/internal/metadata"

	"github.com/go-kratos/kratos/v2/transport"
)

// HandlerType 表示 Handler 的语义类别，用于选择超时策略。
type HandlerType int

const (
	// HandlerTypeDefault 表示未显式区分的 Handler。
	HandlerTypeDefault HandlerType = iota
	// HandlerTypeCommand 表示写操作 Handler。
	HandlerTypeCommand
	// HandlerTypeQuery 表示只读查询 Handler。
	HandlerTypeQuery
)

// HandlerTimeouts 聚合不同类型 Handler 的超时策略。
type HandlerTimeouts struct {
	Default time.Duration
	Command time.Duration
	Query   time.Duration
}

const (
	fallbackDefaultTimeout = 5 * time.Second
	headerUserAgent        = "User-Agent"
)

// NewHandlerTimeouts 从 server.handlers 配置转换超时策略。
func NewHandlerTimeouts(c *loader.Server) HandlerTimeouts {
	if c == nil {
		return HandlerTimeouts{}
	}
	return HandlerTimeouts{
		Default: c.Handlers.Default.AsDuration(),
		Command: c.Handlers.Command.AsDuration(),
		Query:   c.Handlers.Query.AsDuration(),
	}
}

// BaseHandler 提供公共的超时、Metadata 解析能力，供具体 Handler 内嵌复用。
type BaseHandler struct {
	timeouts HandlerTimeouts
}

// NewBaseHandler 构造基础 Handler，缺省值按 Default → Command/Query 回退。
func NewBaseHandler(timeouts HandlerTimeouts) *BaseHandler {
	if timeouts.Default <= 0 {
		switch {
		case timeouts.Command > 0:
			timeouts.Default = timeouts.Command
		case timeouts.Query > 0:
			timeouts.Default = timeouts.Query
		default:
			timeouts.Default = fallbackDefaultTimeout
		}
	}
	if timeouts.Command <= 0 {
		timeouts.Command = timeouts.Default
	}
	if timeouts.Query <= 0 {
		timeouts.Query = timeouts.Default
	}
	return &BaseHandler{timeouts: timeouts}
}

// Timeouts 返回生效的超时策略。
func (h *BaseHandler) Timeouts() HandlerTimeouts {
	if h == nil {
		return HandlerTimeouts{Default: fallbackDefaultTimeout, Command: fallbackDefaultTimeout, Query: fallbackDefaultTimeout}
	}
	return h.timeouts
}

// WithTimeout 根据 Handler 类型包装上下文，返回绑定超时的新 Context 与取消函数。
func (h *BaseHandler) WithTimeout(ctx context.Context, kind HandlerType) (context.Context, context.CancelFunc) {
	t := h.Timeouts()
	var timeout time.Duration
	switch kind {
	case HandlerTypeCommand:
		timeout = t.Command
	case HandlerTypeQuery:
		timeout = t.Query
	default:
		timeout = t.Default
	}
	return context.WithTimeout(ctx, timeout)
}

// ExtractMetadata 从 kratos transport 的请求头读取请求标识与 User-Agent。
func (h *BaseHandler) ExtractMetadata(ctx context.Context) metadata.HandlerMetadata {
	tr, ok := transport.FromServerContext(ctx)
	if !ok {
		return metadata.HandlerMetadata{}
	}
	header := tr.RequestHeader()
	return metadata.HandlerMetadata{
		RequestID: strings.TrimSpace(header.Get(metadata.RequestIDHeader)),
		UserAgent: strings.TrimSpace(header.Get(headerUserAgent)),
	}
}

// Prepare 绑定超时并注入 Metadata，返回供服务层使用的 Context。
func (h *BaseHandler) Prepare(ctx context.Context, kind HandlerType) (context.Context, context.CancelFunc) {
	meta := h.ExtractMetadata(ctx)
	timeoutCtx, cancel := h.WithTimeout(ctx, kind)
	return metadata.Inject(timeoutCtx, meta), cancel
}
