package logger

import (
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// TraceIDKey 定义 Context 中的 Key
const TraceIDKey = "trace_id"

// ContextHandler 包装器，用于从 ctx 中提取 trace_id
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if traceID := TraceID(ctx); traceID != "" {
		r.AddAttrs(log.String(TraceIDKey, traceID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{h.Handler.WithGroup(name)}
}

// TraceID 读取 ctx 中的 trace_id，不存在时返回空串
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// NewTraceContext 为后台任务创建带 trace_id 的根 Context
func NewTraceContext(prefix string) context.Context {
	return context.WithValue(context.Background(), TraceIDKey, prefix+uuid.NewString())
}

// DetachContext 脱离请求生命周期，但保留 trace_id
func DetachContext(ctx context.Context) context.Context {
	traceID := TraceID(ctx)
	if traceID == "" {
		return context.Background()
	}
	return context.WithValue(context.Background(), TraceIDKey, traceID)
}
