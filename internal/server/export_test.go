package server

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SetTraceExporterFactory 替换 span exporter 构造函数，返回恢复函数。
func SetTraceExporterFactory(f func() (sdktrace.SpanExporter, error)) func() {
	prev := newTraceExporter
	newTraceExporter = f
	return func() { newTraceExporter = prev }
}
