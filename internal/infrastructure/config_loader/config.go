package loader

import (
	"encoding/json"
	"fmt"
	"time"
)

// 支持的存储驱动。
const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
)

// Bootstrap 是 configs/*.yaml 的强类型映射。
type Bootstrap struct {
	Server        Server        `json:"server"`
	Data          Data          `json:"data"`
	Observability Observability `json:"observability"`
	Log           Log           `json:"log"`
}

// Server 描述 HTTP 服务与 Handler 级别的超时。
type Server struct {
	HTTP     HTTP            `json:"http"`
	Handlers HandlerTimeouts `json:"handlers"`
}

// HTTP 描述 kratos HTTP server 的监听参数。
type HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// HandlerTimeouts 按 Handler 语义（命令/查询）区分存储调用的超时。
type HandlerTimeouts struct {
	Default Duration `json:"default"`
	Command Duration `json:"command"`
	Query   Duration `json:"query"`
}

// Data 选择存储驱动并携带各驱动的连接配置。
type Data struct {
	Driver   string   `json:"driver"`
	MongoDB  MongoDB  `json:"mongodb"`
	Postgres Postgres `json:"postgres"`
}

// MongoDB 连接配置。
type MongoDB struct {
	URI            string   `json:"uri"`
	Database       string   `json:"database"`
	Collection     string   `json:"collection"`
	ConnectTimeout Duration `json:"connect_timeout"`
	MaxPoolSize    uint64   `json:"max_pool_size"`
}

// Postgres 连接池配置，文档落在 Table 指定的 JSONB 表中。
type Postgres struct {
	DSN                      string   `json:"dsn"`
	Table                    string   `json:"table"`
	Schema                   string   `json:"schema"`
	MaxOpenConns             int32    `json:"max_open_conns"`
	MinOpenConns             int32    `json:"min_open_conns"`
	MaxConnLifetime          Duration `json:"max_conn_lifetime"`
	MaxConnIdleTime          Duration `json:"max_conn_idle_time"`
	HealthCheckPeriod        Duration `json:"health_check_period"`
	EnablePreparedStatements bool     `json:"enable_prepared_statements"`
}

// Observability 控制指标与追踪。
type Observability struct {
	Metrics Metrics `json:"metrics"`
	Tracing Tracing `json:"tracing"`
}

// Metrics 开关 Prometheus 指标。
type Metrics struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// Tracing 开关服务端 span；SamplingRatio 取值 [0,1]。
type Tracing struct {
	Enabled       bool    `json:"enabled"`
	SamplingRatio float64 `json:"sampling_ratio"`
}

// Log 控制日志级别。
type Log struct {
	Level string `json:"level"`
}

// Duration 支持 "3s" 这类字符串或以秒为单位的数字。
type Duration time.Duration

// AsDuration 转换为 time.Duration。
func (d Duration) AsDuration() time.Duration { return time.Duration(d) }

// UnmarshalJSON 实现 json.Unmarshaler。
func (d *Duration) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(v * float64(time.Second))
	default:
		return fmt.Errorf("invalid duration %s", string(data))
	}
	return nil
}

// MarshalJSON 实现 json.Marshaler。
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
