package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanHttpRequest        TraceSpanName = "http_request"
	SpanLoggerMiddleware   TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanResponseMiddleware TraceSpanName = "response_middleware"
	SpanUserMiddleware     TraceSpanName = "user_middleware"
	SpanPolicyGate         TraceSpanName = "policy_gate"
	SpanDispatch           TraceSpanName = "connector_dispatch"
	SpanConsumptionPoll    TraceSpanName = "consumption_poll"
	SpanRAGIndex           TraceSpanName = "rag_index"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal   MetricName = "requests_total"
	MetricHttpRequestDuration MetricName = "request_duration_seconds"
	MetricMediationSuccess    MetricName = "mediation_success_total"
	MetricMediationFail       MetricName = "mediation_fail_total"
	MetricDispatchDuration    MetricName = "dispatch_duration_seconds"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint  MetricLabelName = "endpoint"
	MetricLabelStatus    MetricLabelName = "status"
	MetricLabelReason    MetricLabelName = "reason"
	MetricLabelPurpose   MetricLabelName = "purpose"
	MetricLabelConnector MetricLabelName = "connector"
)

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	Scheme     string            `trace:"http.scheme"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
	Params     map[string]string `trace:"http.request.param"`
}

type TraceHttpServerMeta struct {
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"url.path"`
	UrlScheme         string `trace:"url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
	SpanTraceID       string `trace:"span.trace_id"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"response.duration_ms"`
	Data       string  `trace:"response.data"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"panic.duration_ms"`
	Message    string  `trace:"panic.message"`
	Stack      string  `trace:"panic.stack"`
	Status     int     `trace:"http.status"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail"`
	DurationMs float64 `trace:"error.duration_ms"`
	Status     int     `trace:"http.status"`
}

type TraceUserMiddlewareMeta struct {
	UserID string `trace:"user.id,omitempty"`
	Tenant string `trace:"user.tenant,omitempty"`
	Status string `trace:"middleware.status"`
}

// 供 mediation 主流程使用
type TraceMediationMeta struct {
	Purpose     string  `trace:"ai.purpose"`
	Connector   string  `trace:"ai.connector"`
	Model       string  `trace:"ai.model"`
	Code        int     `trace:"ai.code,omitempty"`
	DurationSec float64 `trace:"ai.duration_sec,omitempty"`
	UserID      string  `trace:"ai.user_id,omitempty"`
	ContextID   int64   `trace:"ai.context_id,omitempty"`
}

// 供 consumption tracker 使用
type TraceConsumptionMeta struct {
	Current   float64 `trace:"consumption.current"`
	LastValue float64 `trace:"consumption.last_value,omitempty"`
	Reset     bool    `trace:"consumption.reset"`
	Deleted   int64   `trace:"consumption.deleted,omitempty"`
}

// 供 RAG indexer 使用
type TraceIndexMeta struct {
	AreaID    string `trace:"index.area_id"`
	FullIndex bool   `trace:"index.full"`
	NumDocs   int    `trace:"index.num_docs"`
	Skipped   int    `trace:"index.skipped,omitempty"`
}
