// Package metrics 定义 Prometheus 指标，进程启动时注册到默认 registry
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "infoprod"

func counter(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func histogram(subsystem, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
}

var sizeBuckets = prometheus.ExponentialBuckets(100, 10, 6)

// HTTP
var (
	HTTPRequestsTotal = counter("http", "requests_total",
		"Total number of HTTP requests", "method", "path", "status")
	HTTPRequestDuration = histogram("http", "request_duration_seconds",
		"HTTP request duration in seconds", prometheus.DefBuckets, "method", "path")
	HTTPRequestSize = histogram("http", "request_size_bytes",
		"HTTP request size in bytes", sizeBuckets, "method", "path")
	HTTPResponseSize = histogram("http", "response_size_bytes",
		"HTTP response size in bytes", sizeBuckets, "method", "path")
	RateLimitRejectedTotal = counter("http", "rate_limit_rejected_total",
		"Requests rejected by the rate limiter", "scope")
)

// 内容生成，content_type 取值见 prompt.ContentType
var (
	GenerationTotal = counter("generation", "total",
		"Content generations by content type and outcome", "content_type", "status")
	GenerationDuration = histogram("generation", "duration_seconds",
		"Content generation duration in seconds", []float64{.5, 1, 2.5, 5, 10, 30, 60, 120}, "content_type")
	// layer: normalizer | orchestrator
	SubNicheFallbackTotal = counter("generation", "subniche_fallback_total",
		"Sub-niche lists served from a fallback set", "layer", "niche")
)

// 电子书章节
var (
	ChapterJobsTotal = counter("ebook", "chapter_jobs_total",
		"Chapter generation jobs by role and outcome", "role", "status")
	ChapterWordCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ebook",
		Name:      "chapter_word_count",
		Help:      "Generated chapter word count",
		Buckets:   []float64{100, 400, 800, 1200, 2000, 3000},
	})
)

// 模型调用，由 eino 全局回调记录
var (
	// type: prompt | completion
	LLMTokensUsed = counter("llm", "tokens_used_total",
		"Tokens used by LLM calls", "content_type", "provider", "model", "type")
	LLMCallDuration = histogram("llm", "call_duration_seconds",
		"LLM call duration in seconds", []float64{1, 5, 10, 30, 60, 120}, "content_type", "provider", "model")
	LLMCallTotal = counter("llm", "call_total",
		"LLM calls by outcome", "content_type", "provider", "model", "status")
)

// 章节任务队列
var (
	RedisStreamLag = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "redis",
		Name:      "stream_lag",
		Help:      "Entries not yet delivered to the consumer group",
	}, []string{"stream", "consumer_group"})
	RedisStreamProcessed = counter("redis", "stream_processed_total",
		"Stream messages processed by outcome", "stream", "status")
)

// AuthEventsTotal event: signup | login | logout | refresh
var AuthEventsTotal = counter("auth", "events_total", "Auth events by outcome", "event", "status")
