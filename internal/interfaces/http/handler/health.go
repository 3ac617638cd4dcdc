// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 2 * time.Second

// HealthChecker 依赖的健康检查
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler 存活与就绪检查
type HealthHandler struct {
	version string
	checks  map[string]HealthChecker
}

// NewHealthHandler postgres 与 redis 都是就绪的必要条件；
// 未配置数据库时 postgres 检查返回 ConfigurationError，进程照常启动。
func NewHealthHandler(version string, pg, redis HealthChecker) *HealthHandler {
	return &HealthHandler{
		version: version,
		checks: map[string]HealthChecker{
			"postgres": pg,
			"redis":    redis,
		},
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type dependencyStatus struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                       `json:"status"`
	Checks map[string]*dependencyStatus `json:"checks"`
}

// Health 健康检查
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: h.version})
}

// Ready 并发检查全部依赖，任一失败返回 503
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	var (
		mu   sync.Mutex
		resp = readinessResponse{Status: "ok", Checks: make(map[string]*dependencyStatus, len(h.checks))}
	)
	record := func(name string, st *dependencyStatus) {
		mu.Lock()
		defer mu.Unlock()
		resp.Checks[name] = st
		if st.Status != "ok" {
			resp.Status = "not_ready"
		}
	}

	var g errgroup.Group
	for name, checker := range h.checks {
		if checker == nil {
			record(name, &dependencyStatus{Status: "missing"})
			continue
		}
		g.Go(func() error {
			start := time.Now()
			err := checker.HealthCheck(ctx)
			st := &dependencyStatus{Status: "ok", LatencyMs: time.Since(start).Milliseconds()}
			if err != nil {
				st.Status, st.Error = "error", err.Error()
			}
			record(name, st)
			return nil
		})
	}
	_ = g.Wait()

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// Live 存活检查
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
