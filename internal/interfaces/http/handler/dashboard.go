package handler

import (
	"github.com/gin-gonic/gin"

	"infoprod-ai-api/internal/application/dashboard"
	"infoprod-ai-api/internal/interfaces/http/dto"
)

// DashboardHandler 仪表盘处理器
type DashboardHandler struct {
	stats *dashboard.Service
}

// NewDashboardHandler 创建仪表盘处理器
func NewDashboardHandler(stats *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

// Stats 当前用户的统计
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, stats)
}
