// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/gin-gonic/gin"
)

// BindProductID 从 URI 绑定产品 ID
func BindProductID(c *gin.Context) string {
	return c.Param("pid")
}

// BindEbookID 从 URI 绑定电子书 ID
func BindEbookID(c *gin.Context) string {
	return c.Param("eid")
}

// BindSessionID 从 URI 绑定创作会话 ID
func BindSessionID(c *gin.Context) string {
	return c.Param("sid")
}
