// Package router 提供 HTTP 路由配置
package router

import (
	"infoprod-ai-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由，v1 组已挂载 OptionalAuth
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers, limit gin.HandlerFunc) {
	// 无状态生成
	generate := v1.Group("/generate", limit)
	{
		generate.POST("/subniches", h.Generation.SubNiches)
		generate.POST("/product-details", h.Generation.ProductDetails)
		generate.POST("/title", h.Generation.Title)
		generate.POST("/description", h.Generation.Description)
		generate.POST("/ebook-chapter", h.Generation.EbookChapter)
		generate.POST("/content/stream", h.Generation.StreamContent) // SSE
	}

	v1.GET("/diagnostics/llm", h.Generation.Diagnostics)
	v1.GET("/niches", h.Creation.Niches)

	// 认证
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Auth.SignUp)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.GET("/session", h.Auth.Session)
	}

	// 以下路由需要登录
	private := v1.Group("", middleware.RequireAuth())

	// 创作流程
	sessions := private.Group("/creation/sessions")
	{
		sessions.POST("", h.Creation.StartSession)
		sessions.GET("/:sid", h.Creation.GetSession)
		sessions.POST("/:sid/subniches", limit, h.Creation.RequestSubNiches)
		sessions.POST("/:sid/select", h.Creation.SelectSubNiche)
		sessions.POST("/:sid/details", limit, h.Creation.RequestDetails)
		sessions.PATCH("/:sid/draft", h.Creation.EditDraft)
		sessions.POST("/:sid/save", h.Creation.Save)
	}

	// 产品管理
	products := private.Group("/products")
	{
		products.GET("", h.Product.ListProducts)
		products.POST("", h.Product.CreateProduct)
		products.GET("/:pid", h.Product.GetProduct)
		products.PATCH("/:pid", h.Product.UpdateProduct)
		products.DELETE("/:pid", h.Product.DeleteProduct)
	}

	// 电子书
	ebooks := private.Group("/ebooks")
	{
		ebooks.GET("", h.Ebook.ListEbooks)
		ebooks.GET("/:eid", h.Ebook.GetEbook)
		ebooks.POST("/:eid/regenerate", h.Ebook.Regenerate)
		ebooks.GET("/:eid/html", h.Ebook.RenderHTML)
		ebooks.GET("/:eid/epub", h.Ebook.ExportEPUB)
	}

	private.GET("/dashboard/stats", h.Dashboard.Stats)
}
