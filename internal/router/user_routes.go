// Package router 提供 HTTP 路由注册
// 本文件定义用户相关的路由
package router

import (
	"fusion_messenger_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// registerUserRoutes 注册用户相关路由，全部需要登录
func (rt *Router) registerUserRoutes(r *gin.Engine) {
	userGroup := r.Group("/users")
	userGroup.Use(middleware.JWTAuth())
	{
		// GET /users/me - 获取当前用户信息
		userGroup.GET("/me", rt.handlers.User.GetMe)
		// PUT /users/me - 更新当前用户资料
		userGroup.PUT("/me", rt.handlers.User.UpdateMe)
		// POST /users/search - 按邮箱或显示名搜索用户
		userGroup.POST("/search", rt.handlers.User.SearchUsers)
	}
}
