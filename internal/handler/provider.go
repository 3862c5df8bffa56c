// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
package handler

import (
	"strconv"

	"fusion_messenger_server/internal/service"
	"fusion_messenger_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// Handlers 聚合所有 Handler 实例
// 作为依赖注入的入口，Router 层通过此结构访问各个 Handler
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Chat    *ChatHandler
	Message *MessageHandler
}

// NewHandlers 创建并注入所有 Handler 实例
// svc: Service 层聚合实例
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(svc.User),
		User:    NewUserHandler(svc.User),
		Chat:    NewChatHandler(svc.Chat),
		Message: NewMessageHandler(svc.Message, svc.Chat),
	}
}

// currentUserID 从上下文取出 JWT 中间件写入的用户 ID
func currentUserID(c *gin.Context) (uint, error) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, errorx.New(errorx.CodeUnauthorized, "未登录")
	}
	id, ok := v.(uint)
	if !ok {
		return 0, errorx.New(errorx.CodeUnauthorized, "未登录")
	}
	return id, nil
}

// parseUintParam 解析路径参数为 uint
func parseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errorx.Newf(errorx.CodeInvalidParam, "非法的路径参数 %s", name)
	}
	return uint(id), nil
}
