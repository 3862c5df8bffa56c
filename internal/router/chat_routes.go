// Package router 提供 HTTP 路由注册
// 本文件定义聊天与消息相关的路由
package router

import (
	"fusion_messenger_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// registerChatRoutes 注册聊天与消息路由，全部需要登录
func (rt *Router) registerChatRoutes(r *gin.Engine) {
	chatGroup := r.Group("/chats")
	chatGroup.Use(middleware.JWTAuth())
	{
		// GET /chats - 当前用户的聊天列表
		chatGroup.GET("", rt.handlers.Chat.GetUserChats)
		// POST /chats/private/:user_id - 获取或创建单聊（幂等）
		chatGroup.POST("/private/:user_id", rt.handlers.Chat.GetOrCreatePrivateChat)
		// POST /chats/group - 创建群聊
		chatGroup.POST("/group", rt.handlers.Chat.CreateGroupChat)
		// GET /chats/:chat_id - 单个聊天详情
		chatGroup.GET("/:chat_id", rt.handlers.Chat.GetChat)
		// POST /chats/:chat_id/members - 群聊添加成员
		chatGroup.POST("/:chat_id/members", rt.handlers.Chat.AddMembers)
		// POST /chats/:chat_id/read - 标记聊天为已读
		chatGroup.POST("/:chat_id/read", rt.handlers.Chat.MarkChatAsRead)

		// GET /chats/:chat_id/messages - 分页拉取消息
		chatGroup.GET("/:chat_id/messages", rt.handlers.Message.GetChatMessages)
		// POST /chats/:chat_id/messages - 发送消息
		chatGroup.POST("/:chat_id/messages", rt.handlers.Message.SendMessage)
		// PUT /chats/messages/:message_id - 编辑消息
		chatGroup.PUT("/messages/:message_id", rt.handlers.Message.UpdateMessage)
		// DELETE /chats/messages/:message_id - 删除消息
		chatGroup.DELETE("/messages/:message_id", rt.handlers.Message.DeleteMessage)
	}
}
