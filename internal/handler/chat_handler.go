// Package handler 提供 HTTP 请求处理器
// 本文件处理聊天相关的 API 请求
package handler

import (
	"net/http"

	"fusion_messenger_server/internal/dto/request"
	"fusion_messenger_server/internal/dto/respond"
	"fusion_messenger_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler 聊天相关接口
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建 ChatHandler 实例
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// GetUserChats 获取当前用户的聊天列表
// GET /chats
// 响应: respond.ChatListRespond，按最近活跃排序
func (h *ChatHandler) GetUserChats(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	chats, err := h.chatService.GetUserChats(userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.ChatListRespond{Data: chats, Count: len(chats)})
}

// GetChat 获取单个聊天
// GET /chats/:chat_id
// 非成员与不存在统一返回未找到
func (h *ChatHandler) GetChat(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	chatID, err := parseUintParam(c, "chat_id")
	if err != nil {
		HandleError(c, err)
		return
	}

	rsp, err := h.chatService.GetChat(chatID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// GetOrCreatePrivateChat 获取或创建与目标用户的单聊
// POST /chats/private/:user_id
// 幂等：重复调用返回同一个聊天
func (h *ChatHandler) GetOrCreatePrivateChat(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	targetID, err := parseUintParam(c, "user_id")
	if err != nil {
		HandleError(c, err)
		return
	}

	rsp, err := h.chatService.GetOrCreatePrivateChat(userID, targetID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// CreateGroupChat 创建群聊
// POST /chats/group
// 请求体: request.CreateGroupChatRequest
func (h *ChatHandler) CreateGroupChat(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	var req request.CreateGroupChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	rsp, err := h.chatService.CreateGroupChat(userID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccessStatus(c, http.StatusCreated, rsp)
}

// AddMembers 向群聊添加成员
// POST /chats/:chat_id/members
// 请求体: request.AddMembersRequest
// 已在群内的 ID 静默跳过
func (h *ChatHandler) AddMembers(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	chatID, err := parseUintParam(c, "chat_id")
	if err != nil {
		HandleError(c, err)
		return
	}

	var req request.AddMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	rsp, err := h.chatService.AddMembers(chatID, userID, req.MemberIds)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// MarkChatAsRead 标记聊天为已读
// POST /chats/:chat_id/read
// 聊天对当前用户不可见时返回未找到，成员记录缺失时静默无操作
func (h *ChatHandler) MarkChatAsRead(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	chatID, err := parseUintParam(c, "chat_id")
	if err != nil {
		HandleError(c, err)
		return
	}

	if _, err := h.chatService.GetChat(chatID, userID); err != nil {
		HandleError(c, err)
		return
	}
	if err := h.chatService.MarkChatAsRead(chatID, userID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"status": "ok"})
}
