// Package handler 提供 HTTP 请求处理器
// 本文件处理消息相关的 API 请求
package handler

import (
	"net/http"

	"fusion_messenger_server/internal/dto/request"
	"fusion_messenger_server/internal/dto/respond"
	"fusion_messenger_server/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息相关接口
type MessageHandler struct {
	messageService service.MessageService
	chatService    service.ChatService
}

// NewMessageHandler 创建 MessageHandler 实例
func NewMessageHandler(messageService service.MessageService, chatService service.ChatService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		chatService:    chatService,
	}
}

// GetChatMessages 分页获取聊天消息
// GET /chats/:chat_id/messages?skip=0&limit=50
// 页内按时间正序；非成员与不存在的聊天统一返回未找到
func (h *MessageHandler) GetChatMessages(c *gin.Context) {
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

	// 成员资格门槛，非成员拿到未找到而不是空列表
	if _, err := h.chatService.GetChat(chatID, userID); err != nil {
		HandleError(c, err)
		return
	}

	var req request.MessagePageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	msgs, err := h.messageService.GetChatMessages(chatID, userID, req.Skip, req.Limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.MessageListRespond{Data: msgs, Count: len(msgs)})
}

// SendMessage 在聊天中发送消息
// POST /chats/:chat_id/messages
// 请求体: request.SendMessageRequest
func (h *MessageHandler) SendMessage(c *gin.Context) {
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

	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	rsp, err := h.messageService.SendMessage(chatID, userID, req.Content)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccessStatus(c, http.StatusCreated, rsp)
}

// UpdateMessage 编辑消息
// PUT /chats/messages/:message_id
// 仅原发送者可编辑
func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	messageID, err := parseUintParam(c, "message_id")
	if err != nil {
		HandleError(c, err)
		return
	}

	var req request.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	rsp, err := h.messageService.UpdateMessage(messageID, userID, req.Content)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// DeleteMessage 删除消息
// DELETE /chats/messages/:message_id
// 仅原发送者可删除
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	messageID, err := parseUintParam(c, "message_id")
	if err != nil {
		HandleError(c, err)
		return
	}

	if err := h.messageService.DeleteMessage(messageID, userID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"status": "ok"})
}
