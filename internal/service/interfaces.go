// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"fusion_messenger_server/internal/dto/request"
	"fusion_messenger_server/internal/dto/respond"
)

// UserService 用户业务接口
// 处理注册、登录、资料管理和用户搜索
type UserService interface {
	// Register 用户注册
	Register(req request.RegisterRequest) (*respond.UserRespond, error)
	// Login 密码登录，签发 Access/Refresh Token
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	// RefreshToken 用 Refresh Token 换取新的 Token 对
	RefreshToken(refreshToken string) (*respond.LoginRespond, error)
	// GetUserInfo 获取单个用户公开信息
	GetUserInfo(userID uint) (*respond.UserRespond, error)
	// UpdateUserInfo 更新当前用户资料
	UpdateUserInfo(userID uint, req request.UpdateUserInfoRequest) error
	// SearchUsers 按邮箱或显示名搜索用户，排除自己
	SearchUsers(userID uint, query string, limit int) ([]respond.UserRespond, error)
}

// ChatService 聊天业务接口
// 处理聊天创建、列表、成员管理和已读状态
type ChatService interface {
	// GetUserChats 获取用户的全部聊天，按最近活跃排序
	GetUserChats(userID uint) ([]respond.ChatRespond, error)
	// GetChat 获取单个聊天，仅成员可见
	GetChat(chatID, userID uint) (*respond.ChatRespond, error)
	// GetOrCreatePrivateChat 获取或创建与目标用户的单聊（幂等）
	GetOrCreatePrivateChat(userID, targetID uint) (*respond.ChatRespond, error)
	// CreateGroupChat 创建群聊，创建者自动入群
	CreateGroupChat(creatorID uint, req request.CreateGroupChatRequest) (*respond.ChatRespond, error)
	// AddMembers 向群聊添加成员，已在群内的 ID 静默跳过
	AddMembers(chatID, currentUserID uint, memberIDs []uint) (*respond.ChatRespond, error)
	// MarkChatAsRead 更新当前用户在该聊天的已读时间，非成员静默无操作
	MarkChatAsRead(chatID, userID uint) error
}

// MessageService 消息业务接口
// 处理消息的发送、分页读取、编辑和删除
type MessageService interface {
	// SendMessage 发送消息并刷新聊天活跃时间
	SendMessage(chatID, senderID uint, content string) (*respond.MessageRespond, error)
	// GetChatMessages 分页获取消息，页内按时间正序，非成员返回空列表
	GetChatMessages(chatID, userID uint, skip, limit int) ([]respond.MessageRespond, error)
	// UpdateMessage 编辑消息，仅原发送者可操作
	UpdateMessage(messageID, senderID uint, content string) (*respond.MessageRespond, error)
	// DeleteMessage 删除消息，仅原发送者可操作
	DeleteMessage(messageID, userID uint) error
}
