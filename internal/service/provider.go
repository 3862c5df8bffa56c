// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"fusion_messenger_server/internal/dao/mysql/repository"
	myredis "fusion_messenger_server/internal/dao/redis"
	"fusion_messenger_server/internal/service/chat"
	"fusion_messenger_server/internal/service/message"
	"fusion_messenger_server/internal/service/user"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	User    UserService    // 用户 Service
	Chat    ChatService    // 聊天 Service
	Message MessageService // 消息 Service
}

// NewServices 创建并注入所有 Service 实例
// repos: Repository 层聚合实例
// cache: 缓存服务实例
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService) *Services {
	return &Services{
		User:    user.NewUserService(repos, cache),
		Chat:    chat.NewChatService(repos, cache),
		Message: message.NewMessageService(repos, cache),
	}
}

// Svc 全局 Services 实例
// Handler 层通过 service.Svc.Chat.GetUserChats() 等方式调用
var Svc *Services

// InitServices 初始化全局 Services 实例
// 应在 main.go 中调用，在 Repository 和 Redis 初始化之后
func InitServices(repos *repository.Repositories, cache myredis.AsyncCacheService) {
	Svc = NewServices(repos, cache)
}
