// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"time"

	"fusion_messenger_server/internal/model"

	"gorm.io/gorm"
)

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByID 根据 ID 查找用户
	FindByID(id uint) (*model.User, error)
	// FindByIDs 批量根据 ID 查找用户
	FindByIDs(ids []uint) ([]model.User, error)
	// FindByEmail 根据邮箱查找用户
	FindByEmail(email string) (*model.User, error)
	// Search 按邮箱或显示名模糊搜索启用中的用户，排除指定用户
	Search(query string, excludeID uint, limit int) ([]model.User, error)
	// Create 创建新用户
	Create(user *model.User) error
	// Update 更新用户信息
	Update(user *model.User) error
}

// ChatRepository 聊天数据访问接口
type ChatRepository interface {
	// FindByID 根据 ID 查找聊天
	FindByID(id uint) (*model.Chat, error)
	// FindByPairKey 根据单聊成员对键查找单聊
	FindByPairKey(pairKey string) (*model.Chat, error)
	// FindByIDForUser 查找聊天，仅当用户是其成员时返回
	FindByIDForUser(chatID, userID uint) (*model.Chat, error)
	// FindByUserID 查找用户参与的所有聊天，按 updated_at 倒序
	FindByUserID(userID uint) ([]model.Chat, error)
	// Create 创建聊天
	Create(chat *model.Chat) error
	// UpdateUpdatedAt 将聊天的 updated_at 置为指定时间
	UpdateUpdatedAt(chatID uint, t time.Time) error
}

// ChatMemberRepository 聊天成员数据访问接口
type ChatMemberRepository interface {
	// FindByChatID 查找聊天的全部成员
	FindByChatID(chatID uint) ([]model.ChatMember, error)
	// FindByChatAndUser 查找成员记录，用于成员资格校验
	FindByChatAndUser(chatID, userID uint) (*model.ChatMember, error)
	// Create 添加单个成员
	Create(member *model.ChatMember) error
	// CreateBatch 批量添加成员
	CreateBatch(members []model.ChatMember) error
	// UpdateLastReadAt 更新成员的最后读取时间，记录不存在时静默无操作
	UpdateLastReadAt(chatID, userID uint, t time.Time) error
}

// ChatMessageRepository 消息数据访问接口
type ChatMessageRepository interface {
	// FindByID 根据 ID 查找消息
	FindByID(id uint) (*model.ChatMessage, error)
	// FindPageByChatID 按创建时间倒序分页查找聊天消息
	FindPageByChatID(chatID uint, skip, limit int) ([]model.ChatMessage, error)
	// FindLastByChatID 查找聊天的最新一条消息，没有消息返回 CodeNotFound
	FindLastByChatID(chatID uint) (*model.ChatMessage, error)
	// Create 创建消息
	Create(message *model.ChatMessage) error
	// Update 更新消息
	Update(message *model.ChatMessage) error
	// DeleteByID 物理删除消息
	DeleteByID(id uint) error
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db          *gorm.DB              // GORM 数据库实例
	User        UserRepository        // 用户 Repository
	Chat        ChatRepository        // 聊天 Repository
	ChatMember  ChatMemberRepository  // 聊天成员 Repository
	ChatMessage ChatMessageRepository // 消息 Repository
}

// NewRepositories 创建所有 Repository 实例
// 接收 GORM 数据库实例，初始化并返回 Repositories 聚合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		User:        NewUserRepository(db),
		Chat:        NewChatRepository(db),
		ChatMember:  NewChatMemberRepository(db),
		ChatMessage: NewChatMessageRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
// fn: 事务执行函数，接收事务内的 Repositories 实例
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
