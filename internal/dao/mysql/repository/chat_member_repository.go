// Package repository 提供数据访问层的具体实现
// 本文件实现 ChatMemberRepository 接口，处理聊天成员相关的数据库操作
package repository

import (
	"time"

	"fusion_messenger_server/internal/model"

	"gorm.io/gorm"
)

// chatMemberRepository ChatMemberRepository 接口的实现
type chatMemberRepository struct {
	db *gorm.DB
}

// NewChatMemberRepository 创建 ChatMemberRepository 实例
func NewChatMemberRepository(db *gorm.DB) ChatMemberRepository {
	return &chatMemberRepository{db: db}
}

// FindByChatID 查找聊天的全部成员
func (r *chatMemberRepository) FindByChatID(chatID uint) ([]model.ChatMember, error) {
	var members []model.ChatMember
	if err := r.db.Where("chat_id = ?", chatID).Find(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询聊天成员 chat_id=%d", chatID)
	}
	return members, nil
}

// FindByChatAndUser 查找成员记录
// 用于检查用户是否是聊天成员
func (r *chatMemberRepository) FindByChatAndUser(chatID, userID uint) (*model.ChatMember, error) {
	var member model.ChatMember
	err := r.db.
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		First(&member).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询聊天成员 chat_id=%d user_id=%d", chatID, userID)
	}
	return &member, nil
}

// Create 添加单个成员
func (r *chatMemberRepository) Create(member *model.ChatMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return wrapDBError(err, "创建聊天成员")
	}
	return nil
}

// CreateBatch 批量添加成员
func (r *chatMemberRepository) CreateBatch(members []model.ChatMember) error {
	if len(members) == 0 {
		return nil
	}
	if err := r.db.Create(&members).Error; err != nil {
		return wrapDBError(err, "批量创建聊天成员")
	}
	return nil
}

// UpdateLastReadAt 更新成员的最后读取时间
// 记录不存在时影响行数为 0，静默无操作
func (r *chatMemberRepository) UpdateLastReadAt(chatID, userID uint, t time.Time) error {
	err := r.db.Model(&model.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("last_read_at", t).Error
	if err != nil {
		return wrapDBErrorf(err, "更新已读时间 chat_id=%d user_id=%d", chatID, userID)
	}
	return nil
}
