// Package repository 提供数据访问层的具体实现
// 本文件实现 ChatRepository 接口，处理聊天相关的数据库操作
package repository

import (
	"time"

	"fusion_messenger_server/internal/model"

	"gorm.io/gorm"
)

// chatRepository ChatRepository 接口的实现
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository 创建 ChatRepository 实例
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// FindByID 根据 ID 查找聊天
func (r *chatRepository) FindByID(id uint) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.First(&chat, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询聊天 id=%d", id)
	}
	return &chat, nil
}

// FindByPairKey 根据单聊成员对键查找单聊
func (r *chatRepository) FindByPairKey(pairKey string) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.
		Where("chat_type = ? AND pair_key = ?", model.ChatTypePrivate, pairKey).
		First(&chat).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询单聊 pair_key=%s", pairKey)
	}
	return &chat, nil
}

// FindByIDForUser 查找聊天，仅当用户是其成员时返回
// 通过成员表 JOIN 实现访问控制，非成员与不存在同样返回 CodeNotFound
func (r *chatRepository) FindByIDForUser(chatID, userID uint) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.
		Joins("JOIN chatmember ON chatmember.chat_id = chat.id").
		Where("chat.id = ? AND chatmember.user_id = ?", chatID, userID).
		First(&chat).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询聊天 chat_id=%d user_id=%d", chatID, userID)
	}
	return &chat, nil
}

// FindByUserID 查找用户参与的所有聊天，按 updated_at 倒序
func (r *chatRepository) FindByUserID(userID uint) ([]model.Chat, error) {
	var chats []model.Chat
	err := r.db.
		Joins("JOIN chatmember ON chatmember.chat_id = chat.id").
		Where("chatmember.user_id = ?", userID).
		Order("chat.updated_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询用户聊天列表 user_id=%d", userID)
	}
	return chats, nil
}

// Create 创建聊天
func (r *chatRepository) Create(chat *model.Chat) error {
	if err := r.db.Create(chat).Error; err != nil {
		// 唯一索引冲突原样透传 gorm.ErrDuplicatedKey，调用方据此回退查询
		return err
	}
	return nil
}

// UpdateUpdatedAt 将聊天的 updated_at 置为指定时间
func (r *chatRepository) UpdateUpdatedAt(chatID uint, t time.Time) error {
	err := r.db.Model(&model.Chat{}).
		Where("id = ?", chatID).
		Update("updated_at", t).Error
	if err != nil {
		return wrapDBErrorf(err, "更新聊天时间 chat_id=%d", chatID)
	}
	return nil
}
