// Package repository 提供数据访问层的具体实现
// 本文件实现 ChatMessageRepository 接口，处理消息相关的数据库操作
package repository

import (
	"fusion_messenger_server/internal/model"

	"gorm.io/gorm"
)

// chatMessageRepository ChatMessageRepository 接口的实现
type chatMessageRepository struct {
	db *gorm.DB
}

// NewChatMessageRepository 创建 ChatMessageRepository 实例
func NewChatMessageRepository(db *gorm.DB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

// FindByID 根据 ID 查找消息
func (r *chatMessageRepository) FindByID(id uint) (*model.ChatMessage, error) {
	var message model.ChatMessage
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 id=%d", id)
	}
	return &message, nil
}

// FindPageByChatID 按创建时间倒序分页查找聊天消息
// skip 从最新一条往回数，同一时间戳以 id 倒序兜底保证顺序稳定
func (r *chatMessageRepository) FindPageByChatID(chatID uint, skip, limit int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.db.
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		Offset(skip).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询消息分页 chat_id=%d", chatID)
	}
	return messages, nil
}

// FindLastByChatID 查找聊天的最新一条消息
// 聊天没有消息时返回 CodeNotFound
func (r *chatMessageRepository) FindLastByChatID(chatID uint) (*model.ChatMessage, error) {
	var message model.ChatMessage
	err := r.db.
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		First(&message).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询最新消息 chat_id=%d", chatID)
	}
	return &message, nil
}

// Create 创建消息
func (r *chatMessageRepository) Create(message *model.ChatMessage) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// Update 更新消息
func (r *chatMessageRepository) Update(message *model.ChatMessage) error {
	if err := r.db.Save(message).Error; err != nil {
		return wrapDBErrorf(err, "更新消息 id=%d", message.ID)
	}
	return nil
}

// DeleteByID 物理删除消息，无软删除
func (r *chatMessageRepository) DeleteByID(id uint) error {
	if err := r.db.Delete(&model.ChatMessage{}, id).Error; err != nil {
		return wrapDBErrorf(err, "删除消息 id=%d", id)
	}
	return nil
}
