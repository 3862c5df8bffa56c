// Package message 实现消息域的业务逻辑：发送、分页拉取、编辑、删除
package message

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fusion_messenger_server/internal/dao/mysql/repository"
	myredis "fusion_messenger_server/internal/dao/redis"
	"fusion_messenger_server/internal/dto/respond"
	"fusion_messenger_server/internal/model"
	"fusion_messenger_server/pkg/constants"
	"fusion_messenger_server/pkg/errorx"
)

// 消息域业务错误
var (
	ErrNotChatMember = errorx.New(errorx.CodeForbidden, "不是该聊天的成员")
	// 消息不存在与无权操作统一对外表现，不泄露他人消息的存在性
	ErrMessageNotFound = errorx.New(errorx.CodeNotFound, "消息不存在")
)

type messageService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewMessageService 构造函数，注入所有依赖
func NewMessageService(repos *repository.Repositories, cache myredis.AsyncCacheService) *messageService {
	return &messageService{
		repos: repos,
		cache: cache,
	}
}

// SendMessage 在聊天中发消息
// 只有成员能发；消息落库和聊天 updated_at 前移在同一事务内
func (s *messageService) SendMessage(chatID, senderID uint, content string) (*respond.MessageRespond, error) {
	if _, err := s.repos.ChatMember.FindByChatAndUser(chatID, senderID); err != nil {
		if errorx.IsNotFound(err) {
			return nil, ErrNotChatMember
		}
		zap.L().Error("find chat member error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	msg := model.ChatMessage{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.ChatMessage.Create(&msg); err != nil {
			return err
		}
		// 有新消息的聊天在列表中上浮
		return tx.Chat.UpdateUpdatedAt(chatID, msg.CreatedAt)
	})
	if err != nil {
		zap.L().Error("create message error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	s.invalidateMemberChatLists(chatID)

	return s.formatMessage(&msg)
}

// GetChatMessages 按时间正序分页拉取聊天消息
// 分页在倒序流上取 skip/limit，再反转成正序返回；
// 聊天不存在报未找到，非成员返回空列表
func (s *messageService) GetChatMessages(chatID, userID uint, skip, limit int) ([]respond.MessageRespond, error) {
	if _, err := s.repos.Chat.FindByID(chatID); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "聊天不存在")
		}
		zap.L().Error("find chat error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	if _, err := s.repos.ChatMember.FindByChatAndUser(chatID, userID); err != nil {
		if errorx.IsNotFound(err) {
			return []respond.MessageRespond{}, nil
		}
		zap.L().Error("find chat member error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = constants.DEFAULT_MESSAGE_PAGE_LIMIT
	}
	if limit > constants.MAX_MESSAGE_PAGE_LIMIT {
		limit = constants.MAX_MESSAGE_PAGE_LIMIT
	}

	msgs, err := s.repos.ChatMessage.FindPageByChatID(chatID, skip, limit)
	if err != nil {
		zap.L().Error("find message page error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 倒序页内反转，恢复时间正序
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	return s.formatMessages(msgs)
}

// UpdateMessage 编辑消息内容，只有发送者本人可编辑
func (s *messageService) UpdateMessage(messageID, userID uint, content string) (*respond.MessageRespond, error) {
	msg, err := s.findOwnMessage(messageID, userID)
	if err != nil {
		return nil, err
	}

	msg.Content = content
	msg.EditedAt = sql.NullTime{Time: time.Now(), Valid: true}
	if err := s.repos.ChatMessage.Update(msg); err != nil {
		zap.L().Error("update message error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	s.invalidateMemberChatLists(msg.ChatID)

	return s.formatMessage(msg)
}

// DeleteMessage 删除消息，只有发送者本人可删除
func (s *messageService) DeleteMessage(messageID, userID uint) error {
	msg, err := s.findOwnMessage(messageID, userID)
	if err != nil {
		return err
	}

	if err := s.repos.ChatMessage.DeleteByID(msg.ID); err != nil {
		zap.L().Error("delete message error", zap.Error(err))
		return errorx.ErrServerBusy
	}

	s.invalidateMemberChatLists(msg.ChatID)
	return nil
}

// findOwnMessage 查找属于当前用户的消息，不存在和非本人统一返回未找到
func (s *messageService) findOwnMessage(messageID, userID uint) (*model.ChatMessage, error) {
	msg, err := s.repos.ChatMessage.FindByID(messageID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, ErrMessageNotFound
		}
		zap.L().Error("find message error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if msg.SenderID != userID {
		return nil, ErrMessageNotFound
	}
	return msg, nil
}

// formatMessage 单条消息组装响应
func (s *messageService) formatMessage(msg *model.ChatMessage) (*respond.MessageRespond, error) {
	rspList, err := s.formatMessages([]model.ChatMessage{*msg})
	if err != nil {
		return nil, err
	}
	return &rspList[0], nil
}

// formatMessages 批量组装响应，发送者信息按 ID 集合一次查出
func (s *messageService) formatMessages(msgs []model.ChatMessage) ([]respond.MessageRespond, error) {
	senderIDSet := make(map[uint]struct{}, len(msgs))
	for i := range msgs {
		senderIDSet[msgs[i].SenderID] = struct{}{}
	}
	senderIDs := make([]uint, 0, len(senderIDSet))
	for id := range senderIDSet {
		senderIDs = append(senderIDs, id)
	}

	users, err := s.repos.User.FindByIDs(senderIDs)
	if err != nil {
		zap.L().Error("batch find senders error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	userMap := make(map[uint]*model.User, len(users))
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	rspList := make([]respond.MessageRespond, 0, len(msgs))
	for i := range msgs {
		m := &msgs[i]
		rsp := respond.MessageRespond{
			ID:        m.ID,
			ChatID:    m.ChatID,
			SenderID:  m.SenderID,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
		if m.EditedAt.Valid {
			t := m.EditedAt.Time
			rsp.EditedAt = &t
		}
		if u, ok := userMap[m.SenderID]; ok {
			ur := respond.UserRespondFromModel(u)
			rsp.Sender = &ur
		}
		rspList = append(rspList, rsp)
	}
	return rspList, nil
}

// invalidateMemberChatLists 异步删除该聊天所有成员的聊天列表缓存
// 最后一条消息和 updated_at 都缓存在列表里，任何消息变更都要失效
func (s *messageService) invalidateMemberChatLists(chatID uint) {
	s.cache.SubmitTask(func() {
		members, err := s.repos.ChatMember.FindByChatID(chatID)
		if err != nil {
			zap.L().Error("find chat members error", zap.Error(err))
			return
		}
		for _, m := range members {
			key := fmt.Sprintf("chat_list_%d", m.UserID)
			if err := s.cache.Delete(context.Background(), key); err != nil {
				zap.L().Error("delete chat list cache error", zap.Error(err))
			}
		}
	})
}
