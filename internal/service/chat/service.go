// Package chat 实现聊天领域的业务逻辑
// 包括单聊解析与创建、群聊创建、成员管理、聊天列表和已读状态
package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fusion_messenger_server/internal/dao/mysql/repository"
	myredis "fusion_messenger_server/internal/dao/redis"
	"fusion_messenger_server/internal/dto/request"
	"fusion_messenger_server/internal/dto/respond"
	"fusion_messenger_server/internal/model"
	"fusion_messenger_server/pkg/constants"
	"fusion_messenger_server/pkg/errorx"
)

// 聊天域业务错误
var (
	ErrChatNotFound  = errorx.New(errorx.CodeNotFound, "聊天不存在")
	ErrUserNotFound  = errorx.New(errorx.CodeUserNotExist, "用户不存在")
	ErrSelfChat      = errorx.New(errorx.CodeInvalidParam, "不能和自己创建单聊")
	ErrNotGroupChat  = errorx.New(errorx.CodeInvalidParam, "只能向群聊添加成员")
	ErrNotChatMember = errorx.New(errorx.CodeForbidden, "不是该聊天的成员")
)

// chatService 聊天业务逻辑实现
// 通过构造函数注入 Repository 和 Cache 依赖
type chatService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewChatService 构造函数，注入所有依赖
func NewChatService(repos *repository.Repositories, cache myredis.AsyncCacheService) *chatService {
	return &chatService{
		repos: repos,
		cache: cache,
	}
}

// chatListCacheKey 用户聊天列表的缓存键
func chatListCacheKey(userID uint) string {
	return fmt.Sprintf("chat_list_%d", userID)
}

// GetUserChats 获取用户的全部聊天，按 updated_at 倒序（最近活跃在前）
// 走缓存旁路：命中直接返回，未命中查库并异步回填
func (s *chatService) GetUserChats(userID uint) ([]respond.ChatRespond, error) {
	cacheKey := chatListCacheKey(userID)

	rspString, err := s.cache.Get(context.Background(), cacheKey)
	if err != nil {
		// Redis 不可用不阻断业务
		zap.L().Error("redis get error", zap.Error(err))
	} else if rspString != "" {
		var cached []respond.ChatRespond
		uerr := json.Unmarshal([]byte(rspString), &cached)
		if uerr == nil {
			return cached, nil
		}
		// 缓存数据脏了，打日志后继续查库
		zap.L().Error("unmarshal chat list cache error", zap.Error(uerr))
	}

	chats, err := s.repos.Chat.FindByUserID(userID)
	if err != nil {
		zap.L().Error("find user chats error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rspList, err := s.formatChats(chats, userID)
	if err != nil {
		return nil, err
	}

	s.cache.SubmitTask(func() {
		jsonBytes, err := json.Marshal(rspList)
		if err != nil {
			zap.L().Error("marshal chat list error", zap.Error(err))
			return
		}
		if err := s.cache.Set(context.Background(), cacheKey, string(jsonBytes),
			time.Duration(constants.REDIS_TIMEOUT)*time.Minute); err != nil {
			zap.L().Error("redis set key error", zap.Error(err))
		}
	})

	return rspList, nil
}

// GetChat 获取单个聊天
// 成员资格是所有聊天级操作的唯一访问门槛，非成员与不存在统一返回未找到
func (s *chatService) GetChat(chatID, userID uint) (*respond.ChatRespond, error) {
	chat, err := s.repos.Chat.FindByIDForUser(chatID, userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, ErrChatNotFound
		}
		zap.L().Error("find chat error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return s.formatChat(chat, userID)
}

// GetOrCreatePrivateChat 获取或创建与目标用户的单聊
// 幂等：同一对用户重复调用返回同一个聊天
// 并发安全依赖 pair_key 唯一索引，冲突时回退为查询已有聊天
func (s *chatService) GetOrCreatePrivateChat(userID, targetID uint) (*respond.ChatRespond, error) {
	if userID == targetID {
		return nil, ErrSelfChat
	}

	// 目标用户必须存在
	if _, err := s.repos.User.FindByID(targetID); err != nil {
		if errorx.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		zap.L().Error("find target user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	pairKey := model.PrivatePairKey(userID, targetID)

	existing, err := s.repos.Chat.FindByPairKey(pairKey)
	if err == nil {
		return s.formatChat(existing, userID)
	}
	if !errorx.IsNotFound(err) {
		zap.L().Error("find private chat error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 不存在则创建：聊天和两条成员记录在同一事务中落库
	newChat := model.Chat{
		ChatType: model.ChatTypePrivate,
		PairKey:  sql.NullString{String: pairKey, Valid: true},
	}
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Chat.Create(&newChat); err != nil {
			return err
		}
		members := []model.ChatMember{
			{ChatID: newChat.ID, UserID: userID},
			{ChatID: newChat.ID, UserID: targetID},
		}
		return tx.ChatMember.CreateBatch(members)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发创建撞上唯一索引，回退为读取赢家创建的聊天
			winner, ferr := s.repos.Chat.FindByPairKey(pairKey)
			if ferr != nil {
				zap.L().Error("refetch private chat error", zap.Error(ferr))
				return nil, errorx.ErrServerBusy
			}
			return s.formatChat(winner, userID)
		}
		zap.L().Error("create private chat error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	s.invalidateChatLists(userID, targetID)

	return s.formatChat(&newChat, userID)
}

// CreateGroupChat 创建群聊
// 成员集合 = {创建者} ∪ member_ids（去重，创建者始终包含）
func (s *chatService) CreateGroupChat(creatorID uint, req request.CreateGroupChatRequest) (*respond.ChatRespond, error) {
	// 校验所有目标成员都能解析为已有用户，避免部分写入
	checkIDs := dedupIDs(req.MemberIds)
	found, err := s.repos.User.FindByIDs(checkIDs)
	if err != nil {
		zap.L().Error("resolve group members error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	foundSet := make(map[uint]struct{}, len(found))
	for _, u := range found {
		foundSet[u.ID] = struct{}{}
	}
	for _, id := range checkIDs {
		if _, ok := foundSet[id]; !ok {
			return nil, errorx.Newf(errorx.CodeUserNotExist, "用户 %d 不存在", id)
		}
	}

	// 创建者在前，其余按请求顺序去重
	memberIDs := make([]uint, 0, len(checkIDs)+1)
	memberIDs = append(memberIDs, creatorID)
	for _, id := range checkIDs {
		if id != creatorID {
			memberIDs = append(memberIDs, id)
		}
	}

	newChat := model.Chat{
		ChatType: model.ChatTypeGroup,
		Name:     req.Name,
	}
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Chat.Create(&newChat); err != nil {
			return err
		}
		members := make([]model.ChatMember, 0, len(memberIDs))
		for _, id := range memberIDs {
			members = append(members, model.ChatMember{ChatID: newChat.ID, UserID: id})
		}
		return tx.ChatMember.CreateBatch(members)
	})
	if err != nil {
		zap.L().Error("create group chat error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	s.invalidateChatLists(memberIDs...)

	return s.formatChat(&newChat, creatorID)
}

// AddMembers 向群聊添加成员
// 鉴权顺序：聊天存在 -> 是群聊 -> 调用者是成员；
// 已在群内的 ID 静默跳过，全部重复时不产生任何写入
func (s *chatService) AddMembers(chatID, currentUserID uint, memberIDs []uint) (*respond.ChatRespond, error) {
	chat, err := s.repos.Chat.FindByID(chatID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, ErrChatNotFound
		}
		zap.L().Error("find chat error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if chat.ChatType != model.ChatTypeGroup {
		return nil, ErrNotGroupChat
	}

	if _, err := s.repos.ChatMember.FindByChatAndUser(chatID, currentUserID); err != nil {
		if errorx.IsNotFound(err) {
			return nil, ErrNotChatMember
		}
		zap.L().Error("find chat member error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 所有请求的 ID 必须解析为已有用户
	requested := dedupIDs(memberIDs)
	found, err := s.repos.User.FindByIDs(requested)
	if err != nil {
		zap.L().Error("resolve new members error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	foundSet := make(map[uint]struct{}, len(found))
	for _, u := range found {
		foundSet[u.ID] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := foundSet[id]; !ok {
			return nil, errorx.Newf(errorx.CodeUserNotExist, "用户 %d 不存在", id)
		}
	}

	// 与现有成员做差集，只插入新成员
	existing, err := s.repos.ChatMember.FindByChatID(chatID)
	if err != nil {
		zap.L().Error("find chat members error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	existingSet := make(map[uint]struct{}, len(existing))
	for _, m := range existing {
		existingSet[m.UserID] = struct{}{}
	}

	newMembers := make([]model.ChatMember, 0, len(requested))
	for _, id := range requested {
		if _, ok := existingSet[id]; !ok {
			newMembers = append(newMembers, model.ChatMember{ChatID: chatID, UserID: id})
		}
	}

	if len(newMembers) > 0 {
		err = s.repos.Transaction(func(tx *repository.Repositories) error {
			return tx.ChatMember.CreateBatch(newMembers)
		})
		if err != nil {
			zap.L().Error("add chat members error", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}

		affected := make([]uint, 0, len(existing)+len(newMembers))
		for _, m := range existing {
			affected = append(affected, m.UserID)
		}
		for _, m := range newMembers {
			affected = append(affected, m.UserID)
		}
		s.invalidateChatLists(affected...)
	}

	return s.formatChat(chat, currentUserID)
}

// MarkChatAsRead 更新当前用户在该聊天的已读时间
// 成员记录不存在时静默无操作，不报错
func (s *chatService) MarkChatAsRead(chatID, userID uint) error {
	if err := s.repos.ChatMember.UpdateLastReadAt(chatID, userID, time.Now()); err != nil {
		zap.L().Error("mark chat as read error", zap.Error(err))
		return errorx.ErrServerBusy
	}

	// 已读时间嵌在每个成员看到的成员列表里，所有成员的缓存都要失效
	s.invalidateChatListsByChat(chatID)
	return nil
}

// invalidateChatLists 异步删除指定用户的聊天列表缓存
func (s *chatService) invalidateChatLists(userIDs ...uint) {
	ids := append([]uint(nil), userIDs...)
	s.cache.SubmitTask(func() {
		for _, id := range ids {
			if err := s.cache.Delete(context.Background(), chatListCacheKey(id)); err != nil {
				zap.L().Error("delete chat list cache error", zap.Error(err))
			}
		}
	})
}

// invalidateChatListsByChat 异步删除该聊天所有成员的聊天列表缓存
func (s *chatService) invalidateChatListsByChat(chatID uint) {
	s.cache.SubmitTask(func() {
		members, err := s.repos.ChatMember.FindByChatID(chatID)
		if err != nil {
			zap.L().Error("find chat members error", zap.Error(err))
			return
		}
		for _, m := range members {
			if err := s.cache.Delete(context.Background(), chatListCacheKey(m.UserID)); err != nil {
				zap.L().Error("delete chat list cache error", zap.Error(err))
			}
		}
	})
}

// dedupIDs 去重并保持原有顺序
func dedupIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
