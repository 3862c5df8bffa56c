package chat

import (
	"go.uber.org/zap"

	"fusion_messenger_server/internal/dto/respond"
	"fusion_messenger_server/internal/model"
	"fusion_messenger_server/pkg/errorx"
)

// formatChat 把聊天模型组装为响应对象：成员列表、最后一条消息、派生展示名
func (s *chatService) formatChat(chat *model.Chat, viewerID uint) (*respond.ChatRespond, error) {
	rspList, err := s.formatChats([]model.Chat{*chat}, viewerID)
	if err != nil {
		return nil, err
	}
	return &rspList[0], nil
}

// formatChats 批量组装，用户信息按 ID 集合一次性查出，避免逐成员查库
func (s *chatService) formatChats(chats []model.Chat, viewerID uint) ([]respond.ChatRespond, error) {
	rspList := make([]respond.ChatRespond, 0, len(chats))

	// 收集所有需要的成员与最后消息，再批量取用户
	type chatData struct {
		members []model.ChatMember
		last    *model.ChatMessage
	}
	dataList := make([]chatData, 0, len(chats))
	userIDSet := make(map[uint]struct{})

	for i := range chats {
		members, err := s.repos.ChatMember.FindByChatID(chats[i].ID)
		if err != nil {
			zap.L().Error("find chat members error", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		for _, m := range members {
			userIDSet[m.UserID] = struct{}{}
		}

		last, err := s.repos.ChatMessage.FindLastByChatID(chats[i].ID)
		if err != nil {
			if !errorx.IsNotFound(err) {
				zap.L().Error("find last message error", zap.Error(err))
				return nil, errorx.ErrServerBusy
			}
			last = nil
		}
		if last != nil {
			userIDSet[last.SenderID] = struct{}{}
		}
		dataList = append(dataList, chatData{members: members, last: last})
	}

	userIDs := make([]uint, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}
	users, err := s.repos.User.FindByIDs(userIDs)
	if err != nil {
		zap.L().Error("batch find users error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	userMap := make(map[uint]*model.User, len(users))
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	for i := range chats {
		c := &chats[i]
		data := dataList[i]

		memberRsps := make([]respond.ChatMemberRespond, 0, len(data.members))
		for _, m := range data.members {
			mr := respond.ChatMemberRespond{
				ID:       m.ID,
				UserID:   m.UserID,
				JoinedAt: m.JoinedAt,
			}
			if m.LastReadAt.Valid {
				t := m.LastReadAt.Time
				mr.LastReadAt = &t
			}
			if u, ok := userMap[m.UserID]; ok {
				mr.User = respond.UserRespondFromModel(u)
			}
			memberRsps = append(memberRsps, mr)
		}

		rsp := respond.ChatRespond{
			ID:        c.ID,
			ChatType:  c.ChatType,
			Name:      DeriveDisplayName(c, data.members, userMap, viewerID),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			Members:   memberRsps,
		}

		if data.last != nil {
			mr := respond.MessageRespond{
				ID:        data.last.ID,
				ChatID:    data.last.ChatID,
				SenderID:  data.last.SenderID,
				Content:   data.last.Content,
				CreatedAt: data.last.CreatedAt,
			}
			if data.last.EditedAt.Valid {
				t := data.last.EditedAt.Time
				mr.EditedAt = &t
			}
			if u, ok := userMap[data.last.SenderID]; ok {
				ur := respond.UserRespondFromModel(u)
				mr.Sender = &ur
			}
			rsp.LastMessage = &mr
		}

		rspList = append(rspList, rsp)
	}

	return rspList, nil
}
