package chat

import (
	"fusion_messenger_server/internal/model"
)

// DeriveDisplayName 计算聊天对某个观察者的展示名
// 规则：
//  1. 聊天自带名称时直接返回该名称
//  2. 无名称的群聊返回 nil
//  3. 单聊返回对方的展示名（全名优先，缺省用邮箱）；
//     观察者不在成员中或找不到对方时返回 nil
// 纯函数，不触库，便于单独测试
func DeriveDisplayName(chat *model.Chat, members []model.ChatMember, users map[uint]*model.User, viewerID uint) *string {
	if chat.Name != "" {
		name := chat.Name
		return &name
	}
	if chat.ChatType != model.ChatTypePrivate {
		return nil
	}

	viewerIsMember := false
	for _, m := range members {
		if m.UserID == viewerID {
			viewerIsMember = true
			break
		}
	}
	if !viewerIsMember {
		return nil
	}

	for _, m := range members {
		if m.UserID == viewerID {
			continue
		}
		if u, ok := users[m.UserID]; ok {
			name := u.DisplayName()
			if name != "" {
				return &name
			}
		}
		return nil
	}
	return nil
}
